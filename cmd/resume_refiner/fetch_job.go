package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-refiner/internal/fetch"
)

var (
	fetchJobURL     string
	fetchJobTimeout time.Duration
	fetchJobBrowser bool
)

var fetchJobCmd = &cobra.Command{
	Use:   "fetch-job",
	Short: "Scrape a job posting from a URL",
	Long:  "Fetch a job posting page and print the extracted title, company and description as JSON.",
	RunE:  runFetchJob,
}

func init() {
	fetchJobCmd.Flags().StringVarP(&fetchJobURL, "url", "u", "", "Job posting URL (required)")
	fetchJobCmd.Flags().DurationVar(&fetchJobTimeout, "timeout", fetch.DefaultTimeout, "Static fetch timeout")
	fetchJobCmd.Flags().BoolVar(&fetchJobBrowser, "browser", false, "Fall back to headless Chrome for thin pages")
	_ = fetchJobCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(fetchJobCmd)
}

func runFetchJob(cmd *cobra.Command, _ []string) error {
	opts := fetch.DefaultOptions()
	opts.Timeout = fetchJobTimeout

	cfg := fetch.Config{Options: opts}
	if fetchJobBrowser {
		cfg.Renderer = fetch.NewBrowserRenderer(fetch.DefaultRenderTimeout)
	}

	result := fetch.NewJobFetcher(cfg).FetchJobPosting(cmd.Context(), fetchJobURL)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}
	if !result.IsSuccess {
		return fmt.Errorf("could not fetch job posting: %s", result.ErrorMessage)
	}
	return nil
}
