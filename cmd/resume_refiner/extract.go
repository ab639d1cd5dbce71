package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-refiner/internal/ingestion"
)

var (
	extractFile string
	extractMeta bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the text of a PDF or DOCX résumé",
	Long:  "Extract and clean the text of a PDF or DOCX résumé the same way the upload endpoint does, and print it.",
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Path to a .pdf or .docx file (required)")
	extractCmd.Flags().BoolVar(&extractMeta, "meta", false, "Print extraction metadata as JSON instead of the text")
	_ = extractCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	text, meta, err := ingestion.ExtractFile(cmd.Context(), extractFile)
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", extractFile, err)
	}

	out := cmd.OutOrStdout()
	if !extractMeta {
		_, err := fmt.Fprintln(out, text)
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
