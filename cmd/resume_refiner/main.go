// Package main provides the entry point for the résumé refinement HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_refiner",
	Short: "Résumé refinement HTTP API server",
	Long: "Resume Refiner extracts structured data from an uploaded CV, refines it through a conversation " +
		"with a language model, and generates an enhanced résumé and cover letter via REST API.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
