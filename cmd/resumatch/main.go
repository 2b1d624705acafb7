// Package main provides the entry point for the ResuMatch CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resumatch",
	Short: "ResuMatch resume-to-market skill gap analyzer",
	Long:  "ResuMatch compares a resume against live labor-market demand for a role, detects skill gaps, and produces a learning roadmap with course and job recommendations.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
