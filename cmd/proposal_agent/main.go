// Package main provides the entry point for the proposal writer server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "proposal_agent",
	Short:         "Proposal Writer HTTP API server and CLI",
	Long:          "Proposal Writer drafts job proposals and cover letters for freelance marketplaces from a job posting and a professional profile.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
