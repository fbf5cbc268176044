package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/proposal-writer/internal/config"
	"github.com/jonathan/proposal-writer/internal/llm"
	"github.com/jonathan/proposal-writer/internal/observability"
)

var checkProviderCmd = &cobra.Command{
	Use:   "check-provider",
	Short: "Check that the configured LLM provider accepts the API key",
	Long:  "List models on the OpenAI-compatible endpoint to verify the key. No completion is requested.",
	RunE:  runCheckProvider,
}

func init() {
	rootCmd.AddCommand(checkProviderCmd)
}

func runCheckProvider(cmd *cobra.Command, _ []string) error {
	llmCfg, err := config.LoadLLMConfig()
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())

	if llmCfg.Provider != llm.ProviderOpenAI {
		status := &llm.Status{
			Provider:   llmCfg.Provider,
			Model:      llmCfg.Model,
			Configured: llmCfg.Configured(),
			Reachable:  llmCfg.Configured(),
			Message:    "Key presence checked only; live checks support OpenAI-compatible providers",
		}
		printer.PrintProviderStatus(status)
		if !status.Configured {
			return fmt.Errorf("%s API key not configured", llmCfg.Provider)
		}
		return nil
	}

	status, err := llm.CheckOpenAI(cmd.Context(), llmCfg)
	printer.PrintProviderStatus(status)
	return err
}
