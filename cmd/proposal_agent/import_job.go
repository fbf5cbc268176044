package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/proposal-writer/internal/jobpost"
	"github.com/jonathan/proposal-writer/internal/logging"
	"github.com/jonathan/proposal-writer/internal/observability"
	"github.com/jonathan/proposal-writer/internal/types"
)

type jobImporter interface {
	Import(ctx context.Context, url string) (*types.ImportedJob, error)
}

var (
	importOutput     string
	importUseBrowser bool
	importPretty     bool
)

var importJobCmd = &cobra.Command{
	Use:   "import-job <url>",
	Short: "Fetch a job posting and print its title, description and platform",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportJob,
}

func init() {
	importJobCmd.Flags().StringVarP(&importOutput, "out", "o", "", "Write the JSON result to this file instead of stdout")
	importJobCmd.Flags().BoolVar(&importUseBrowser, "use-browser", false, "Render the page in a headless browser when needed")
	importJobCmd.Flags().BoolVar(&importPretty, "pretty", false, "Print a readable summary instead of JSON")
	rootCmd.AddCommand(importJobCmd)
}

func runImportJob(cmd *cobra.Command, args []string) error {
	logger, err := logging.NewWithOutput(false, false, "stderr")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	job, err := newImporter(importUseBrowser, logger).Import(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if importPretty {
		p := observability.NewPrinter(cmd.OutOrStdout())
		p.SetVerbose(true)
		p.PrintImportedJob(job)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), importOutput, job)
}

// newImporter builds the job importer from JOBPOST_* settings; useBrowser
// turns on the headless fallback regardless of the environment.
func newImporter(useBrowser bool, logger *zap.Logger) jobImporter {
	opts, err := jobpost.LoadOptions()
	if err != nil {
		logger.Warn("ignoring invalid job import settings", zap.Error(err))
		opts = jobpost.DefaultOptions()
	}
	if useBrowser {
		opts.UseBrowser = true
	}
	return jobpost.NewImporter(opts, logger)
}
