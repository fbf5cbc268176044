package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/proposal-writer/internal/config"
	"github.com/jonathan/proposal-writer/internal/llm"
	"github.com/jonathan/proposal-writer/internal/logging"
	"github.com/jonathan/proposal-writer/internal/observability"
	"github.com/jonathan/proposal-writer/internal/profile"
	"github.com/jonathan/proposal-writer/internal/proposal"
	"github.com/jonathan/proposal-writer/internal/types"
)

var (
	genConfigFile string
	genFlags      config.Config
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft a proposal for a job posting",
	Long: `Draft a proposal and cover letter without the HTTP server.

The job comes from a text file (--job with --job-title) or a link (--job-url).
The profile comes from a JSON file (--profile) or the database (--user-id).
The result is printed as JSON.`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genConfigFile, "config", "", "JSON file with default values for these flags")
	f.StringVarP(&genFlags.Job, "job", "j", "", "Path to a job description text file")
	f.StringVar(&genFlags.JobURL, "job-url", "", "Job posting link to import")
	f.StringVarP(&genFlags.JobTitle, "job-title", "t", "", "Job title (required with --job)")
	f.StringVarP(&genFlags.Platform, "platform", "p", "", "UPWORK, FIVERR, LINKEDIN or CUSTOM")
	f.StringVar(&genFlags.Profile, "profile", "", "Path to a profile JSON file")
	f.StringVar(&genFlags.UserID, "user-id", "", "Use the stored profile of this user")
	f.StringVar(&genFlags.DatabaseURL, "db-url", "", "Database URL for --user-id (overrides DATABASE_URL)")
	f.StringVarP(&genFlags.Output, "out", "o", "", "Write the JSON result to this file instead of stdout")
	f.BoolVar(&genFlags.UseBrowser, "use-browser", false, "Render the job link in a headless browser when needed")
	f.BoolVarP(&genFlags.Verbose, "verbose", "v", false, "Print a readable summary to stderr")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveGenerateConfig(genFlags, genConfigFile)
	if err != nil {
		return err
	}

	logger, err := logging.NewWithOutput(false, cfg.Verbose, "stderr")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()

	req, err := buildGenerateRequest(ctx, cfg, newImporter(cfg.UseBrowser, logger))
	if err != nil {
		return err
	}
	if req.Profile == nil && cfg.UserID != "" {
		req.Profile, err = loadStoredProfile(ctx, cfg)
		if err != nil {
			return err
		}
	}

	llmCfg, err := config.LoadLLMConfig()
	if err != nil {
		return err
	}
	client, err := llm.NewClient(ctx, llmCfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	generator := proposal.NewGenerator(client, proposal.WithLogger(logger))
	result, err := generator.Generate(ctx, *req)
	if err != nil {
		return fmt.Errorf("failed to generate proposal: %w", err)
	}

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintGeneratedProposal(result)
	}
	return writeJSON(cmd.OutOrStdout(), cfg.Output, types.GenerateResponse{
		Proposal:        result.Proposal,
		CoverLetter:     result.CoverLetter,
		ConfidenceScore: result.ConfidenceScore,
		AIModel:         result.AIModel,
	})
}

// resolveGenerateConfig fills unset flags from the config file and validates the result.
func resolveGenerateConfig(flags config.Config, path string) (config.Config, error) {
	cfg := flags
	if path != "" {
		defaults, err := config.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = flags.MergeWithDefaults(*defaults)
		cfg.UseBrowser = flags.UseBrowser || defaults.UseBrowser
		cfg.Verbose = flags.Verbose || defaults.Verbose
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if cfg.Job == "" && cfg.JobURL == "" {
		return cfg, fmt.Errorf("a job is required (use --job or --job-url)")
	}
	if cfg.Job != "" && strings.TrimSpace(cfg.JobTitle) == "" {
		return cfg, fmt.Errorf("--job-title is required with --job")
	}
	if cfg.UserID != "" {
		if _, err := uuid.Parse(cfg.UserID); err != nil {
			return cfg, fmt.Errorf("invalid --user-id: %w", err)
		}
	}
	return cfg, nil
}

// buildGenerateRequest reads the job and the profile file named by cfg.
func buildGenerateRequest(ctx context.Context, cfg config.Config, importer jobImporter) (*proposal.Request, error) {
	req := &proposal.Request{
		JobTitle: strings.TrimSpace(cfg.JobTitle),
		Platform: types.NormalizePlatform(cfg.Platform),
	}

	if cfg.JobURL != "" {
		job, err := importer.Import(ctx, cfg.JobURL)
		if err != nil {
			return nil, fmt.Errorf("failed to import job: %w", err)
		}
		if req.JobTitle == "" {
			req.JobTitle = job.JobTitle
		}
		req.JobDescription = job.JobDescription
		if cfg.Platform == "" {
			req.Platform = job.Platform
		}
	} else {
		data, err := os.ReadFile(cfg.Job)
		if err != nil {
			return nil, fmt.Errorf("failed to read job file: %w", err)
		}
		req.JobDescription = string(data)
	}

	if cfg.Profile != "" {
		p, err := readProfileFile(cfg.Profile)
		if err != nil {
			return nil, err
		}
		req.Profile = p
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func readProfileFile(path string) (*types.UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	var p types.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile file: %w", err)
	}
	return &p, nil
}

func loadStoredProfile(ctx context.Context, cfg config.Config) (*types.UserProfile, error) {
	database, err := connectDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	stored, err := database.GetProfileByUserID(ctx, uuid.MustParse(cfg.UserID))
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("user %s has no profile", cfg.UserID)
	}
	return profile.ToPromptProfile(stored), nil
}

// writeJSON writes v as indented JSON to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
