package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/proposal-writer/internal/config"
	"github.com/jonathan/proposal-writer/internal/db"
	"github.com/jonathan/proposal-writer/internal/jobpost"
	"github.com/jonathan/proposal-writer/internal/llm"
	"github.com/jonathan/proposal-writer/internal/logging"
	"github.com/jonathan/proposal-writer/internal/server"
	"github.com/jonathan/proposal-writer/internal/server/ratelimit"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the auth, profile, proposal and generate endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Apply the database schema before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	serverCfg, err := config.NewServerConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		serverCfg.Port = servePort
	}
	if err := serverCfg.RequireDatabase(); err != nil {
		return err
	}

	logger, err := logging.New(serverCfg.LogJSON, serverCfg.LogDebug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	passwordCfg, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}
	llmCfg, err := config.LoadLLMConfig()
	if err != nil {
		return err
	}
	rateCfg, err := ratelimit.LoadConfig()
	if err != nil {
		return err
	}
	importOpts, err := jobpost.LoadOptions()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, serverCfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if serveMigrate {
		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	client, err := llm.NewClient(ctx, llmCfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	if !llmCfg.Configured() {
		logger.Warn("no API key set for the LLM provider; generate requests will fail until one is configured",
			zap.String("provider", string(llmCfg.Provider)))
	}

	srv, err := server.New(server.Config{
		Port:              serverCfg.Port,
		CORSAllowedOrigin: serverCfg.CORSAllowedOrigin,
		JWT:               jwtCfg,
		Password:          passwordCfg,
		LLM:               llmCfg,
		RateLimit:         rateCfg,
	}, server.Deps{
		Store:    database,
		LLM:      client,
		Importer: jobpost.NewImporter(importOpts, logger),
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Run(ctx)
}

// connectDatabase opens the database named by flagURL, falling back to DATABASE_URL.
func connectDatabase(ctx context.Context, flagURL string) (*db.DB, error) {
	url := flagURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return nil, fmt.Errorf("database URL is required (set DATABASE_URL or use --db-url)")
	}
	return db.Connect(ctx, url)
}
