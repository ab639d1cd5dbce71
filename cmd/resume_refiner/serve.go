package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-refiner/internal/config"
	"github.com/jonathan/resume-refiner/internal/db"
	"github.com/jonathan/resume-refiner/internal/fetch"
	"github.com/jonathan/resume-refiner/internal/llm"
	"github.com/jonathan/resume-refiner/internal/phone"
	"github.com/jonathan/resume-refiner/internal/refine"
	"github.com/jonathan/resume-refiner/internal/server"
	"github.com/jonathan/resume-refiner/internal/session"
	"github.com/jonathan/resume-refiner/internal/types"
)

var (
	serveConfigPath string
	servePort       int
	serveProvider   string
	serveModel      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the CV refinement endpoints.

Configuration is read from the environment (and .env), optionally layered over a JSON
file given with --config. Flags override both.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to a JSON config file")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().StringVar(&serveProvider, "provider", "", "LLM provider: ollama, openai, gemini or anthropic (overrides LLM_PROVIDER)")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "LLM model name (overrides LLM_MODEL)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadServeConfig()
	if err != nil {
		return err
	}

	srv, err := newServer(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	return srv.Start()
}

// loadServeConfig loads the configuration and applies flag overrides
func loadServeConfig() (*config.Config, error) {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveProvider != "" {
		cfg.LLMProvider = serveProvider
	}
	if serveModel != "" {
		cfg.LLMModel = serveModel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newServer wires the model client, session store, job fetcher and HTTP server
func newServer(ctx context.Context, cfg *config.Config) (*server.Server, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	llmCfg, err := cfg.LLMConfig()
	if err != nil {
		return nil, err
	}
	client, err := llm.NewClient(ctx, llmCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	sessions := session.NewStore(session.Config{
		TTL:         time.Duration(cfg.SessionTTL),
		MaxSessions: cfg.SessionMax,
		OnEvict: func(s types.Session) {
			log.Printf("[session] dropped %s after %d messages", s.ID, len(s.Transcript))
		},
	})

	refiner := refine.New(client, sessions, phone.NewFormatter(), refine.Config{
		DefaultLanguage: cfg.DefaultLanguage,
		DefaultCountry:  cfg.DefaultCountry,
	})

	fetcher, closeFetcher, err := newJobFetcher(ctx, cfg)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	return server.New(server.Config{
		Port:           cfg.Port,
		CORSOrigin:     cfg.CORSOrigin,
		MaxUploadBytes: cfg.MaxUploadBytes,
		OnShutdown: []func(){
			closeFetcher,
			func() { _ = client.Close() },
		},
	}, refiner, fetcher), nil
}

// newJobFetcher builds the job fetcher. Results are cached in PostgreSQL when DATABASE_URL
// is set and in memory otherwise.
func newJobFetcher(ctx context.Context, cfg *config.Config) (*fetch.JobFetcher, func(), error) {
	opts := fetch.DefaultOptions()
	opts.Timeout = time.Duration(cfg.FetchTimeout)

	fetchCfg := fetch.Config{Options: opts}
	if cfg.FetchUseBrowser {
		fetchCfg.Renderer = fetch.NewBrowserRenderer(fetch.DefaultRenderTimeout)
	}

	closer := func() {}
	if cfg.DatabaseURL == "" {
		fetchCfg.Cache = fetch.NewMemoryCache(0, db.DefaultJobPostingCacheTTL)
		return fetch.NewJobFetcher(fetchCfg), closer, nil
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}
	if n, err := database.DeleteExpiredJobPostings(ctx); err != nil {
		log.Printf("[fetch] failed to purge expired job postings: %v", err)
	} else if n > 0 {
		log.Printf("[fetch] purged %d expired job postings", n)
	}

	fetchCfg.Cache = fetch.NewDBCache(database, db.DefaultJobPostingCacheTTL)
	return fetch.NewJobFetcher(fetchCfg), database.Close, nil
}
