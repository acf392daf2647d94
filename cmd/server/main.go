package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"scriptvoice/internal/config"
	"scriptvoice/internal/gemini"
	apphttp "scriptvoice/internal/http"
	"scriptvoice/internal/llm"
	"scriptvoice/internal/scripts"
	"scriptvoice/internal/storage"
	"scriptvoice/internal/tts"
	"scriptvoice/internal/ui"
	"scriptvoice/migrations"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	if err := run(logger); err != nil {
		logger.Error("startup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	repo, closeRepo, err := openRepository(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	enhancer, synth := newCollaborators(logger, cfg)
	service := scripts.NewService(logger, repo, enhancer, synth)

	tmpl, err := ui.ParseTemplates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	handler := apphttp.NewServer(logger, service, tmpl, ui.StaticFiles())

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", server.Addr), slog.Bool("stubs", cfg.UseStubs))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("shutdown server: %w", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}

// openRepository uses PostgreSQL when DB_DSN is set and memory otherwise.
func openRepository(ctx context.Context, logger *slog.Logger, cfg config.Config) (scripts.Repository, func(), error) {
	if cfg.DBDSN == "" {
		logger.Warn("DB_DSN not set, generations are kept in memory")
		return storage.NewMemoryRepository(), func() {}, nil
	}

	db, err := sql.Open("pgx", cfg.DBDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}

	// ensure DB is reachable
	if err := pingDB(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	if err := storage.RunMigrations(ctx, logger, db, migrations.Files); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	return storage.NewPostgresRepository(db), func() { db.Close() }, nil
}

func newCollaborators(logger *slog.Logger, cfg config.Config) (scripts.Enhancer, scripts.Synthesizer) {
	if cfg.UseStubs {
		return llm.NewStubClient(logger), tts.NewStubSynthesizer()
	}

	api := gemini.NewClient(logger, cfg.APIKey, &gemini.Options{
		BaseURL:    cfg.GeminiBaseURL,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
	})
	return llm.NewGeminiClient(logger, api, &llm.GeminiOptions{Model: cfg.ScriptModel}),
		tts.NewGeminiSynthesizer(logger, api, &tts.GeminiOptions{Model: cfg.SpeechModel})
}

func pingDB(ctx context.Context, db *sql.DB) error {
	const (
		maxAttempts = 10
		baseDelay   = time.Second
	)

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()

		if err == nil {
			return nil
		}

		// allow caller to abort early
		select {
		case <-ctx.Done():
			return fmt.Errorf("ping db: %w", err)
		case <-time.After(time.Duration(attempt) * baseDelay):
		}
	}

	return fmt.Errorf("ping db: %w", err)
}
