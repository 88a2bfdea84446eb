package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"csdash/internal/config"
	"csdash/internal/db"
	"csdash/internal/jobs"
	"csdash/internal/metrics"
	"csdash/internal/notes"
	"csdash/internal/server"
	"csdash/internal/tagger"
	"csdash/internal/uploads"
	"csdash/internal/validation"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, nil)
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	for name, u := range map[string]string{"BASE_URL": cfg.BaseURL, "WAREHOUSE_URL": cfg.WarehouseURL} {
		if ok, msg := validation.ValidateURL(u); !ok {
			slog.Error("invalid URL in configuration", "var", name, "error", msg)
			os.Exit(1)
		}
	}

	rules, err := config.LoadReportsConfig(cfg.ReportsFile)
	if err != nil {
		slog.Error("failed to load report rules", "path", cfg.ReportsFile, "error", err)
		os.Exit(1)
	}

	// A missing keyword file is not fatal: reports run in degraded mode.
	source := tagger.FileSource(cfg.KeywordsFile)
	vocab, err := tagger.NewHolder(source)
	if err != nil {
		slog.Warn("keyword vocabulary unavailable, starting in degraded mode", "source", source.Name(), "error", err)
	} else {
		slog.Info("keyword vocabulary loaded", "source", source.Name(), "keywords", len(vocab.Current().Vocabulary))
	}

	deps := server.Deps{
		Rules: rules,
		Vocab: vocab,
		Cache: uploads.New(uploads.NewStorage(cfg.RedisURL), cfg.UploadTTL),
	}

	var runStore metrics.Store
	if cfg.HasDatabase() {
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer database.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations completed successfully")

		if cfg.IsDev() {
			if err := database.SeedDevArticles(ctx); err != nil {
				slog.Warn("failed to seed help articles", "error", err)
			}
		}

		deps.Notes = database
		deps.DB = database
		runStore = database
	} else {
		slog.Info("DATABASE_URL not set, keeping notes and run logs in memory")
		deps.Notes = notes.NewMemoryStore()
		runStore = metrics.NewMemoryStore()
	}
	deps.Recorder = metrics.Init(runStore)

	if cfg.KeywordsRefresh > 0 {
		go jobs.NewVocabularyRefresher(vocab, source, cfg.KeywordsRefresh).Start(ctx)
	}

	srv := server.New(cfg, server.Options{})
	if err := srv.RegisterRoutes(ctx, deps); err != nil {
		slog.Error("failed to register routes", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	cancel()
	if err := srv.Shutdown(); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	deps.Recorder.Wait()
	slog.Info("server exited")
}
