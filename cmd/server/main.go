package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/obinkytt/analyzer/internal/ai"
	"github.com/obinkytt/analyzer/internal/analysis"
	"github.com/obinkytt/analyzer/internal/api"
	"github.com/obinkytt/analyzer/internal/config"
	"github.com/obinkytt/analyzer/internal/httpx"
	"github.com/obinkytt/analyzer/internal/scraper"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := config.Load()

	lexicon := analysis.DefaultLexicon()
	if cfg.LexiconPath != "" {
		loaded, err := analysis.LoadLexicon(cfg.LexiconPath)
		if err != nil {
			slog.Error("failed to load lexicon", "path", cfg.LexiconPath, "error", err)
			os.Exit(1)
		}
		lexicon = loaded
	}

	if cfg.OpenAIAPIKey != "" {
		slog.Info("remote backend configured", "model", cfg.OpenAIModel)
	} else {
		slog.Info("no remote backend credential, will try local model then heuristic")
	}

	orchestrator := analysis.NewOrchestrator(
		cfg.ProviderTimeout,
		analysis.NewHeuristic(lexicon),
		ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL),
		ai.NewOllamaClient(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.ProviderTimeout),
	)

	sc := scraper.New(httpx.NewFetcher(cfg.UserAgent))
	srv := api.NewServer(cfg, sc, orchestrator)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
