// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"llm-code-deploy/internal/config"
	"llm-code-deploy/internal/domain/ports/adapter"
	aiAdapters "llm-code-deploy/internal/infra/adapters/ai"
	"llm-code-deploy/internal/infra/adapters/hosting"
	"llm-code-deploy/internal/infra/logging"
	"llm-code-deploy/internal/infra/metrics"
	"llm-code-deploy/internal/infra/web"
	"llm-code-deploy/internal/infra/worker"
	"llm-code-deploy/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] enabled")
	}
	metrics.MustRegister()

	// ---- AI adapter, selected once from configuration ----
	var ai adapter.TextGenerator
	switch cfg.AI.Provider {
	case "openai":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.Model)
		if err != nil {
			log.Fatalf("openai adapter: %v", err)
		}
		logger.Info().Str("model", cfg.AI.Model).Msg("AI adapter: OpenAI")
	case "gemini":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.Model, cfg.AI.MaxOutputTokens)
		if err != nil {
			log.Fatalf("gemini adapter: %v", err)
		}
		logger.Info().Str("model", cfg.AI.Model).Msg("AI adapter: Gemini")
	case "none":
		logger.Warn().Msg("no AI provider configured; every job will use the fallback site")
	default:
		log.Fatalf("unknown ai.provider %q", cfg.AI.Provider)
	}

	// ---- Hosting adapter ----
	gh, err := hosting.NewGitHubAdapter(cfg.Hosting.Token, cfg.Hosting.Username, cfg.Hosting.DefaultBranch)
	if err != nil {
		log.Fatalf("github adapter: %v", err)
	}

	// ---- Use cases ----
	genUC := usecase.NewGenerationUseCase(ai, cfg.AI.Model, cfg.AI.Timeout, logger)
	pubUC := usecase.NewPublishUseCase(gh, cfg.Hosting.Username, cfg.Hosting.DefaultBranch, logger)
	notifUC := usecase.NewNotifyUseCase(cfg.Notify.MaxAttempts, cfg.Notify.InitialDelay, cfg.Notify.Timeout, logger)
	jobUC := usecase.NewJobUseCase(cfg.Server.SharedSecret, genUC, pubUC, notifUC, logger)

	// ---- Worker pool ----
	pool := worker.NewPool(cfg.Worker.Count, cfg.Worker.QueueSize, logger)
	pool.Start(ctx)

	// ---- HTTP server ----
	srv := web.NewServer(jobUC, pool, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
	cancel()
	pool.Stop()
}
