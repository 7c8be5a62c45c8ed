package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rafaelv/memoflash/internal/api"
	"github.com/rafaelv/memoflash/internal/config"
	"github.com/rafaelv/memoflash/internal/db"
	"github.com/rafaelv/memoflash/internal/distractor"
	"github.com/rafaelv/memoflash/internal/logger"
	"github.com/rafaelv/memoflash/internal/repository/sqlite"
	"github.com/rafaelv/memoflash/internal/services"
	"github.com/rafaelv/memoflash/internal/worker"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("MemoFlash Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("openai_model=%s", cfg.OpenAIModel)
	log.Debug("distractor_timeout_seconds=%d", cfg.DistractorTimeoutSeconds)
	log.Debug("warmup_worker_count=%d", cfg.WarmupWorkerCount)
	log.Debug("warmup_queue_size=%d", cfg.WarmupQueueSize)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	deckRepo := sqlite.NewDeckRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)

	// Distractor generation: optional, falls back to deck answers when no
	// API key is configured.
	var generator distractor.Generator
	if cfg.OpenAIAPIKey != "" {
		g, err := distractor.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			log.Error("failed to create openai generator: %v", err)
			os.Exit(1)
		}
		generator = g
		log.Info("distractor generation enabled: model=%s", cfg.OpenAIModel)
	} else {
		log.Warn("OPENAI_API_KEY not set, ai-quiz options fall back to deck answers")
	}
	provider := distractor.NewProvider(generator, cardRepo,
		distractor.WithTimeout(time.Duration(cfg.DistractorTimeoutSeconds)*time.Second),
	)

	// Warm-up pool for background distractor generation
	warmupPool := worker.NewPool(cfg.WarmupWorkerCount, cfg.WarmupQueueSize)

	// Services
	deckService := services.NewDeckService(deckRepo, cardRepo)
	cardService := services.NewCardService(deckRepo, cardRepo)
	studyService := services.NewStudyService(deckRepo, cardRepo, sessionRepo, provider, warmupPool)

	srv := &api.Server{
		DeckService:  deckService,
		CardService:  cardService,
		StudyService: studyService,
	}

	ctx, cancel := context.WithCancel(context.Background())
	warmupPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping warm-up pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	warmupPool.Stop()

	log.Info("===========================================")
	log.Info("MemoFlash Server Stopped")
	log.Info("===========================================")
}
