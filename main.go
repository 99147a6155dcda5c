package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/leadgen/lead-extractor-service/internal/config"
	"github.com/leadgen/lead-extractor-service/internal/export"
	"github.com/leadgen/lead-extractor-service/internal/ingestion"
	"github.com/leadgen/lead-extractor-service/internal/logging"
	"github.com/leadgen/lead-extractor-service/internal/server"
	"github.com/leadgen/lead-extractor-service/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Initialize storage
	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize storage")
	}
	defer store.Close()

	if cfg.Ingestion.APIToken == "" || cfg.Ingestion.TaskID == "" {
		logger.Warn("API_TOKEN or TASK_ID is not set; batch ingestion will fail until both are configured")
	}
	ingestor := ingestion.NewService(cfg.Ingestion, store, logger)

	archiver, err := export.NewArchiver(cfg.Export)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize export archiver")
	}
	if archiver != nil {
		logger.WithField("bucket", cfg.Export.ArchiveBucket).Info("Export archiving enabled")
	}

	httpServer := server.NewServer(server.Options{
		Config:   cfg.Server,
		Login:    cfg.Login,
		Storage:  store,
		Ingestor: ingestor,
		Archiver: archiver,
		Logger:   logger,
	})

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		errChan <- httpServer.Start()
	}()

	select {
	case <-sigChan:
		logger.Info("Shutdown signal received, gracefully shutting down...")
	case err := <-errChan:
		if err != nil {
			logger.WithError(err).Error("HTTP server error")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown error")
	}

	logger.Info("Shutdown complete")
}
