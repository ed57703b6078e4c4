package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bcviz/internal/assets"
	"bcviz/internal/charts"
	"bcviz/internal/config"
	"bcviz/internal/llm"
	"bcviz/internal/logger"
	"bcviz/internal/server"
	"bcviz/internal/storage"
	"bcviz/internal/synth"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	logger.Info("Starting black carbon dashboard service", map[string]interface{}{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"version":     config.GetVersion(),
	})

	// Storage backend follows the environment
	deploymentMode := storage.DeploymentLocal
	if cfg.Environment == "production" {
		deploymentMode = storage.DeploymentGCS
		logger.Infof("GCS storage mode - bucket: %s", cfg.GCSBucket)
	} else {
		logger.Infof("Local storage mode - snapshots dir: %s", cfg.LocalSnapshotsDir)
	}

	store, err := storage.NewClient(ctx, deploymentMode, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", err)
	}

	// Synthesize the measurement dataset once at startup
	startDate, err := cfg.ParsedStartDate()
	if err != nil {
		logger.Fatal("Invalid start date", err)
	}
	dataset, err := synth.NewSeeded(cfg.Seed).GenerateDataset(cfg.SampleSize, startDate, cfg.StepDays, cfg.Seed)
	if err != nil {
		logger.Fatal("Failed to synthesize dataset", err)
	}
	logger.Info("Dataset synthesized", map[string]interface{}{
		"records":    len(dataset.Records),
		"start_date": cfg.StartDate,
		"step_days":  cfg.StepDays,
		"seed":       cfg.Seed,
	})

	// Cache the ECharts bundle so snapshots survive without the CDN
	assetCache := assets.NewCache(store, cfg.EChartsAssetURL)
	assetURL := assetCache.EnsureECharts(ctx)

	srv := server.NewServer(cfg, dataset, charts.NewGenerator(assetURL), store, llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel))
	defer srv.Close()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // PNG rendering and snapshot export take a while
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", err)
	}

	logger.Info("Server stopped")
}
