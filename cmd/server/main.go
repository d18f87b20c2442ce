package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/astramesh/chalice/internal/aggregator"
	"github.com/astramesh/chalice/internal/config"
	"github.com/astramesh/chalice/internal/server"
	"github.com/astramesh/chalice/internal/sources"
	"github.com/astramesh/chalice/internal/summary"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting AstraMesh QVic Reforge Chalice")

	// Initialize external collaborators once; every request reads these
	// handles, nothing mutates them afterwards.
	webSource := sources.NewWebSource(cfg.WebSearchTimeout)

	socialSource := sources.NewSocialSource(cfg.SocialBearerToken)
	if socialSource.Enabled() {
		logrus.Info("Social search client initialized successfully")
	} else {
		logrus.Warn("Social bearer token not found - social aggregation disabled")
	}

	summaryService := summary.NewService(cfg.AnthropicAPIKey, cfg.SummaryModel)

	// Initialize aggregation service
	aggregationService := aggregator.NewService(
		[]sources.Source{webSource, socialSource},
		summaryService,
	)

	// Set up HTTP server
	srv := server.NewServer(cfg, aggregationService)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down AstraMesh QVic Reforge Chalice...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := httpServer.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
