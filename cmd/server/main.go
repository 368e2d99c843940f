package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheCreativeLad/Spam-Detection/internal/config"
	"github.com/TheCreativeLad/Spam-Detection/internal/handler"
	"github.com/TheCreativeLad/Spam-Detection/internal/logger"
	"github.com/TheCreativeLad/Spam-Detection/internal/metrics"
	"github.com/TheCreativeLad/Spam-Detection/internal/server"
	"github.com/TheCreativeLad/Spam-Detection/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "configs/config.yml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	log.Info("Starting Spam Detection service...",
		zap.String("classifier_backend", cfg.Classifier.Backend),
		zap.String("feedback_backend", cfg.Feedback.Backend),
		zap.String("app_id", cfg.Feedback.AppID))

	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Both externals are optional: a failed init degrades one path only.
	var closers []io.Closer

	classifier, closer := buildClassifier(ctx, cfg, log)
	if closer != nil {
		closers = append(closers, closer)
	}

	store, storeName, closer := buildFeedbackStore(ctx, cfg, log)
	if closer != nil {
		closers = append(closers, closer)
	}

	m := metrics.New()
	h := handler.NewHandler(
		service.NewPredictor(classifier, log),
		service.NewFeedbackLogger(store, storeName, cfg.Feedback.AppID, log),
		m,
		log,
	)

	srv := server.NewServer(cfg.Server.Port, h, m, log)
	errCh := srv.Start()

	log.Info("Spam Detection service is running",
		zap.String("port", cfg.Server.Port),
		zap.Bool("classifier_loaded", classifier != nil),
		zap.Bool("feedback_enabled", store != nil))

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case serveErr = <-errCh:
		log.Error("Server failed", zap.Error(serveErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	for _, c := range closers {
		if err := c.Close(); err != nil {
			log.Warn("Failed to close resource", zap.Error(err))
		}
	}

	log.Info("Server exited")
	return serveErr
}
