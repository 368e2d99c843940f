package main

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/TheCreativeLad/Spam-Detection/internal/classifier"
	"github.com/TheCreativeLad/Spam-Detection/internal/config"
	"github.com/TheCreativeLad/Spam-Detection/internal/firestore"
	"github.com/TheCreativeLad/Spam-Detection/internal/gemini"
	"github.com/TheCreativeLad/Spam-Detection/internal/llm"
	"github.com/TheCreativeLad/Spam-Detection/internal/ml_client"
	"github.com/TheCreativeLad/Spam-Detection/internal/repository"
	"github.com/TheCreativeLad/Spam-Detection/internal/service"

	"go.uber.org/zap"
)

// buildClassifier returns a nil Classifier when the configured backend can
// not be initialized. Predictions then report the model as unavailable.
func buildClassifier(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.Classifier, io.Closer) {
	switch cfg.Classifier.Backend {
	case config.BackendArtifact:
		artifact, err := classifier.Load(cfg.Classifier.ArtifactPath)
		if err != nil {
			log.Error("Failed to load classifier artifact, predictions disabled",
				zap.String("path", cfg.Classifier.ArtifactPath),
				zap.Error(err))
			return nil, nil
		}
		log.Info("Classifier artifact loaded",
			zap.String("path", cfg.Classifier.ArtifactPath),
			zap.Strings("classes", artifact.Classes()))
		return artifact, nil

	case config.BackendRemote:
		client := ml_client.NewClient(cfg.Classifier.Remote.URL, cfg.Classifier.Remote.Timeout, log)

		healthCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		health, err := client.HealthCheck(healthCtx)
		if err != nil {
			log.Error("ML service unreachable, predictions disabled",
				zap.String("url", cfg.Classifier.Remote.URL),
				zap.Error(err))
			return nil, nil
		}
		if !health.ModelLoaded {
			log.Error("ML service has no model loaded, predictions disabled",
				zap.String("url", cfg.Classifier.Remote.URL),
				zap.String("status", health.Status))
			return nil, nil
		}
		log.Info("ML service connected",
			zap.String("url", cfg.Classifier.Remote.URL),
			zap.String("model_version", health.ModelVersion))
		return client, nil

	case config.BackendGemini:
		g := cfg.Classifier.Gemini
		if g.APIKey == "" || g.APIKey == "YOUR_API_KEY_HERE" {
			log.Error("Gemini API key not configured, predictions disabled")
			return nil, nil
		}
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:     g.APIKey,
			ModelName:  g.ModelName,
			MaxRetries: g.MaxRetries,
			RetryDelay: g.RetryDelay,
		}, log)
		if err != nil {
			log.Error("Failed to initialize Gemini client, predictions disabled", zap.Error(err))
			return nil, nil
		}
		log.Info("Gemini classifier ready", zap.Any("model", client.GetModelInfo()))
		return llm.NewRateLimitedClassifier(client, g.RequestsPerMinute, log), client

	default:
		log.Error("Unknown classifier backend, predictions disabled",
			zap.String("backend", cfg.Classifier.Backend))
		return nil, nil
	}
}

// buildFeedbackStore returns a nil store when credentials are absent or
// unusable. Feedback then degrades to a warning.
func buildFeedbackStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.FeedbackStore, string, io.Closer) {
	switch cfg.Feedback.Backend {
	case config.StoreFirestore:
		client, err := firestore.NewClient(ctx, firestore.Config{
			CredentialsJSON: cfg.Feedback.Firestore.CredentialsJSON,
			CredentialsFile: cfg.Feedback.Firestore.CredentialsFile,
			Collection:      cfg.Feedback.Firestore.Collection,
		}, log)
		switch {
		case errors.Is(err, firestore.ErrNoCredentials):
			log.Warn("Firestore credentials not set, feedback logging disabled")
			return nil, "Firestore", nil
		case err != nil:
			log.Error("Failed to initialize Firestore, feedback logging disabled", zap.Error(err))
			return nil, "Firestore", nil
		}
		return client, "Firestore", client

	case config.StoreSQLite:
		repo, err := repository.NewFeedbackRepository(cfg.Feedback.SQLite.Path, log)
		if err != nil {
			log.Error("Failed to open SQLite feedback store, feedback logging disabled", zap.Error(err))
			return nil, "SQLite", nil
		}
		return repo, "SQLite", repo

	default:
		log.Error("Unknown feedback backend, feedback logging disabled",
			zap.String("backend", cfg.Feedback.Backend))
		return nil, cfg.Feedback.Backend, nil
	}
}
