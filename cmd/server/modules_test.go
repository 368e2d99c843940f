package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/TheCreativeLad/Spam-Detection/internal/config"
	"github.com/TheCreativeLad/Spam-Detection/internal/ml_client"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	cfg.Feedback.Firestore.CredentialsJSON = ""
	return cfg
}

func TestBuildClassifier(t *testing.T) {
	ctx := context.Background()

	t.Run("artifact loads", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Classifier.ArtifactPath = filepath.Join("..", "..", "models", "spam_pipeline.json")

		clf, closer := buildClassifier(ctx, cfg, zap.NewNop())

		require.NotNil(t, clf)
		assert.Nil(t, closer)
		label, err := clf.Classify(ctx, "sorry, running late, home later")
		require.NoError(t, err)
		assert.Equal(t, "ham", label)
	})

	t.Run("missing artifact yields nil", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Classifier.ArtifactPath = filepath.Join(t.TempDir(), "missing.json")

		clf, _ := buildClassifier(ctx, cfg, zap.NewNop())

		assert.Nil(t, clf)
	})

	t.Run("remote healthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(ml_client.HealthResponse{Status: "ok", ModelLoaded: true})
		}))
		defer srv.Close()

		cfg := testConfig(t)
		cfg.Classifier.Backend = config.BackendRemote
		cfg.Classifier.Remote.URL = srv.URL
		cfg.Classifier.Remote.Timeout = time.Second

		clf, _ := buildClassifier(ctx, cfg, zap.NewNop())

		assert.NotNil(t, clf)
	})

	t.Run("remote without model yields nil", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(ml_client.HealthResponse{Status: "loading", ModelLoaded: false})
		}))
		defer srv.Close()

		cfg := testConfig(t)
		cfg.Classifier.Backend = config.BackendRemote
		cfg.Classifier.Remote.URL = srv.URL

		clf, _ := buildClassifier(ctx, cfg, zap.NewNop())

		assert.Nil(t, clf)
	})

	t.Run("gemini without key yields nil", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Classifier.Backend = config.BackendGemini
		cfg.Classifier.Gemini.APIKey = ""

		clf, closer := buildClassifier(ctx, cfg, zap.NewNop())

		assert.Nil(t, clf)
		assert.Nil(t, closer)
	})

	t.Run("unknown backend yields nil", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Classifier.Backend = "pickle"

		clf, _ := buildClassifier(ctx, cfg, zap.NewNop())

		assert.Nil(t, clf)
	})
}

func TestBuildFeedbackStore(t *testing.T) {
	ctx := context.Background()

	t.Run("firestore without credentials", func(t *testing.T) {
		cfg := testConfig(t)
		core, logs := observer.New(zapcore.DebugLevel)

		store, name, closer := buildFeedbackStore(ctx, cfg, zap.New(core))

		assert.Nil(t, store)
		assert.Nil(t, closer)
		assert.Equal(t, "Firestore", name)
		assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
		assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	})

	t.Run("firestore with malformed credentials", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Feedback.Firestore.CredentialsJSON = `{"type":"service_account"}`
		core, logs := observer.New(zapcore.DebugLevel)

		store, name, _ := buildFeedbackStore(ctx, cfg, zap.New(core))

		assert.Nil(t, store)
		assert.Equal(t, "Firestore", name)
		errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Message, "Failed to initialize Firestore")
		assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Feedback.Backend = config.StoreSQLite
		cfg.Feedback.SQLite.Path = filepath.Join(t.TempDir(), "fb.db")

		store, name, closer := buildFeedbackStore(ctx, cfg, zap.NewNop())

		require.NotNil(t, store)
		require.NotNil(t, closer)
		defer closer.Close()
		assert.Equal(t, "SQLite", name)
	})
}
