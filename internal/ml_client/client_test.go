package ml_client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestClient_Classify(t *testing.T) {
	t.Run("successful classification", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/classify/single", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req ClassifyRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "free entry", req.Text)

			w.Header().Set("Content-Type", "application/json")
			require.NoError(t, json.NewEncoder(w).Encode(ClassifyResponse{
				Label:        "spam",
				Confidence:   0.97,
				ModelVersion: "nb-v3",
			}))
		}))
		defer server.Close()

		core, logs := observer.New(zapcore.DebugLevel)
		client := NewClient(server.URL, 5*time.Second, zap.New(core))

		label, err := client.Classify(context.Background(), "free entry")
		require.NoError(t, err)
		assert.Equal(t, "spam", label)

		entries := logs.FilterMessage("ML service classified message").All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, 0.97, fields["confidence"])
		assert.Equal(t, "nb-v3", fields["model_version"])
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("model crashed"))
		}))
		defer server.Close()

		_, err := NewClient(server.URL, 5*time.Second, zap.NewNop()).Classify(context.Background(), "x")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
		assert.Contains(t, err.Error(), "model crashed")
	})

	t.Run("invalid json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("{"))
		}))
		defer server.Close()

		_, err := NewClient(server.URL, 5*time.Second, zap.NewNop()).Classify(context.Background(), "x")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode response")
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		_, err := NewClient(server.URL, 20*time.Millisecond, zap.NewNop()).Classify(context.Background(), "x")

		assert.Error(t, err)
	})
}

func TestClient_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/health", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		_ = json.NewEncoder(w).Encode(HealthResponse{Status: "ok", ModelLoaded: true})
	}))
	defer server.Close()

	health, err := NewClient(server.URL, time.Second, zap.NewNop()).HealthCheck(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.True(t, health.ModelLoaded)
}
