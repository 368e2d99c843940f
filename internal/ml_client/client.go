package ml_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client is a client for a remote spam classification service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// ClassifyRequest represents a single message classification request
type ClassifyRequest struct {
	Text string `json:"text"`
}

// ClassifyResponse represents the classification result
type ClassifyResponse struct {
	Label            string  `json:"label"`
	Confidence       float64 `json:"confidence,omitempty"`
	ModelVersion     string  `json:"model_version,omitempty"`
	ProcessingTimeMs float64 `json:"processing_time_ms,omitempty"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status       string `json:"status"`
	ModelLoaded  bool   `json:"model_loaded"`
	ModelVersion string `json:"model_version,omitempty"`
}

// NewClient creates a new ML service client
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ClassifySingle classifies a single message
func (c *Client) ClassifySingle(ctx context.Context, text string) (*ClassifyResponse, error) {
	jsonData, err := json.Marshal(ClassifyRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/classify/single", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result ClassifyResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Classify returns only the label, satisfying service.Classifier
func (c *Client) Classify(ctx context.Context, text string) (string, error) {
	resp, err := c.ClassifySingle(ctx, text)
	if err != nil {
		return "", err
	}
	c.logger.Debug("ML service classified message",
		zap.String("label", resp.Label),
		zap.Float64("confidence", resp.Confidence),
		zap.String("model_version", resp.ModelVersion),
		zap.Float64("processing_time_ms", resp.ProcessingTimeMs))
	return resp.Label, nil
}

// HealthCheck checks if the ML service is healthy
func (c *Client) HealthCheck(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var result HealthResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("ML service returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
