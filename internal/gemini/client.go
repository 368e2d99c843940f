package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// SystemInstruction constrains the model to a binary spam/ham verdict
const SystemInstruction = `You are an SMS and short-message spam filter.
Classify the user's message as "spam" (unsolicited advertising, prize or
lottery scams, phishing, premium-rate lures) or "ham" (any legitimate
personal or business message).
Respond with JSON only: {"label": "spam"} or {"label": "ham"}.`

// Client wraps the Gemini API client
type Client struct {
	client     *genai.Client
	model      *genai.GenerativeModel
	logger     *zap.Logger
	modelName  string
	maxRetries int
	retryDelay time.Duration
}

// Config for Gemini client
type Config struct {
	APIKey     string
	ModelName  string
	MaxRetries int
	RetryDelay time.Duration
}

type labelResponse struct {
	Label string `json:"label"`
}

func (cfg *Config) setDefaults() {
	if cfg.ModelName == "" {
		cfg.ModelName = "gemini-1.5-flash"
	}
	// at least one attempt, otherwise Classify never calls the API
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	cfg.setDefaults()

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.ModelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemInstruction)},
	}
	model.ResponseMIMEType = "application/json"
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr[float32](0),
		MaxOutputTokens: genai.Ptr[int32](20),
	}

	logger.Info("Gemini client initialized",
		zap.String("model", cfg.ModelName),
		zap.Int("max_retries", cfg.MaxRetries))

	return &Client{
		client:     client,
		model:      model,
		logger:     logger,
		modelName:  cfg.ModelName,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// Close closes the Gemini client
func (c *Client) Close() error {
	return c.client.Close()
}

// Classify asks the model for a spam/ham label
func (c *Client) Classify(ctx context.Context, text string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying Gemini request",
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", c.maxRetries))
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		resp, err := c.model.GenerateContent(ctx, genai.Text(text))
		if err != nil {
			lastErr = fmt.Errorf("gemini API error: %w", err)
			c.logger.Error("Gemini API error", zap.Error(err), zap.Int("attempt", attempt+1))
			continue
		}

		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = fmt.Errorf("empty response from gemini")
			continue
		}

		textPart, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
		if !ok {
			lastErr = fmt.Errorf("unexpected response type from gemini")
			continue
		}

		label, err := ParseLabel(string(textPart))
		if err != nil {
			lastErr = err
			c.logger.Error("Failed to parse Gemini response",
				zap.Error(err),
				zap.Int("attempt", attempt+1))
			continue
		}

		return label, nil
	}

	return "", fmt.Errorf("failed after %d attempts: %w", c.maxRetries, lastErr)
}

// ParseLabel extracts the label from a model reply, tolerating markdown
// code fences around the JSON.
func ParseLabel(reply string) (string, error) {
	clean := strings.TrimSpace(reply)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var result labelResponse
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		return "", fmt.Errorf("failed to parse gemini response: %w", err)
	}

	label := strings.ToLower(strings.TrimSpace(result.Label))
	if label != "spam" && label != "ham" {
		return "", fmt.Errorf("unexpected label %q", result.Label)
	}
	return label, nil
}

// GetModelInfo returns model information
func (c *Client) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"provider":    "gemini",
		"model":       c.modelName,
		"max_retries": c.maxRetries,
		"retry_delay": c.retryDelay.String(),
	}
}
