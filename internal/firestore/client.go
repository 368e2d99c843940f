package firestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/TheCreativeLad/Spam-Detection/internal/models"
)

var (
	// ErrNoCredentials means no credential material was configured at all.
	ErrNoCredentials = errors.New("firestore credentials not provided")
	// ErrMalformedCredentials means credential material was present but unusable.
	ErrMalformedCredentials = errors.New("firestore credentials are malformed")
)

// Credentials holds the identifying fields of a service-account key
type Credentials struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
}

// Config for the Firestore feedback store
type Config struct {
	CredentialsJSON string
	CredentialsFile string
	Collection      string
}

// Client appends feedback records to a Firestore collection
type Client struct {
	client     *firestore.Client
	collection string
	logger     *zap.Logger
}

// ReadCredentials returns the raw credential JSON. Inline JSON wins over a
// file path.
func ReadCredentials(cfg Config) ([]byte, error) {
	if strings.TrimSpace(cfg.CredentialsJSON) != "" {
		return []byte(cfg.CredentialsJSON), nil
	}
	if cfg.CredentialsFile == "" {
		return nil, ErrNoCredentials
	}

	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrNoCredentials
	}
	return data, nil
}

// ParseCredentials checks that data is a service-account key with a project ID
func ParseCredentials(data []byte) (*Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCredentials, err)
	}
	if creds.ProjectID == "" {
		return nil, fmt.Errorf("%w: project_id is missing", ErrMalformedCredentials)
	}
	return &creds, nil
}

// NewClient initializes the Firestore client from service-account credentials
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	data, err := ReadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	creds, err := ParseCredentials(data)
	if err != nil {
		return nil, err
	}

	if cfg.Collection == "" {
		cfg.Collection = "spam_feedback"
	}

	client, err := firestore.NewClient(ctx, creds.ProjectID, option.WithCredentialsJSON(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	logger.Info("Firestore client initialized",
		zap.String("project_id", creds.ProjectID),
		zap.String("collection", cfg.Collection))

	return &Client{
		client:     client,
		collection: cfg.Collection,
		logger:     logger,
	}, nil
}

// Append adds record as a new document. The generated document ID is not
// returned to callers.
func (c *Client) Append(ctx context.Context, record *models.FeedbackRecord) error {
	ref, _, err := c.client.Collection(c.collection).Add(ctx, record)
	if err != nil {
		return err
	}

	c.logger.Debug("Feedback document written", zap.String("doc_id", ref.ID))
	return nil
}

// Close closes the Firestore client
func (c *Client) Close() error {
	return c.client.Close()
}
