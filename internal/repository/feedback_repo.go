package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/TheCreativeLad/Spam-Detection/internal/models"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// FeedbackRepository is an append-only SQLite table of feedback records
type FeedbackRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewFeedbackRepository opens (or creates) the database at dbPath
func NewFeedbackRepository(dbPath string, logger *zap.Logger) (*FeedbackRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &FeedbackRepository{
		db:     db,
		logger: logger,
	}

	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Feedback repository initialized", zap.String("db_path", dbPath))

	return repo, nil
}

func (r *FeedbackRepository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		message TEXT NOT NULL,
		tool_prediction TEXT NOT NULL,
		correct_label TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		app_id TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_feedback_app_id ON feedback(app_id);
	CREATE INDEX IF NOT EXISTS idx_feedback_timestamp ON feedback(timestamp);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Append inserts record as a new row
func (r *FeedbackRepository) Append(ctx context.Context, record *models.FeedbackRecord) error {
	query := `
		INSERT INTO feedback (message, tool_prediction, correct_label, timestamp, app_id)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		record.Message,
		record.ToolPrediction,
		record.CorrectLabel,
		record.Timestamp.UTC().Format(time.RFC3339Nano),
		record.AppID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		r.logger.Debug("Feedback row written", zap.Int64("id", id))
	}
	return nil
}

// Close closes the database connection
func (r *FeedbackRepository) Close() error {
	return r.db.Close()
}
