package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TheCreativeLad/Spam-Detection/internal/models"

	"go.uber.org/zap"
)

var (
	ErrMissingFeedbackFields = errors.New("missing required feedback fields")
	ErrStoreUnavailable      = errors.New("feedback store is not initialized")
)

// FeedbackStore appends feedback records to durable storage
type FeedbackStore interface {
	Append(ctx context.Context, record *models.FeedbackRecord) error
}

// FeedbackOutcome is the result of a feedback submission
type FeedbackOutcome struct {
	Kind    OutcomeKind
	Message string
	Err     error
}

// FeedbackLogger forwards user corrections to the feedback store
type FeedbackLogger struct {
	store     FeedbackStore
	storeName string
	appID     string
	now       func() time.Time
	logger    *zap.Logger
}

// NewFeedbackLogger creates a feedback logger. store may be nil, in which
// case submissions succeed with a warning and nothing is persisted.
// storeName is used in user-facing status messages.
func NewFeedbackLogger(store FeedbackStore, storeName, appID string, logger *zap.Logger) *FeedbackLogger {
	return &FeedbackLogger{
		store:     store,
		storeName: storeName,
		appID:     appID,
		now:       time.Now,
		logger:    logger,
	}
}

// Available reports whether a store was initialized
func (f *FeedbackLogger) Available() bool {
	return f.store != nil
}

// Submit validates the request, stamps it, and appends it once. There is no
// retry: a failed append is reported and dropped.
func (f *FeedbackLogger) Submit(ctx context.Context, req models.FeedbackRequest) FeedbackOutcome {
	if strings.TrimSpace(req.Message) == "" ||
		strings.TrimSpace(req.ToolPrediction) == "" ||
		strings.TrimSpace(req.CorrectLabel) == "" {
		return FeedbackOutcome{
			Kind:    OutcomeInvalidInput,
			Message: "Missing required feedback fields",
			Err:     ErrMissingFeedbackFields,
		}
	}

	if f.store == nil {
		f.logger.Warn("Feedback dropped, store not initialized", zap.String("store", f.storeName))
		return FeedbackOutcome{
			Kind:    OutcomeUnavailable,
			Message: fmt.Sprintf("Feedback not logged: %s is not initialized.", f.storeName),
			Err:     ErrStoreUnavailable,
		}
	}

	record := &models.FeedbackRecord{
		Message:        req.Message,
		ToolPrediction: req.ToolPrediction,
		CorrectLabel:   req.CorrectLabel,
		Timestamp:      f.now().UTC(),
		AppID:          f.appID,
	}

	if err := f.store.Append(ctx, record); err != nil {
		f.logger.Error("Failed to append feedback",
			zap.String("store", f.storeName),
			zap.Error(err))
		return FeedbackOutcome{
			Kind:    OutcomeFailure,
			Message: fmt.Sprintf("Failed to log to %s: %v", f.storeName, err),
			Err:     err,
		}
	}

	f.logger.Info("Feedback logged",
		zap.String("store", f.storeName),
		zap.String("tool_prediction", record.ToolPrediction),
		zap.String("correct_label", record.CorrectLabel))

	return FeedbackOutcome{
		Kind:    OutcomeSuccess,
		Message: fmt.Sprintf("Feedback received and logged to %s.", f.storeName),
	}
}
