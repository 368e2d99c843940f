package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TheCreativeLad/Spam-Detection/internal/models"

	"go.uber.org/zap"
)

var (
	ErrEmptyMessage     = errors.New("message is empty")
	ErrModelUnavailable = errors.New("classifier is not loaded")
)

// Classifier is any backend that can label a piece of text
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// OutcomeKind classifies how a service call ended
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeInvalidInput
	OutcomeUnavailable
	OutcomeFailure
)

// PredictOutcome is the result of a prediction. Label is always a valid
// Label, defaulting to ham on any failure.
type PredictOutcome struct {
	Kind  OutcomeKind
	Label models.Label
	Err   error
}

// Predictor labels messages with a classifier loaded at startup
type Predictor struct {
	classifier Classifier
	logger     *zap.Logger
}

// NewPredictor creates a predictor. A nil classifier is allowed: every call
// then reports OutcomeUnavailable.
func NewPredictor(classifier Classifier, logger *zap.Logger) *Predictor {
	return &Predictor{
		classifier: classifier,
		logger:     logger,
	}
}

// Available reports whether a classifier was loaded
func (p *Predictor) Available() bool {
	return p.classifier != nil
}

// Predict validates the message and asks the classifier for a label
func (p *Predictor) Predict(ctx context.Context, message string) PredictOutcome {
	if strings.TrimSpace(message) == "" {
		return PredictOutcome{Kind: OutcomeInvalidInput, Label: models.Ham, Err: ErrEmptyMessage}
	}

	if p.classifier == nil {
		return PredictOutcome{Kind: OutcomeUnavailable, Label: models.Ham, Err: ErrModelUnavailable}
	}

	raw, err := p.classifier.Classify(ctx, message)
	if err != nil {
		p.logger.Error("Classification failed", zap.Error(err))
		return PredictOutcome{Kind: OutcomeFailure, Label: models.Ham, Err: fmt.Errorf("classify: %w", err)}
	}

	label := models.ParseLabel(raw)
	p.logger.Debug("Message classified",
		zap.String("raw_label", raw),
		zap.String("label", string(label)),
		zap.Int("length", len(message)))

	return PredictOutcome{Kind: OutcomeSuccess, Label: label}
}
