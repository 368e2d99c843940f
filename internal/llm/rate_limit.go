package llm

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Classifier is the subset of a provider the limiter wraps
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// RateLimiter implements token bucket rate limiting
type RateLimiter struct {
	mu         sync.Mutex
	tokens     int
	maxTokens  int
	refillRate time.Duration
	lastRefill time.Time
	now        func() time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerMinute calls with a
// burst of the same size.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	return &RateLimiter{
		tokens:     requestsPerMinute,
		maxTokens:  requestsPerMinute,
		refillRate: time.Minute / time.Duration(requestsPerMinute),
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// reserve takes a token if one is available, otherwise reports how long to
// wait before trying again.
func (rl *RateLimiter) reserve() (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if added := int(now.Sub(rl.lastRefill) / rl.refillRate); added > 0 {
		rl.tokens += added
		if rl.tokens > rl.maxTokens {
			rl.tokens = rl.maxTokens
		}
		rl.lastRefill = rl.lastRefill.Add(time.Duration(added) * rl.refillRate)
	}

	if rl.tokens > 0 {
		rl.tokens--
		return 0, true
	}
	return rl.refillRate - now.Sub(rl.lastRefill), false
}

// Wait blocks until a token is available or ctx is done
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		wait, ok := rl.reserve()
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// RateLimitedClassifier wraps a classifier with rate limiting
type RateLimitedClassifier struct {
	classifier Classifier
	limiter    *RateLimiter
	logger     *zap.Logger
}

// NewRateLimitedClassifier wraps classifier with a requestsPerMinute limit
func NewRateLimitedClassifier(classifier Classifier, requestsPerMinute int, logger *zap.Logger) *RateLimitedClassifier {
	logger.Info("Rate limiting enabled for classifier",
		zap.Int("requests_per_minute", requestsPerMinute))

	return &RateLimitedClassifier{
		classifier: classifier,
		limiter:    NewRateLimiter(requestsPerMinute),
		logger:     logger,
	}
}

// Classify waits for a token, then delegates
func (r *RateLimitedClassifier) Classify(ctx context.Context, text string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		r.logger.Warn("Rate limiter wait aborted", zap.Error(err))
		return "", err
	}
	return r.classifier.Classify(ctx, text)
}
