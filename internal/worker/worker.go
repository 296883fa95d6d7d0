// Package worker processes submitted documents from the event stream.
package worker

import (
	"context"
	"time"

	app "github.com/turtacn/DocLens-Intelligence/internal/application/analysis"
	"github.com/turtacn/DocLens-Intelligence/internal/config"
	domain "github.com/turtacn/DocLens-Intelligence/internal/domain/analysis"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
)

// Processor is the slice of the application service the worker drives.
type Processor interface {
	Process(ctx context.Context, id string) (*domain.Analysis, error)
	MarkFailed(ctx context.Context, id, reason string) error
}

// RetryMetrics counts task retries.
type RetryMetrics interface {
	RecordRetry()
}

type nopRetryMetrics struct{}

func (nopRetryMetrics) RecordRetry() {}

// NopRetryMetrics returns a RetryMetrics that discards all observations.
func NopRetryMetrics() RetryMetrics { return nopRetryMetrics{} }

// Worker turns document.submitted events into completed analyses, retrying
// transient failures with exponential backoff before recording a terminal
// failure.
type Worker struct {
	processor  Processor
	maxRetries int
	backoff    time.Duration
	budget     time.Duration
	logger     logging.Logger
	metrics    RetryMetrics
}

// New builds a Worker from the worker configuration section.
func New(processor Processor, cfg config.WorkerConfig, logger logging.Logger, metrics RetryMetrics) *Worker {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}
	if cfg.AnalysisBudget <= 0 {
		cfg.AnalysisBudget = 5 * time.Minute
	}
	if metrics == nil {
		metrics = NopRetryMetrics()
	}
	return &Worker{
		processor:  processor,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		budget:     cfg.AnalysisBudget,
		logger:     logger,
		metrics:    metrics,
	}
}

// Handle processes one document.submitted event.  It returns nil for both
// success and terminal failure so the message is committed; only context
// cancellation propagates.
func (w *Worker) Handle(ctx context.Context, env *kafka.EventEnvelope) error {
	var payload kafka.DocumentSubmittedPayload
	if err := env.DecodePayload(&payload); err != nil {
		// Undecodable payloads cannot be retried into validity.
		w.logger.Error("dropping malformed submission event",
			logging.String("event_id", env.EventID), logging.Err(err))
		return nil
	}

	var lastErr error
	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 {
			w.metrics.RecordRetry()
			select {
			case <-time.After(w.backoff << (attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		taskCtx, cancel := context.WithTimeout(ctx, w.budget)
		_, err := w.processor.Process(taskCtx, payload.AnalysisID)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.logger.Warn("analysis attempt failed",
			logging.String("analysis_id", payload.AnalysisID),
			logging.Int("attempt", attempt+1),
			logging.Err(err))
	}

	w.logger.Error("analysis retries exhausted",
		logging.String("analysis_id", payload.AnalysisID),
		logging.Err(lastErr))
	if err := w.processor.MarkFailed(ctx, payload.AnalysisID, lastErr.Error()); err != nil {
		w.logger.Error("record terminal failure",
			logging.String("analysis_id", payload.AnalysisID),
			logging.Err(err))
	}
	return nil
}

// Handler adapts the worker to the consumer's callback type.
func (w *Worker) Handler() kafka.Handler {
	return w.Handle
}

// Compile-time check that the application service satisfies Processor.
var _ Processor = (app.Service)(nil)
