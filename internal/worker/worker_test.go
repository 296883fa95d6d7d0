package worker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DocLens-Intelligence/internal/config"
	domain "github.com/turtacn/DocLens-Intelligence/internal/domain/analysis"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
)

type scriptedProcessor struct {
	mu           sync.Mutex
	failures     int
	processCalls int
	failedWith   string
}

func (p *scriptedProcessor) Process(_ context.Context, id string) (*domain.Analysis, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processCalls++
	if p.processCalls <= p.failures {
		return nil, assert.AnError
	}
	return &domain.Analysis{Status: domain.StatusCompleted}, nil
}

func (p *scriptedProcessor) MarkFailed(_ context.Context, id, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failedWith = reason
	return nil
}

type countingRetries struct {
	mu sync.Mutex
	n  int
}

func (c *countingRetries) RecordRetry() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
}

func submittedEvent(t *testing.T, analysisID string) *kafka.EventEnvelope {
	t.Helper()
	env, err := kafka.NewEventEnvelope(kafka.TopicDocumentSubmitted, "apiserver",
		kafka.DocumentSubmittedPayload{AnalysisID: analysisID})
	require.NoError(t, err)
	return env
}

func newTestWorker(p Processor, retries RetryMetrics) *Worker {
	return New(p, config.WorkerConfig{
		MaxRetries:   3,
		RetryBackoff: time.Millisecond,
	}, logging.NewNopLogger(), retries)
}

func TestHandle_SucceedsFirstAttempt(t *testing.T) {
	t.Parallel()

	proc := &scriptedProcessor{}
	retries := &countingRetries{}
	w := newTestWorker(proc, retries)

	err := w.Handle(context.Background(), submittedEvent(t, "a-1"))
	require.NoError(t, err)
	assert.Equal(t, 1, proc.processCalls)
	assert.Zero(t, retries.n)
	assert.Empty(t, proc.failedWith)
}

func TestHandle_RetriesTransientFailure(t *testing.T) {
	t.Parallel()

	proc := &scriptedProcessor{failures: 2}
	retries := &countingRetries{}
	w := newTestWorker(proc, retries)

	err := w.Handle(context.Background(), submittedEvent(t, "a-1"))
	require.NoError(t, err)
	assert.Equal(t, 3, proc.processCalls)
	assert.Equal(t, 2, retries.n)
	assert.Empty(t, proc.failedWith)
}

func TestHandle_ExhaustedRetriesMarkFailed(t *testing.T) {
	t.Parallel()

	proc := &scriptedProcessor{failures: 100}
	retries := &countingRetries{}
	w := newTestWorker(proc, retries)

	err := w.Handle(context.Background(), submittedEvent(t, "a-1"))
	require.NoError(t, err)
	assert.Equal(t, 4, proc.processCalls) // initial attempt + 3 retries
	assert.Equal(t, 3, retries.n)
	assert.Equal(t, assert.AnError.Error(), proc.failedWith)
}

func TestHandle_MalformedPayloadDropped(t *testing.T) {
	t.Parallel()

	proc := &scriptedProcessor{}
	w := newTestWorker(proc, nil)

	env := &kafka.EventEnvelope{
		EventID:   "e-1",
		EventType: kafka.TopicDocumentSubmitted,
		Payload:   json.RawMessage(`"not an object"`),
	}
	err := w.Handle(context.Background(), env)
	require.NoError(t, err)
	assert.Zero(t, proc.processCalls)
}

func TestHandle_CancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	proc := &scriptedProcessor{failures: 100}
	w := New(proc, config.WorkerConfig{
		MaxRetries:   3,
		RetryBackoff: time.Hour,
	}, logging.NewNopLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := w.Handle(ctx, submittedEvent(t, "a-1"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, proc.processCalls)
}
