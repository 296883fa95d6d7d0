package prometheus

import (
	"github.com/turtacn/DocLens-Intelligence/internal/worker"
)

// workerMetrics feeds retry counts into AppMetrics.
type workerMetrics struct {
	app *AppMetrics
}

// NewWorkerMetrics adapts AppMetrics to the worker's retry hook.
func NewWorkerMetrics(m *AppMetrics) worker.RetryMetrics {
	return &workerMetrics{app: m}
}

func (m *workerMetrics) RecordRetry() {
	m.app.WorkerTaskRetries.Inc()
}
