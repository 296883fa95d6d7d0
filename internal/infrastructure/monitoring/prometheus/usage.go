package prometheus

import (
	app "github.com/turtacn/DocLens-Intelligence/internal/application/analysis"
)

// usageMetrics feeds finished-analysis counts into AppMetrics.
type usageMetrics struct {
	app *AppMetrics
}

// NewUsageMetrics adapts AppMetrics to the application service's metrics hook.
func NewUsageMetrics(m *AppMetrics) app.UsageMetrics {
	return &usageMetrics{app: m}
}

func (m *usageMetrics) RecordAnalysis(language, status string) {
	m.app.AnalysesTotal.WithLabelValues(language, status).Inc()
}
