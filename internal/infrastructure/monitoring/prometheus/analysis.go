package prometheus

import (
	"time"

	"github.com/turtacn/DocLens-Intelligence/internal/analysis/common"
)

// analysisMetrics adapts AppMetrics to the analysis engine's metrics
// contract so the engine stays free of prometheus types.
type analysisMetrics struct {
	app *AppMetrics
}

// NewAnalysisMetrics returns a common.Metrics backed by app.
func NewAnalysisMetrics(app *AppMetrics) common.Metrics {
	return &analysisMetrics{app: app}
}

func (m *analysisMetrics) ObserveComponent(component string, elapsed time.Duration, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.app.AnalysisComponentDuration.WithLabelValues(component, outcome).Observe(elapsed.Seconds())
}

func (m *analysisMetrics) RecordBulletCount(n int) {
	m.app.AnalysisBulletCount.Observe(float64(n))
}

func (m *analysisMetrics) RecordIntentLabel(label string) {
	m.app.AnalysisIntentTotal.WithLabelValues(label).Inc()
}
