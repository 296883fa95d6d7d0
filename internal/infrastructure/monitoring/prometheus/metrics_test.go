package prometheus

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppMetrics_IndependentRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	assert.NotPanics(t, func() {
		_ = NewAppMetrics()
		_ = NewAppMetrics()
	})
}

func TestObserveHTTPRequest(t *testing.T) {
	m := NewAppMetrics()

	m.ObserveHTTPRequest("POST", "/api/v1/analyses", "201", 25*time.Millisecond)
	m.ObserveHTTPRequest("POST", "/api/v1/analyses", "201", 30*time.Millisecond)

	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/analyses", "201"))
	assert.Equal(t, 2.0, count)
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := NewAppMetrics()
	m.AnalysesTotal.WithLabelValues("English", "success").Inc()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "doclens_analyses_total")
}

func TestAnalysisMetricsAdapter(t *testing.T) {
	app := NewAppMetrics()
	metrics := NewAnalysisMetrics(app)

	metrics.ObserveComponent("summarize", 10*time.Millisecond, true)
	metrics.ObserveComponent("summarize", 10*time.Millisecond, false)
	metrics.RecordBulletCount(7)
	metrics.RecordIntentLabel("Request")

	assert.Equal(t, 1.0, testutil.ToFloat64(app.AnalysisIntentTotal.WithLabelValues("Request")))

	successCount := testutil.CollectAndCount(app.AnalysisComponentDuration)
	assert.Equal(t, 2, successCount, "success and failure series both present")
}
