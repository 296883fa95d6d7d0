package common

import "time"

// Metrics is the contract the analysis components report against.  The
// prometheus-backed implementation lives in
// internal/infrastructure/monitoring/prometheus; tests use NewNopMetrics.
type Metrics interface {
	// ObserveComponent records one run of a named component ("summarize",
	// "bullets", "intent", "entities") with its duration and outcome.
	ObserveComponent(component string, elapsed time.Duration, success bool)

	// RecordBulletCount records how many bullets an extraction returned.
	RecordBulletCount(n int)

	// RecordIntentLabel records the label an intent classification chose.
	RecordIntentLabel(label string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveComponent(string, time.Duration, bool) {}
func (nopMetrics) RecordBulletCount(int)                        {}
func (nopMetrics) RecordIntentLabel(string)                     {}

// NewNopMetrics returns a Metrics implementation that discards everything.
func NewNopMetrics() Metrics { return nopMetrics{} }
