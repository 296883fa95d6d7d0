package prometheus

import (
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/messaging/kafka"
)

// eventMetrics feeds broker publish/consume outcomes into AppMetrics.
type eventMetrics struct {
	app *AppMetrics
}

// NewEventMetrics adapts AppMetrics to the messaging layer's metrics hook.
func NewEventMetrics(app *AppMetrics) kafka.EventMetrics {
	return &eventMetrics{app: app}
}

func (m *eventMetrics) RecordPublished(topic string, ok bool) {
	m.app.EventsPublished.WithLabelValues(topic, statusLabel(ok)).Inc()
}

func (m *eventMetrics) RecordConsumed(topic string, ok bool) {
	m.app.EventsConsumed.WithLabelValues(topic, statusLabel(ok)).Inc()
}

func statusLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
