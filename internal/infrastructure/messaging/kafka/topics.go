// Package kafka carries analysis lifecycle events between the API server and
// the background workers.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/turtacn/DocLens-Intelligence/pkg/errors"
)

const (
	TopicDocumentSubmitted = "document.submitted"
	TopicDocumentAnalyzed  = "document.analyzed"
	TopicDocumentFailed    = "document.failed"
)

// TopicName applies the configured prefix to a logical topic name.
func TopicName(prefix, topic string) string {
	if prefix == "" {
		return topic
	}
	return prefix + "." + topic
}

// EventEnvelope standardizes event messages on the wire.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// DocumentSubmittedPayload announces a pending analysis to the workers.
type DocumentSubmittedPayload struct {
	AnalysisID    string    `json:"analysis_id"`
	DocumentHash  string    `json:"document_hash"`
	Language      string    `json:"language"`
	TextObjectKey string    `json:"text_object_key"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// DocumentAnalyzedPayload reports a completed analysis.
type DocumentAnalyzedPayload struct {
	AnalysisID   string    `json:"analysis_id"`
	DocumentHash string    `json:"document_hash"`
	IntentLabel  string    `json:"intent_label"`
	SummaryChars int       `json:"summary_chars"`
	BulletCount  int       `json:"bullet_count"`
	AnalyzedAt   time.Time `json:"analyzed_at"`
}

// DocumentFailedPayload reports an analysis that exhausted its retries.
type DocumentFailedPayload struct {
	AnalysisID string    `json:"analysis_id"`
	Reason     string    `json:"reason"`
	FailedAt   time.Time `json:"failed_at"`
}

// NewEventEnvelope wraps a payload in a versioned envelope.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the envelope payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.CodeSerialization, "event has no payload")
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "decode event payload")
	}
	return nil
}

// ToMessage renders the envelope as a broker message keyed by key so events
// for the same analysis stay ordered within a partition.
func (e *EventEnvelope) ToMessage(topic, key string) (kafkago.Message, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return kafkago.Message{}, errors.Wrap(err, errors.CodeSerialization, "marshal event envelope")
	}
	return kafkago.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: val,
		Time:  e.Timestamp,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(e.EventType)},
			{Key: "schema_version", Value: []byte(e.SchemaVersion)},
		},
	}, nil
}

// ParseEnvelope decodes a broker message back into an envelope.
func ParseEnvelope(msg kafkago.Message) (*EventEnvelope, error) {
	if len(msg.Value) == 0 {
		return nil, errors.New(errors.CodeSerialization, "empty message value")
	}
	var env EventEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "unmarshal event envelope")
	}
	return &env, nil
}
