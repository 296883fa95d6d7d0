package kafka

import (
	"context"
	"sync/atomic"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/turtacn/DocLens-Intelligence/internal/config"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocLens-Intelligence/pkg/errors"
)

// ErrProducerClosed is returned by Publish after Close.
var ErrProducerClosed = errors.New(errors.CodeMessagingError, "producer closed")

// EventMetrics receives publish/consume outcomes.  The prometheus package
// provides the production implementation.
type EventMetrics interface {
	RecordPublished(topic string, ok bool)
	RecordConsumed(topic string, ok bool)
}

type nopEventMetrics struct{}

func (nopEventMetrics) RecordPublished(string, bool) {}
func (nopEventMetrics) RecordConsumed(string, bool)  {}

// NopEventMetrics returns an EventMetrics that discards all observations.
func NopEventMetrics() EventMetrics { return nopEventMetrics{} }

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Producer publishes analysis lifecycle events.
type Producer struct {
	writer      WriterInterface
	topicPrefix string
	source      string
	logger      logging.Logger
	metrics     EventMetrics
	closed      atomic.Bool
}

// NewProducer builds a Producer over a kafka.Writer configured from cfg.
// source names the publishing service and is stamped on every envelope.
func NewProducer(cfg config.KafkaConfig, source string, logger logging.Logger, metrics EventMetrics) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.CodeInvalidParam, "kafka: no brokers configured")
	}

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Balancer:     &kafkago.Hash{},
		MaxAttempts:  cfg.ProducerRetries + 1,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafkago.RequireAll,
		WriteTimeout: 10 * time.Second,
	}
	return NewProducerWithWriter(writer, cfg.TopicPrefix, source, logger, metrics), nil
}

// NewProducerWithWriter wires an arbitrary writer.  Used by tests.
func NewProducerWithWriter(writer WriterInterface, topicPrefix, source string, logger logging.Logger, metrics EventMetrics) *Producer {
	if metrics == nil {
		metrics = NopEventMetrics()
	}
	return &Producer{
		writer:      writer,
		topicPrefix: topicPrefix,
		source:      source,
		logger:      logger,
		metrics:     metrics,
	}
}

// Publish wraps payload in an envelope and writes it to the prefixed topic.
// key selects the partition; callers pass the analysis id.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	env, err := NewEventEnvelope(topic, p.source, payload)
	if err != nil {
		return err
	}
	full := TopicName(p.topicPrefix, topic)
	msg, err := env.ToMessage(full, key)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.RecordPublished(topic, false)
		return errors.Wrap(err, errors.CodeMessagingError, "publish "+topic)
	}

	p.metrics.RecordPublished(topic, true)
	p.logger.Debug("event published",
		logging.String("topic", full),
		logging.String("event_id", env.EventID),
		logging.String("key", key))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
