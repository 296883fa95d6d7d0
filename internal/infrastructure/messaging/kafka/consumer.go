package kafka

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/turtacn/DocLens-Intelligence/internal/config"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocLens-Intelligence/pkg/errors"
)

// ErrAlreadyRunning is returned by Run when the consumer loop is active.
var ErrAlreadyRunning = errors.New(errors.CodeConflict, "consumer already running")

// Handler processes one decoded event.  Returning an error leaves the
// message uncommitted so it is redelivered after a rebalance.
type Handler func(ctx context.Context, env *EventEnvelope) error

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer reads lifecycle events from one prefixed topic and dispatches
// them to a handler.
type Consumer struct {
	reader  ReaderInterface
	topic   string
	logger  logging.Logger
	metrics EventMetrics
	running atomic.Bool
	wg      sync.WaitGroup
}

// NewConsumer builds a group consumer for the given logical topic.
func NewConsumer(cfg config.KafkaConfig, topic string, logger logging.Logger, metrics EventMetrics) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.CodeInvalidParam, "kafka: no brokers configured")
	}
	if cfg.GroupID == "" {
		return nil, errors.New(errors.CodeInvalidParam, "kafka: group_id required")
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          TopicName(cfg.TopicPrefix, topic),
		MinBytes:       1,
		MaxBytes:       10 * 1024 * 1024,
		CommitInterval: cfg.CommitInterval,
		StartOffset:    kafkago.FirstOffset,
	})
	return NewConsumerWithReader(reader, topic, logger, metrics), nil
}

// NewConsumerWithReader wires an arbitrary reader.  Used by tests.
func NewConsumerWithReader(reader ReaderInterface, topic string, logger logging.Logger, metrics EventMetrics) *Consumer {
	if metrics == nil {
		metrics = NopEventMetrics()
	}
	return &Consumer{reader: reader, topic: topic, logger: logger, metrics: metrics}
}

// Run fetches messages until ctx is cancelled, invoking handler for each
// decoded envelope.  Undecodable messages are committed and skipped so a
// poison message cannot wedge the partition.
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	c.wg.Add(1)
	defer c.wg.Done()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || err == io.EOF {
				return nil
			}
			return errors.Wrap(err, errors.CodeMessagingError, "fetch message")
		}

		env, err := ParseEnvelope(msg)
		if err != nil {
			c.metrics.RecordConsumed(c.topic, false)
			c.logger.Error("skipping undecodable message",
				logging.String("topic", msg.Topic),
				logging.Int64("offset", msg.Offset),
				logging.Err(err))
			if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
				return errors.Wrap(commitErr, errors.CodeMessagingError, "commit message")
			}
			continue
		}

		if err := handler(ctx, env); err != nil {
			c.metrics.RecordConsumed(c.topic, false)
			c.logger.Error("event handler failed",
				logging.String("event_id", env.EventID),
				logging.String("event_type", env.EventType),
				logging.Err(err))
			// Left uncommitted for redelivery.
			continue
		}

		c.metrics.RecordConsumed(c.topic, true)
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return errors.Wrap(err, errors.CodeMessagingError, "commit message")
		}
	}
}

// Close stops the underlying reader.  Run returns once its current fetch
// is interrupted.
func (c *Consumer) Close() error {
	err := c.reader.Close()
	c.wg.Wait()
	return err
}
