package recurring

import (
	"context"
	"errors"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// Consumer drives Processor off a kafka-go reader scoped to the
// recurring-task-service-group consumer group on task-operations. Offsets
// are committed only after Handle returns a non-retryable result, so a
// crash mid-processing redelivers rather than silently drops.
type Consumer struct {
	reader    *kafka.Reader
	processor *Processor
	dlq       *kafka.Writer
}

// NewConsumer wires a Consumer. dlq may be nil; Close closes it, and Run
// never writes to it, so no message is forwarded to a dead-letter topic: a
// permanent failure is logged and committed, a retryable one is logged and
// left uncommitted, with no local retry.
func NewConsumer(brokers []string, topic, groupID string, processor *Processor, dlq *kafka.Writer) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	return &Consumer{reader: reader, processor: processor, dlq: dlq}
}

// Run reads and handles messages until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return c.reader.Close()
			}
			return err
		}

		if err := c.processor.Handle(ctx, msg.Value); err != nil {
			if IsRetryable(err) {
				slog.ErrorContext(ctx, "recurring generator: transient failure, leaving uncommitted for redelivery",
					"partition", msg.Partition, "offset", msg.Offset, "error", err)
				continue // do not commit; broker redelivers on restart/rebalance
			}
			slog.ErrorContext(ctx, "recurring generator: permanent failure", "error", err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "recurring generator: commit failed", "error", err)
		}
	}
}

// Close releases the reader (and DLQ writer, if any).
func (c *Consumer) Close() error {
	if c.dlq != nil {
		_ = c.dlq.Close()
	}
	return c.reader.Close()
}
