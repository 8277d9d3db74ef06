package recurring

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sethvargo/go-retry"
)

const (
	dlqBackoffBase = 5 * time.Second
	dlqBackoffCap  = 60 * time.Second
	dlqMaxAttempts = 3
)

// DLQConsumer drains a dead-letter topic, retrying each message through
// Processor with exponential backoff before giving up and alerting.
type DLQConsumer struct {
	reader    *kafka.Reader
	processor *Processor
}

// NewDLQConsumer wires a DLQConsumer against the topic's own -dlq partner.
func NewDLQConsumer(brokers []string, dlqTopic, groupID string, processor *Processor) *DLQConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   dlqTopic,
		GroupID: groupID,
	})
	return &DLQConsumer{reader: reader, processor: processor}
}

// Close releases the DLQ reader.
func (d *DLQConsumer) Close() error {
	return d.reader.Close()
}

// Run reads and reprocesses dead-lettered messages until ctx is cancelled.
func (d *DLQConsumer) Run(ctx context.Context) error {
	for {
		msg, err := d.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		if err := d.Reprocess(ctx, msg.Value); err != nil {
			slog.Log(ctx, slog.LevelError+4, "recurring generator dlq: exhausted retries, paging",
				"partition", msg.Partition, "offset", msg.Offset, "error", err)
		}

		if err := d.reader.CommitMessages(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "recurring generator dlq: commit failed", "error", err)
		}
	}
}

// Reprocess runs raw at most dlqMaxAttempts times (the first attempt plus
// retries) with base-5s/factor-2 exponential backoff capped at 60s. It is also the manual reprocess
// operation: each call starts its own fresh retry budget, so an operator
// invoking it again on a message that previously exhausted its attempts is
// exactly "resetting the retry counter" — the counter lives for the
// duration of one Reprocess call, not on the message itself.
func (d *DLQConsumer) Reprocess(ctx context.Context, raw []byte) error {
	b, err := retry.NewExponential(dlqBackoffBase)
	if err != nil {
		return err
	}
	b = retry.WithCappedDuration(dlqBackoffCap, b)
	b = retry.WithMaxRetries(dlqMaxAttempts-1, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		handleErr := d.processor.Handle(ctx, raw)
		if handleErr != nil && IsRetryable(handleErr) {
			return retry.RetryableError(handleErr)
		}
		return handleErr
	})
}
