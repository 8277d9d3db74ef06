package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/tasktrack/platform/internal/domain"
)

const eventSource = "backend-api"

// AuditWriter persists the TaskEvent row written only after the broker
// acknowledges a publish.
type AuditWriter interface {
	InsertTaskEvent(ctx context.Context, e domain.TaskEvent) error
}

// Publisher implements task.Publisher over a Kafka producer, building a
// CloudEvents v1.0 envelope for each Task Store mutation and writing the
// audit row only once the broker has acknowledged the write. It satisfies
// the component contract that a publish failure is logged, never retried
// inline, and never rolls back the store mutation that triggered it.
type Publisher struct {
	writer *kafka.Writer
	audit  AuditWriter
	now    func() time.Time
}

// NewPublisher wires a Publisher against a shared multi-topic kafka.Writer.
// The writer is configured acks=all/bounded-retries by the caller (see
// NewWriter); Publisher itself only builds envelopes and
// chooses partitions.
func NewPublisher(writer *kafka.Writer, audit AuditWriter) *Publisher {
	return &Publisher{writer: writer, audit: audit, now: func() time.Time { return time.Now().UTC() }}
}

// NewWriter builds the producer configuration: acks=all (RequireAll),
// bounded retries, string keys, UTF-8 JSON values. Writes are not
// idempotent: a retried write can be stored twice. kafka-go's Writer does
// not honour Message.Partition, so the balancer itself places each message
// on PartitionKey of its key (the user id).
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               kafka.BalancerFunc(func(msg kafka.Message, partitions ...int) int { return partitions[PartitionKey(string(msg.Key))%len(partitions)] }),
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: false,
		MaxAttempts:            5,
		BatchTimeout:           10 * time.Millisecond,
		Async:                  false,
	}
}

func (p *Publisher) PublishTaskCreated(ctx context.Context, data domain.TaskCreatedData) error {
	return p.publish(ctx, domain.EventTaskCreated, data.UserID, &data.TaskID, data)
}

func (p *Publisher) PublishTaskUpdated(ctx context.Context, data domain.TaskUpdatedData) error {
	return p.publish(ctx, domain.EventTaskUpdated, data.UserID, &data.TaskID, data)
}

func (p *Publisher) PublishTaskDeleted(ctx context.Context, data domain.TaskDeletedData) error {
	return p.publish(ctx, domain.EventTaskDeleted, data.UserID, &data.TaskID, data)
}

func (p *Publisher) PublishTaskCompleted(ctx context.Context, data domain.TaskCompletedData) error {
	return p.publish(ctx, domain.EventTaskCompleted, data.UserID, &data.TaskID, data)
}

// PublishAlertScheduled is the Reminder Scheduler's best-effort side-publish
// onto the alerts topic, carried alongside (never in place of) the durable
// Notification insert.
func (p *Publisher) PublishAlertScheduled(ctx context.Context, n domain.Notification) error {
	return p.publish(ctx, domain.EventAlertScheduled, n.UserID, &n.TaskID, domain.AlertScheduledData{
		NotificationID: n.ID,
		TaskID:         n.TaskID,
		UserID:         n.UserID,
		Message:        n.Message,
		Priority:       n.Priority,
		CreatedAt:      n.CreatedAt,
	})
}

func (p *Publisher) publish(ctx context.Context, eventType domain.EventType, userID string, taskID *string, data any) error {
	topic, ok := TopicFor(eventType)
	if !ok {
		return fmt.Errorf("eventbus: no topic mapped for event type %s", eventType)
	}

	env := cloudevents.NewEvent()
	env.SetID(uuid.NewString())
	env.SetType(string(eventType))
	env.SetSource(eventSource)
	env.SetSpecVersion(cloudevents.VersionV1)
	env.SetTime(p.now())
	if err := env.SetData(cloudevents.ApplicationJSON, data); err != nil {
		return fmt.Errorf("eventbus: encode envelope: %w", err)
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("eventbus: marshal envelope: %w", err)
	}

	msg := kafka.Message{
		Topic:     topic,
		Partition: PartitionKey(userID),
		Key:       []byte(userID),
		Value:     payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "event publish failed",
			"event_type", eventType, "topic", topic, "user_id", userID, "error", err)
		return fmt.Errorf("eventbus: publish %s: %w", eventType, err)
	}

	if p.audit == nil {
		return nil
	}
	auditErr := p.audit.InsertTaskEvent(ctx, domain.TaskEvent{
		EventID:     env.ID(),
		EventType:   eventType,
		UserID:      userID,
		TaskID:      taskID,
		Payload:     payload,
		PublishedAt: p.now(),
		CreatedAt:   p.now(),
	})
	if auditErr != nil {
		slog.ErrorContext(ctx, "task event audit row insert failed after acked publish",
			"event_type", eventType, "event_id", env.ID(), "error", auditErr)
	}
	return nil
}

// Close flushes and closes the underlying writer. Call on graceful shutdown.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
