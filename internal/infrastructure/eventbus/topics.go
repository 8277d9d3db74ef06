// Package eventbus implements the Event Publisher (component E): CloudEvents
// envelope construction over a Kafka producer, plus the Recurring Generator
// and Reminder Scheduler's consumer-side topic/partition conventions.
package eventbus

import (
	"crypto/md5" //nolint:gosec // used only for partition distribution, not security
	"encoding/binary"

	"github.com/tasktrack/platform/internal/domain"
)

const (
	TopicTaskOperations    = "task-operations"
	TopicAlerts            = "alerts"
	TopicTaskModifications = "task-modifications"

	DLQSuffix = "-dlq"

	PartitionsPerTopic = 12

	ConsumerGroupRecurring    = "recurring-task-service-group"
	ConsumerGroupNotification = "notification-service-group"
)

// topicForEventType mirrors the producer's topic-routing table: all task.*
// types land on task-operations except task.updated, which routes to
// task-modifications so high-volume field edits don't compete with the
// lower-volume lifecycle events the Recurring Generator actually consumes.
var topicForEventType = map[domain.EventType]string{
	domain.EventTaskCreated:    TopicTaskOperations,
	domain.EventTaskCompleted:  TopicTaskOperations,
	domain.EventTaskDeleted:    TopicTaskOperations,
	domain.EventTaskUpdated:    TopicTaskModifications,
	domain.EventAlertScheduled: TopicAlerts,
	domain.EventAlertCancelled: TopicAlerts,
}

// TopicFor resolves the Kafka topic for a CloudEvents type.
func TopicFor(eventType domain.EventType) (string, bool) {
	t, ok := topicForEventType[eventType]
	return t, ok
}

// DLQTopic derives a topic's dead-letter topic name.
func DLQTopic(primary string) string {
	return primary + DLQSuffix
}

// PartitionKey computes the partition a user_id's events are routed to, so
// all events for the same user land on the same partition and preserve
// per-user ordering.
func PartitionKey(userID string) int {
	sum := md5.Sum([]byte(userID)) //nolint:gosec
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(PartitionsPerTopic))
}
