package task

import (
	"context"

	"github.com/tasktrack/platform/internal/domain"
)

// Publisher is the Event Publisher boundary the Task Store emits through.
// Implementations own CloudEvents envelope construction, the partition key
// (hash(user_id)), and the audit row written only after the broker
// acknowledges the publish. Publish failures never roll back the mutation
// that produced them — Service logs and continues.
type Publisher interface {
	PublishTaskCreated(ctx context.Context, data domain.TaskCreatedData) error
	PublishTaskUpdated(ctx context.Context, data domain.TaskUpdatedData) error
	PublishTaskDeleted(ctx context.Context, data domain.TaskDeletedData) error
	PublishTaskCompleted(ctx context.Context, data domain.TaskCompletedData) error
}
