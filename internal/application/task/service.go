package task

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tasktrack/platform/internal/domain"
)

// Service is the Task Store (component D): durable rows, ownership
// enforcement, history emission, and the event-publish side effect that
// follows every mutation.
type Service struct {
	repo   Repository
	atomic Atomic
	pub    Publisher
	now    func() time.Time
}

// NewService wires a Service against its repository and publisher. atomic
// may be the same value as repo when the repository implementation also
// satisfies Atomic (the usual case in production); tests can pass a
// non-transactional fake for both.
func NewService(repo Repository, atomic Atomic, pub Publisher) *Service {
	return &Service{repo: repo, atomic: atomic, pub: pub, now: func() time.Time { return time.Now().UTC() }}
}

// Create validates title/description/tags, computes priority, and records a
// CREATED history row, all within a single transaction.
func (s *Service) Create(ctx context.Context, userID, title, description string, dueDate *time.Time, tags []string) (domain.Task, error) {
	title, err := domain.NewTitle(title)
	if err != nil {
		return domain.Task{}, err
	}
	description, err = domain.NewDescription(description)
	if err != nil {
		return domain.Task{}, err
	}
	if err := domain.ValidateTags(tags); err != nil {
		return domain.Task{}, err
	}

	now := s.now()
	t := domain.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Tags:        tags,
		Priority:    domain.ClassifyPriority(title, dueDate, now),
		Status:      domain.TaskStatusNotStarted,
		IsCompleted: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var created domain.Task
	err = s.atomic.Atomic(ctx, func(repo Repository) error {
		var err error
		created, err = repo.Create(ctx, t)
		if err != nil {
			return err
		}
		return repo.InsertHistory(ctx, s.historyRow(created.ID, created.Title, userID, domain.ActionCreated, "task created", now))
	})
	if err != nil {
		return domain.Task{}, err
	}

	s.publishCreated(ctx, created)
	return created, nil
}

// CreateFromSeries generates one task instance from a recurring series'
// template: the same validation and event-emission path as Create, but
// carrying series_id/recurrence_pattern onto the row and requiring a
// due_date (the generator always knows it — that's the occurrence it
// computed). Used by the Recurring Generator and by series creation for a
// series' first instance; it never calls Create, so the generated task.created event's own processing can never
// re-trigger generation.
func (s *Service) CreateFromSeries(ctx context.Context, userID string, template domain.TaskTemplate, dueDate time.Time, seriesID, recurrencePattern string) (domain.Task, error) {
	title, err := domain.NewTitle(template.Title)
	if err != nil {
		return domain.Task{}, err
	}
	description, err := domain.NewDescription(template.Description)
	if err != nil {
		return domain.Task{}, err
	}
	if err := domain.ValidateTags(template.Tags); err != nil {
		return domain.Task{}, err
	}

	now := s.now()
	due := dueDate
	seriesIDCopy := seriesID
	patternCopy := recurrencePattern
	t := domain.Task{
		ID:                uuid.NewString(),
		UserID:            userID,
		Title:             title,
		Description:       description,
		DueDate:           &due,
		Tags:              template.Tags,
		Priority:          domain.ClassifyPriority(title, &due, now),
		Status:            domain.TaskStatusNotStarted,
		IsCompleted:       false,
		CreatedAt:         now,
		UpdatedAt:         now,
		SeriesID:          &seriesIDCopy,
		RecurrencePattern: &patternCopy,
	}

	var created domain.Task
	err = s.atomic.Atomic(ctx, func(repo Repository) error {
		var err error
		created, err = repo.Create(ctx, t)
		if err != nil {
			return err
		}
		return repo.InsertHistory(ctx, s.historyRow(created.ID, created.Title, userID, domain.ActionCreated, "task generated from recurring series", now))
	})
	if err != nil {
		return domain.Task{}, err
	}

	s.publishCreated(ctx, created)
	return created, nil
}

// Get enforces ownership: NOT_FOUND when no row exists, FORBIDDEN when the
// row exists but belongs to a different user — the two are never conflated
// so existence is never leaked to a non-owner.
func (s *Service) Get(ctx context.Context, userID, id string) (domain.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	if t.UserID != userID {
		return domain.Task{}, &domain.ForbiddenError{Entity: "task", ID: id}
	}
	return t, nil
}

// ListAll returns incomplete tasks before complete ones, each group ordered
// by created_at descending.
func (s *Service) ListAll(ctx context.Context, userID string) ([]domain.Task, error) {
	tasks, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	return orderTasks(tasks), nil
}

func orderTasks(tasks []domain.Task) []domain.Task {
	incomplete := make([]domain.Task, 0, len(tasks))
	complete := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsCompleted {
			complete = append(complete, t)
		} else {
			incomplete = append(incomplete, t)
		}
	}
	sortByCreatedDesc(incomplete)
	sortByCreatedDesc(complete)
	return append(incomplete, complete...)
}

func sortByCreatedDesc(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
}

// Update applies patch, re-running the priority classifier only if title or
// due_date changed, syncing is_completed/completed_at with any status
// transition, and recording an UPDATED history row with a compact change
// list.
func (s *Service) Update(ctx context.Context, userID, id string, patch domain.TaskPatch) (domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return domain.Task{}, err
	}

	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return domain.Task{}, err
	}

	updated := current
	var changedFields []string
	updatedFields := make(map[string]any)

	if patch.HasTitle() {
		title, err := domain.NewTitle(patch.Title)
		if err != nil {
			return domain.Task{}, err
		}
		if title != current.Title {
			changedFields = append(changedFields, "title")
			updatedFields["title"] = title
		}
		updated.Title = title
	}
	if patch.HasDescription() {
		desc, err := domain.NewDescription(patch.Description)
		if err != nil {
			return domain.Task{}, err
		}
		if desc != current.Description {
			changedFields = append(changedFields, "description")
			updatedFields["description"] = desc
		}
		updated.Description = desc
	}
	if patch.HasDueDate() {
		if !sameInstant(current.DueDate, patch.DueDate) {
			changedFields = append(changedFields, "due_date")
			updatedFields["due_date"] = patch.DueDate
		}
		updated.DueDate = patch.DueDate
	}
	if patch.HasTags() {
		if err := domain.ValidateTags(patch.Tags); err != nil {
			return domain.Task{}, err
		}
		changedFields = append(changedFields, "tags")
		updatedFields["tags"] = patch.Tags
		updated.Tags = patch.Tags
	}
	if patch.HasStatus() {
		status, err := domain.NewTaskStatus(string(patch.Status))
		if err != nil {
			return domain.Task{}, err
		}
		changedFields = append(changedFields, "status")
		updatedFields["status"] = status
		updated.Status = status
		if status == domain.TaskStatusCompleted {
			now := s.now()
			updated.IsCompleted = true
			updated.CompletedAt = &now
			updatedFields["is_completed"] = true
			updatedFields["completed_at"] = now
		} else {
			updated.IsCompleted = false
			updated.CompletedAt = nil
			updatedFields["is_completed"] = false
			updatedFields["completed_at"] = nil
		}
		changedFields = append(changedFields, "is_completed", "completed_at")
	}

	effTitle, effDue, reclassify := domain.EffectiveClassificationInputs(
		current.Title, current.DueDate,
		titlePtrIfChanged(patch), patch.HasDueDate(), patch.DueDate,
	)
	if reclassify {
		updated.Priority = domain.ClassifyPriority(effTitle, effDue, s.now())
		changedFields = append(changedFields, "priority")
		updatedFields["priority"] = updated.Priority
	}
	updated.UpdatedAt = s.now()

	var result domain.Task
	err = s.atomic.Atomic(ctx, func(repo Repository) error {
		var err error
		result, err = repo.Update(ctx, updated)
		if err != nil {
			return err
		}
		return repo.InsertHistory(ctx, s.historyRowPtr(&id, result.Title, userID, domain.ActionUpdated, describeChanges(changedFields), updated.UpdatedAt))
	})
	if err != nil {
		return domain.Task{}, err
	}

	if len(updatedFields) > 0 {
		s.publish(ctx, func() error {
			return s.pub.PublishTaskUpdated(ctx, domain.TaskUpdatedData{
				TaskID: result.ID, UserID: result.UserID, UpdatedFields: updatedFields, UpdatedAt: result.UpdatedAt,
			})
		}, "task.updated", result.ID)
	}
	return result, nil
}

func describeChanges(fields []string) string {
	if len(fields) == 0 {
		return "no fields changed"
	}
	return "updated: " + strings.Join(fields, ", ")
}

func titlePtrIfChanged(patch domain.TaskPatch) *string {
	if !patch.HasTitle() {
		return nil
	}
	return &patch.Title
}

func sameInstant(a, b *time.Time) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Equal(*b)
}

// MarkComplete is update(status=COMPLETED) specialized to emit exactly
// task.completed — no path emits both task.completed and task.updated.
func (s *Service) MarkComplete(ctx context.Context, userID, id string) (domain.Task, error) {
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return domain.Task{}, err
	}
	now := s.now()
	updated := current
	updated.Status = domain.TaskStatusCompleted
	updated.IsCompleted = true
	updated.CompletedAt = &now
	updated.UpdatedAt = now

	var result domain.Task
	err = s.atomic.Atomic(ctx, func(repo Repository) error {
		var err error
		result, err = repo.Update(ctx, updated)
		if err != nil {
			return err
		}
		return repo.InsertHistory(ctx, s.historyRowPtr(&id, result.Title, userID, domain.ActionCompleted, "task marked complete", now))
	})
	if err != nil {
		return domain.Task{}, err
	}

	s.publish(ctx, func() error {
		return s.pub.PublishTaskCompleted(ctx, domain.TaskCompletedData{
			TaskID: result.ID, UserID: result.UserID, SeriesID: result.SeriesID,
			RecurrencePattern: result.RecurrencePattern, DueDate: result.DueDate, CompletedAt: now,
		})
	}, "task.completed", result.ID)
	return result, nil
}

// MarkIncomplete reverses completion, emitting task.updated (never
// task.completed) with the updated field set.
func (s *Service) MarkIncomplete(ctx context.Context, userID, id string) (domain.Task, error) {
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return domain.Task{}, err
	}
	now := s.now()
	updated := current
	updated.Status = domain.TaskStatusNotStarted
	updated.IsCompleted = false
	updated.CompletedAt = nil
	updated.UpdatedAt = now

	updatedFields := map[string]any{"status": domain.TaskStatusNotStarted, "is_completed": false, "completed_at": nil}

	var result domain.Task
	err = s.atomic.Atomic(ctx, func(repo Repository) error {
		var err error
		result, err = repo.Update(ctx, updated)
		if err != nil {
			return err
		}
		return repo.InsertHistory(ctx, s.historyRowPtr(&id, result.Title, userID, domain.ActionIncompleted, "task marked incomplete", now))
	})
	if err != nil {
		return domain.Task{}, err
	}

	s.publish(ctx, func() error {
		return s.pub.PublishTaskUpdated(ctx, domain.TaskUpdatedData{TaskID: result.ID, UserID: result.UserID, UpdatedFields: updatedFields, UpdatedAt: now})
	}, "task.updated", result.ID)
	return result, nil
}

// Delete records DELETED history first, then cascades the task's
// notifications away; history rows survive the task's own deletion.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	now := s.now()

	err = s.atomic.Atomic(ctx, func(repo Repository) error {
		if err := repo.InsertHistory(ctx, s.historyRowPtr(&id, current.Title, userID, domain.ActionDeleted, "task deleted", now)); err != nil {
			return err
		}
		if err := repo.DeleteNotificationsForTask(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, func() error {
		return s.pub.PublishTaskDeleted(ctx, domain.TaskDeletedData{TaskID: id, UserID: userID, SeriesID: current.SeriesID, DeletedAt: now})
	}, "task.deleted", id)
	return nil
}

// ListHistory returns a paginated, filterable audit trail for userID.
func (s *Service) ListHistory(ctx context.Context, userID string, filter domain.HistoryFilter) (domain.HistoryPage, error) {
	return s.repo.ListHistory(ctx, userID, filter)
}

// DeleteHistory removes a single audit row, scoped to userID so a
// mismatched owner behaves as NOT_FOUND rather than leaking another user's
// row.
func (s *Service) DeleteHistory(ctx context.Context, userID, historyID string) error {
	return s.repo.DeleteHistory(ctx, userID, historyID)
}

// WeeklyStats reports Monday 00:00:00 to Sunday 23:59:59 UTC totals.
func (s *Service) WeeklyStats(ctx context.Context, userID string) (Stats, error) {
	return s.repo.WeeklyStats(ctx, userID)
}

func (s *Service) historyRow(taskID, taskTitle, userID string, action domain.ActionType, description string, at time.Time) domain.TaskHistory {
	return s.historyRowPtr(&taskID, taskTitle, userID, action, description, at)
}

func (s *Service) historyRowPtr(taskID *string, taskTitle, userID string, action domain.ActionType, description string, at time.Time) domain.TaskHistory {
	return domain.TaskHistory{
		HistoryID:   uuid.NewString(),
		TaskID:      taskID,
		TaskTitle:   taskTitle,
		ActionType:  action,
		Description: description,
		Timestamp:   at,
		UserID:      userID,
	}
}

func (s *Service) publishCreated(ctx context.Context, t domain.Task) {
	s.publish(ctx, func() error {
		return s.pub.PublishTaskCreated(ctx, domain.TaskCreatedData{
			TaskID:            t.ID,
			UserID:            t.UserID,
			Title:             t.Title,
			Description:       t.Description,
			DueDate:           t.DueDate,
			Priority:          t.Priority,
			Tags:              t.Tags,
			IsRecurring:       t.SeriesID != nil,
			SeriesID:          t.SeriesID,
			RecurrencePattern: t.RecurrencePattern,
			CreatedAt:         t.CreatedAt,
		})
	}, "task.created", t.ID)
}

// publish runs fn, the one side effect the Task Store allows to fail
// without unwinding the mutation that triggered it: a dropped event is
// logged, not retried here, and never rolls back the durable row.
func (s *Service) publish(ctx context.Context, fn func() error, eventType, taskID string) {
	if s.pub == nil {
		return
	}
	if err := fn(); err != nil {
		slog.ErrorContext(ctx, "event publish failed", "event_type", eventType, "task_id", taskID, "error", err)
	}
}
