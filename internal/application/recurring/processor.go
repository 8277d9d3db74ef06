// Package recurring implements the Recurring Generator (component F): a
// task.completed consumer that idempotently synthesizes the next instance
// of a recurring series.
package recurring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/tasktrack/platform/internal/domain"
	"github.com/tasktrack/platform/internal/recurrence"
)

// Processor runs the seven-step algorithm for a single delivered message.
type Processor struct {
	series SeriesStore
	tasks  TaskCreator
	dedup  Dedup
	now    func() time.Time
}

// NewProcessor wires a Processor against its dependencies.
func NewProcessor(series SeriesStore, tasks TaskCreator, dedup Dedup) *Processor {
	return &Processor{series: series, tasks: tasks, dedup: dedup, now: func() time.Time { return time.Now().UTC() }}
}

// Handle decodes one CloudEvents-enveloped Kafka message value and runs the
// generation algorithm. A nil return means the event is fully handled and
// safe to commit; a RetryableError means the broker should redeliver.
func (p *Processor) Handle(ctx context.Context, raw []byte) error {
	env := cloudevents.NewEvent()
	if err := json.Unmarshal(raw, &env); err != nil {
		// A malformed envelope can never succeed on retry.
		slog.ErrorContext(ctx, "recurring generator: malformed envelope", "error", err)
		return nil
	}

	// Step 1: type guard.
	if env.Type() != string(domain.EventTaskCompleted) {
		return nil
	}

	eventID := env.ID()

	// Step 2: idempotency.
	processed, err := p.dedup.IsProcessed(ctx, eventID)
	if err != nil {
		return Transient(fmt.Errorf("check processed: %w", err))
	}
	if processed {
		slog.DebugContext(ctx, "recurring generator: duplicate delivery skipped", "event_id", eventID)
		return nil
	}

	var data domain.TaskCompletedData
	if err := env.DataAs(&data); err != nil {
		slog.ErrorContext(ctx, "recurring generator: malformed task.completed payload", "event_id", eventID, "error", err)
		return p.markProcessed(ctx, eventID)
	}

	// Step 3: series check.
	if data.SeriesID == nil {
		return p.markProcessed(ctx, eventID)
	}

	// Step 4: liveness.
	series, err := p.series.GetSeries(ctx, *data.SeriesID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return p.markProcessed(ctx, eventID)
		}
		return Transient(fmt.Errorf("load series: %w", err))
	}
	if !series.IsActive {
		return p.markProcessed(ctx, eventID)
	}

	// Step 5: next occurrence. dtstart anchors on the completed instance's
	// own due_date — the instance that just completed is itself the most
	// recent occurrence in the series — not on the processing-time
	// completed_at (see SPEC_FULL.md's recurrence-anchor decision). A task
	// without a due_date was never on a cadence to begin with.
	if data.DueDate == nil {
		return p.markProcessed(ctx, eventID)
	}
	rule, err := recurrence.Parse(series.RecurrencePattern, *data.DueDate)
	if err != nil {
		slog.ErrorContext(ctx, "recurring generator: unparseable recurrence_pattern",
			"series_id", series.SeriesID, "pattern", series.RecurrencePattern, "error", err)
		return p.markProcessed(ctx, eventID)
	}
	next, err := recurrence.NextAfter(rule, *data.DueDate, *data.DueDate)
	if err != nil {
		slog.ErrorContext(ctx, "recurring generator: recurrence computation failed",
			"series_id", series.SeriesID, "error", err)
		return p.markProcessed(ctx, eventID)
	}
	if next == nil {
		return p.markProcessed(ctx, eventID)
	}

	// Step 6: generation, through the Task Store so history/events stay
	// centralized. This creates with task.created, never task.completed —
	// the loop only ever re-arms on a completion.
	if _, err := p.tasks.CreateFromSeries(ctx, series.UserID, series.BaseTaskTemplate, *next, series.SeriesID, series.RecurrencePattern); err != nil {
		return Transient(fmt.Errorf("generate next instance: %w", err))
	}

	// Step 7: mark processed.
	return p.markProcessed(ctx, eventID)
}

func (p *Processor) markProcessed(ctx context.Context, eventID string) error {
	now := p.now()
	event := domain.ProcessedEvent{EventID: eventID, ProcessedAt: now, ExpiresAt: now.Add(domain.ProcessedEventTTL)}
	if err := p.dedup.MarkProcessed(ctx, event); err != nil {
		return Transient(fmt.Errorf("mark processed: %w", err))
	}
	return nil
}
