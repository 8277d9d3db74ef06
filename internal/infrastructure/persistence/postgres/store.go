// Package postgres implements the durable relational store behind the Task
// Store, the recurring-series CRUD surface, auth, the Conversation Store,
// the Reminder Scheduler's read/write surfaces, and the event audit trail —
// hand-authored pgx/v5 queries (see DESIGN.md for why this repo carries no
// code-generated query layer).
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasktrack/platform/internal/application/auth"
	"github.com/tasktrack/platform/internal/application/conversation"
	"github.com/tasktrack/platform/internal/application/notification"
	"github.com/tasktrack/platform/internal/application/recurring"
	"github.com/tasktrack/platform/internal/application/reminder"
	"github.com/tasktrack/platform/internal/application/series"
	"github.com/tasktrack/platform/internal/application/task"
	"github.com/tasktrack/platform/internal/infrastructure/eventbus"
)

// querier is the subset of pgxpool.Pool/pgx.Tx every query in this package
// needs. Each repo type holds one so the exact same methods run whether or
// not they're inside Atomic's transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TaskStore is the Task Store's durable repository: tasks, their audit
// history, and the notifications generated against them.
type TaskStore struct{ db querier }

// SeriesStore is the recurring-series CRUD surface's durable repository.
type SeriesStore struct{ db querier }

// AuthStore is the identity/session repository behind auth.Service.
type AuthStore struct{ db querier }

// ConversationStore is the Conversation Store's durable repository.
type ConversationStore struct{ db querier }

// ReminderStore is the Reminder Scheduler's read/write repository.
type ReminderStore struct{ db querier }

// EventStore is the audit-trail writer the event bus publisher calls after
// a broker acknowledges a publish.
type EventStore struct{ db querier }

var (
	_ task.Repository             = (*TaskStore)(nil)
	_ series.Repository           = (*SeriesStore)(nil)
	_ recurring.SeriesStore       = (*SeriesStore)(nil)
	_ auth.Repository             = (*AuthStore)(nil)
	_ conversation.Repository     = (*ConversationStore)(nil)
	_ reminder.DueTaskLister      = (*ReminderStore)(nil)
	_ reminder.NotificationStore  = (*ReminderStore)(nil)
	_ notification.Repository     = (*ReminderStore)(nil)
	_ eventbus.AuditWriter        = (*EventStore)(nil)
)

// timeNowUTC is the single clock read in this package, kept as a function so
// call sites read like every other application-layer clock dependency.
func timeNowUTC() time.Time { return time.Now().UTC() }

// Store is the composition root: one PostgreSQL connection pool, exposed as
// one differently-typed repository per application-layer interface, since a
// single type cannot satisfy both task.Repository and series.Repository
// (Create/Update collide by name across the two).
type Store struct {
	pool *pgxpool.Pool

	Task         *TaskStore
	Series       *SeriesStore
	Auth         *AuthStore
	Conversation *ConversationStore
	Reminder     *ReminderStore
	Event        *EventStore
}

// NewStore creates a PostgreSQL store with the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:         pool,
		Task:         &TaskStore{db: pool},
		Series:       &SeriesStore{db: pool},
		Auth:         &AuthStore{db: pool},
		Conversation: &ConversationStore{db: pool},
		Reminder:     &ReminderStore{db: pool},
		Event:        &EventStore{db: pool},
	}
}

// Pool returns the underlying connection pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// finalizeTx rolls back on error, commits on success.
func finalizeTx(ctx context.Context, tx pgx.Tx, err *error) {
	if *err != nil {
		slog.ErrorContext(ctx, "transaction failed, rolling back", "error", *err)
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "rollback failed", "original_error", *err, "rollback_error", rbErr)
		}
		return
	}
	*err = tx.Commit(ctx)
	if *err != nil {
		slog.ErrorContext(ctx, "transaction commit failed", "error", *err)
	}
}

// executeInTransaction runs fn against a querier scoped to a fresh
// transaction, with panic-safe rollback.
func (s *Store) executeInTransaction(ctx context.Context, operationName string, fn func(tx querier) error) (err error) {
	start := time.Now().UTC()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			slog.ErrorContext(ctx, "transaction panic, rolling back", "operation", operationName, "panic", p)
			_ = tx.Rollback(ctx)
			panic(p)
		}
		finalizeTx(ctx, tx, &err)
		if err == nil {
			slog.DebugContext(ctx, "transaction completed", "operation", operationName, "duration_ms", time.Since(start).Milliseconds())
		}
	}()

	err = fn(tx)
	return
}

// Atomic executes fn within a database transaction, passing it a
// task.Repository scoped to that transaction. The task service runs each of
// its mutations through it, so the task row and its history row land
// together.
func (s *Store) Atomic(ctx context.Context, fn func(repo task.Repository) error) error {
	return s.executeInTransaction(ctx, "atomic", func(tx querier) error {
		return fn(&TaskStore{db: tx})
	})
}
