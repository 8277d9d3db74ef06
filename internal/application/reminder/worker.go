package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	cronlib "github.com/robfig/cron/v3"
)

// DefaultCheckInterval is CHECK_INTERVAL from §4.G.
const DefaultCheckInterval = 10 * time.Minute

// lateRunThreshold: a tick scheduled more than this long ago and only now
// firing (the process was starved, or woke from a long GC pause) is treated
// as a missed run and skipped rather than fired late against a stale "now".
const lateRunThreshold = 5 * time.Minute

// Worker owns the Reminder Scheduler's lifecycle (component J): start the
// cron-driven cadence on boot, stop it gracefully on shutdown, and expose a
// liveness/readiness contract. A single cron entry with SkipIfStillRunning
// ensures at most one tick runs at a time; Recover converts a panicking
// tick into a logged error instead of taking the process down.
type Worker struct {
	scheduler *Scheduler
	interval  time.Duration

	cron        *cronlib.Cron
	mu          sync.Mutex
	started     bool
	lastRun     time.Time
	lastAttempt time.Time
}

// NewWorker wires a Worker. interval <= 0 falls back to DefaultCheckInterval.
func NewWorker(scheduler *Scheduler, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &Worker{scheduler: scheduler, interval: interval}
}

// Start schedules the recurring tick and begins running it in the
// background. Safe to call once; a second call is a no-op.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}

	c := cronlib.New(cronlib.WithChain(
		cronlib.SkipIfStillRunning(cronlib.DefaultLogger),
		cronlib.Recover(cronlib.DefaultLogger),
	))
	spec := fmt.Sprintf("@every %s", w.interval)
	if _, err := c.AddFunc(spec, func() { w.runTick(ctx) }); err != nil {
		return fmt.Errorf("reminder worker: schedule tick: %w", err)
	}
	c.Start()
	w.cron = c
	w.started = true
	slog.InfoContext(ctx, "reminder worker started", "interval", w.interval)
	return nil
}

// Stop halts the cadence and waits for any in-flight tick to finish.
func (w *Worker) Stop(ctx context.Context) {
	w.mu.Lock()
	c := w.cron
	w.started = false
	w.mu.Unlock()
	if c == nil {
		return
	}
	stopCtx := c.Stop()
	<-stopCtx.Done()
	slog.InfoContext(ctx, "reminder worker stopped")
}

func (w *Worker) runTick(ctx context.Context) {
	now := time.Now().UTC()

	w.mu.Lock()
	prev := w.lastAttempt
	w.lastAttempt = now
	w.mu.Unlock()

	// A process starved long enough that this tick fires well past its own
	// interval (missed ticks coalesce into one) is treated as a missed run
	// and skipped rather than computed against a now that's lagged reality.
	if !prev.IsZero() {
		if delay := now.Sub(prev) - w.interval; delay > lateRunThreshold {
			slog.WarnContext(ctx, "reminder worker: skipping late-firing tick", "delay", delay)
			return
		}
	}

	if err := w.scheduler.Tick(ctx); err != nil {
		slog.ErrorContext(ctx, "reminder worker: tick failed", "error", err)
		return
	}
	w.mu.Lock()
	w.lastRun = now
	w.mu.Unlock()
}

// Live reports process liveness: true once Start has been called.
func (w *Worker) Live() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.started
}

// Ready reports readiness: the scheduler is started and its last
// successful tick was within 2x the configured interval.
func (w *Worker) Ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return false
	}
	if w.lastRun.IsZero() {
		return false
	}
	return time.Since(w.lastRun) <= 2*w.interval
}
