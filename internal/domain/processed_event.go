package domain

import "time"

// ProcessedEventTTL is how long a dedup record is retained after processing;
// replays of the same event id older than this are, in principle, no longer
// guaranteed to be deduplicated (the source topic's own retention is
// expected to be shorter than this in practice).
const ProcessedEventTTL = 7 * 24 * time.Hour

// ProcessedEvent is the Recurring Generator's idempotency record: written
// once an event has been fully handled so redelivery is silently skipped.
// Held in a durable, shared key-value surface so idempotency holds across
// consumer replicas and restarts.
type ProcessedEvent struct {
	EventID     string
	ProcessedAt time.Time
	ExpiresAt   time.Time
	Metadata    map[string]string
}
