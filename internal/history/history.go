// Package history persists build and lint run events in SQLite.
package history

import (
	"context"
	"time"
)

// Event types recorded by the toolchain.
const (
	EventBuildStarted   = "build.started"
	EventBuildSucceeded = "build.succeeded"
	EventBuildFailed    = "build.failed"
	EventLintCompleted  = "lint.completed"
)

// Event is one recorded run event.
type Event struct {
	ID        int64             `json:"id"`
	RunID     string            `json:"run_id"`
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   []byte            `json:"payload,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Store persists and retrieves run events.
type Store interface {
	// Append adds a new event.
	Append(ctx context.Context, runID, eventType string, payload []byte, metadata map[string]string) error

	// Recent retrieves the most recent events, newest first.
	Recent(ctx context.Context, limit int) ([]Event, error)

	// ByRunID retrieves all events for one run in insertion order.
	ByRunID(ctx context.Context, runID string) ([]Event, error)

	// Range retrieves events within a time range in insertion order.
	Range(ctx context.Context, start, end time.Time) ([]Event, error)

	// Close releases resources.
	Close() error
}
