// Package notify is the room-scoped change feed. Delivery is best-effort and
// at-least-once: events may duplicate or drop, so consumers re-derive state
// from storage on every wake and also run a poll fallback.
package notify

import "context"

type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpPoll   Op = "poll" // synthetic, emitted by the fallback poller
)

// Event describes a row-level change in a room's records
type Event struct {
	RoomCode string `json:"roomCode"`
	Table    string `json:"table"` // rooms, players, submissions, votes, messages
	Op       Op     `json:"op"`
	ID       string `json:"id,omitempty"`
}

// Notifier publishes and subscribes to per-room events
type Notifier interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe returns a receive channel for the room and a cancel func.
	// The channel closes after cancel.
	Subscribe(ctx context.Context, roomCode string) (<-chan Event, func())
}
