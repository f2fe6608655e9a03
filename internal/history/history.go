package history

import (
	"context"
	"time"
)

// EventType names the collection operation that produced an event.
type EventType string

const (
	EventAdd    EventType = "add"
	EventDelete EventType = "delete"
	EventMoveUp EventType = "move_up"
	EventUpdate EventType = "update"
	EventSave   EventType = "save"
)

// Event records one persisted change to a chain.
// Position is the slot the operation targeted (-1 when not applicable);
// Length is the number of entries after the change.
type Event struct {
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Chain      string    `json:"chain"`
	Position   int       `json:"position"`
	Length     int       `json:"length"`
}

// Sink is a destination for chain change events (audit/analytics systems).
type Sink interface {
	Send(ctx context.Context, e Event) error
}

// Reader is implemented by sinks that can be queried back.
type Reader interface {
	Recent(ctx context.Context, chain string, limit int) ([]Event, error)
}

// Nop discards events.
type Nop struct{}

func (Nop) Send(context.Context, Event) error { return nil }
