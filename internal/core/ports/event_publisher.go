package ports

import (
	"context"
	"time"
)

// StatusChangedEvent announces a committed status change of an order or a
// delivery. Cascaded changes are published as their own events and carry the
// triggering entity in CausedBy.
type StatusChangedEvent struct {
	EntityKind string    `json:"entity_kind"`
	EntityID   string    `json:"entity_id"`
	OrderID    string    `json:"order_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	CausedBy   string    `json:"caused_by,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher delivers domain events to other services. Publishing happens
// after commit; a failure never undoes the committed change.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, events ...StatusChangedEvent) error
}
