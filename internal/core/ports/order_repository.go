// Package ports defines the contracts between the dispatch core and its adapters:
// repositories, the unit of work, the event publisher and the metrics sink.
package ports

import (
	"context"
	"time"

	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order. It fails if an order with the same ID or the
	// same (customer, order date, meal type) already exists.
	Add(ctx context.Context, aggregate *order.Order) error

	// AddIfAbsent inserts the order unless one already exists for its
	// (customer, order date, meal type). It reports whether a row was inserted;
	// a uniqueness conflict is not an error.
	AddIfAbsent(ctx context.Context, aggregate *order.Order) (bool, error)

	// Update persists changes to an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by identifier.
	// Returns errs.ObjectNotFoundError when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate is Get with the row locked until the transaction ends.
	// Status updates lock the order before its delivery.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListByDate returns all orders for a calendar date, ordered by ID.
	ListByDate(ctx context.Context, date time.Time) ([]*order.Order, error)
}
