package ports

import (
	"context"
	"time"

	"tiffin/internal/core/domain/model/delivery"
	"tiffin/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery aggregates.
type DeliveryRepository interface {
	// Add persists a new delivery. At most one delivery exists per order.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Get retrieves a delivery by identifier.
	// Returns errs.ObjectNotFoundError when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetForUpdate is Get with the row locked until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// FindByOrderForUpdate returns the locked delivery of an order, or
	// (nil, nil) when the order has none yet.
	FindByOrderForUpdate(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)

	// ListRoutable returns the scheduled and in-transit deliveries of a date,
	// ordered by ID.
	ListRoutable(ctx context.Context, date time.Time) ([]*delivery.Delivery, error)

	// ScheduleArrivals writes estimated arrivals only. A delivery that is no
	// longer scheduled or in transit keeps its row untouched. Returns the
	// number of deliveries that took their arrival.
	ScheduleArrivals(ctx context.Context, arrivals map[kernel.UUID]time.Time) (int, error)
}
