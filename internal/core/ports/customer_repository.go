package ports

import (
	"context"

	"tiffin/internal/core/domain/model/customer"
	"tiffin/internal/core/domain/model/kernel"
)

// CustomerRepository defines the persistence contract for customer aggregates.
type CustomerRepository interface {
	Add(ctx context.Context, aggregate *customer.Customer) error
	Update(ctx context.Context, aggregate *customer.Customer) error

	// Get retrieves a customer by identifier.
	// Returns errs.ObjectNotFoundError when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*customer.Customer, error)

	// GetMany returns the customers with the given identifiers keyed by ID
	// string. Unknown identifiers are absent from the map.
	GetMany(ctx context.Context, ids []kernel.UUID) (map[string]*customer.Customer, error)
}
