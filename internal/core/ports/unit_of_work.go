package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. Repositories handed
// out after Begin run inside the transaction.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction, e.g. after a successful Commit.
	Rollback(ctx context.Context) error

	CustomerRepository() CustomerRepository
	SubscriptionRepository() SubscriptionRepository
	OrderRepository() OrderRepository
	DeliveryRepository() DeliveryRepository
}
