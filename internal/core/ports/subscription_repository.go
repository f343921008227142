package ports

import (
	"context"
	"time"

	"tiffin/internal/core/domain/model/subscription"
)

// SubscriptionRepository defines the persistence contract for subscriptions.
type SubscriptionRepository interface {
	Add(ctx context.Context, aggregate *subscription.Subscription) error

	// ListActiveOn returns the subscriptions in active status whose service
	// period covers date and whose pause window does not, ordered by ID.
	ListActiveOn(ctx context.Context, date time.Time) ([]*subscription.Subscription, error)
}
