package subscriptionrepo

import (
	"context"
	"time"

	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/subscription"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormSubscriptionRepository implements ports.SubscriptionRepository using GORM.
type GormSubscriptionRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormSubscriptionRepository creates a new GORM subscription repository.
func NewGormSubscriptionRepository(db *gorm.DB, tracker aggregateTracker) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new subscription.
func (r *GormSubscriptionRepository) Add(ctx context.Context, aggregate *subscription.Subscription) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// ListActiveOn returns active subscriptions covering date, ordered by ID.
func (r *GormSubscriptionRepository) ListActiveOn(
	ctx context.Context,
	date time.Time,
) ([]*subscription.Subscription, error) {
	day := datatypes.Date(kernel.DateOf(date))

	var dtos []SubscriptionDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", subscription.Active.String()).
		Where("start_date <= ?", day).
		Where("(end_date IS NULL OR end_date >= ?)", day).
		Where("NOT (pause_start IS NOT NULL AND pause_end IS NOT NULL AND ? BETWEEN pause_start AND pause_end)", day).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	subs := make([]*subscription.Subscription, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}

	return subs, nil
}
