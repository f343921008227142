package deliveryrepo

import (
	"context"
	"errors"
	"slices"
	"time"

	"tiffin/internal/core/domain/model/delivery"
	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/pkg/errs"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDeliveryRepository implements ports.DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDeliveryRepository creates a new GORM delivery repository.
func NewGormDeliveryRepository(db *gorm.DB, tracker aggregateTracker) *GormDeliveryRepository {
	return &GormDeliveryRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new delivery.
func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
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

// Update writes the mutable columns of an existing delivery.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&DeliveryDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"status":            dto.Status,
		"estimated_arrival": dto.EstimatedArrival,
		"delivered_at":      dto.DeliveredAt,
	})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("delivery", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a delivery by ID.
func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return r.first(ctx, r.db, id, "id = ?")
}

// GetForUpdate retrieves a delivery by ID with SELECT ... FOR UPDATE.
func (r *GormDeliveryRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return r.first(ctx, r.locking(), id, "id = ?")
}

// FindByOrderForUpdate locks and returns the delivery of an order, or nil
// when the order has none.
func (r *GormDeliveryRepository) FindByOrderForUpdate(
	ctx context.Context,
	orderID kernel.UUID,
) (*delivery.Delivery, error) {
	d, err := r.first(ctx, r.locking(), orderID, "order_id = ?")
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	return d, err
}

// ListRoutable returns the scheduled and in-transit deliveries of a date.
func (r *GormDeliveryRepository) ListRoutable(ctx context.Context, date time.Time) ([]*delivery.Delivery, error) {
	var dtos []DeliveryDTO
	err := r.db.WithContext(ctx).
		Where("delivery_date = ?", datatypes.Date(kernel.DateOf(date))).
		Where("status IN ?", []string{delivery.Scheduled.String(), delivery.InTransit.String()}).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	deliveries := make([]*delivery.Delivery, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}

	return deliveries, nil
}

// ScheduleArrivals sets estimated_arrival on deliveries that are still
// routable. Status and delivered_at are never written here, so a status change
// committed after ListRoutable survives.
func (r *GormDeliveryRepository) ScheduleArrivals(
	ctx context.Context,
	arrivals map[kernel.UUID]time.Time,
) (int, error) {
	routable := []string{delivery.Scheduled.String(), delivery.InTransit.String()}

	// Fixed row order keeps concurrent optimizations of one date from deadlocking.
	ids := make([]kernel.UUID, 0, len(arrivals))
	for id := range arrivals {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, kernel.UUID.Compare)

	scheduled := 0
	for _, id := range ids {
		eta := arrivals[id]
		if err := id.Validate(); err != nil {
			return scheduled, err
		}

		result := r.db.WithContext(ctx).
			Model(&DeliveryDTO{}).
			Where("id = ?", id.Bytes()).
			Where("status IN ?", routable).
			Update("estimated_arrival", eta)
		if result.Error != nil {
			return scheduled, result.Error
		}
		scheduled += int(result.RowsAffected)
	}

	return scheduled, nil
}

func (r *GormDeliveryRepository) locking() *gorm.DB {
	return r.db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}

func (r *GormDeliveryRepository) first(
	ctx context.Context,
	db *gorm.DB,
	id kernel.UUID,
	condition string,
) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	if err := db.WithContext(ctx).First(&dto, condition, id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
