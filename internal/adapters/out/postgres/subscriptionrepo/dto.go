// Package subscriptionrepo persists subscriptions with GORM.
package subscriptionrepo

import (
	"time"

	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/subscription"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// SubscriptionDTO is the row shape of the subscriptions table.
type SubscriptionDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	PlanName     string          `gorm:"not null"`
	PlanPrice    decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	MealsPerWeek int             `gorm:"not null"`
	StartDate    datatypes.Date  `gorm:"not null"`
	EndDate      *datatypes.Date
	PauseStart   *datatypes.Date
	PauseEnd     *datatypes.Date
	Status       string `gorm:"type:varchar(16);not null"`
}

// TableName overrides GORM's default naming.
func (SubscriptionDTO) TableName() string {
	return "subscriptions"
}

func fromDomain(s *subscription.Subscription) SubscriptionDTO {
	pauseStart, pauseEnd := s.PauseWindow()
	plan := s.Plan()
	return SubscriptionDTO{
		ID:           s.ID().Bytes(),
		CustomerID:   s.CustomerID().Bytes(),
		PlanName:     plan.Name,
		PlanPrice:    plan.Price,
		MealsPerWeek: plan.MealsPerWeek,
		StartDate:    datatypes.Date(s.StartDate()),
		EndDate:      toDate(s.EndDate()),
		PauseStart:   toDate(pauseStart),
		PauseEnd:     toDate(pauseEnd),
		Status:       s.Status().String(),
	}
}

func toDomain(dto SubscriptionDTO) (*subscription.Subscription, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	status, err := subscription.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return subscription.RestoreSubscription(subscription.Params{
		ID:         id,
		CustomerID: customerID,
		Plan: subscription.Plan{
			Name:         dto.PlanName,
			Price:        dto.PlanPrice,
			MealsPerWeek: dto.MealsPerWeek,
		},
		StartDate:  time.Time(dto.StartDate),
		EndDate:    fromDate(dto.EndDate),
		PauseStart: fromDate(dto.PauseStart),
		PauseEnd:   fromDate(dto.PauseEnd),
	}, status)
}

func toDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(*t)
	return &d
}

func fromDate(d *datatypes.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}
