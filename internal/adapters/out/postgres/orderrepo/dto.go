// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO represents the database structure for persisting order aggregates.
// (customer_id, order_date, meal_type) carries the unique index that makes
// bulk creation idempotent.
type OrderDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_orders_slot,priority:1"`
	SubscriptionID  uuid.UUID       `gorm:"type:uuid;not null"`
	OrderDate       datatypes.Date  `gorm:"not null;uniqueIndex:idx_orders_slot,priority:2;index"`
	MealType        string          `gorm:"type:varchar(16);not null;uniqueIndex:idx_orders_slot,priority:3"`
	PlanName        string          `gorm:"not null"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	SpecialRequests string          `gorm:"not null;default:''"`
	Status          string          `gorm:"type:varchar(32);not null"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:              o.ID().Bytes(),
		CustomerID:      o.CustomerID().Bytes(),
		SubscriptionID:  o.SubscriptionID().Bytes(),
		OrderDate:       datatypes.Date(o.OrderDate()),
		MealType:        o.MealType().String(),
		PlanName:        o.PlanName(),
		TotalAmount:     o.TotalAmount(),
		SpecialRequests: o.SpecialRequests(),
		Status:          o.Status().String(),
	}
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	subscriptionID, err := kernel.UUIDFromBytes(dto.SubscriptionID[:])
	if err != nil {
		return nil, err
	}
	mealType, err := order.ParseMealType(dto.MealType)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Params{
		ID:              id,
		CustomerID:      customerID,
		SubscriptionID:  subscriptionID,
		OrderDate:       time.Time(dto.OrderDate),
		MealType:        mealType,
		PlanName:        dto.PlanName,
		TotalAmount:     dto.TotalAmount,
		SpecialRequests: dto.SpecialRequests,
	}, status)
}
