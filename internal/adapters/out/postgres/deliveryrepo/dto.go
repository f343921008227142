// Package deliveryrepo persists delivery aggregates with GORM.
package deliveryrepo

import (
	"time"

	"tiffin/internal/core/domain/model/delivery"
	"tiffin/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DeliveryDTO is the row shape of the deliveries table. order_id is unique:
// an order has at most one delivery.
type DeliveryDTO struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerName     string         `gorm:"not null"`
	CustomerPhone    string         `gorm:"not null;default:''"`
	Address          string         `gorm:"not null"`
	Zone             string         `gorm:"not null;default:''"`
	Instructions     string         `gorm:"column:delivery_instructions;not null;default:''"`
	DeliveryDate     datatypes.Date `gorm:"not null;index:idx_deliveries_date_status,priority:1"`
	Location         LocationDTO    `gorm:"embedded"`
	Status           string         `gorm:"type:varchar(16);not null;index:idx_deliveries_date_status,priority:2"`
	EstimatedArrival *time.Time
	DeliveredAt      *time.Time
}

// TableName overrides GORM's default naming.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// LocationDTO is the optional geocoded drop-off position.
type LocationDTO struct {
	Latitude  *float64
	Longitude *float64
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	var location LocationDTO
	if p := d.Location(); p != nil {
		lat, lon := p.Latitude(), p.Longitude()
		location = LocationDTO{Latitude: &lat, Longitude: &lon}
	}

	return DeliveryDTO{
		ID:               d.ID().Bytes(),
		OrderID:          d.OrderID().Bytes(),
		CustomerName:     d.CustomerName(),
		CustomerPhone:    d.CustomerPhone(),
		Address:          d.Address(),
		Zone:             d.Zone(),
		Instructions:     d.Instructions(),
		DeliveryDate:     datatypes.Date(d.DeliveryDate()),
		Location:         location,
		Status:           d.Status().String(),
		EstimatedArrival: d.EstimatedArrival(),
		DeliveredAt:      d.DeliveredAt(),
	}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Location.Latitude != nil && dto.Location.Longitude != nil {
		p, geoErr := kernel.NewGeoPoint(*dto.Location.Latitude, *dto.Location.Longitude)
		if geoErr != nil {
			return nil, geoErr
		}
		location = &p
	}

	return delivery.RestoreDelivery(delivery.Params{
		ID:               id,
		OrderID:          orderID,
		CustomerName:     dto.CustomerName,
		CustomerPhone:    dto.CustomerPhone,
		Address:          dto.Address,
		Zone:             dto.Zone,
		Instructions:     dto.Instructions,
		DeliveryDate:     time.Time(dto.DeliveryDate),
		Location:         location,
		EstimatedArrival: dto.EstimatedArrival,
		DeliveredAt:      dto.DeliveredAt,
	}, status)
}
