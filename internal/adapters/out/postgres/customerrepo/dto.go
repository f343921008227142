// Package customerrepo persists customer aggregates with GORM.
package customerrepo

import (
	"tiffin/internal/core/domain/model/customer"
	"tiffin/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerDTO is the row shape of the customers table.
type CustomerDTO struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FirstName            string          `gorm:"not null"`
	LastName             string          `gorm:"not null"`
	Email                string          `gorm:"not null;default:''"`
	Phone                string          `gorm:"not null;default:''"`
	Address              AddressDTO      `gorm:"embedded;embeddedPrefix:address_"`
	City                 string          `gorm:"not null"`
	Province             string          `gorm:"not null;default:''"`
	PostalCode           string          `gorm:"not null;default:''"`
	Location             LocationDTO     `gorm:"embedded"`
	DietaryRestrictions  string          `gorm:"not null;default:''"`
	DeliveryInstructions string          `gorm:"not null;default:''"`
	AccountBalance       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Status               string          `gorm:"type:varchar(16);not null;index"`
}

// TableName overrides GORM's default naming.
func (CustomerDTO) TableName() string {
	return "customers"
}

// AddressDTO holds the street lines; city, province and postal code are
// top-level columns because reports group by city.
type AddressDTO struct {
	Line1 string `gorm:"not null"`
	Line2 string `gorm:"not null;default:''"`
}

// LocationDTO is the optional geocoded position. Both columns are null or
// neither is.
type LocationDTO struct {
	Latitude  *float64
	Longitude *float64
}

func fromDomain(c *customer.Customer) CustomerDTO {
	var location LocationDTO
	if p := c.Location(); p != nil {
		lat, lon := p.Latitude(), p.Longitude()
		location = LocationDTO{Latitude: &lat, Longitude: &lon}
	}

	addr := c.Address()
	return CustomerDTO{
		ID:                   c.ID().Bytes(),
		FirstName:            c.FirstName(),
		LastName:             c.LastName(),
		Email:                c.Email(),
		Phone:                c.Phone(),
		Address:              AddressDTO{Line1: addr.Line1, Line2: addr.Line2},
		City:                 addr.City,
		Province:             addr.Province,
		PostalCode:           addr.PostalCode,
		Location:             location,
		DietaryRestrictions:  c.DietaryRestrictions(),
		DeliveryInstructions: c.DeliveryInstructions(),
		AccountBalance:       c.AccountBalance(),
		Status:               c.Status().String(),
	}
}

func toDomain(dto CustomerDTO) (*customer.Customer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := customer.ParseStatus(dto.Status)
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

	return customer.RestoreCustomer(customer.Params{
		ID:        id,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
		Phone:     dto.Phone,
		Address: customer.Address{
			Line1:      dto.Address.Line1,
			Line2:      dto.Address.Line2,
			City:       dto.City,
			Province:   dto.Province,
			PostalCode: dto.PostalCode,
		},
		Location:             location,
		DietaryRestrictions:  dto.DietaryRestrictions,
		DeliveryInstructions: dto.DeliveryInstructions,
		AccountBalance:       dto.AccountBalance,
	}, status)
}
