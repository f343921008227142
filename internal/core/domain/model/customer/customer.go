package customer

import (
	"errors"
	"strings"

	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrCustomerIsNotConstructed is returned when a Customer was not created through
// NewCustomer or RestoreCustomer.
var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")

// Address is a postal delivery address.
type Address struct {
	Line1      string
	Line2      string
	City       string
	Province   string
	PostalCode string
}

// Validate requires line 1 and city. City doubles as the delivery zone.
func (a Address) Validate() error {
	var err error
	if strings.TrimSpace(a.Line1) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("address line 1"))
	}
	if strings.TrimSpace(a.City) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("city"))
	}
	return err
}

// String renders a single-line address such as
// "12 King St, Unit 4, Langley, BC V3A 1A1". Empty parts are omitted.
func (a Address) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Line1, a.Line2, a.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if tail := strings.TrimSpace(strings.TrimSpace(a.Province) + " " + strings.TrimSpace(a.PostalCode)); tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}

// Params carries the attributes used to register or restore a customer.
type Params struct {
	ID                   kernel.UUID
	FirstName            string
	LastName             string
	Email                string
	Phone                string
	Address              Address
	Location             *kernel.GeoPoint
	DietaryRestrictions  string
	DeliveryInstructions string
	AccountBalance       decimal.Decimal
}

// Customer is a subscriber of the tiffin service. Identity and name are fixed
// after registration; address, location, balance and status change over time.
// Only active customers receive new orders.
type Customer struct {
	id                   kernel.UUID
	firstName            string
	lastName             string
	email                string
	phone                string
	address              Address
	location             *kernel.GeoPoint
	dietaryRestrictions  string
	deliveryInstructions string
	accountBalance       decimal.Decimal
	status               Status

	isConstructed bool
}

// NewCustomer registers an active customer.
func NewCustomer(p Params) (*Customer, error) {
	return build(p, Active)
}

// RestoreCustomer rebuilds a customer loaded from persistence.
func RestoreCustomer(p Params, status Status) (*Customer, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	return build(p, status)
}

func build(p Params, status Status) (*Customer, error) {
	c := &Customer{
		email:                strings.TrimSpace(p.Email),
		phone:                strings.TrimSpace(p.Phone),
		dietaryRestrictions:  p.DietaryRestrictions,
		deliveryInstructions: p.DeliveryInstructions,
		accountBalance:       p.AccountBalance,
		status:               status,
		isConstructed:        true,
	}

	if err := errors.Join(
		c.setID(p.ID),
		c.setName(p.FirstName, p.LastName),
		c.ChangeAddress(p.Address, p.Location),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate ensures the Customer instance was properly constructed.
func (c *Customer) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCustomerIsNotConstructed
	}
	return nil
}

// ID returns the customer identifier.
func (c *Customer) ID() kernel.UUID { return c.id }

// FirstName returns the given name.
func (c *Customer) FirstName() string { return c.firstName }

// LastName returns the family name.
func (c *Customer) LastName() string { return c.lastName }

// FullName returns "First Last".
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.firstName + " " + c.lastName)
}

// Email returns the contact email.
func (c *Customer) Email() string { return c.email }

// Phone returns the contact phone number.
func (c *Customer) Phone() string { return c.phone }

// Address returns the delivery address.
func (c *Customer) Address() Address { return c.address }

// Location returns the geocoded address, or nil when not geocoded yet.
func (c *Customer) Location() *kernel.GeoPoint { return c.location }

// Zone returns the delivery zone, which is the address city.
func (c *Customer) Zone() string { return c.address.City }

// DietaryRestrictions returns the free-text dietary notes.
func (c *Customer) DietaryRestrictions() string { return c.dietaryRestrictions }

// DeliveryInstructions returns the free-text drop-off notes.
func (c *Customer) DeliveryInstructions() string { return c.deliveryInstructions }

// AccountBalance returns the signed account balance.
func (c *Customer) AccountBalance() decimal.Decimal { return c.accountBalance }

// Status returns the account status.
func (c *Customer) Status() Status { return c.status }

// CanReceiveOrders reports whether bulk order creation may include the customer.
func (c *Customer) CanReceiveOrders() bool {
	return c.status == Active
}

// ChangeAddress replaces the address and its geocoded point. A nil location
// marks the new address as not geocoded.
func (c *Customer) ChangeAddress(address Address, location *kernel.GeoPoint) error {
	if err := address.Validate(); err != nil {
		return err
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return err
		}
		loc := *location
		location = &loc
	}
	c.address = address
	c.location = location
	return nil
}

// AdjustBalance adds delta (which may be negative) to the account balance.
func (c *Customer) AdjustBalance(delta decimal.Decimal) {
	c.accountBalance = c.accountBalance.Add(delta)
}

// ChangeStatus sets the account status. Any valid status may follow any other.
func (c *Customer) ChangeStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.status = status
	return nil
}

func (c *Customer) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Customer) setName(first, last string) error {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	var err error
	if first == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("first name"))
	}
	if last == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("last name"))
	}
	if err != nil {
		return err
	}
	c.firstName, c.lastName = first, last
	return nil
}
