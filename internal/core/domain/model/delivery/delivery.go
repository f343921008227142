package delivery

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/pkg/errs"
)

// ErrDeliveryIsNotConstructed is returned when a Delivery was not created through
// NewDelivery or RestoreDelivery.
var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")

// Params carries the attributes of a delivery. Customer name, phone, address,
// zone and instructions are a snapshot of the customer taken when the order was
// packed; they are display data, never a source of truth.
type Params struct {
	ID               kernel.UUID
	OrderID          kernel.UUID
	CustomerName     string
	CustomerPhone    string
	Address          string
	Zone             string
	Instructions     string
	DeliveryDate     time.Time
	Location         *kernel.GeoPoint
	EstimatedArrival *time.Time
	DeliveredAt      *time.Time
}

// Delivery is the drop-off of exactly one order. It is created Scheduled when
// the order reaches packed and ends Delivered, Failed or Cancelled.
type Delivery struct {
	id               kernel.UUID
	orderID          kernel.UUID
	customerName     string
	customerPhone    string
	address          string
	zone             string
	instructions     string
	deliveryDate     time.Time
	location         *kernel.GeoPoint
	estimatedArrival *time.Time
	deliveredAt      *time.Time
	status           Status

	isConstructed bool
}

// NewDelivery creates a Scheduled delivery.
//
// Parameters:
//   - p: identifiers must be valid, customer name, address and delivery date set;
//     Location may be nil when the address has not been geocoded
//
// Returns:
//   - *Delivery in Scheduled status
//   - error: all validation errors joined
func NewDelivery(p Params) (*Delivery, error) {
	p.DeliveredAt = nil
	return build(p, Scheduled)
}

// RestoreDelivery rebuilds a delivery loaded from persistence.
func RestoreDelivery(p Params, status Status) (*Delivery, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	return build(p, status)
}

func build(p Params, status Status) (*Delivery, error) {
	d := &Delivery{
		customerPhone:    strings.TrimSpace(p.CustomerPhone),
		zone:             strings.TrimSpace(p.Zone),
		instructions:     p.Instructions,
		estimatedArrival: p.EstimatedArrival,
		deliveredAt:      p.DeliveredAt,
		status:           status,
		isConstructed:    true,
	}

	if err := errors.Join(
		d.setID(p.ID),
		d.setOrderID(p.OrderID),
		d.setCustomerName(p.CustomerName),
		d.setAddress(p.Address),
		d.setDeliveryDate(p.DeliveryDate),
		d.setLocation(p.Location),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// Validate ensures the Delivery instance was properly constructed.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

// IsEqual compares two deliveries by identifier.
func (d *Delivery) IsEqual(other *Delivery) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the delivery identifier.
func (d *Delivery) ID() kernel.UUID { return d.id }

// OrderID returns the delivered order.
func (d *Delivery) OrderID() kernel.UUID { return d.orderID }

// CustomerName returns the snapshot of the customer's full name.
func (d *Delivery) CustomerName() string { return d.customerName }

// CustomerPhone returns the snapshot of the customer's phone.
func (d *Delivery) CustomerPhone() string { return d.customerPhone }

// Address returns the single-line drop-off address.
func (d *Delivery) Address() string { return d.address }

// Zone returns the delivery zone (customer city).
func (d *Delivery) Zone() string { return d.zone }

// Instructions returns the drop-off notes.
func (d *Delivery) Instructions() string { return d.instructions }

// DeliveryDate returns the calendar date of the drop-off.
func (d *Delivery) DeliveryDate() time.Time { return d.deliveryDate }

// Location returns the geocoded drop-off point, or nil.
func (d *Delivery) Location() *kernel.GeoPoint { return d.location }

// EstimatedArrival returns the last planned arrival time, or nil.
func (d *Delivery) EstimatedArrival() *time.Time { return d.estimatedArrival }

// DeliveredAt returns when the delivery was confirmed, or nil.
func (d *Delivery) DeliveredAt() *time.Time { return d.deliveredAt }

// Status returns the current lifecycle status.
func (d *Delivery) Status() Status { return d.status }

// ChangeStatus applies a single transition of the delivery state machine. at is
// the moment of the change and becomes DeliveredAt when target is Delivered.
func (d *Delivery) ChangeStatus(target Status, at time.Time) error {
	next, err := d.status.Transition(target)
	if err != nil {
		return err
	}

	d.status = next
	if next == Delivered {
		d.deliveredAt = &at
	}
	return nil
}

// MarkDelivered forces the delivery to Delivered, passing through InTransit
// when still Scheduled. It is idempotent. Failed and cancelled deliveries
// cannot be delivered.
func (d *Delivery) MarkDelivered(at time.Time) error {
	switch d.status {
	case Delivered:
		return nil
	case Scheduled:
		if err := d.ChangeStatus(InTransit, at); err != nil {
			return err
		}
		return d.ChangeStatus(Delivered, at)
	case InTransit:
		return d.ChangeStatus(Delivered, at)
	case Unknown, Failed, Cancelled:
		return errs.NewInvalidTransitionError("delivery", d.status, Delivered)
	default:
		return errs.NewInvalidTransitionError("delivery", d.status, Delivered)
	}
}

// ScheduleArrival records the planned arrival time from an optimized route.
func (d *Delivery) ScheduleArrival(at time.Time) error {
	if d.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("estimated arrival",
			fmt.Errorf("%s delivery cannot be rescheduled", d.status))
	}
	d.estimatedArrival = &at
	return nil
}

func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Delivery) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order id", err)
	}
	d.orderID = id
	return nil
}

func (d *Delivery) setCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("customer name")
	}
	d.customerName = name
	return nil
}

func (d *Delivery) setAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	d.address = address
	return nil
}

func (d *Delivery) setDeliveryDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("delivery date")
	}
	d.deliveryDate = kernel.DateOf(date)
	return nil
}

func (d *Delivery) setLocation(location *kernel.GeoPoint) error {
	if location == nil {
		d.location = nil
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}
	loc := *location
	d.location = &loc
	return nil
}
