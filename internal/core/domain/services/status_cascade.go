package services

import (
	"errors"
	"time"

	"tiffin/internal/core/domain/model/customer"
	"tiffin/internal/core/domain/model/delivery"
	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"
	"tiffin/internal/pkg/errs"
)

// StatusCascade is a domain service that keeps an order and its delivery in
// step when either one changes status.
//
// Order-driven rules:
//   - packed: the delivery is created (scheduled) from the customer if absent
//   - out_for_delivery: the delivery is created if absent and moved to in_transit
//   - delivered: the delivery is forced to delivered (via in_transit); a failed
//     or cancelled delivery rejects the whole change
//   - cancelled: a scheduled delivery is cancelled, an in_transit one failed
//
// Delivery-driven rules:
//   - in_transit: a packed order moves to out_for_delivery
//   - delivered: the order is forced to delivered
//   - failed, cancelled: the order is left alone
//
// Every rule is checked before anything is mutated, so on error neither
// aggregate has changed.
type StatusCascade struct {
	now func() time.Time
}

// NewStatusCascade creates a cascade stamping delivery times with now. A nil
// clock means time.Now.
func NewStatusCascade(now func() time.Time) StatusCascade {
	if now == nil {
		now = time.Now
	}
	return StatusCascade{now: now}
}

// ChangeOrderStatus moves o to target and applies the delivery side effects.
//
// Parameters:
//   - o: the order to change
//   - d: its delivery, or nil when none has been materialized yet
//   - c: the ordering customer; required only when a delivery must be created
//   - target: the requested order status
//
// Returns:
//   - the order's delivery after the change (newly created, updated, or d
//     unchanged); nil when the order still has no delivery
//   - *errs.InvalidTransitionError when either machine rejects the change
func (s StatusCascade) ChangeOrderStatus(
	o *order.Order,
	d *delivery.Delivery,
	c *customer.Customer,
	target order.Status,
) (*delivery.Delivery, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if d != nil && !d.OrderID().IsEqual(o.ID()) {
		return nil, errs.NewValueIsInvalidError("delivery does not belong to order")
	}
	if _, err := o.Status().Transition(target); err != nil {
		return nil, err
	}

	needsDelivery := target == order.Packed || target == order.OutForDelivery || target == order.Delivered
	if d == nil && needsDelivery {
		created, err := s.newDelivery(o, c)
		if err != nil {
			return nil, err
		}
		d = created
	}

	if err := s.checkOrderDriven(d, target); err != nil {
		return nil, err
	}

	if err := o.ChangeStatus(target); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}

	at := s.now()
	switch target {
	case order.OutForDelivery:
		if d.Status() == delivery.Scheduled {
			return d, d.ChangeStatus(delivery.InTransit, at)
		}
	case order.Delivered:
		return d, d.MarkDelivered(at)
	case order.Cancelled:
		switch d.Status() {
		case delivery.Scheduled:
			return d, d.ChangeStatus(delivery.Cancelled, at)
		case delivery.InTransit:
			return d, d.ChangeStatus(delivery.Failed, at)
		case delivery.Unknown, delivery.Delivered, delivery.Failed, delivery.Cancelled:
		}
	case order.Unknown, order.Pending, order.Preparing, order.Prepared, order.Packed:
	}

	return d, nil
}

func (s StatusCascade) checkOrderDriven(d *delivery.Delivery, target order.Status) error {
	if d == nil {
		return nil
	}
	switch target {
	case order.OutForDelivery:
		if d.Status() != delivery.Scheduled && d.Status() != delivery.InTransit {
			return errs.NewInvalidTransitionError("delivery", d.Status(), delivery.InTransit)
		}
	case order.Delivered:
		if d.Status() != delivery.Scheduled && d.Status() != delivery.InTransit && d.Status() != delivery.Delivered {
			return errs.NewInvalidTransitionError("delivery", d.Status(), delivery.Delivered)
		}
	case order.Cancelled:
		if d.Status() == delivery.Delivered {
			return errs.NewInvalidTransitionError("delivery", d.Status(), delivery.Cancelled)
		}
	case order.Unknown, order.Pending, order.Preparing, order.Prepared, order.Packed:
	}
	return nil
}

// ChangeDeliveryStatus moves d to target and applies the order side effects.
//
// Returns:
//   - *errs.InvalidTransitionError when the delivery machine rejects target, or
//     when the order cannot follow (e.g. the order was cancelled)
func (s StatusCascade) ChangeDeliveryStatus(d *delivery.Delivery, o *order.Order, target delivery.Status) error {
	if err := errors.Join(d.Validate(), o.Validate()); err != nil {
		return err
	}
	if !d.OrderID().IsEqual(o.ID()) {
		return errs.NewValueIsInvalidError("delivery does not belong to order")
	}
	if _, err := d.Status().Transition(target); err != nil {
		return err
	}

	switch target {
	case delivery.InTransit:
		if o.Status() != order.Packed && o.Status() != order.OutForDelivery {
			return errs.NewInvalidTransitionError("order", o.Status(), order.OutForDelivery)
		}
	case delivery.Delivered:
		if o.Status() == order.Cancelled {
			return errs.NewInvalidTransitionError("order", o.Status(), order.Delivered)
		}
	case delivery.Unknown, delivery.Scheduled, delivery.Failed, delivery.Cancelled:
	}

	if err := d.ChangeStatus(target, s.now()); err != nil {
		return err
	}

	switch target {
	case delivery.InTransit:
		if o.Status() == order.Packed {
			return o.ChangeStatus(order.OutForDelivery)
		}
	case delivery.Delivered:
		return o.MarkDelivered()
	case delivery.Unknown, delivery.Scheduled, delivery.Failed, delivery.Cancelled:
	}

	return nil
}

func (s StatusCascade) newDelivery(o *order.Order, c *customer.Customer) (*delivery.Delivery, error) {
	if err := c.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("customer", err)
	}
	if !c.ID().IsEqual(o.CustomerID()) {
		return nil, errs.NewValueIsInvalidError("customer does not own order")
	}

	return delivery.NewDelivery(delivery.Params{
		ID:            kernel.NewUUID(),
		OrderID:       o.ID(),
		CustomerName:  c.FullName(),
		CustomerPhone: c.Phone(),
		Address:       c.Address().String(),
		Zone:          c.Zone(),
		Instructions:  c.DeliveryInstructions(),
		DeliveryDate:  o.OrderDate(),
		Location:      c.Location(),
	})
}
