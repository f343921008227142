package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Params carries the attributes of an order that are fixed at creation time.
type Params struct {
	ID             kernel.UUID
	CustomerID     kernel.UUID
	SubscriptionID kernel.UUID
	// OrderDate is normalized to its calendar date.
	OrderDate time.Time
	MealType  MealType
	// PlanName is a snapshot of the subscription plan name at creation.
	PlanName        string
	TotalAmount     decimal.Decimal
	SpecialRequests string
}

// Order is the aggregate root for one meal for one customer on one day. It owns
// the order status state machine; its Delivery is a separate aggregate kept in
// step by services.StatusCascade.
//
// Order follows these invariants:
//   - Identity, customer, subscription, date and meal type never change
//   - (customer, order date, meal type) is unique across all orders
//   - Total amount is never negative
//   - Status moves only along the transition table in Status
//   - Orders are never deleted; Cancelled is final
type Order struct {
	id              kernel.UUID
	customerID      kernel.UUID
	subscriptionID  kernel.UUID
	orderDate       time.Time
	mealType        MealType
	planName        string
	totalAmount     decimal.Decimal
	specialRequests string
	status          Status

	isConstructed bool
}

// NewOrder creates a Pending order.
//
// Parameters:
//   - p: creation attributes; every identifier must be valid, the date set,
//     the meal type valid, the plan name non-blank and the amount non-negative
//
// Returns:
//   - *Order: the created order in Pending status
//   - error: all validation errors joined
//
// Example:
//
//	o, err := order.NewOrder(order.Params{
//	    ID:             kernel.NewUUID(),
//	    CustomerID:     customerID,
//	    SubscriptionID: subscriptionID,
//	    OrderDate:      date,
//	    MealType:       order.Lunch,
//	    PlanName:       "Veg Deluxe",
//	    TotalAmount:    decimal.RequireFromString("12.50"),
//	})
func NewOrder(p Params) (*Order, error) {
	return build(p, Pending)
}

// RestoreOrder rebuilds an order loaded from persistence in the given status.
// It applies the same validation as NewOrder and additionally validates status.
func RestoreOrder(p Params, status Status) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	return build(p, status)
}

func build(p Params, status Status) (*Order, error) {
	o := &Order{
		status:          status,
		specialRequests: strings.TrimSpace(p.SpecialRequests),
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setCustomerID(p.CustomerID),
		o.setSubscriptionID(p.SubscriptionID),
		o.setOrderDate(p.OrderDate),
		o.setMealType(p.MealType),
		o.setPlanName(p.PlanName),
		o.setTotalAmount(p.TotalAmount),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the identifier of the ordering customer.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// SubscriptionID returns the subscription this order was generated from.
func (o *Order) SubscriptionID() kernel.UUID {
	return o.subscriptionID
}

// OrderDate returns the calendar date of the meal.
func (o *Order) OrderDate() time.Time {
	return o.orderDate
}

// MealType returns lunch or dinner.
func (o *Order) MealType() MealType {
	return o.mealType
}

// PlanName returns the plan name snapshot.
func (o *Order) PlanName() string {
	return o.planName
}

// TotalAmount returns the billed amount.
func (o *Order) TotalAmount() decimal.Decimal {
	return o.totalAmount
}

// SpecialRequests returns the free-text kitchen notes.
func (o *Order) SpecialRequests() string {
	return o.specialRequests
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// ChangeStatus applies a single transition of the order state machine.
//
// Returns:
//   - nil when the transition is legal and has been applied
//   - *errs.InvalidTransitionError when target is not a legal next state;
//     the order is left unchanged
func (o *Order) ChangeStatus(target Status) error {
	next, err := o.status.Transition(target)
	if err != nil {
		return err
	}

	o.status = next
	return nil
}

// MarkDelivered forces the order to Delivered regardless of how far along the
// chain it is. It is idempotent and is used when the linked delivery is
// confirmed. A cancelled order cannot be delivered.
func (o *Order) MarkDelivered() error {
	if o.status == Cancelled {
		return errs.NewInvalidTransitionError("order", o.status, Delivered)
	}

	o.status = Delivered
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setSubscriptionID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("subscription id", err)
	}
	o.subscriptionID = id
	return nil
}

func (o *Order) setOrderDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("order date")
	}
	o.orderDate = kernel.DateOf(date)
	return nil
}

func (o *Order) setMealType(mealType MealType) error {
	if err := mealType.Validate(); err != nil {
		return err
	}
	o.mealType = mealType
	return nil
}

func (o *Order) setPlanName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("plan name")
	}
	o.planName = name
	return nil
}

func (o *Order) setTotalAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("total amount", fmt.Errorf("%s is negative", amount))
	}
	o.totalAmount = amount
	return nil
}
