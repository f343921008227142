package subscription

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrSubscriptionIsNotConstructed is returned when a Subscription was not created
// through NewSubscription or RestoreSubscription.
var ErrSubscriptionIsNotConstructed = errors.New("Subscription must be created via NewSubscription constructor")

// Status is the lifecycle status of a subscription.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota
	// Active subscriptions generate orders.
	Active
	// Paused subscriptions are on hold for their pause window.
	Paused
	// Cancelled subscriptions were ended by the customer.
	Cancelled
	// Expired subscriptions ran past their end date.
	Expired
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Active:    "active",
		Paused:    "paused",
		Cancelled: "cancelled",
		Expired:   "expired",
	}
}

// ParseStatus converts a wire name into a Status.
func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for st, str := range getStatusStrings() {
		if st != Unknown && str == name {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("subscription status", fmt.Errorf("%q is not a valid subscription status", s))
}

// Validate checks that s is one of the declared statuses.
func (s Status) Validate() error {
	if s <= Unknown || s > Expired {
		return errs.NewValueIsInvalidErrorWithCause("subscription status", fmt.Errorf("%d is not a valid subscription status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Plan is the snapshot of the meal plan a subscription was sold with.
type Plan struct {
	Name         string
	Price        decimal.Decimal
	MealsPerWeek int
}

// Validate requires a name, a non-negative price and at least one meal a week.
func (p Plan) Validate() error {
	var err error
	if strings.TrimSpace(p.Name) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("plan name"))
	}
	if p.Price.IsNegative() {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("plan price", fmt.Errorf("%s is negative", p.Price)))
	}
	if p.MealsPerWeek <= 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause(
			"meals per week", fmt.Errorf("%d is not greater than 0", p.MealsPerWeek)))
	}
	return err
}

// Params carries the attributes used to create or restore a subscription.
type Params struct {
	ID         kernel.UUID
	CustomerID kernel.UUID
	Plan       Plan
	StartDate  time.Time
	EndDate    *time.Time
	PauseStart *time.Time
	PauseEnd   *time.Time
}

// Subscription is a customer's recurring meal plan. Bulk order creation turns
// every subscription active on a date into one order per meal type.
type Subscription struct {
	id         kernel.UUID
	customerID kernel.UUID
	plan       Plan
	startDate  time.Time
	endDate    *time.Time
	pauseStart *time.Time
	pauseEnd   *time.Time
	status     Status

	isConstructed bool
}

// NewSubscription creates an active subscription.
func NewSubscription(p Params) (*Subscription, error) {
	return build(p, Active)
}

// RestoreSubscription rebuilds a subscription loaded from persistence.
func RestoreSubscription(p Params, status Status) (*Subscription, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	return build(p, status)
}

func build(p Params, status Status) (*Subscription, error) {
	s := &Subscription{
		status:        status,
		isConstructed: true,
	}

	if err := errors.Join(
		s.setID(p.ID),
		s.setCustomerID(p.CustomerID),
		s.setPlan(p.Plan),
		s.setPeriod(p.StartDate, p.EndDate),
		s.setPause(p.PauseStart, p.PauseEnd),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate ensures the Subscription instance was properly constructed.
func (s *Subscription) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSubscriptionIsNotConstructed
	}
	return nil
}

// ID returns the subscription identifier.
func (s *Subscription) ID() kernel.UUID { return s.id }

// CustomerID returns the subscribed customer.
func (s *Subscription) CustomerID() kernel.UUID { return s.customerID }

// Plan returns the plan snapshot.
func (s *Subscription) Plan() Plan { return s.plan }

// StartDate returns the first day of service.
func (s *Subscription) StartDate() time.Time { return s.startDate }

// EndDate returns the last day of service, or nil when open-ended.
func (s *Subscription) EndDate() *time.Time { return s.endDate }

// PauseWindow returns the inclusive pause window, or nils when not paused.
func (s *Subscription) PauseWindow() (*time.Time, *time.Time) { return s.pauseStart, s.pauseEnd }

// Status returns the lifecycle status.
func (s *Subscription) Status() Status { return s.status }

// IsActiveOn reports whether the subscription should produce an order on date:
// it is active, date lies within [start, end] and outside the pause window.
// Both window bounds are inclusive.
func (s *Subscription) IsActiveOn(date time.Time) bool {
	if s.status != Active {
		return false
	}
	d := kernel.DateOf(date)
	if d.Before(s.startDate) {
		return false
	}
	if s.endDate != nil && d.After(*s.endDate) {
		return false
	}
	if s.pauseStart != nil && s.pauseEnd != nil && !d.Before(*s.pauseStart) && !d.After(*s.pauseEnd) {
		return false
	}
	return true
}

// DailyRate is the price charged per generated order: plan price divided by
// meals per week, rounded half away from zero to cents.
//
// Example:
//
//	// Plan{Price: 89.99, MealsPerWeek: 6}
//	sub.DailyRate() // 15.00
func (s *Subscription) DailyRate() decimal.Decimal {
	return s.plan.Price.Div(decimal.NewFromInt(int64(s.plan.MealsPerWeek))).Round(2)
}

// Pause puts the subscription on hold for the inclusive window [from, to].
func (s *Subscription) Pause(from, to time.Time) error {
	if s.status != Active && s.status != Paused {
		return errs.NewValueIsInvalidErrorWithCause("subscription status",
			fmt.Errorf("%s subscription cannot be paused", s.status))
	}
	if err := s.setPause(&from, &to); err != nil {
		return err
	}
	s.status = Paused
	return nil
}

// Resume clears the pause window and reactivates the subscription.
func (s *Subscription) Resume() error {
	if s.status != Paused {
		return errs.NewValueIsInvalidErrorWithCause("subscription status",
			fmt.Errorf("%s subscription cannot be resumed", s.status))
	}
	s.pauseStart, s.pauseEnd = nil, nil
	s.status = Active
	return nil
}

func (s *Subscription) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Subscription) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}
	s.customerID = id
	return nil
}

func (s *Subscription) setPlan(plan Plan) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	plan.Name = strings.TrimSpace(plan.Name)
	s.plan = plan
	return nil
}

func (s *Subscription) setPeriod(start time.Time, end *time.Time) error {
	if start.IsZero() {
		return errs.NewValueIsRequiredError("start date")
	}
	s.startDate = kernel.DateOf(start)
	if end == nil {
		s.endDate = nil
		return nil
	}
	e := kernel.DateOf(*end)
	if e.Before(s.startDate) {
		return errs.NewValueIsInvalidErrorWithCause("end date", fmt.Errorf("%s is before start date %s",
			e.Format(kernel.DateLayout), s.startDate.Format(kernel.DateLayout)))
	}
	s.endDate = &e
	return nil
}

func (s *Subscription) setPause(from, to *time.Time) error {
	if from == nil && to == nil {
		s.pauseStart, s.pauseEnd = nil, nil
		return nil
	}
	if from == nil || to == nil {
		return errs.NewValueIsRequiredError("pause window needs both start and end")
	}
	f, t := kernel.DateOf(*from), kernel.DateOf(*to)
	if !f.Before(t) {
		return errs.NewValueIsInvalidErrorWithCause("pause window", fmt.Errorf("start %s is not before end %s",
			f.Format(kernel.DateLayout), t.Format(kernel.DateLayout)))
	}
	s.pauseStart, s.pauseEnd = &f, &t
	return nil
}
