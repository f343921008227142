package commands

import (
	"errors"
	"time"

	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"
	"tiffin/internal/pkg/errs"
	"tiffin/internal/pkg/guard"
)

var ErrBulkCreateOrdersCommandIsNotConstructed = errors.New(
	"BulkCreateOrdersCommand must be created via NewBulkCreateOrdersCommand constructor",
)

// BulkCreateOrdersCommand requests one pending order per active subscription
// for a calendar date and meal type.
//
// Example:
//
//	cmd, err := NewBulkCreateOrdersCommand(date, order.Lunch, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid command: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type BulkCreateOrdersCommand struct { //nolint:recvcheck //using for validation
	orderDate          time.Time
	mealType           order.MealType
	excludeCustomerIDs map[kernel.UUID]struct{}

	guard guard.ConstructorGuard
}

// NewBulkCreateOrdersCommand validates the date and meal type. Excluded
// customers are skipped even when their subscription is active.
func NewBulkCreateOrdersCommand(
	orderDate time.Time,
	mealType order.MealType,
	excludeCustomerIDs []kernel.UUID,
) (BulkCreateOrdersCommand, error) {
	command := BulkCreateOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderDate(orderDate),
		command.setMealType(mealType),
		command.setExcludeCustomerIDs(excludeCustomerIDs),
	); err != nil {
		return BulkCreateOrdersCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c BulkCreateOrdersCommand) Validate() error {
	return c.guard.Validate(ErrBulkCreateOrdersCommandIsNotConstructed)
}

// OrderDate returns the calendar date orders are created for.
func (c BulkCreateOrdersCommand) OrderDate() time.Time {
	return c.orderDate
}

// MealType returns the meal the orders are created for.
func (c BulkCreateOrdersCommand) MealType() order.MealType {
	return c.mealType
}

// IsExcluded reports whether the customer was excluded from this run.
func (c BulkCreateOrdersCommand) IsExcluded(customerID kernel.UUID) bool {
	_, ok := c.excludeCustomerIDs[customerID]
	return ok
}

func (c *BulkCreateOrdersCommand) setOrderDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("order date")
	}

	c.orderDate = kernel.DateOf(date)
	return nil
}

func (c *BulkCreateOrdersCommand) setMealType(mealType order.MealType) error {
	if err := mealType.Validate(); err != nil {
		return err
	}

	c.mealType = mealType
	return nil
}

func (c *BulkCreateOrdersCommand) setExcludeCustomerIDs(ids []kernel.UUID) error {
	c.excludeCustomerIDs = make(map[kernel.UUID]struct{}, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("excluded customer id", err)
		}
		c.excludeCustomerIDs[id] = struct{}{}
	}
	return nil
}
