package commands

import (
	"errors"
	"time"

	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/pkg/errs"
	"tiffin/internal/pkg/guard"
)

var ErrOptimizeRouteCommandIsNotConstructed = errors.New(
	"OptimizeRouteCommand must be created via NewOptimizeRouteCommand constructor",
)

// OptimizeRouteCommand requests the route for a delivery date. A nil depot
// means the configured default; a zero start time means now.
type OptimizeRouteCommand struct { //nolint:recvcheck //using for validation
	deliveryDate time.Time
	depot        *kernel.GeoPoint
	startTime    time.Time

	guard guard.ConstructorGuard
}

// NewOptimizeRouteCommand validates the date and the optional depot.
func NewOptimizeRouteCommand(
	deliveryDate time.Time,
	depot *kernel.GeoPoint,
	startTime time.Time,
) (OptimizeRouteCommand, error) {
	command := OptimizeRouteCommand{
		startTime: startTime,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDeliveryDate(deliveryDate),
		command.setDepot(depot),
	); err != nil {
		return OptimizeRouteCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c OptimizeRouteCommand) Validate() error {
	return c.guard.Validate(ErrOptimizeRouteCommandIsNotConstructed)
}

// DeliveryDate returns the routed date.
func (c OptimizeRouteCommand) DeliveryDate() time.Time {
	return c.deliveryDate
}

// Depot returns the requested depot, or nil for the default.
func (c OptimizeRouteCommand) Depot() *kernel.GeoPoint {
	return c.depot
}

// StartTime returns the departure time, zero for now.
func (c OptimizeRouteCommand) StartTime() time.Time {
	return c.startTime
}

func (c *OptimizeRouteCommand) setDeliveryDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("delivery date")
	}

	c.deliveryDate = kernel.DateOf(date)
	return nil
}

func (c *OptimizeRouteCommand) setDepot(depot *kernel.GeoPoint) error {
	if depot == nil {
		return nil
	}
	if err := depot.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("depot", err)
	}

	c.depot = depot
	return nil
}
