package commands

import (
	"errors"
	"fmt"
	"strings"

	"tiffin/internal/core/domain/model/delivery"
	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"
	"tiffin/internal/pkg/errs"
	"tiffin/internal/pkg/guard"
)

var ErrUpdateStatusCommandIsNotConstructed = errors.New(
	"UpdateStatusCommand must be created via NewUpdateStatusCommand constructor",
)

// EntityKind names the aggregate a status update targets.
type EntityKind string

const (
	EntityOrder    EntityKind = "order"
	EntityDelivery EntityKind = "delivery"
)

// ParseEntityKind converts a wire name into an EntityKind.
func ParseEntityKind(s string) (EntityKind, error) {
	switch k := EntityKind(strings.ToLower(strings.TrimSpace(s))); k {
	case EntityOrder, EntityDelivery:
		return k, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("entity kind", fmt.Errorf("%q is not order or delivery", s))
	}
}

// UpdateStatusCommand requests a status change of an order or a delivery.
// The target status is parsed against the state machine of the entity kind.
type UpdateStatusCommand struct { //nolint:recvcheck //using for validation
	kind           EntityKind
	entityID       kernel.UUID
	orderTarget    order.Status
	deliveryTarget delivery.Status

	guard guard.ConstructorGuard
}

// NewUpdateStatusCommand validates the identifier and parses target for kind.
func NewUpdateStatusCommand(kind EntityKind, entityID kernel.UUID, target string) (UpdateStatusCommand, error) {
	command := UpdateStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setEntityID(entityID),
		command.setTarget(kind, target),
	); err != nil {
		return UpdateStatusCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateStatusCommandIsNotConstructed)
}

// Kind returns the targeted entity kind.
func (c UpdateStatusCommand) Kind() EntityKind {
	return c.kind
}

// EntityID returns the order or delivery identifier.
func (c UpdateStatusCommand) EntityID() kernel.UUID {
	return c.entityID
}

// OrderTarget returns the requested order status. Only meaningful for EntityOrder.
func (c UpdateStatusCommand) OrderTarget() order.Status {
	return c.orderTarget
}

// DeliveryTarget returns the requested delivery status. Only meaningful for EntityDelivery.
func (c UpdateStatusCommand) DeliveryTarget() delivery.Status {
	return c.deliveryTarget
}

// Target returns the requested status name.
func (c UpdateStatusCommand) Target() string {
	if c.kind == EntityDelivery {
		return c.deliveryTarget.String()
	}
	return c.orderTarget.String()
}

func (c *UpdateStatusCommand) setEntityID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("entity id", err)
	}

	c.entityID = id
	return nil
}

func (c *UpdateStatusCommand) setTarget(kind EntityKind, target string) error {
	switch kind {
	case EntityOrder:
		s, err := order.ParseStatus(target)
		if err != nil {
			return err
		}
		c.orderTarget = s
	case EntityDelivery:
		s, err := delivery.ParseStatus(target)
		if err != nil {
			return err
		}
		c.deliveryTarget = s
	default:
		_, err := ParseEntityKind(string(kind))
		return err
	}

	c.kind = kind
	return nil
}
