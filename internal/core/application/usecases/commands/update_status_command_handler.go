package commands

import (
	"context"
	"errors"
	"time"

	"tiffin/internal/core/domain/model/customer"
	"tiffin/internal/core/domain/model/delivery"
	"tiffin/internal/core/domain/model/order"
	"tiffin/internal/core/domain/services"
	"tiffin/internal/core/ports"
	"tiffin/internal/pkg/errs"

	"github.com/rs/zerolog"
)

// UpdateStatusResult carries both aggregates after a status update. Delivery is
// nil when the order has no delivery yet.
type UpdateStatusResult struct {
	Order    *order.Order
	Delivery *delivery.Delivery
}

// UpdateStatusCommandHandler applies a status change and its cascade to an
// order and its delivery in one transaction.
//
// The order row is always locked before the delivery row, whichever entity the
// command names, so two concurrent updates of the same pair serialize instead
// of deadlocking. The loser re-reads the committed state and fails with
// errs.InvalidTransitionError when its move is no longer legal.
//
// After commit one StatusChangedEvent per changed entity is published. A
// publish failure is logged and does not fail the command.
type UpdateStatusCommandHandler struct {
	uowFactory DispatchUoWFactory
	publisher  ports.EventPublisher
	metrics    ports.DispatchMetrics
	now        func() time.Time
	log        zerolog.Logger
}

// NewUpdateStatusCommandHandler creates the handler. A nil clock means time.Now.
func NewUpdateStatusCommandHandler(
	uowFactory DispatchUoWFactory,
	publisher ports.EventPublisher,
	metrics ports.DispatchMetrics,
	now func() time.Time,
	log zerolog.Logger,
) UpdateStatusCommandHandler {
	if now == nil {
		now = time.Now
	}
	return UpdateStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		metrics:    metrics,
		now:        now,
		log:        log,
	}
}

// Handle runs the update.
//
// Returns:
//   - the order and its delivery as committed
//   - errs.ObjectNotFoundError when the entity does not exist
//   - errs.InvalidTransitionError when either state machine rejects the change
func (h *UpdateStatusCommandHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (UpdateStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return UpdateStatusResult{}, err
	}

	result, events, err := h.apply(ctx, cmd)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidTransition) {
			h.metrics.ObserveRejectedTransition(string(cmd.Kind()))
		}
		return UpdateStatusResult{}, err
	}

	for _, e := range events {
		h.metrics.ObserveStatusChange(e.EntityKind, e.From, e.To)
	}
	if len(events) > 0 {
		if err := h.publisher.PublishStatusChanged(ctx, events...); err != nil {
			h.log.Warn().Err(err).
				Str("entity_kind", string(cmd.Kind())).
				Str("entity_id", cmd.EntityID().String()).
				Msg("status changed events were not published")
		}
	}

	return result, nil
}

func (h *UpdateStatusCommandHandler) apply(
	ctx context.Context,
	cmd UpdateStatusCommand,
) (UpdateStatusResult, []ports.StatusChangedEvent, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return UpdateStatusResult{}, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, d, err := h.lock(ctx, uow, cmd)
	if err != nil {
		return UpdateStatusResult{}, nil, err
	}

	orderBefore := o.Status()
	deliveryBefore := delivery.Unknown
	if d != nil {
		deliveryBefore = d.Status()
	}
	isNewDelivery := d == nil

	cascade := services.NewStatusCascade(h.now)
	switch cmd.Kind() {
	case EntityOrder:
		var c *customer.Customer
		if d == nil && createsDelivery(cmd.OrderTarget()) {
			if c, err = uow.CustomerRepository().Get(ctx, o.CustomerID()); err != nil {
				return UpdateStatusResult{}, nil, err
			}
		}
		if d, err = cascade.ChangeOrderStatus(o, d, c, cmd.OrderTarget()); err != nil {
			return UpdateStatusResult{}, nil, err
		}
	case EntityDelivery:
		if err = cascade.ChangeDeliveryStatus(d, o, cmd.DeliveryTarget()); err != nil {
			return UpdateStatusResult{}, nil, err
		}
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return UpdateStatusResult{}, nil, err
	}
	if d != nil {
		if isNewDelivery {
			err = uow.DeliveryRepository().Add(ctx, d)
		} else {
			err = uow.DeliveryRepository().Update(ctx, d)
		}
		if err != nil {
			return UpdateStatusResult{}, nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return UpdateStatusResult{}, nil, err
	}

	events := h.events(cmd, o, orderBefore, d, deliveryBefore)
	return UpdateStatusResult{Order: o, Delivery: d}, events, nil
}

// lock loads the order and its delivery FOR UPDATE, order first.
func (h *UpdateStatusCommandHandler) lock(
	ctx context.Context,
	uow DispatchUoW,
	cmd UpdateStatusCommand,
) (*order.Order, *delivery.Delivery, error) {
	orderRepo := uow.OrderRepository()
	deliveryRepo := uow.DeliveryRepository()

	if cmd.Kind() == EntityOrder {
		o, err := orderRepo.GetForUpdate(ctx, cmd.EntityID())
		if err != nil {
			return nil, nil, err
		}
		d, err := deliveryRepo.FindByOrderForUpdate(ctx, o.ID())
		if err != nil {
			return nil, nil, err
		}
		return o, d, nil
	}

	// The delivery's order id never changes, so an unlocked read is enough to
	// find which order row to lock first.
	unlocked, err := deliveryRepo.Get(ctx, cmd.EntityID())
	if err != nil {
		return nil, nil, err
	}
	o, err := orderRepo.GetForUpdate(ctx, unlocked.OrderID())
	if err != nil {
		return nil, nil, err
	}
	d, err := deliveryRepo.GetForUpdate(ctx, cmd.EntityID())
	if err != nil {
		return nil, nil, err
	}
	return o, d, nil
}

func (h *UpdateStatusCommandHandler) events(
	cmd UpdateStatusCommand,
	o *order.Order,
	orderBefore order.Status,
	d *delivery.Delivery,
	deliveryBefore delivery.Status,
) []ports.StatusChangedEvent {
	at := h.now().UTC()
	causedBy := string(cmd.Kind()) + ":" + cmd.EntityID().String()

	var events []ports.StatusChangedEvent
	if o.Status() != orderBefore {
		e := ports.StatusChangedEvent{
			EntityKind: string(EntityOrder),
			EntityID:   o.ID().String(),
			OrderID:    o.ID().String(),
			From:       orderBefore.String(),
			To:         o.Status().String(),
			OccurredAt: at,
		}
		if cmd.Kind() != EntityOrder {
			e.CausedBy = causedBy
		}
		events = append(events, e)
	}
	if d != nil && d.Status() != deliveryBefore {
		from := ""
		if deliveryBefore != delivery.Unknown {
			from = deliveryBefore.String()
		}
		e := ports.StatusChangedEvent{
			EntityKind: string(EntityDelivery),
			EntityID:   d.ID().String(),
			OrderID:    o.ID().String(),
			From:       from,
			To:         d.Status().String(),
			OccurredAt: at,
		}
		if cmd.Kind() != EntityDelivery {
			e.CausedBy = causedBy
		}
		events = append(events, e)
	}
	return events
}

func createsDelivery(target order.Status) bool {
	return target == order.Packed || target == order.OutForDelivery || target == order.Delivered
}
