package commands

import (
	"context"

	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"
	"tiffin/internal/core/ports"
)

// BulkCreateOrdersResult reports what a bulk run did with each active
// subscription of the date.
type BulkCreateOrdersResult struct {
	Created         int
	SkippedExisting int
	SkippedInactive int
	SkippedExcluded int
}

// Skipped is the number of subscriptions that did not produce a new order.
func (r BulkCreateOrdersResult) Skipped() int {
	return r.SkippedExisting + r.SkippedInactive + r.SkippedExcluded
}

// BulkCreateOrdersCommandHandler turns the subscriptions active on a date into
// pending orders.
//
// Running it twice for the same date and meal type creates nothing the second
// time: the (customer, date, meal type) unique index turns every repeat into
// SkippedExisting.
type BulkCreateOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	metrics    ports.DispatchMetrics
}

// NewBulkCreateOrdersCommandHandler creates the handler.
func NewBulkCreateOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	metrics ports.DispatchMetrics,
) BulkCreateOrdersCommandHandler {
	return BulkCreateOrdersCommandHandler{
		uowFactory: uowFactory,
		metrics:    metrics,
	}
}

// Handle creates the orders in a single transaction.
//
// A subscription is skipped when its customer is excluded by the command,
// is unknown or is not active, or already has an order for the slot.
func (h *BulkCreateOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd BulkCreateOrdersCommand,
) (BulkCreateOrdersResult, error) {
	if err := cmd.Validate(); err != nil {
		return BulkCreateOrdersResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return BulkCreateOrdersResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	subscriptions, err := uow.SubscriptionRepository().ListActiveOn(ctx, cmd.OrderDate())
	if err != nil {
		return BulkCreateOrdersResult{}, err
	}

	customerIDs := make([]kernel.UUID, 0, len(subscriptions))
	for _, sub := range subscriptions {
		customerIDs = append(customerIDs, sub.CustomerID())
	}
	customers, err := uow.CustomerRepository().GetMany(ctx, customerIDs)
	if err != nil {
		return BulkCreateOrdersResult{}, err
	}

	var result BulkCreateOrdersResult
	orderRepo := uow.OrderRepository()
	for _, sub := range subscriptions {
		if !sub.IsActiveOn(cmd.OrderDate()) {
			continue
		}
		if cmd.IsExcluded(sub.CustomerID()) {
			result.SkippedExcluded++
			continue
		}
		c, ok := customers[sub.CustomerID().String()]
		if !ok || !c.CanReceiveOrders() {
			result.SkippedInactive++
			continue
		}

		o, err := order.NewOrder(order.Params{
			ID:             kernel.NewUUID(),
			CustomerID:     sub.CustomerID(),
			SubscriptionID: sub.ID(),
			OrderDate:      cmd.OrderDate(),
			MealType:       cmd.MealType(),
			PlanName:       sub.Plan().Name,
			TotalAmount:    sub.DailyRate(),
		})
		if err != nil {
			return BulkCreateOrdersResult{}, err
		}

		created, err := orderRepo.AddIfAbsent(ctx, o)
		if err != nil {
			return BulkCreateOrdersResult{}, err
		}
		if created {
			result.Created++
		} else {
			result.SkippedExisting++
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return BulkCreateOrdersResult{}, err
	}

	h.metrics.ObserveOrdersCreated(result.Created, result.Skipped())
	return result, nil
}
