package commands

import (
	"context"
	"time"

	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/route"
	"tiffin/internal/core/domain/services"
	"tiffin/internal/core/ports"
)

// OptimizeRouteCommandHandler computes the route of a delivery date and stores
// each stop's estimated arrival on its delivery. The route itself is not
// persisted.
type OptimizeRouteCommandHandler struct {
	uowFactory   DeliveryUoWFactory
	optimizer    *services.RouteOptimizer
	defaultDepot kernel.GeoPoint
	metrics      ports.DispatchMetrics
}

// NewOptimizeRouteCommandHandler creates the handler. defaultDepot is used
// when the command does not name one.
func NewOptimizeRouteCommandHandler(
	uowFactory DeliveryUoWFactory,
	optimizer *services.RouteOptimizer,
	defaultDepot kernel.GeoPoint,
	metrics ports.DispatchMetrics,
) OptimizeRouteCommandHandler {
	return OptimizeRouteCommandHandler{
		uowFactory:   uowFactory,
		optimizer:    optimizer,
		defaultDepot: defaultDepot,
		metrics:      metrics,
	}
}

// Handle loads the scheduled and in-transit deliveries of the date and routes
// them.
//
// Returns:
//   - the route; empty when the date has nothing to deliver
//   - services.MissingLocationError, services.TooManyStopsError from the optimizer
func (h *OptimizeRouteCommandHandler) Handle(ctx context.Context, cmd OptimizeRouteCommand) (route.Route, error) {
	if err := cmd.Validate(); err != nil {
		return route.Route{}, err
	}

	depot := h.defaultDepot
	if cmd.Depot() != nil {
		depot = *cmd.Depot()
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return route.Route{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()
	deliveries, err := deliveryRepo.ListRoutable(ctx, cmd.DeliveryDate())
	if err != nil {
		return route.Route{}, err
	}

	started := time.Now()
	r, err := h.optimizer.Optimize(services.RouteRequest{
		DeliveryDate: cmd.DeliveryDate(),
		Depot:        depot,
		StartTime:    cmd.StartTime(),
		Deliveries:   deliveries,
	})
	if err != nil {
		return route.Route{}, err
	}
	elapsed := time.Since(started)

	byID := make(map[kernel.UUID]int, len(deliveries))
	for i, d := range deliveries {
		byID[d.ID()] = i
	}
	arrivals := make(map[kernel.UUID]time.Time, r.Len())
	for _, stop := range r.Stops {
		d := deliveries[byID[stop.DeliveryID]]
		if err = d.ScheduleArrival(stop.EstimatedArrival); err != nil {
			return route.Route{}, err
		}
		arrivals[d.ID()] = stop.EstimatedArrival
	}

	// Deliveries that left the routable set since the read keep their new status.
	if len(arrivals) > 0 {
		if _, err = deliveryRepo.ScheduleArrivals(ctx, arrivals); err != nil {
			return route.Route{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return route.Route{}, err
	}

	h.metrics.ObserveRoute(r.Len(), r.TotalDistanceKm, elapsed)
	return r, nil
}
