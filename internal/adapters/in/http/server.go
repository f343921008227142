package http

import (
	"context"
	"net/http"
	"time"

	"tiffin/internal/core/application/usecases/commands"
	"tiffin/internal/core/application/usecases/queries"
	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"
	"tiffin/internal/core/domain/model/route"
	"tiffin/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type (
	// OptimizeRouteHandler computes the route of a day.
	OptimizeRouteHandler interface {
		Handle(ctx context.Context, cmd commands.OptimizeRouteCommand) (route.Route, error)
	}

	// UpdateStatusHandler moves an order or a delivery to a new status.
	UpdateStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateStatusCommand) (commands.UpdateStatusResult, error)
	}

	// BulkCreateOrdersHandler generates the orders of a day.
	BulkCreateOrdersHandler interface {
		Handle(ctx context.Context, cmd commands.BulkCreateOrdersCommand) (commands.BulkCreateOrdersResult, error)
	}

	// DailySummaryHandler reads the dashboard figures of a day.
	DailySummaryHandler interface {
		Handle(ctx context.Context, query queries.GetDailySummaryQuery) (queries.GetDailySummaryQueryResponse, error)
	}

	// PreparationListHandler reads the kitchen list of a day.
	PreparationListHandler interface {
		Handle(
			ctx context.Context,
			query queries.GetPreparationListQuery,
		) (queries.GetPreparationListQueryResponse, error)
	}

	// ListDeliveriesHandler reads the delivery sheet of a day.
	ListDeliveriesHandler interface {
		Handle(
			ctx context.Context,
			query queries.ListDeliveriesQuery,
		) ([]queries.ListDeliveriesQueryResponse, error)
	}
)

// Server exposes the dispatch use cases over HTTP. Handlers return errors and
// leave the status mapping to the error handler installed by NewEcho.
type Server struct {
	optimizeRoute    OptimizeRouteHandler
	updateStatus     UpdateStatusHandler
	bulkCreateOrders BulkCreateOrdersHandler
	dailySummary     DailySummaryHandler
	preparationList  PreparationListHandler
	listDeliveries   ListDeliveriesHandler

	now func() time.Time
}

// NewServer creates a server over the given use case handlers. A nil clock
// means time.Now; it supplies the route start time when a request omits it.
func NewServer(
	optimizeRoute OptimizeRouteHandler,
	updateStatus UpdateStatusHandler,
	bulkCreateOrders BulkCreateOrdersHandler,
	dailySummary DailySummaryHandler,
	preparationList PreparationListHandler,
	listDeliveries ListDeliveriesHandler,
	now func() time.Time,
) *Server {
	if now == nil {
		now = time.Now
	}
	return &Server{
		optimizeRoute:    optimizeRoute,
		updateStatus:     updateStatus,
		bulkCreateOrders: bulkCreateOrders,
		dailySummary:     dailySummary,
		preparationList:  preparationList,
		listDeliveries:   listDeliveries,
		now:              now,
	}
}

// OptimizeRoute handles POST /api/v1/routes/optimize.
func (s *Server) OptimizeRoute(c echo.Context) error {
	var req OptimizeRouteRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	var depot *kernel.GeoPoint
	if req.Depot != nil {
		p, err := kernel.NewGeoPoint(req.Depot.Latitude, req.Depot.Longitude)
		if err != nil {
			return err
		}
		depot = &p
	}

	start := s.now()
	if req.StartTime != nil {
		start = *req.StartTime
	}

	cmd, err := commands.NewOptimizeRouteCommand(req.DeliveryDate.Time, depot, start)
	if err != nil {
		return err
	}

	r, err := s.optimizeRoute.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, OptimizedRouteFrom(r))
}

// UpdateStatus handles POST /api/v1/status.
func (s *Server) UpdateStatus(c echo.Context) error {
	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	kind, err := commands.ParseEntityKind(req.EntityKind)
	if err != nil {
		return err
	}

	return s.applyStatus(c, kind, req.EntityID, req.TargetStatus)
}

// UpdateOrderStatus handles PUT /api/v1/orders/{id}/status.
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	return s.updateByPath(c, commands.EntityOrder)
}

// UpdateDeliveryStatus handles PUT /api/v1/deliveries/{id}/status.
func (s *Server) UpdateDeliveryStatus(c echo.Context) error {
	return s.updateByPath(c, commands.EntityDelivery)
}

func (s *Server) updateByPath(c echo.Context, kind commands.EntityKind) error {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("id", err)
	}

	var req StatusChange
	if err := c.Bind(&req); err != nil {
		return err
	}

	return s.applyStatus(c, kind, id, req.Status)
}

func (s *Server) applyStatus(c echo.Context, kind commands.EntityKind, id openapi_types.UUID, target string) error {
	entityID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateStatusCommand(kind, entityID, target)
	if err != nil {
		return err
	}

	result, err := s.updateStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, StatusUpdate{
		Order:    toOrder(result.Order),
		Delivery: toDelivery(result.Delivery),
	})
}

// BulkCreateOrders handles POST /api/v1/orders/bulk.
func (s *Server) BulkCreateOrders(c echo.Context) error {
	var req BulkCreateOrdersRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	mealType, err := order.ParseMealType(req.MealType)
	if err != nil {
		return err
	}

	excluded := make([]kernel.UUID, 0, len(req.ExcludeCustomers))
	for _, raw := range req.ExcludeCustomers {
		id, convErr := kernel.UUIDFromBytes(raw[:])
		if convErr != nil {
			return convErr
		}
		excluded = append(excluded, id)
	}

	cmd, err := commands.NewBulkCreateOrdersCommand(req.OrderDate.Time, mealType, excluded)
	if err != nil {
		return err
	}

	result, err := s.bulkCreateOrders.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, BulkCreateOrdersResponse{
		CreatedCount:    result.Created,
		SkippedCount:    result.Skipped(),
		SkippedExisting: result.SkippedExisting,
		SkippedInactive: result.SkippedInactive,
		SkippedExcluded: result.SkippedExcluded,
	})
}

// GetDailySummary handles GET /api/v1/summary.
func (s *Server) GetDailySummary(c echo.Context) error {
	date, err := bindDate(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetDailySummaryQuery(date)
	if err != nil {
		return err
	}

	summary, err := s.dailySummary.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toDailySummary(summary))
}

// GetPreparationList handles GET /api/v1/orders/preparation-list.
func (s *Server) GetPreparationList(c echo.Context) error {
	date, err := bindDate(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetPreparationListQuery(date, c.QueryParam("meal_type"))
	if err != nil {
		return err
	}

	list, err := s.preparationList.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPreparationList(list))
}

// ListDeliveries handles GET /api/v1/deliveries.
func (s *Server) ListDeliveries(c echo.Context) error {
	date, err := bindDate(c)
	if err != nil {
		return err
	}

	query, err := queries.NewListDeliveriesQuery(date, c.QueryParam("zone"), c.QueryParam("status"))
	if err != nil {
		return err
	}

	rows, err := s.listDeliveries.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]Delivery, 0, len(rows))
	for _, row := range rows {
		response = append(response, toListedDelivery(row))
	}

	return c.JSON(http.StatusOK, response)
}

func bindDate(c echo.Context) (time.Time, error) {
	var date openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, true, "date", c.QueryParams(), &date); err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause("date", err)
	}
	return date.Time, nil
}
