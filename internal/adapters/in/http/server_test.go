package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapi "tiffin/internal/adapters/in/http"
	"tiffin/internal/core/application/usecases/commands"
	"tiffin/internal/core/application/usecases/queries"
	"tiffin/internal/core/domain/model/delivery"
	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"
	"tiffin/internal/core/domain/model/route"
	"tiffin/internal/core/domain/services"
	"tiffin/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	serviceDate = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	fixedNow    = serviceDate.Add(10 * time.Hour)
)

type MockOptimizeRoute struct{ mock.Mock }

func (m *MockOptimizeRoute) Handle(ctx context.Context, cmd commands.OptimizeRouteCommand) (route.Route, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(route.Route), args.Error(1)
}

type MockUpdateStatus struct{ mock.Mock }

func (m *MockUpdateStatus) Handle(
	ctx context.Context,
	cmd commands.UpdateStatusCommand,
) (commands.UpdateStatusResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.UpdateStatusResult), args.Error(1)
}

type MockBulkCreateOrders struct{ mock.Mock }

func (m *MockBulkCreateOrders) Handle(
	ctx context.Context,
	cmd commands.BulkCreateOrdersCommand,
) (commands.BulkCreateOrdersResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.BulkCreateOrdersResult), args.Error(1)
}

type MockDailySummary struct{ mock.Mock }

func (m *MockDailySummary) Handle(
	ctx context.Context,
	query queries.GetDailySummaryQuery,
) (queries.GetDailySummaryQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetDailySummaryQueryResponse), args.Error(1)
}

type MockPreparationList struct{ mock.Mock }

func (m *MockPreparationList) Handle(
	ctx context.Context,
	query queries.GetPreparationListQuery,
) (queries.GetPreparationListQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetPreparationListQueryResponse), args.Error(1)
}

type MockListDeliveries struct{ mock.Mock }

func (m *MockListDeliveries) Handle(
	ctx context.Context,
	query queries.ListDeliveriesQuery,
) ([]queries.ListDeliveriesQueryResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.ListDeliveriesQueryResponse), args.Error(1)
}

type testAPI struct {
	e        *echo.Echo
	optimize *MockOptimizeRoute
	status   *MockUpdateStatus
	bulk     *MockBulkCreateOrders
	summary  *MockDailySummary
	prep     *MockPreparationList
	list     *MockListDeliveries
	registry *prometheus.Registry
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	api := &testAPI{
		optimize: new(MockOptimizeRoute),
		status:   new(MockUpdateStatus),
		bulk:     new(MockBulkCreateOrders),
		summary:  new(MockDailySummary),
		prep:     new(MockPreparationList),
		list:     new(MockListDeliveries),
		registry: prometheus.NewRegistry(),
	}
	server := httpapi.NewServer(api.optimize, api.status, api.bulk, api.summary, api.prep, api.list,
		func() time.Time { return fixedNow })

	e, err := httpapi.NewEcho(t.Context(), server, zerolog.Nop(), httpapi.RouterOptions{
		Gatherer:      api.registry,
		EnableSwagger: true,
	})
	require.NoError(t, err)
	api.e = e
	return api
}

func (a *testAPI) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func packedOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(order.Params{
		ID:             kernel.NewUUID(),
		CustomerID:     kernel.NewUUID(),
		SubscriptionID: kernel.NewUUID(),
		OrderDate:      serviceDate,
		MealType:       order.Lunch,
		PlanName:       "Veg Deluxe",
		TotalAmount:    decimal.RequireFromString("15"),
	}, status)
	require.NoError(t, err)
	return o
}

func scheduledDelivery(t *testing.T, o *order.Order) *delivery.Delivery {
	t.Helper()
	location := kernel.MustGeoPoint(49.1044, -122.66)
	d, err := delivery.NewDelivery(delivery.Params{
		ID:           kernel.NewUUID(),
		OrderID:      o.ID(),
		CustomerName: "Priya Sharma",
		Address:      "20338 65 Ave, Langley",
		Zone:         "Langley",
		DeliveryDate: serviceDate,
		Location:     &location,
	})
	require.NoError(t, err)
	return d
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestOptimizeRoute_Success(t *testing.T) {
	// Arrange
	api := newTestAPI(t)
	depot := kernel.MustGeoPoint(49.1044, -122.8011)
	stop := kernel.MustGeoPoint(49.1044, -122.66)
	id := kernel.NewUUID()
	r := route.Route{
		DeliveryDate:      serviceDate,
		Depot:             depot,
		StartTime:         fixedNow,
		Algorithm:         route.AlgorithmNearestNeighborTwoOpt,
		TotalDistanceKm:   20.6789,
		EstimatedDuration: 41 * time.Minute,
		Stops: []route.Stop{{
			DeliveryID:           id,
			Sequence:             1,
			CustomerName:         "Priya Sharma",
			Address:              "20338 65 Ave, Langley",
			Location:             stop,
			LegDistanceKm:        10.3394,
			CumulativeDistanceKm: 10.3394,
			EstimatedArrival:     fixedNow.Add(20 * time.Minute),
		}},
	}
	api.optimize.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.OptimizeRouteCommand) bool {
		return cmd.DeliveryDate().Equal(serviceDate) && cmd.StartTime().Equal(fixedNow) && cmd.Depot() == nil
	})).Return(r, nil).Once()

	// Act
	rec := api.do(http.MethodPost, "/api/v1/routes/optimize", `{"delivery_date":"2025-03-10"}`)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[httpapi.OptimizedRoute](t, rec)
	assert.Equal(t, 1, body.TotalDeliveries)
	assert.InDelta(t, 20.68, body.TotalDistanceKm, 1e-9)
	assert.Equal(t, 41, body.EstimatedDurationMinutes)
	assert.Equal(t, "41m0s", body.EstimatedDuration)
	assert.Equal(t, route.AlgorithmNearestNeighborTwoOpt, body.Algorithm)
	require.Len(t, body.OptimizedRoute, 1)
	assert.Equal(t, id.String(), body.OptimizedRoute[0].DeliveryID.String())
	assert.InDelta(t, 10.34, body.OptimizedRoute[0].DistanceFromPreviousKm, 1e-9)
	assert.True(t, fixedNow.Add(20*time.Minute).Equal(body.OptimizedRoute[0].EstimatedTime))
	api.optimize.AssertExpectations(t)
}

func TestOptimizeRoute_PassesDepotAndStartTime(t *testing.T) {
	api := newTestAPI(t)
	start := serviceDate.Add(11 * time.Hour)
	api.optimize.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.OptimizeRouteCommand) bool {
		return cmd.Depot() != nil && cmd.Depot().Latitude() == 49.2 && cmd.StartTime().Equal(start)
	})).Return(route.Route{DeliveryDate: serviceDate}, nil).Once()

	rec := api.do(http.MethodPost, "/api/v1/routes/optimize",
		`{"delivery_date":"2025-03-10","depot":{"latitude":49.2,"longitude":-122.8},"start_time":"2025-03-10T11:00:00Z"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[httpapi.OptimizedRoute](t, rec)
	assert.Zero(t, body.TotalDeliveries)
	assert.Empty(t, body.OptimizedRoute)
	api.optimize.AssertExpectations(t)
}

func TestOptimizeRoute_RejectedByDocument(t *testing.T) {
	api := newTestAPI(t)

	tests := map[string]string{
		"missing date":         `{}`,
		"latitude out of range": `{"delivery_date":"2025-03-10","depot":{"latitude":91,"longitude":0}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := api.do(http.MethodPost, "/api/v1/routes/optimize", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, httpapi.CodeBadRequest, decode[httpapi.ErrorResponse](t, rec).Code)
		})
	}
	api.optimize.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestOptimizeRoute_MissingLocation(t *testing.T) {
	api := newTestAPI(t)
	id := kernel.NewUUID()
	api.optimize.On("Handle", mock.Anything, mock.Anything).
		Return(route.Route{}, &services.MissingLocationError{DeliveryID: id, Missing: 2}).Once()

	rec := api.do(http.MethodPost, "/api/v1/routes/optimize", `{"delivery_date":"2025-03-10"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[httpapi.ErrorResponse](t, rec)
	assert.Equal(t, httpapi.CodeMissingLocation, body.Code)
	assert.Equal(t, id.String(), body.DeliveryID)
}

func TestOptimizeRoute_TooManyStops(t *testing.T) {
	api := newTestAPI(t)
	api.optimize.On("Handle", mock.Anything, mock.Anything).
		Return(route.Route{}, &services.TooManyStopsError{Count: 600, Limit: 500}).Once()

	rec := api.do(http.MethodPost, "/api/v1/routes/optimize", `{"delivery_date":"2025-03-10"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[httpapi.ErrorResponse](t, rec)
	assert.Equal(t, httpapi.CodeTooManyStops, body.Code)
	assert.Equal(t, 500, body.Limit)
}

func TestUpdateStatus_Success(t *testing.T) {
	// Arrange
	api := newTestAPI(t)
	o := packedOrder(t, order.Packed)
	d := scheduledDelivery(t, o)
	api.status.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateStatusCommand) bool {
		return cmd.Kind() == commands.EntityOrder &&
			cmd.EntityID().IsEqual(o.ID()) &&
			cmd.OrderTarget() == order.OutForDelivery
	})).Return(commands.UpdateStatusResult{Order: o, Delivery: d}, nil).Once()

	// Act
	rec := api.do(http.MethodPost, "/api/v1/status",
		`{"entity_kind":"order","entity_id":"`+o.ID().String()+`","target_status":"out_for_delivery"}`)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[httpapi.StatusUpdate](t, rec)
	assert.Equal(t, o.ID().String(), body.Order.ID.String())
	assert.Equal(t, "15.00", body.Order.TotalAmount)
	assert.Equal(t, "lunch", body.Order.MealType)
	require.NotNil(t, body.Delivery)
	assert.Equal(t, "scheduled", body.Delivery.Status)
	require.NotNil(t, body.Delivery.Latitude)
	assert.InDelta(t, 49.1044, *body.Delivery.Latitude, 1e-9)
	api.status.AssertExpectations(t)
}

func TestUpdateStatus_WithoutDelivery(t *testing.T) {
	api := newTestAPI(t)
	o := packedOrder(t, order.Preparing)
	api.status.On("Handle", mock.Anything, mock.Anything).
		Return(commands.UpdateStatusResult{Order: o}, nil).Once()

	rec := api.do(http.MethodPut, "/api/v1/orders/"+o.ID().String()+"/status", `{"status":"preparing"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), `"delivery"`)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	api := newTestAPI(t)
	id := kernel.NewUUID()
	api.status.On("Handle", mock.Anything, mock.Anything).
		Return(commands.UpdateStatusResult{},
			errs.NewInvalidTransitionError("delivery", delivery.Failed, delivery.Delivered)).Once()

	rec := api.do(http.MethodPut, "/api/v1/deliveries/"+id.String()+"/status", `{"status":"delivered"}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decode[httpapi.ErrorResponse](t, rec)
	assert.Equal(t, httpapi.CodeInvalidTransition, body.Code)
	assert.Equal(t, "failed", body.CurrentStatus)
	assert.Equal(t, "delivered", body.TargetStatus)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	api := newTestAPI(t)
	id := kernel.NewUUID()
	api.status.On("Handle", mock.Anything, mock.Anything).
		Return(commands.UpdateStatusResult{}, errs.NewObjectNotFoundError("orderID", id)).Once()

	rec := api.do(http.MethodPut, "/api/v1/orders/"+id.String()+"/status", `{"status":"cancelled"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, httpapi.CodeNotFound, decode[httpapi.ErrorResponse](t, rec).Code)
}

func TestUpdateStatus_BadInput(t *testing.T) {
	api := newTestAPI(t)
	id := kernel.NewUUID().String()

	tests := []struct {
		name, method, target, body string
	}{
		{"status outside the machine", http.MethodPut, "/api/v1/deliveries/" + id + "/status", `{"status":"packed"}`},
		{"unknown status", http.MethodPost, "/api/v1/status",
			`{"entity_kind":"order","entity_id":"` + id + `","target_status":"teleported"}`},
		{"unknown kind", http.MethodPost, "/api/v1/status",
			`{"entity_kind":"courier","entity_id":"` + id + `","target_status":"delivered"}`},
		{"malformed id", http.MethodPut, "/api/v1/orders/not-a-uuid/status", `{"status":"cancelled"}`},
		{"missing body field", http.MethodPut, "/api/v1/orders/" + id + "/status", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.method, tt.target, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
	api.status.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestUpdateStatus_InternalErrorIsHidden(t *testing.T) {
	api := newTestAPI(t)
	api.status.On("Handle", mock.Anything, mock.Anything).
		Return(commands.UpdateStatusResult{}, errors.New("connection reset by peer")).Once()

	rec := api.do(http.MethodPut, "/api/v1/orders/"+kernel.NewUUID().String()+"/status", `{"status":"cancelled"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[httpapi.ErrorResponse](t, rec)
	assert.Equal(t, httpapi.CodeInternal, body.Code)
	assert.NotContains(t, body.Message, "connection reset")
}

func TestBulkCreateOrders(t *testing.T) {
	// Arrange
	api := newTestAPI(t)
	excluded := kernel.NewUUID()
	api.bulk.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.BulkCreateOrdersCommand) bool {
		return cmd.OrderDate().Equal(serviceDate) && cmd.MealType() == order.Dinner && cmd.IsExcluded(excluded)
	})).Return(commands.BulkCreateOrdersResult{
		Created:         4,
		SkippedExisting: 2,
		SkippedInactive: 1,
		SkippedExcluded: 1,
	}, nil).Once()

	// Act
	rec := api.do(http.MethodPost, "/api/v1/orders/bulk",
		`{"order_date":"2025-03-10","meal_type":"dinner","exclude_customers":["`+excluded.String()+`"]}`)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[httpapi.BulkCreateOrdersResponse](t, rec)
	assert.Equal(t, httpapi.BulkCreateOrdersResponse{
		CreatedCount:    4,
		SkippedCount:    4,
		SkippedExisting: 2,
		SkippedInactive: 1,
		SkippedExcluded: 1,
	}, body)
	api.bulk.AssertExpectations(t)
}

func TestBulkCreateOrders_RejectsUnknownMealType(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/orders/bulk", `{"order_date":"2025-03-10","meal_type":"breakfast"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	api.bulk.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestGetDailySummary(t *testing.T) {
	// Arrange
	api := newTestAPI(t)
	api.summary.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetDailySummaryQuery) bool {
		return q.Date().Equal(serviceDate)
	})).Return(queries.GetDailySummaryQueryResponse{
		Date:                 serviceDate,
		OrderStatusCounts:    order.Summarize([]order.Status{order.Pending, order.Pending, order.Delivered}),
		DeliveryStatusCounts: delivery.Summarize([]delivery.Status{delivery.Delivered}),
		TotalRevenue:         decimal.RequireFromString("47.75"),
		ActiveCustomers:      2,
		DeliveriesByZone:     map[string]int{"Langley": 1},
	}, nil).Once()

	// Act
	rec := api.do(http.MethodGet, "/api/v1/summary?date=2025-03-10", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[httpapi.DailySummary](t, rec)
	assert.Equal(t, "47.75", body.TotalRevenue)
	assert.Equal(t, 2, body.ActiveCustomers)
	assert.Equal(t, 2, body.Summary.OrderStatusCounts["pending"])
	assert.Equal(t, 0, body.Summary.OrderStatusCounts["cancelled"])
	assert.Len(t, body.Summary.OrderStatusCounts, len(order.Statuses))
	assert.Len(t, body.Summary.DeliveryStatusCounts, len(delivery.Statuses))
	assert.Equal(t, map[string]int{"Langley": 1}, body.DeliveriesByZone)
	api.summary.AssertExpectations(t)
}

func TestGetDailySummary_RequiresDate(t *testing.T) {
	api := newTestAPI(t)

	for _, target := range []string{"/api/v1/summary", "/api/v1/summary?date=yesterday"} {
		rec := api.do(http.MethodGet, target, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	api.summary.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestGetPreparationList(t *testing.T) {
	// Arrange
	api := newTestAPI(t)
	line := queries.PreparationOrder{
		OrderID:             kernel.NewUUID(),
		CustomerName:        "Priya Sharma",
		PlanName:            "Veg Deluxe",
		MealType:            order.Lunch,
		SpecialRequests:     "Less spicy",
		DietaryRestrictions: "No onion",
		Status:              order.Preparing,
	}
	api.prep.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetPreparationListQuery) bool {
		return q.Date().Equal(serviceDate) && q.MealType() == order.Lunch
	})).Return(queries.GetPreparationListQueryResponse{
		Date:   serviceDate,
		Plans:  []queries.PreparationPlanTotal{{PlanName: "Veg Deluxe", TotalOrders: 1, Preparing: 1}},
		Orders: []queries.PreparationOrder{line},
	}, nil).Once()

	// Act
	rec := api.do(http.MethodGet, "/api/v1/orders/preparation-list?date=2025-03-10&meal_type=lunch", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[httpapi.PreparationList](t, rec)
	assert.Equal(t, 1, body.TotalOrders)
	assert.Equal(t, []httpapi.PreparationPlanTotal{
		{PlanName: "Veg Deluxe", TotalOrders: 1, Preparing: 1},
	}, body.PlanSummary)
	require.Len(t, body.Orders, 1)
	assert.Equal(t, line.OrderID.String(), body.Orders[0].OrderID.String())
	assert.Equal(t, "lunch", body.Orders[0].MealType)
	assert.Equal(t, "preparing", body.Orders[0].Status)
	assert.Equal(t, "No onion", body.Orders[0].DietaryRestrictions)
	api.prep.AssertExpectations(t)
}

func TestGetPreparationList_RejectsUnknownMeal(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/orders/preparation-list?date=2025-03-10&meal_type=breakfast", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	api.prep.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestListDeliveries(t *testing.T) {
	// Arrange
	api := newTestAPI(t)
	eta := fixedNow.Add(15 * time.Minute)
	row := queries.ListDeliveriesQueryResponse{
		ID:               kernel.NewUUID(),
		OrderID:          kernel.NewUUID(),
		CustomerName:     "Priya Sharma",
		Address:          "20338 65 Ave, Langley",
		Zone:             "Langley",
		Status:           delivery.InTransit,
		EstimatedArrival: &eta,
	}
	api.list.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListDeliveriesQuery) bool {
		return q.Date().Equal(serviceDate) && q.Zone() == "Langley" && q.Status() == delivery.InTransit
	})).Return([]queries.ListDeliveriesQueryResponse{row}, nil).Once()

	// Act
	rec := api.do(http.MethodGet, "/api/v1/deliveries?date=2025-03-10&zone=Langley&status=in_transit", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[[]httpapi.Delivery](t, rec)
	require.Len(t, body, 1)
	assert.Equal(t, row.ID.String(), body[0].ID.String())
	assert.Equal(t, "in_transit", body[0].Status)
	assert.Nil(t, body[0].Latitude)
	require.NotNil(t, body[0].EstimatedArrival)
	assert.True(t, eta.Equal(*body[0].EstimatedArrival))
	api.list.AssertExpectations(t)
}

func TestListDeliveries_EmptyDayIsAnEmptyArray(t *testing.T) {
	api := newTestAPI(t)
	api.list.On("Handle", mock.Anything, mock.Anything).Return([]queries.ListDeliveriesQueryResponse{}, nil).Once()

	rec := api.do(http.MethodGet, "/api/v1/deliveries?date=2025-03-10", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListDeliveries_RejectsUnknownStatus(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/deliveries?date=2025-03-10&status=lost", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/couriers", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "tiffin_test_total", Help: "test"})
	api.registry.MustRegister(counter)
	counter.Inc()

	rec := api.do(http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tiffin_test_total 1")
}

func TestSwaggerDocument(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/swagger/doc.json", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tiffin dispatch API")
}
