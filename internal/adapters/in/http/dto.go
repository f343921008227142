package http

import (
	"math"
	"time"

	"tiffin/internal/core/application/usecases/queries"
	"tiffin/internal/core/domain/model/delivery"
	"tiffin/internal/core/domain/model/order"
	"tiffin/internal/core/domain/model/route"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// GeoPoint is a WGS84 position on the wire.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OptimizeRouteRequest is the body of POST /api/v1/routes/optimize.
type OptimizeRouteRequest struct {
	DeliveryDate openapi_types.Date `json:"delivery_date"`
	Depot        *GeoPoint          `json:"depot,omitempty"`
	StartTime    *time.Time         `json:"start_time,omitempty"`
}

// RouteStop is one stop of OptimizedRoute.
type RouteStop struct {
	DeliveryID             openapi_types.UUID `json:"delivery_id"`
	Sequence               int                `json:"sequence"`
	CustomerName           string             `json:"customer_name"`
	Address                string             `json:"address"`
	CustomerPhone          string             `json:"customer_phone,omitempty"`
	DeliveryInstructions   string             `json:"delivery_instructions,omitempty"`
	Latitude               float64            `json:"latitude"`
	Longitude              float64            `json:"longitude"`
	DistanceFromPreviousKm float64            `json:"distance_from_previous_km"`
	CumulativeDistanceKm   float64            `json:"cumulative_distance_km"`
	EstimatedTime          time.Time          `json:"estimated_time"`
}

// OptimizedRoute is the response of POST /api/v1/routes/optimize.
type OptimizedRoute struct {
	DeliveryDate             openapi_types.Date `json:"delivery_date"`
	Algorithm                string             `json:"algorithm"`
	Depot                    GeoPoint           `json:"depot"`
	TotalDeliveries          int                `json:"total_deliveries"`
	TotalDistanceKm          float64            `json:"total_distance_km"`
	EstimatedDuration        string             `json:"estimated_duration"`
	EstimatedDurationMinutes int                `json:"estimated_duration_minutes"`
	OptimizedRoute           []RouteStop        `json:"optimized_route"`
}

// UpdateStatusRequest is the body of POST /api/v1/status.
type UpdateStatusRequest struct {
	EntityKind   string             `json:"entity_kind"`
	EntityID     openapi_types.UUID `json:"entity_id"`
	TargetStatus string             `json:"target_status"`
}

// StatusChange is the body of the PUT status endpoints.
type StatusChange struct {
	Status string `json:"status"`
}

// Order is the wire form of an order.
type Order struct {
	ID              openapi_types.UUID `json:"id"`
	CustomerID      openapi_types.UUID `json:"customer_id"`
	SubscriptionID  openapi_types.UUID `json:"subscription_id"`
	OrderDate       openapi_types.Date `json:"order_date"`
	MealType        string             `json:"meal_type"`
	PlanName        string             `json:"plan_name"`
	TotalAmount     string             `json:"total_amount"`
	SpecialRequests string             `json:"special_requests,omitempty"`
	Status          string             `json:"status"`
}

// Delivery is the wire form of a delivery.
type Delivery struct {
	ID                   openapi_types.UUID  `json:"id"`
	OrderID              openapi_types.UUID  `json:"order_id"`
	CustomerName         string              `json:"customer_name"`
	CustomerPhone        string              `json:"customer_phone,omitempty"`
	Address              string              `json:"address"`
	Zone                 string              `json:"zone"`
	DeliveryInstructions string              `json:"delivery_instructions,omitempty"`
	DeliveryDate         *openapi_types.Date `json:"delivery_date,omitempty"`
	Latitude             *float64            `json:"latitude,omitempty"`
	Longitude            *float64            `json:"longitude,omitempty"`
	Status               string              `json:"status"`
	EstimatedArrival     *time.Time          `json:"estimated_arrival,omitempty"`
	DeliveredAt          *time.Time          `json:"delivered_at,omitempty"`
}

// StatusUpdate is the response of every status endpoint.
type StatusUpdate struct {
	Order    Order     `json:"order"`
	Delivery *Delivery `json:"delivery,omitempty"`
}

// BulkCreateOrdersRequest is the body of POST /api/v1/orders/bulk.
type BulkCreateOrdersRequest struct {
	OrderDate        openapi_types.Date   `json:"order_date"`
	MealType         string               `json:"meal_type"`
	ExcludeCustomers []openapi_types.UUID `json:"exclude_customers,omitempty"`
}

// BulkCreateOrdersResponse reports the outcome of a bulk creation run.
type BulkCreateOrdersResponse struct {
	CreatedCount    int `json:"created_count"`
	SkippedCount    int `json:"skipped_count"`
	SkippedExisting int `json:"skipped_existing"`
	SkippedInactive int `json:"skipped_inactive"`
	SkippedExcluded int `json:"skipped_excluded"`
}

// StatusCounts groups both per-status tallies of a day.
type StatusCounts struct {
	OrderStatusCounts    map[string]int `json:"order_status_counts"`
	DeliveryStatusCounts map[string]int `json:"delivery_status_counts"`
}

// DailySummary is the response of GET /api/v1/summary.
type DailySummary struct {
	Date             openapi_types.Date `json:"date"`
	Summary          StatusCounts       `json:"summary"`
	TotalRevenue     string             `json:"total_revenue"`
	ActiveCustomers  int                `json:"active_customers"`
	DeliveriesByZone map[string]int     `json:"deliveries_by_zone"`
}

// PreparationPlanTotal is the per-plan line of the kitchen list.
type PreparationPlanTotal struct {
	PlanName    string `json:"plan_name"`
	TotalOrders int    `json:"total_orders"`
	Pending     int    `json:"pending"`
	Preparing   int    `json:"preparing"`
}

// PreparationOrder is one order the kitchen still has to cook.
type PreparationOrder struct {
	OrderID             openapi_types.UUID `json:"order_id"`
	CustomerName        string             `json:"customer_name"`
	PlanName            string             `json:"plan_name"`
	MealType            string             `json:"meal_type"`
	SpecialRequests     string             `json:"special_requests,omitempty"`
	DietaryRestrictions string             `json:"dietary_restrictions,omitempty"`
	Status              string             `json:"status"`
}

// PreparationList is the response of GET /api/v1/orders/preparation-list.
type PreparationList struct {
	Date        openapi_types.Date     `json:"date"`
	TotalOrders int                    `json:"total_orders"`
	PlanSummary []PreparationPlanTotal `json:"plan_summary"`
	Orders      []PreparationOrder     `json:"orders"`
}

// OptimizedRouteFrom renders r for the wire. Distances keep two decimals.
func OptimizedRouteFrom(r route.Route) OptimizedRoute {
	stops := make([]RouteStop, 0, len(r.Stops))
	for _, s := range r.Stops {
		stops = append(stops, RouteStop{
			DeliveryID:             s.DeliveryID.Bytes(),
			Sequence:               s.Sequence,
			CustomerName:           s.CustomerName,
			Address:                s.Address,
			CustomerPhone:          s.CustomerPhone,
			DeliveryInstructions:   s.Instructions,
			Latitude:               s.Location.Latitude(),
			Longitude:              s.Location.Longitude(),
			DistanceFromPreviousKm: roundKm(s.LegDistanceKm),
			CumulativeDistanceKm:   roundKm(s.CumulativeDistanceKm),
			EstimatedTime:          s.EstimatedArrival,
		})
	}

	return OptimizedRoute{
		DeliveryDate:             openapi_types.Date{Time: r.DeliveryDate},
		Algorithm:                r.Algorithm,
		Depot:                    GeoPoint{Latitude: r.Depot.Latitude(), Longitude: r.Depot.Longitude()},
		TotalDeliveries:          r.Len(),
		TotalDistanceKm:          roundKm(r.TotalDistanceKm),
		EstimatedDuration:        r.EstimatedDuration.String(),
		EstimatedDurationMinutes: r.EstimatedDurationMinutes(),
		OptimizedRoute:           stops,
	}
}

// roundKm keeps two decimals, enough for a driver sheet.
func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

func toOrder(o *order.Order) Order {
	return Order{
		ID:              o.ID().Bytes(),
		CustomerID:      o.CustomerID().Bytes(),
		SubscriptionID:  o.SubscriptionID().Bytes(),
		OrderDate:       openapi_types.Date{Time: o.OrderDate()},
		MealType:        o.MealType().String(),
		PlanName:        o.PlanName(),
		TotalAmount:     o.TotalAmount().StringFixed(2),
		SpecialRequests: o.SpecialRequests(),
		Status:          o.Status().String(),
	}
}

func toDelivery(d *delivery.Delivery) *Delivery {
	if d == nil {
		return nil
	}
	resp := &Delivery{
		ID:                   d.ID().Bytes(),
		OrderID:              d.OrderID().Bytes(),
		CustomerName:         d.CustomerName(),
		CustomerPhone:        d.CustomerPhone(),
		Address:              d.Address(),
		Zone:                 d.Zone(),
		DeliveryInstructions: d.Instructions(),
		DeliveryDate:         &openapi_types.Date{Time: d.DeliveryDate()},
		Status:               d.Status().String(),
		EstimatedArrival:     d.EstimatedArrival(),
		DeliveredAt:          d.DeliveredAt(),
	}
	if p := d.Location(); p != nil {
		lat, lon := p.Latitude(), p.Longitude()
		resp.Latitude, resp.Longitude = &lat, &lon
	}
	return resp
}

func toListedDelivery(row queries.ListDeliveriesQueryResponse) Delivery {
	resp := Delivery{
		ID:                   row.ID.Bytes(),
		OrderID:              row.OrderID.Bytes(),
		CustomerName:         row.CustomerName,
		CustomerPhone:        row.CustomerPhone,
		Address:              row.Address,
		Zone:                 row.Zone,
		DeliveryInstructions: row.Instructions,
		Status:               row.Status.String(),
		EstimatedArrival:     row.EstimatedArrival,
		DeliveredAt:          row.DeliveredAt,
	}
	if row.Location != nil {
		lat, lon := row.Location.Latitude(), row.Location.Longitude()
		resp.Latitude, resp.Longitude = &lat, &lon
	}
	return resp
}

func toDailySummary(s queries.GetDailySummaryQueryResponse) DailySummary {
	return DailySummary{
		Date: openapi_types.Date{Time: s.Date},
		Summary: StatusCounts{
			OrderStatusCounts:    s.OrderStatusCounts.ByName(),
			DeliveryStatusCounts: s.DeliveryStatusCounts.ByName(),
		},
		TotalRevenue:     s.TotalRevenue.StringFixed(2),
		ActiveCustomers:  s.ActiveCustomers,
		DeliveriesByZone: s.DeliveriesByZone,
	}
}

func toPreparationList(p queries.GetPreparationListQueryResponse) PreparationList {
	plans := make([]PreparationPlanTotal, 0, len(p.Plans))
	for _, plan := range p.Plans {
		plans = append(plans, PreparationPlanTotal(plan))
	}

	lines := make([]PreparationOrder, 0, len(p.Orders))
	for _, o := range p.Orders {
		lines = append(lines, PreparationOrder{
			OrderID:             o.OrderID.Bytes(),
			CustomerName:        o.CustomerName,
			PlanName:            o.PlanName,
			MealType:            o.MealType.String(),
			SpecialRequests:     o.SpecialRequests,
			DietaryRestrictions: o.DietaryRestrictions,
			Status:              o.Status.String(),
		})
	}

	return PreparationList{
		Date:        openapi_types.Date{Time: p.Date},
		TotalOrders: len(lines),
		PlanSummary: plans,
		Orders:      lines,
	}
}
