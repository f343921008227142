package route

import (
	"math"
	"time"

	"tiffin/internal/core/domain/model/kernel"
)

// Algorithm names reported on a Route.
const (
	AlgorithmNearestNeighbor       = "nearest_neighbor"
	AlgorithmNearestNeighborTwoOpt = "nearest_neighbor+2opt"
)

// Stop is one visit of a Route. Sequence is 1-based.
type Stop struct {
	DeliveryID           kernel.UUID
	Sequence             int
	CustomerName         string
	Address              string
	CustomerPhone        string
	Instructions         string
	Location             kernel.GeoPoint
	LegDistanceKm        float64
	CumulativeDistanceKm float64
	EstimatedArrival     time.Time
}

// Route is the computed visiting order of a day's deliveries starting at the
// depot. Routes are computed on request and never persisted.
//
// For a route with N stops, Stops[i].Sequence == i+1, TotalDistanceKm equals
// the last stop's cumulative distance and EstimatedDuration is the last stop's
// arrival minus StartTime. An empty route has zero distance and duration.
type Route struct {
	DeliveryDate      time.Time
	Depot             kernel.GeoPoint
	StartTime         time.Time
	Algorithm         string
	TotalDistanceKm   float64
	EstimatedDuration time.Duration
	Stops             []Stop
}

// Len returns the number of stops.
func (r Route) Len() int {
	return len(r.Stops)
}

// IsEmpty reports whether there is nothing to deliver.
func (r Route) IsEmpty() bool {
	return len(r.Stops) == 0
}

// EstimatedDurationMinutes returns the duration rounded to whole minutes.
func (r Route) EstimatedDurationMinutes() int {
	return int(math.Round(r.EstimatedDuration.Minutes()))
}

// DeliveryIDs returns the delivery identifiers in visiting order.
func (r Route) DeliveryIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(r.Stops))
	for _, s := range r.Stops {
		ids = append(ids, s.DeliveryID)
	}
	return ids
}
