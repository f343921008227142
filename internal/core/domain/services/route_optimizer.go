package services

import (
	"fmt"
	"slices"
	"time"

	"tiffin/internal/core/domain/model/delivery"
	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/route"
	"tiffin/internal/pkg/errs"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultAverageSpeedKmh reflects urban delivery driving (3 minutes per km).
	DefaultAverageSpeedKmh = 20.0
	// DefaultServiceTime is the time spent at each stop handing over the tiffin.
	DefaultServiceTime = 15 * time.Minute
	// DefaultMaxStops caps a single route request.
	DefaultMaxStops = 200
	// TieEpsilonKm is the distance under which two candidates count as equidistant.
	TieEpsilonKm = 1e-9
)

// RouteOptimizerConfig tunes the optimizer. Zero fields take the package defaults.
type RouteOptimizerConfig struct {
	AverageSpeedKmh float64
	ServiceTime     time.Duration
	MaxStops        int
	// TwoOpt enables 2-opt refinement of the nearest-neighbour tour.
	TwoOpt bool
}

// SetDefaults fills zero fields with the package defaults.
func (c *RouteOptimizerConfig) SetDefaults() {
	if c.AverageSpeedKmh == 0 {
		c.AverageSpeedKmh = DefaultAverageSpeedKmh
	}
	if c.ServiceTime == 0 {
		c.ServiceTime = DefaultServiceTime
	}
	if c.MaxStops == 0 {
		c.MaxStops = DefaultMaxStops
	}
}

// Validate rejects negative or non-positive settings.
func (c RouteOptimizerConfig) Validate() error {
	if c.AverageSpeedKmh <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("average speed", fmt.Errorf("%v is not greater than 0", c.AverageSpeedKmh))
	}
	if c.ServiceTime < 0 {
		return errs.NewValueIsInvalidErrorWithCause("service time", fmt.Errorf("%s is negative", c.ServiceTime))
	}
	if c.MaxStops <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("max stops", fmt.Errorf("%d is not greater than 0", c.MaxStops))
	}
	return nil
}

// RouteRequest is the input of RouteOptimizer.Optimize.
type RouteRequest struct {
	// DeliveryDate is the day being routed. When zero it is taken from the
	// deliveries; every delivery must fall on the same date.
	DeliveryDate time.Time
	Depot        kernel.GeoPoint
	// StartTime is when the driver leaves the depot; zero means now.
	StartTime  time.Time
	Deliveries []*delivery.Delivery
}

// RouteOptimizer is a domain service that orders a day's deliveries into a
// route starting at the depot.
//
// The visiting order is built greedily: from the current position the nearest
// unvisited delivery by haversine distance is taken next. Candidates within
// TieEpsilonKm of each other are resolved in favour of the lower delivery ID,
// so identical inputs always produce identical routes whatever their order.
// When TwoOpt is enabled, the greedy tour is then improved by segment
// reversals that strictly shorten it.
//
// ETA for stop k (1-based) is StartTime + travel(cumulative distance of k) +
// (k-1) * ServiceTime. The route is open: there is no return leg to the depot.
//
// RouteOptimizer holds no mutable state and is safe for concurrent use.
//
// Example usage:
//
//	optimizer, _ := services.NewRouteOptimizer(services.RouteOptimizerConfig{})
//	r, err := optimizer.Optimize(services.RouteRequest{
//	    Depot:      depot,
//	    StartTime:  start,
//	    Deliveries: deliveries,
//	})
//	if errors.Is(err, services.ErrMissingLocation) {
//	    // geocode the address and retry
//	}
type RouteOptimizer struct {
	cfg RouteOptimizerConfig
	now func() time.Time
}

// RouteOptimizerOption customizes a RouteOptimizer.
type RouteOptimizerOption func(*RouteOptimizer)

// WithClock replaces time.Now as the source of the default start time.
func WithClock(now func() time.Time) RouteOptimizerOption {
	return func(o *RouteOptimizer) {
		o.now = now
	}
}

// NewRouteOptimizer creates an optimizer. Zero config fields take defaults.
//
// Returns:
//   - *RouteOptimizer ready for use
//   - error: ValueIsInvalidError for a negative or zero speed, negative service
//     time or non-positive stop cap after defaults
func NewRouteOptimizer(cfg RouteOptimizerConfig, opts ...RouteOptimizerOption) (*RouteOptimizer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &RouteOptimizer{
		cfg: cfg,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// Config returns the effective configuration.
func (o *RouteOptimizer) Config() RouteOptimizerConfig {
	return o.cfg
}

// Optimize computes the route for req.
//
// Returns:
//   - an empty route with zero distance and duration when there are no deliveries
//   - *TooManyStopsError when the request exceeds MaxStops
//   - *MissingLocationError when any delivery has no geocoded location
//   - ValueIsInvalidError for deliveries spanning several dates or listed twice
//
// A delivery located exactly at the depot yields a zero-length leg.
func (o *RouteOptimizer) Optimize(req RouteRequest) (route.Route, error) {
	if err := req.Depot.Validate(); err != nil {
		return route.Route{}, errs.NewValueIsRequiredErrorWithCause("depot", err)
	}

	n := len(req.Deliveries)
	if n > o.cfg.MaxStops {
		return route.Route{}, &TooManyStopsError{Count: n, Limit: o.cfg.MaxStops}
	}

	start := req.StartTime
	if start.IsZero() {
		start = o.now()
	}

	result := route.Route{
		Depot:     req.Depot,
		StartTime: start,
		Algorithm: o.algorithm(),
		Stops:     []route.Stop{},
	}
	if !req.DeliveryDate.IsZero() {
		result.DeliveryDate = kernel.DateOf(req.DeliveryDate)
	}

	if n == 0 {
		return result, nil
	}

	deliveries, err := o.prepare(req.Deliveries)
	if err != nil {
		return route.Route{}, err
	}

	date, err := o.deliveryDate(result.DeliveryDate, deliveries)
	if err != nil {
		return route.Route{}, err
	}
	result.DeliveryDate = date

	dist := distanceMatrix(req.Depot, deliveries)
	tour := nearestNeighbor(dist)
	if o.cfg.TwoOpt {
		tour = twoOpt(dist, tour)
	}

	result.Stops, result.TotalDistanceKm = o.stops(dist, tour, deliveries, start)
	result.EstimatedDuration = result.Stops[n-1].EstimatedArrival.Sub(start)

	return result, nil
}

func (o *RouteOptimizer) algorithm() string {
	if o.cfg.TwoOpt {
		return route.AlgorithmNearestNeighborTwoOpt
	}
	return route.AlgorithmNearestNeighbor
}

// prepare validates the deliveries and returns them sorted by ID. The sort gives
// the greedy scan a canonical order that doubles as the tie-break.
func (o *RouteOptimizer) prepare(in []*delivery.Delivery) ([]*delivery.Delivery, error) {
	sorted := make([]*delivery.Delivery, 0, len(in))
	for _, d := range in {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		sorted = append(sorted, d)
	}
	slices.SortFunc(sorted, func(a, b *delivery.Delivery) int {
		return a.ID().Compare(b.ID())
	})

	var missing *MissingLocationError
	for i, d := range sorted {
		if i > 0 && d.ID().IsEqual(sorted[i-1].ID()) {
			return nil, errs.NewValueIsInvalidErrorWithCause("deliveries",
				fmt.Errorf("delivery %s is listed more than once", d.ID()))
		}
		if d.Location() == nil {
			if missing == nil {
				missing = &MissingLocationError{DeliveryID: d.ID()}
			}
			missing.Missing++
		}
	}
	if missing != nil {
		return nil, missing
	}

	return sorted, nil
}

func (o *RouteOptimizer) deliveryDate(want time.Time, deliveries []*delivery.Delivery) (time.Time, error) {
	if want.IsZero() {
		want = deliveries[0].DeliveryDate()
	}
	for _, d := range deliveries {
		if !kernel.SameDate(d.DeliveryDate(), want) {
			return time.Time{}, errs.NewValueIsInvalidErrorWithCause("delivery date", fmt.Errorf(
				"delivery %s is for %s, route is for %s",
				d.ID(), d.DeliveryDate().Format(kernel.DateLayout), want.Format(kernel.DateLayout)))
		}
	}
	return want, nil
}

func (o *RouteOptimizer) stops(
	dist *mat.SymDense,
	tour []int,
	deliveries []*delivery.Delivery,
	start time.Time,
) ([]route.Stop, float64) {
	legs := make([]float64, len(tour))
	prev := 0
	for i, node := range tour {
		legs[i] = dist.At(prev, node)
		prev = node
	}
	cumulative := floats.CumSum(make([]float64, len(legs)), legs)

	stops := make([]route.Stop, 0, len(tour))
	for i, node := range tour {
		d := deliveries[node-1]
		arrival := start.
			Add(kernel.TravelTime(cumulative[i], o.cfg.AverageSpeedKmh)).
			Add(time.Duration(i) * o.cfg.ServiceTime)

		stops = append(stops, route.Stop{
			DeliveryID:           d.ID(),
			Sequence:             i + 1,
			CustomerName:         d.CustomerName(),
			Address:              d.Address(),
			CustomerPhone:        d.CustomerPhone(),
			Instructions:         d.Instructions(),
			Location:             *d.Location(),
			LegDistanceKm:        legs[i],
			CumulativeDistanceKm: cumulative[i],
			EstimatedArrival:     arrival,
		})
	}

	return stops, cumulative[len(cumulative)-1]
}

// distanceMatrix holds pairwise haversine distances. Node 0 is the depot and
// node i is deliveries[i-1].
func distanceMatrix(depot kernel.GeoPoint, deliveries []*delivery.Delivery) *mat.SymDense {
	points := make([]kernel.GeoPoint, 0, len(deliveries)+1)
	points = append(points, depot)
	for _, d := range deliveries {
		points = append(points, *d.Location())
	}

	m := mat.NewSymDense(len(points), nil)
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			m.SetSym(i, j, kernel.Haversine(points[i], points[j]))
		}
	}
	return m
}

// nearestNeighbor returns the visiting order of nodes 1..n starting at node 0.
// Nodes are scanned in index order, so on a tie the lower index wins.
func nearestNeighbor(dist *mat.SymDense) []int {
	n := dist.SymmetricDim() - 1
	visited := make([]bool, n+1)
	tour := make([]int, 0, n)

	current := 0
	for range n {
		best := -1
		bestDist := 0.0
		for j := 1; j <= n; j++ {
			if visited[j] {
				continue
			}
			if d := dist.At(current, j); best == -1 || d < bestDist-TieEpsilonKm {
				best, bestDist = j, d
			}
		}
		visited[best] = true
		tour = append(tour, best)
		current = best
	}

	return tour
}

// twoOpt shortens an open tour that starts at node 0 by reversing segments
// while any reversal strictly improves it. The scan order is fixed, so the
// result is deterministic.
func twoOpt(dist *mat.SymDense, tour []int) []int {
	path := make([]int, 0, len(tour)+1)
	path = append(path, 0)
	path = append(path, tour...)
	last := len(path) - 1

	for improved := true; improved; {
		improved = false
		for i := 1; i < last; i++ {
			for k := i + 1; k <= last; k++ {
				delta := dist.At(path[i-1], path[k]) - dist.At(path[i-1], path[i])
				if k < last {
					delta += dist.At(path[i], path[k+1]) - dist.At(path[k], path[k+1])
				}
				if delta < -TieEpsilonKm {
					slices.Reverse(path[i : k+1])
					improved = true
				}
			}
		}
	}

	return path[1:]
}
