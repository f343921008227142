// Package metrics records dispatch activity in Prometheus collectors.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PromSink implements ports.DispatchMetrics.
type PromSink struct {
	statusChanges       *prometheus.CounterVec
	rejectedTransitions *prometheus.CounterVec
	ordersCreated       prometheus.Counter
	ordersSkipped       prometheus.Counter
	routeStops          prometheus.Histogram
	routeDistance       prometheus.Histogram
	routeLatency        prometheus.Histogram
}

// NewPromSink registers the dispatch collectors on reg, or on the default
// registerer when reg is nil. Collectors that are already registered are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	s := &PromSink{
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tiffin_status_changes_total",
			Help: "Committed status changes by entity kind and transition",
		}, []string{"entity_kind", "from", "to"}),
		rejectedTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tiffin_rejected_transitions_total",
			Help: "Status updates rejected by the state machines",
		}, []string{"entity_kind"}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tiffin_orders_created_total",
			Help: "Orders inserted by bulk creation",
		}),
		ordersSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tiffin_orders_skipped_total",
			Help: "Subscriptions skipped by bulk creation",
		}),
		routeStops: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tiffin_route_stops",
			Help:    "Stops per optimized route",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 200},
		}),
		routeDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tiffin_route_distance_km",
			Help:    "Total distance of optimized routes",
			Buckets: prometheus.ExponentialBuckets(1, 2, 9),
		}),
		routeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tiffin_route_optimization_seconds",
			Help:    "Time spent computing routes",
			Buckets: prometheus.DefBuckets,
		}),
	}

	var err error
	s.statusChanges, err = register(reg, s.statusChanges)
	if err != nil {
		return nil, err
	}
	s.rejectedTransitions, err = register(reg, s.rejectedTransitions)
	if err != nil {
		return nil, err
	}
	if s.ordersCreated, err = register(reg, s.ordersCreated); err != nil {
		return nil, err
	}
	if s.ordersSkipped, err = register(reg, s.ordersSkipped); err != nil {
		return nil, err
	}
	if s.routeStops, err = register(reg, s.routeStops); err != nil {
		return nil, err
	}
	if s.routeDistance, err = register(reg, s.routeDistance); err != nil {
		return nil, err
	}
	if s.routeLatency, err = register(reg, s.routeLatency); err != nil {
		return nil, err
	}

	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveStatusChange counts one committed transition.
func (s *PromSink) ObserveStatusChange(entityKind, from, to string) {
	if from == "" {
		from = "none"
	}
	s.statusChanges.WithLabelValues(entityKind, from, to).Inc()
}

// ObserveRejectedTransition counts one InvalidTransition outcome.
func (s *PromSink) ObserveRejectedTransition(entityKind string) {
	s.rejectedTransitions.WithLabelValues(entityKind).Inc()
}

// ObserveOrdersCreated adds one bulk creation run.
func (s *PromSink) ObserveOrdersCreated(created, skipped int) {
	s.ordersCreated.Add(float64(created))
	s.ordersSkipped.Add(float64(skipped))
}

// ObserveRoute records one optimized route.
func (s *PromSink) ObserveRoute(stops int, distanceKm float64, elapsed time.Duration) {
	s.routeStops.Observe(float64(stops))
	s.routeDistance.Observe(distanceKm)
	s.routeLatency.Observe(elapsed.Seconds())
}

// NopSink discards every observation.
type NopSink struct{}

func (NopSink) ObserveStatusChange(string, string, string) {}

func (NopSink) ObserveRejectedTransition(string) {}

func (NopSink) ObserveOrdersCreated(int, int) {}

func (NopSink) ObserveRoute(int, float64, time.Duration) {}
