package ports

import "time"

// DispatchMetrics records operational counters of the dispatch core.
type DispatchMetrics interface {
	ObserveStatusChange(entityKind, from, to string)
	ObserveRejectedTransition(entityKind string)
	ObserveOrdersCreated(created, skipped int)
	ObserveRoute(stops int, distanceKm float64, elapsed time.Duration)
}
