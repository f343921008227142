// Package services provides the domain services of the tiffin dispatch engine:
// business logic that spans several aggregates or needs no aggregate at all.
//
// The package includes:
//   - RouteOptimizer: orders a day's deliveries into a route from the depot
//     using a deterministic nearest-neighbour heuristic on haversine distance,
//     with optional 2-opt refinement and per-stop ETAs
//   - StatusCascade: applies order and delivery status changes together so
//     that the two state machines never diverge
//
// Both services are pure; persistence and locking belong to the application
// layer that calls them.
package services
