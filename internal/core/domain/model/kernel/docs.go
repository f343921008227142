// Package kernel provides the value objects shared by every aggregate of the tiffin
// dispatch domain.
//
// The package includes:
//   - UUID: identifier for customers, subscriptions, orders and deliveries,
//     with a byte-wise Compare used for deterministic tie-breaking
//   - GeoPoint: a validated WGS84 latitude/longitude pair with great-circle
//     (haversine) distance and travel-time helpers
//   - Date helpers: DateOf and ParseDate normalise timestamps to calendar dates
//     (order dates and delivery dates carry no time of day)
//
// Value objects here are immutable and validated on construction; their zero
// values are rejected by Validate so that a half-built object never reaches the
// route optimizer or the repositories.
package kernel
