// Package route holds the read model produced by the route optimizer: an ordered
// list of stops with leg and cumulative distances and estimated arrival times.
package route
