// Package order provides the Order aggregate of the tiffin dispatch domain and
// its status state machine.
//
// The package includes:
//   - Order: one meal for one customer on one day, created pending (usually in
//     bulk from active subscriptions) and moved through the kitchen and delivery
//     workflow
//   - Status: the closed order status enum with its explicit transition table,
//     CanTransition/Transition and the Summarize aggregator used by the daily
//     dashboard
//   - MealType: lunch or dinner
//
// Key business rules:
//   - Status moves strictly forward: pending, preparing, prepared, packed,
//     out_for_delivery, delivered
//   - cancelled is reachable from any non-terminal status
//   - delivered and cancelled are terminal; orders are never deleted
//   - MarkDelivered forces delivered when the linked delivery is confirmed,
//     and is a no-op when already delivered
package order
