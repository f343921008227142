package order

import (
	"fmt"
	"strings"

	"tiffin/internal/pkg/errs"
)

// Status represents the lifecycle state of a tiffin order.
//
// State transitions:
//
//	Pending ─> Preparing ─> Prepared ─> Packed ─> OutForDelivery ─> Delivered
//	   │           │            │          │             │
//	   └───────────┴────────────┴──────────┴─────────────┴──> Cancelled
//
// Transitions move strictly one step forward along the chain; Cancelled is the
// only escape and is reachable from every non-terminal state. Delivered and
// Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of a freshly created order.
	Pending

	// Preparing means the kitchen has started cooking the meal.
	Preparing

	// Prepared means the meal is cooked and waiting to be packed.
	Prepared

	// Packed means the tiffin is packed. Entering Packed materializes the
	// order's Delivery record.
	Packed

	// OutForDelivery means a driver has picked the tiffin up.
	OutForDelivery

	// Delivered is the terminal success state.
	Delivered

	// Cancelled is the terminal cancellation state. Orders are never deleted.
	Cancelled
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{Pending, Preparing, Prepared, Packed, OutForDelivery, Delivered, Cancelled}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Preparing:      "preparing",
		Prepared:       "prepared",
		Packed:         "packed",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

// getTransitions is the order transition table. A missing key or an empty
// slice means the state is terminal.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown states have no outgoing edges
	return map[Status][]Status{
		Pending:        {Preparing, Cancelled},
		Preparing:      {Prepared, Cancelled},
		Prepared:       {Packed, Cancelled},
		Packed:         {OutForDelivery, Cancelled},
		OutForDelivery: {Delivered, Cancelled},
	}
}

// ParseStatus converts the wire name of a status (e.g. "out_for_delivery") into
// a Status. Matching is case-insensitive.
//
// Returns:
//   - the matching Status
//   - ValueIsInvalidError for unknown names, including "unknown"
func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, st := range Statuses {
		if getStatusStrings()[st] == name {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("order status", fmt.Errorf("%q is not a valid order status", s))
}

// Validate checks that s is one of the declared statuses.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("order status", fmt.Errorf("%d is not a valid order status", s))
	}
	return nil
}

// String returns the wire name of the status. Invalid values render as "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransition reports whether target is a legal next state from s.
// It is true only for the single next state on the chain and for Cancelled
// from a non-terminal state.
func (s Status) CanTransition(target Status) bool {
	for _, next := range getTransitions()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Transition returns target if the move from s is legal.
//
// Returns:
//   - (target, nil) on a legal transition
//   - (Unknown, *errs.InvalidTransitionError) otherwise; the error names both states
//
// Example:
//
//	next, err := order.Packed.Transition(order.OutForDelivery)
//	// next == order.OutForDelivery, err == nil
func (s Status) Transition(target Status) (Status, error) {
	if !s.CanTransition(target) {
		return Unknown, errs.NewInvalidTransitionError("order", s, target)
	}
	return target, nil
}

// CountsTowardRevenue reports whether an order in this status is billable.
// Every valid status except Cancelled is.
func (s Status) CountsTowardRevenue() bool {
	return s.Validate() == nil && s != Cancelled
}

// StatusCounts maps every valid order status to the number of orders in it.
type StatusCounts map[Status]int

// Summarize counts statuses. Every valid status is present in the result,
// with zero when absent from the input; invalid values are ignored.
//
// Example:
//
//	counts := order.Summarize([]order.Status{order.Pending, order.Pending, order.Delivered})
//	// counts[order.Pending] == 2, counts[order.Packed] == 0
func Summarize(statuses []Status) StatusCounts {
	counts := make(StatusCounts, len(Statuses))
	for _, st := range Statuses {
		counts[st] = 0
	}
	for _, st := range statuses {
		if _, ok := counts[st]; ok {
			counts[st]++
		}
	}
	return counts
}

// ByName returns the counts keyed by wire name, as rendered to the dashboard.
func (c StatusCounts) ByName() map[string]int {
	out := make(map[string]int, len(c))
	for st, n := range c {
		out[st.String()] = n
	}
	return out
}

// Total returns the number of counted orders.
func (c StatusCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}
