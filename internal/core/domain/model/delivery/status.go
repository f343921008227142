package delivery

import (
	"fmt"
	"strings"

	"tiffin/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery.
//
// State transitions:
//
//	Scheduled ──> InTransit ──> Delivered
//	    │  │          │
//	    │  └──────────┴──> Failed
//	    └──> Cancelled
//
// Delivered, Failed and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Scheduled is the initial status, set when the order is packed.
	Scheduled

	// InTransit means the driver is on the way.
	InTransit

	// Delivered means the tiffin was handed over.
	Delivered

	// Failed means the drop-off could not be completed.
	Failed

	// Cancelled means the delivery was called off before dispatch.
	Cancelled
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{Scheduled, InTransit, Delivered, Failed, Cancelled}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Scheduled: "scheduled",
		InTransit: "in_transit",
		Delivered: "delivered",
		Failed:    "failed",
		Cancelled: "cancelled",
	}
}

func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown states have no outgoing edges
	return map[Status][]Status{
		Scheduled: {InTransit, Failed, Cancelled},
		InTransit: {Delivered, Failed},
	}
}

// ParseStatus converts a wire name (e.g. "in_transit") into a Status.
func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, st := range Statuses {
		if getStatusStrings()[st] == name {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("delivery status", fmt.Errorf("%q is not a valid delivery status", s))
}

// Validate checks that s is one of the declared statuses.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("delivery status", fmt.Errorf("%d is not a valid delivery status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Failed || s == Cancelled
}

// IsRoutable reports whether a delivery in this status still needs a stop on
// the day's route.
func (s Status) IsRoutable() bool {
	return s == Scheduled || s == InTransit
}

// CanTransition reports whether target is a legal next state from s.
func (s Status) CanTransition(target Status) bool {
	for _, next := range getTransitions()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Transition returns target if the move from s is legal, and an
// *errs.InvalidTransitionError naming both states otherwise.
func (s Status) Transition(target Status) (Status, error) {
	if !s.CanTransition(target) {
		return Unknown, errs.NewInvalidTransitionError("delivery", s, target)
	}
	return target, nil
}

// StatusCounts maps every valid delivery status to a count.
type StatusCounts map[Status]int

// Summarize counts statuses. Every valid status is present in the result.
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

// ByName returns the counts keyed by wire name.
func (c StatusCounts) ByName() map[string]int {
	out := make(map[string]int, len(c))
	for st, n := range c {
		out[st.String()] = n
	}
	return out
}
