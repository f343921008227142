package customer

import (
	"fmt"
	"strings"

	"tiffin/internal/pkg/errs"
)

// Status is the account status of a customer.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota
	// Active customers receive orders.
	Active
	// Inactive customers have stopped the service on their own.
	Inactive
	// Suspended customers are blocked, typically for an unpaid balance.
	Suspended
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Active:    "active",
		Inactive:  "inactive",
		Suspended: "suspended",
	}
}

// ParseStatus converts "active", "inactive" or "suspended" into a Status.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return Active, nil
	case "inactive":
		return Inactive, nil
	case "suspended":
		return Suspended, nil
	default:
		return Unknown, errs.NewValueIsInvalidErrorWithCause("customer status", fmt.Errorf("%q is not a valid customer status", s))
	}
}

// Validate checks that s is one of the declared statuses.
func (s Status) Validate() error {
	if s != Active && s != Inactive && s != Suspended {
		return errs.NewValueIsInvalidErrorWithCause("customer status", fmt.Errorf("%d is not a valid customer status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
