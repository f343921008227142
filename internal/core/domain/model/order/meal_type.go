package order

import (
	"fmt"
	"strings"

	"tiffin/internal/pkg/errs"
)

// MealType identifies which daily meal an order is for. A customer has at most
// one order per (date, meal type).
type MealType int

const (
	// UnknownMeal is the zero value and is invalid.
	UnknownMeal MealType = iota
	// Lunch is the midday tiffin.
	Lunch
	// Dinner is the evening tiffin.
	Dinner
)

// MealTypes lists every valid meal type.
var MealTypes = []MealType{Lunch, Dinner}

// ParseMealType converts "lunch" or "dinner" (case-insensitive) into a MealType.
func ParseMealType(s string) (MealType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lunch":
		return Lunch, nil
	case "dinner":
		return Dinner, nil
	default:
		return UnknownMeal, errs.NewValueIsInvalidErrorWithCause("meal type", fmt.Errorf("%q is not a valid meal type", s))
	}
}

// Validate checks that m is Lunch or Dinner.
func (m MealType) Validate() error {
	if m != Lunch && m != Dinner {
		return errs.NewValueIsInvalidErrorWithCause("meal type", fmt.Errorf("%d is not a valid meal type", m))
	}
	return nil
}

func (m MealType) String() string {
	switch m {
	case Lunch:
		return "lunch"
	case Dinner:
		return "dinner"
	case UnknownMeal:
		return "unknown"
	default:
		return "unknown"
	}
}
