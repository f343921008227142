// Package guard provides ConstructorGuard, a marker embedded in value objects,
// entities, commands and queries to tell a constructor-built instance apart from
// a zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a nil
// validation error for a zero-value guard.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the enclosing struct was produced by its
// constructor. The zero value is "not constructed".
//
// Example:
//
//	var ErrSlotNotConstructed = errors.New("Slot must be created via NewSlot")
//
//	type Slot struct {
//	    mealType string
//	    guard    guard.ConstructorGuard
//	}
//
//	func NewSlot(mealType string) Slot {
//	    return Slot{mealType: mealType, guard: guard.NewConstructorGuard()}
//	}
//
//	func (s Slot) Validate() error {
//	    return s.guard.Validate(ErrSlotNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
