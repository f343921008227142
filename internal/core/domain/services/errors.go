package services

import (
	"errors"
	"fmt"

	"tiffin/internal/core/domain/model/kernel"
)

var (
	// ErrMissingLocation is the sentinel wrapped by MissingLocationError.
	ErrMissingLocation = errors.New("delivery has no geocoded location")

	// ErrTooManyStops is the sentinel wrapped by TooManyStopsError.
	ErrTooManyStops = errors.New("too many stops for a single route")
)

// MissingLocationError reports deliveries that cannot be routed because their
// address has not been geocoded. DeliveryID is the lowest offending identifier;
// Missing is how many deliveries lack a location in total.
type MissingLocationError struct {
	DeliveryID kernel.UUID
	Missing    int
}

func (e *MissingLocationError) Error() string {
	if e.Missing > 1 {
		return fmt.Sprintf("%s: %s and %d more", ErrMissingLocation, e.DeliveryID, e.Missing-1)
	}
	return fmt.Sprintf("%s: %s", ErrMissingLocation, e.DeliveryID)
}

func (e *MissingLocationError) Unwrap() error {
	return ErrMissingLocation
}

// TooManyStopsError reports a route request above the configured stop cap.
type TooManyStopsError struct {
	Count int
	Limit int
}

func (e *TooManyStopsError) Error() string {
	return fmt.Sprintf("%s: %d deliveries, limit is %d", ErrTooManyStops, e.Count, e.Limit)
}

func (e *TooManyStopsError) Unwrap() error {
	return ErrTooManyStops
}
