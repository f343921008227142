package kernel

import (
	"time"

	"tiffin/internal/pkg/errs"
)

// DateLayout is the ISO calendar-date layout used on the wire and in config.
const DateLayout = time.DateOnly

// DateOf truncates t to midnight UTC of its calendar day in t's own location.
// Order and delivery dates are stored this way so that equality checks on dates
// are plain time.Equal comparisons.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "2006-01-02" calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause("date", err)
	}
	return t, nil
}

// SameDate reports whether a and b fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}
