package queries

import (
	"errors"
	"strings"
	"time"

	"tiffin/internal/core/domain/model/delivery"
	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/pkg/errs"
	"tiffin/internal/pkg/guard"
)

var ErrListDeliveriesQueryIsNotConstructed = errors.New(
	"ListDeliveriesQuery must be created via NewListDeliveriesQuery constructor",
)

// ListDeliveriesQuery lists the deliveries of a day, optionally narrowed to a
// zone and a status. An empty zone or empty status means no filter.
type ListDeliveriesQuery struct {
	date   time.Time
	zone   string
	status delivery.Status

	guard guard.ConstructorGuard
}

// NewListDeliveriesQuery parses the optional status filter.
func NewListDeliveriesQuery(date time.Time, zone, status string) (ListDeliveriesQuery, error) {
	query := ListDeliveriesQuery{
		date:  kernel.DateOf(date),
		zone:  strings.TrimSpace(zone),
		guard: guard.NewConstructorGuard(),
	}

	var err error
	if date.IsZero() {
		err = errs.NewValueIsRequiredError("date")
	}
	if strings.TrimSpace(status) != "" {
		parsed, parseErr := delivery.ParseStatus(status)
		err = errors.Join(err, parseErr)
		query.status = parsed
	}
	if err != nil {
		return ListDeliveriesQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q ListDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrListDeliveriesQueryIsNotConstructed)
}

// Date returns the listed day.
func (q ListDeliveriesQuery) Date() time.Time { return q.date }

// Zone returns the zone filter, or "".
func (q ListDeliveriesQuery) Zone() string { return q.zone }

// Status returns the status filter, or delivery.Unknown for none.
func (q ListDeliveriesQuery) Status() delivery.Status { return q.status }

// ListDeliveriesQueryResponse is one row of the driver sheet.
type ListDeliveriesQueryResponse struct {
	ID               kernel.UUID
	OrderID          kernel.UUID
	CustomerName     string
	CustomerPhone    string
	Address          string
	Zone             string
	Instructions     string
	Location         *kernel.GeoPoint
	Status           delivery.Status
	EstimatedArrival *time.Time
	DeliveredAt      *time.Time
}
