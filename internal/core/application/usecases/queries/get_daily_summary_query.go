package queries

import (
	"errors"
	"time"

	"tiffin/internal/core/domain/model/delivery"
	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"
	"tiffin/internal/pkg/errs"
	"tiffin/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetDailySummaryQueryIsNotConstructed = errors.New(
	"GetDailySummaryQuery must be created via NewGetDailySummaryQuery constructor",
)

// GetDailySummaryQuery asks for the operational picture of one service day.
//
// Example:
//
//	query, err := NewGetDailySummaryQuery(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
//	if err != nil {
//	    return err
//	}
//	summary, err := handler.Handle(ctx, query)
//	fmt.Println(summary.OrderStatusCounts[order.Pending], summary.TotalRevenue)
type GetDailySummaryQuery struct {
	date time.Time

	guard guard.ConstructorGuard
}

// NewGetDailySummaryQuery normalizes date to its calendar day.
func NewGetDailySummaryQuery(date time.Time) (GetDailySummaryQuery, error) {
	if date.IsZero() {
		return GetDailySummaryQuery{}, errs.NewValueIsRequiredError("date")
	}
	return GetDailySummaryQuery{
		date:  kernel.DateOf(date),
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDailySummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetDailySummaryQueryIsNotConstructed)
}

// Date returns the summarized day.
func (q GetDailySummaryQuery) Date() time.Time {
	return q.date
}

// GetDailySummaryQueryResponse is the summary of one day. Both count maps
// carry every status, zero when absent. Revenue excludes cancelled orders.
type GetDailySummaryQueryResponse struct {
	Date                 time.Time
	OrderStatusCounts    order.StatusCounts
	DeliveryStatusCounts delivery.StatusCounts
	TotalRevenue         decimal.Decimal
	ActiveCustomers      int
	DeliveriesByZone     map[string]int
}
