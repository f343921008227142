package queries

import (
	"errors"
	"strings"
	"time"

	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"
	"tiffin/internal/pkg/errs"
	"tiffin/internal/pkg/guard"
)

var ErrGetPreparationListQueryIsNotConstructed = errors.New(
	"GetPreparationListQuery must be created via NewGetPreparationListQuery constructor",
)

// GetPreparationListQuery asks the kitchen what is still to cook on a day:
// the pending and preparing orders, optionally for one meal only.
type GetPreparationListQuery struct {
	date     time.Time
	mealType order.MealType

	guard guard.ConstructorGuard
}

// NewGetPreparationListQuery parses the optional meal type. An empty meal type
// lists every meal of the day.
func NewGetPreparationListQuery(date time.Time, mealType string) (GetPreparationListQuery, error) {
	query := GetPreparationListQuery{
		date:  kernel.DateOf(date),
		guard: guard.NewConstructorGuard(),
	}

	var err error
	if date.IsZero() {
		err = errs.NewValueIsRequiredError("date")
	}
	if strings.TrimSpace(mealType) != "" {
		parsed, parseErr := order.ParseMealType(mealType)
		err = errors.Join(err, parseErr)
		query.mealType = parsed
	}
	if err != nil {
		return GetPreparationListQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetPreparationListQuery) Validate() error {
	return q.guard.Validate(ErrGetPreparationListQueryIsNotConstructed)
}

// Date returns the cooking day.
func (q GetPreparationListQuery) Date() time.Time { return q.date }

// MealType returns the meal filter, or order.UnknownMeal for none.
func (q GetPreparationListQuery) MealType() order.MealType { return q.mealType }

// PreparationPlanTotal is how many meals of one plan the kitchen still owes.
type PreparationPlanTotal struct {
	PlanName    string
	TotalOrders int
	Pending     int
	Preparing   int
}

// PreparationOrder is one line of the kitchen ticket.
type PreparationOrder struct {
	OrderID             kernel.UUID
	CustomerName        string
	PlanName            string
	MealType            order.MealType
	SpecialRequests     string
	DietaryRestrictions string
	Status              order.Status
}

// GetPreparationListQueryResponse groups the day's open orders per plan. Plans
// and orders are sorted by plan name, then by customer name.
type GetPreparationListQueryResponse struct {
	Date   time.Time
	Plans  []PreparationPlanTotal
	Orders []PreparationOrder
}
