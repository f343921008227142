package queries

import (
	"context"

	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetPreparationListQueryHandler builds the kitchen list from orders joined to
// their customers.
type GetPreparationListQueryHandler struct {
	db *gorm.DB
}

// NewGetPreparationListQueryHandler creates a handler for preparation lists.
func NewGetPreparationListQueryHandler(db *gorm.DB) GetPreparationListQueryHandler {
	return GetPreparationListQueryHandler{db: db}
}

// Handle lists the pending and preparing orders of the day.
func (h GetPreparationListQueryHandler) Handle(
	ctx context.Context,
	query GetPreparationListQuery,
) (GetPreparationListQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetPreparationListQueryResponse{}, err
	}

	stmt := h.db.WithContext(ctx).
		Table("orders AS o").
		Joins("JOIN customers AS c ON c.id = o.customer_id").
		Select(`o.id, c.first_name, c.last_name, o.plan_name, o.meal_type,
			o.special_requests, c.dietary_restrictions, o.status`).
		Where("o.order_date = ?", datatypes.Date(query.Date())).
		Where("o.status IN ?", []string{order.Pending.String(), order.Preparing.String()})
	if query.MealType() != order.UnknownMeal {
		stmt = stmt.Where("o.meal_type = ?", query.MealType().String())
	}

	rows, err := stmt.Order("o.plan_name").Order("c.first_name").Order("c.last_name").Order("o.id").Rows()
	if err != nil {
		return GetPreparationListQueryResponse{}, err
	}
	defer rows.Close()

	response := GetPreparationListQueryResponse{
		Date:   query.Date(),
		Plans:  make([]PreparationPlanTotal, 0),
		Orders: make([]PreparationOrder, 0),
	}
	for rows.Next() {
		var (
			line                PreparationOrder
			id                  uuid.UUID
			firstName, lastName string
			mealType, status    string
		)
		err = rows.Scan(
			&id,
			&firstName,
			&lastName,
			&line.PlanName,
			&mealType,
			&line.SpecialRequests,
			&line.DietaryRestrictions,
			&status,
		)
		if err != nil {
			return GetPreparationListQueryResponse{}, err
		}

		if line.OrderID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return GetPreparationListQueryResponse{}, err
		}
		if line.MealType, err = order.ParseMealType(mealType); err != nil {
			return GetPreparationListQueryResponse{}, err
		}
		if line.Status, err = order.ParseStatus(status); err != nil {
			return GetPreparationListQueryResponse{}, err
		}
		line.CustomerName = firstName + " " + lastName

		response.Orders = append(response.Orders, line)
		response.Plans = addToPlan(response.Plans, line)
	}

	return response, rows.Err()
}

// addToPlan counts line into the last plan total, opening a new one when the
// plan changes. Rows arrive sorted by plan name.
func addToPlan(plans []PreparationPlanTotal, line PreparationOrder) []PreparationPlanTotal {
	if len(plans) == 0 || plans[len(plans)-1].PlanName != line.PlanName {
		plans = append(plans, PreparationPlanTotal{PlanName: line.PlanName})
	}

	total := &plans[len(plans)-1]
	total.TotalOrders++
	if line.Status == order.Preparing {
		total.Preparing++
	} else {
		total.Pending++
	}
	return plans
}
