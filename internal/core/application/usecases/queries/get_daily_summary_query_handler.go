package queries

import (
	"context"
	"database/sql"

	"tiffin/internal/core/domain/model/customer"
	"tiffin/internal/core/domain/model/delivery"
	"tiffin/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetDailySummaryQueryHandler reads the summary straight from the tables
// without loading aggregates.
type GetDailySummaryQueryHandler struct {
	db *gorm.DB
}

// NewGetDailySummaryQueryHandler creates a handler for daily summaries.
func NewGetDailySummaryQueryHandler(db *gorm.DB) GetDailySummaryQueryHandler {
	return GetDailySummaryQueryHandler{db: db}
}

// Handle runs the summary. It never writes.
func (h GetDailySummaryQueryHandler) Handle(
	ctx context.Context,
	query GetDailySummaryQuery,
) (GetDailySummaryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDailySummaryQueryResponse{}, err
	}

	day := datatypes.Date(query.Date())
	response := GetDailySummaryQueryResponse{Date: query.Date()}

	// One repeatable-read snapshot so counts and revenue agree under
	// concurrent status updates.
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderStatuses, revenue, err := h.orders(tx, day)
		if err != nil {
			return err
		}
		response.OrderStatusCounts = order.Summarize(orderStatuses)
		response.TotalRevenue = revenue

		deliveryStatuses, err := h.deliveryStatuses(tx, day)
		if err != nil {
			return err
		}
		response.DeliveryStatusCounts = delivery.Summarize(deliveryStatuses)

		var active int64
		err = tx.Raw(`SELECT count(*) FROM customers WHERE status = ?`, customer.Active.String()).Scan(&active).Error
		if err != nil {
			return err
		}
		response.ActiveCustomers = int(active)

		response.DeliveriesByZone, err = h.deliveriesByZone(tx, day)
		return err
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return GetDailySummaryQueryResponse{}, err
	}

	return response, nil
}

func (h GetDailySummaryQueryHandler) orders(db *gorm.DB, day datatypes.Date) ([]order.Status, decimal.Decimal, error) {
	rows, err := db.Raw(`
		SELECT
			status,
			total_amount
		FROM orders
		WHERE order_date = ?
	`, day).Rows()
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer rows.Close()

	statuses := make([]order.Status, 0)
	revenue := decimal.Zero
	for rows.Next() {
		var raw string
		var amount decimal.Decimal
		if err = rows.Scan(&raw, &amount); err != nil {
			return nil, decimal.Zero, err
		}
		status, parseErr := order.ParseStatus(raw)
		if parseErr != nil {
			return nil, decimal.Zero, parseErr
		}
		statuses = append(statuses, status)
		if status != order.Cancelled {
			revenue = revenue.Add(amount)
		}
	}

	return statuses, revenue, rows.Err()
}

func (h GetDailySummaryQueryHandler) deliveryStatuses(db *gorm.DB, day datatypes.Date) ([]delivery.Status, error) {
	var raw []string
	if err := db.Raw(`SELECT status FROM deliveries WHERE delivery_date = ?`, day).Scan(&raw).Error; err != nil {
		return nil, err
	}

	statuses := make([]delivery.Status, 0, len(raw))
	for _, s := range raw {
		status, err := delivery.ParseStatus(s)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (h GetDailySummaryQueryHandler) deliveriesByZone(db *gorm.DB, day datatypes.Date) (map[string]int, error) {
	var zones []struct {
		Zone  string
		Total int
	}
	err := db.Raw(`
		SELECT
			zone,
			count(*) AS total
		FROM deliveries
		WHERE delivery_date = ?
		GROUP BY zone
	`, day).Scan(&zones).Error
	if err != nil {
		return nil, err
	}

	byZone := make(map[string]int, len(zones))
	for _, z := range zones {
		byZone[z.Zone] = z.Total
	}
	return byZone, nil
}
