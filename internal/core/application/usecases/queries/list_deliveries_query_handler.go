package queries

import (
	"context"
	"database/sql"
	"time"

	"tiffin/internal/core/domain/model/delivery"
	"tiffin/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListDeliveriesQueryHandler reads delivery rows for the dispatch board.
type ListDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewListDeliveriesQueryHandler creates a handler for delivery listings.
func NewListDeliveriesQueryHandler(db *gorm.DB) ListDeliveriesQueryHandler {
	return ListDeliveriesQueryHandler{db: db}
}

// Handle lists matching deliveries in planned arrival order; deliveries
// without an ETA come last, then by ID.
func (h ListDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query ListDeliveriesQuery,
) ([]ListDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	stmt := h.db.WithContext(ctx).
		Table("deliveries").
		Select(`id, order_id, customer_name, customer_phone, address, zone,
			delivery_instructions, latitude, longitude, status, estimated_arrival, delivered_at`).
		Where("delivery_date = ?", datatypes.Date(query.Date()))
	if query.Zone() != "" {
		stmt = stmt.Where("zone = ?", query.Zone())
	}
	if query.Status() != delivery.Unknown {
		stmt = stmt.Where("status = ?", query.Status().String())
	}

	rows, err := stmt.Order("estimated_arrival ASC NULLS LAST").Order("id").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deliveries := make([]ListDeliveriesQueryResponse, 0)
	for rows.Next() {
		var (
			resp                 ListDeliveriesQueryResponse
			id, orderID          uuid.UUID
			latitude, longitude  sql.NullFloat64
			status               string
			estimated, delivered sql.NullTime
		)
		err = rows.Scan(
			&id,
			&orderID,
			&resp.CustomerName,
			&resp.CustomerPhone,
			&resp.Address,
			&resp.Zone,
			&resp.Instructions,
			&latitude,
			&longitude,
			&status,
			&estimated,
			&delivered,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if resp.Status, err = delivery.ParseStatus(status); err != nil {
			return nil, err
		}
		if latitude.Valid && longitude.Valid {
			point, geoErr := kernel.NewGeoPoint(latitude.Float64, longitude.Float64)
			if geoErr != nil {
				return nil, geoErr
			}
			resp.Location = &point
		}
		resp.EstimatedArrival = nullTime(estimated)
		resp.DeliveredAt = nullTime(delivered)

		deliveries = append(deliveries, resp)
	}

	return deliveries, rows.Err()
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
