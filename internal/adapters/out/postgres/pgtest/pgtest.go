// Package pgtest starts a throwaway Postgres for integration suites and
// applies the production migrations to it.
package pgtest

import (
	"context"
	"testing"
	"time"

	"tiffin/internal/adapters/out/postgres/migrations"
	"tiffin/internal/core/domain/model/customer"
	"tiffin/internal/core/domain/model/delivery"
	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"
	"tiffin/internal/core/domain/model/subscription"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ServiceDate is the delivery day the fixtures are built around.
var ServiceDate = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

// Database is a migrated Postgres container.
type Database struct {
	Container *postgres.PostgresContainer
	DSN       string
	DB        *gorm.DB
}

// Start runs postgres:15-alpine and applies every migration.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	if err = migrations.Up(sqlDB); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &Database{Container: container, DSN: dsn, DB: db}, nil
}

// Truncate empties every table.
func (d *Database) Truncate() error {
	return d.DB.Exec("TRUNCATE TABLE deliveries, orders, subscriptions, customers").Error
}

// Terminate stops the container.
func (d *Database) Terminate(ctx context.Context) error {
	if d == nil || d.Container == nil {
		return nil
	}
	return d.Container.Terminate(ctx)
}

// NopTracker discards tracked aggregates.
type NopTracker struct{}

// TrackAggregate does nothing.
func (NopTracker) TrackAggregate(kernel.UUID, any) {}

// Customer builds a customer living in Langley with a geocoded address.
func Customer(t testing.TB, status customer.Status) *customer.Customer {
	t.Helper()
	location := kernel.MustGeoPoint(49.1044, -122.6600)
	c, err := customer.RestoreCustomer(customer.Params{
		ID:        kernel.NewUUID(),
		FirstName: "Priya",
		LastName:  "Sharma",
		Email:     "priya@example.com",
		Phone:     "604-555-0101",
		Address: customer.Address{
			Line1:      "20338 65 Ave",
			City:       "Langley",
			Province:   "BC",
			PostalCode: "V2Y 2X3",
		},
		Location:             &location,
		DeliveryInstructions: "Leave at side door",
		AccountBalance:       decimal.RequireFromString("120.50"),
	}, status)
	require.NoError(t, err)
	return c
}

// Subscription builds an active subscription that started a month before ServiceDate.
func Subscription(t testing.TB, customerID kernel.UUID) *subscription.Subscription {
	t.Helper()
	s, err := subscription.NewSubscription(subscription.Params{
		ID:         kernel.NewUUID(),
		CustomerID: customerID,
		Plan: subscription.Plan{
			Name:         "Veg Deluxe",
			Price:        decimal.RequireFromString("89.99"),
			MealsPerWeek: 6,
		},
		StartDate: ServiceDate.AddDate(0, -1, 0),
	})
	require.NoError(t, err)
	return s
}

// Order builds a lunch order on ServiceDate.
func Order(t testing.TB, s *subscription.Subscription, status order.Status) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(order.Params{
		ID:             kernel.NewUUID(),
		CustomerID:     s.CustomerID(),
		SubscriptionID: s.ID(),
		OrderDate:      ServiceDate,
		MealType:       order.Lunch,
		PlanName:       s.Plan().Name,
		TotalAmount:    decimal.RequireFromString("15.00"),
	}, status)
	require.NoError(t, err)
	return o
}

// Delivery builds a delivery for o in the given zone.
func Delivery(
	t testing.TB,
	o *order.Order,
	status delivery.Status,
	zone string,
	location *kernel.GeoPoint,
) *delivery.Delivery {
	t.Helper()
	d, err := delivery.RestoreDelivery(delivery.Params{
		ID:           kernel.NewUUID(),
		OrderID:      o.ID(),
		CustomerName: "Priya Sharma",
		Address:      "20338 65 Ave, Langley, BC V2Y 2X3",
		Zone:         zone,
		DeliveryDate: o.OrderDate(),
		Location:     location,
	}, status)
	require.NoError(t, err)
	return d
}
