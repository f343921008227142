package commands_test

import (
	"testing"
	"time"

	"tiffin/internal/core/domain/model/customer"
	"tiffin/internal/core/domain/model/delivery"
	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"
	"tiffin/internal/core/domain/model/subscription"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var serviceDate = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func newCustomer(t *testing.T, status customer.Status) *customer.Customer {
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
	}, status)
	require.NoError(t, err)
	return c
}

func newSubscription(t *testing.T, customerID kernel.UUID) *subscription.Subscription {
	t.Helper()
	s, err := subscription.NewSubscription(subscription.Params{
		ID:         kernel.NewUUID(),
		CustomerID: customerID,
		Plan: subscription.Plan{
			Name:         "Veg Deluxe",
			Price:        decimal.RequireFromString("89.99"),
			MealsPerWeek: 6,
		},
		StartDate: serviceDate.AddDate(0, -1, 0),
	})
	require.NoError(t, err)
	return s
}

func newOrder(t *testing.T, customerID kernel.UUID, status order.Status) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(order.Params{
		ID:             kernel.NewUUID(),
		CustomerID:     customerID,
		SubscriptionID: kernel.NewUUID(),
		OrderDate:      serviceDate,
		MealType:       order.Lunch,
		PlanName:       "Veg Deluxe",
		TotalAmount:    decimal.RequireFromString("15.00"),
	}, status)
	require.NoError(t, err)
	return o
}

func newDelivery(t *testing.T, o *order.Order, status delivery.Status, location *kernel.GeoPoint) *delivery.Delivery {
	t.Helper()
	d, err := delivery.RestoreDelivery(delivery.Params{
		ID:           kernel.NewUUID(),
		OrderID:      o.ID(),
		CustomerName: "Priya Sharma",
		Address:      "20338 65 Ave, Langley, BC V2Y 2X3",
		Zone:         "Langley",
		DeliveryDate: o.OrderDate(),
		Location:     location,
	}, status)
	require.NoError(t, err)
	return d
}
