package order_test

import (
	"testing"
	"time"

	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"
	"tiffin/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() order.Params {
	return order.Params{
		ID:             kernel.NewUUID(),
		CustomerID:     kernel.NewUUID(),
		SubscriptionID: kernel.NewUUID(),
		OrderDate:      time.Date(2025, 6, 3, 9, 15, 0, 0, time.UTC),
		MealType:       order.Lunch,
		PlanName:       "Veg Deluxe",
		TotalAmount:    decimal.RequireFromString("12.50"),
	}
}

func TestNewOrder(t *testing.T) {
	t.Run("should create pending order", func(t *testing.T) {
		p := validParams()

		o, err := order.NewOrder(p)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(p.ID))
		assert.True(t, o.CustomerID().IsEqual(p.CustomerID))
		assert.True(t, o.SubscriptionID().IsEqual(p.SubscriptionID))
		assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), o.OrderDate())
		assert.Equal(t, order.Lunch, o.MealType())
		assert.Equal(t, "Veg Deluxe", o.PlanName())
		assert.True(t, decimal.RequireFromString("12.5").Equal(o.TotalAmount()))
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("should join every validation error", func(t *testing.T) {
		o, err := order.NewOrder(order.Params{TotalAmount: decimal.NewFromInt(-1)})

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "customer id")
		assert.Contains(t, err.Error(), "subscription id")
		assert.Contains(t, err.Error(), "order date")
		assert.Contains(t, err.Error(), "meal type")
		assert.Contains(t, err.Error(), "plan name")
		assert.Contains(t, err.Error(), "is negative")
	})

	t.Run("zero amount is allowed", func(t *testing.T) {
		p := validParams()
		p.TotalAmount = decimal.Zero

		_, err := order.NewOrder(p)
		assert.NoError(t, err)
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("restores status", func(t *testing.T) {
		o, err := order.RestoreOrder(validParams(), order.Packed)

		require.NoError(t, err)
		assert.Equal(t, order.Packed, o.Status())
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		o, err := order.RestoreOrder(validParams(), order.Unknown)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Nil(t, o)
	})
}

func TestOrder_Validate(t *testing.T) {
	var zero order.Order
	assert.ErrorIs(t, zero.Validate(), order.ErrOrderIsNotConstructed)

	var nilOrder *order.Order
	assert.ErrorIs(t, nilOrder.Validate(), order.ErrOrderIsNotConstructed)
}

func TestOrder_ChangeStatus(t *testing.T) {
	t.Run("walks the whole chain", func(t *testing.T) {
		o, err := order.NewOrder(validParams())
		require.NoError(t, err)

		for _, next := range []order.Status{
			order.Preparing, order.Prepared, order.Packed, order.OutForDelivery, order.Delivered,
		} {
			require.NoError(t, o.ChangeStatus(next))
			assert.Equal(t, next, o.Status())
		}
	})

	t.Run("illegal move leaves status untouched", func(t *testing.T) {
		o, err := order.NewOrder(validParams())
		require.NoError(t, err)

		err = o.ChangeStatus(order.Packed)

		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("cancelled is final", func(t *testing.T) {
		o, err := order.NewOrder(validParams())
		require.NoError(t, err)
		require.NoError(t, o.ChangeStatus(order.Cancelled))

		assert.ErrorIs(t, o.ChangeStatus(order.Preparing), errs.ErrInvalidTransition)
	})
}

func TestOrder_MarkDelivered(t *testing.T) {
	t.Run("forces delivered from any open status", func(t *testing.T) {
		for _, st := range []order.Status{order.Pending, order.Packed, order.OutForDelivery} {
			o, err := order.RestoreOrder(validParams(), st)
			require.NoError(t, err)

			require.NoError(t, o.MarkDelivered())
			assert.Equal(t, order.Delivered, o.Status())
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		o, err := order.RestoreOrder(validParams(), order.Delivered)
		require.NoError(t, err)

		assert.NoError(t, o.MarkDelivered())
		assert.Equal(t, order.Delivered, o.Status())
	})

	t.Run("cancelled order cannot be delivered", func(t *testing.T) {
		o, err := order.RestoreOrder(validParams(), order.Cancelled)
		require.NoError(t, err)

		assert.ErrorIs(t, o.MarkDelivered(), errs.ErrInvalidTransition)
		assert.Equal(t, order.Cancelled, o.Status())
	})
}

func TestOrder_IsEqual(t *testing.T) {
	p := validParams()
	a, _ := order.NewOrder(p)
	b, _ := order.RestoreOrder(p, order.Packed)
	c, _ := order.NewOrder(validParams())

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
	assert.False(t, a.IsEqual(nil))
}
