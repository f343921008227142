package commands_test

import (
	"testing"

	"tiffin/internal/core/application/usecases/commands"
	"tiffin/internal/core/domain/model/delivery"
	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"
	"tiffin/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntityKind(t *testing.T) {
	tests := []struct {
		in      string
		want    commands.EntityKind
		wantErr bool
	}{
		{in: "order", want: commands.EntityOrder},
		{in: " Delivery ", want: commands.EntityDelivery},
		{in: "customer", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := commands.ParseEntityKind(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewUpdateStatusCommand(t *testing.T) {
	id := kernel.NewUUID()

	t.Run("parses an order target", func(t *testing.T) {
		cmd, err := commands.NewUpdateStatusCommand(commands.EntityOrder, id, "out_for_delivery")

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, commands.EntityOrder, cmd.Kind())
		assert.True(t, id.IsEqual(cmd.EntityID()))
		assert.Equal(t, order.OutForDelivery, cmd.OrderTarget())
		assert.Equal(t, "out_for_delivery", cmd.Target())
	})

	t.Run("parses a delivery target", func(t *testing.T) {
		cmd, err := commands.NewUpdateStatusCommand(commands.EntityDelivery, id, "in_transit")

		require.NoError(t, err)
		assert.Equal(t, delivery.InTransit, cmd.DeliveryTarget())
		assert.Equal(t, "in_transit", cmd.Target())
	})

	t.Run("target must belong to the entity's machine", func(t *testing.T) {
		_, err := commands.NewUpdateStatusCommand(commands.EntityDelivery, id, "packed")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects unknown kind and nil id", func(t *testing.T) {
		_, err := commands.NewUpdateStatusCommand("courier", kernel.UUID{}, "delivered")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var cmd commands.UpdateStatusCommand

		assert.ErrorIs(t, cmd.Validate(), commands.ErrUpdateStatusCommandIsNotConstructed)
	})
}
