package metrics_test

import (
	"strings"
	"testing"
	"time"

	"tiffin/internal/adapters/out/metrics"
	"tiffin/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.DispatchMetrics = (*metrics.PromSink)(nil)
	_ ports.DispatchMetrics = metrics.NopSink{}
)

func TestPromSink_StatusChanges(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSink(reg)
	require.NoError(t, err)

	sink.ObserveStatusChange("order", "prepared", "packed")
	sink.ObserveStatusChange("delivery", "", "scheduled")
	sink.ObserveStatusChange("order", "prepared", "packed")
	sink.ObserveRejectedTransition("delivery")

	expected := `
# HELP tiffin_status_changes_total Committed status changes by entity kind and transition
# TYPE tiffin_status_changes_total counter
tiffin_status_changes_total{entity_kind="delivery",from="none",to="scheduled"} 1
tiffin_status_changes_total{entity_kind="order",from="prepared",to="packed"} 2
# HELP tiffin_rejected_transitions_total Status updates rejected by the state machines
# TYPE tiffin_rejected_transitions_total counter
tiffin_rejected_transitions_total{entity_kind="delivery"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"tiffin_status_changes_total", "tiffin_rejected_transitions_total"))
}

func TestPromSink_OrdersAndRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSink(reg)
	require.NoError(t, err)

	sink.ObserveOrdersCreated(12, 3)
	sink.ObserveOrdersCreated(0, 15)
	sink.ObserveRoute(8, 23.4, 40*time.Millisecond)

	expected := `
# HELP tiffin_orders_created_total Orders inserted by bulk creation
# TYPE tiffin_orders_created_total counter
tiffin_orders_created_total 12
# HELP tiffin_orders_skipped_total Subscriptions skipped by bulk creation
# TYPE tiffin_orders_skipped_total counter
tiffin_orders_skipped_total 18
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"tiffin_orders_created_total", "tiffin_orders_skipped_total"))

	count, err := testutil.GatherAndCount(reg,
		"tiffin_route_stops", "tiffin_route_distance_km", "tiffin_route_optimization_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestNewPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := metrics.NewPromSink(reg)
	require.NoError(t, err)
	second, err := metrics.NewPromSink(reg)
	require.NoError(t, err)

	first.ObserveOrdersCreated(2, 0)
	second.ObserveOrdersCreated(3, 0)

	expected := `
# HELP tiffin_orders_created_total Orders inserted by bulk creation
# TYPE tiffin_orders_created_total counter
tiffin_orders_created_total 5
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "tiffin_orders_created_total"))
}
