package orders_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/synckit/pkg/orders"
)

func TestParseSyncEvent_Created(t *testing.T) {
	event, ok := orders.ParseSyncEvent("New Order Created", map[string]any{
		"orderId": float64(42),
	})

	require.True(t, ok)
	assert.Equal(t, orders.SyncCreated, event.Kind)
	assert.Equal(t, int64(42), event.OrderID)
}

func TestParseSyncEvent_StatusChanged(t *testing.T) {
	event, ok := orders.ParseSyncEvent("Order Update", map[string]any{
		"orderId": float64(42),
		"status":  "Delivered",
	})

	require.True(t, ok)
	assert.Equal(t, orders.SyncStatusChanged, event.Kind)
	assert.Equal(t, orders.StatusDelivered, event.Status)
}

func TestParseSyncEvent_StatusWinsOverNewOrderTitle(t *testing.T) {
	// A status field present alongside a "new order" title means the order
	// already exists; the explicit status applies.
	event, ok := orders.ParseSyncEvent("New Order Created", map[string]any{
		"orderId": float64(42),
		"status":  "Confirmed",
	})

	require.True(t, ok)
	assert.Equal(t, orders.SyncStatusChanged, event.Kind)
	assert.Equal(t, orders.StatusConfirmed, event.Status)
}

func TestParseSyncEvent_Cancelled(t *testing.T) {
	event, ok := orders.ParseSyncEvent("Your Order Was Cancelled", map[string]any{
		"orderId": float64(9),
	})

	require.True(t, ok)
	assert.Equal(t, orders.SyncCancelled, event.Kind)
	assert.Equal(t, int64(9), event.OrderID)
}

func TestParseSyncEvent_MetadataShapes(t *testing.T) {
	tests := []struct {
		name string
		meta any
		ok   bool
	}{
		{name: "pre-parsed object", meta: map[string]any{"orderId": float64(1), "status": "Shipped"}, ok: true},
		{name: "json string", meta: `{"orderId": 1, "status": "Shipped"}`, ok: true},
		{name: "raw bytes", meta: []byte(`{"orderId": 1, "status": "Shipped"}`), ok: true},
		{name: "json raw message", meta: json.RawMessage(`{"orderId": 1, "status": "Shipped"}`), ok: true},
		{name: "not json", meta: "not json", ok: false},
		{name: "json but not an object", meta: `[1,2,3]`, ok: false},
		{name: "json null", meta: `null`, ok: false},
		{name: "nil", meta: nil, ok: false},
		{name: "unsupported shape", meta: 12345, ok: false},
		{name: "object without order id", meta: map[string]any{"status": "Shipped"}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := orders.ParseSyncEvent("Order Update", tt.meta)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParseSyncEvent_OrderIDShapes(t *testing.T) {
	for name, id := range map[string]any{
		"float64": float64(7),
		"int":     7,
		"int64":   int64(7),
		"string":  "7",
		"number":  json.Number("7"),
	} {
		t.Run(name, func(t *testing.T) {
			event, ok := orders.ParseSyncEvent("order cancelled", map[string]any{"orderId": id})
			require.True(t, ok)
			assert.Equal(t, int64(7), event.OrderID)
		})
	}
}

func TestParseSyncEvent_NoIntent(t *testing.T) {
	// Valid metadata but neither a recognized title nor a status.
	_, ok := orders.ParseSyncEvent("Order Update", map[string]any{"orderId": float64(3)})
	assert.False(t, ok)
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, orders.StatusCancelled, orders.ParseStatus("Cancelled"))
	assert.Equal(t, orders.StatusDelivered, orders.ParseStatus(" DELIVERED "))
	// Unknown statuses pass through lowercased.
	assert.Equal(t, orders.Status("refunded"), orders.ParseStatus("Refunded"))
}
