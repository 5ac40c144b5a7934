// Package orders holds the local order-tracking list and derives
// order-synchronization intents from notification metadata.
//
// Notifications about orders carry an opaque metadata payload that may be a
// pre-parsed object or a JSON-encoded string. ParseSyncEvent decodes it on a
// best-effort basis into one of three intents: a new order to fetch, an
// explicit status to apply, or a cancellation. Malformed metadata yields no
// event rather than an error, so a bad payload never interrupts notification
// delivery.
//
// # Usage
//
//	store := orders.NewMemoryStore()
//
//	event, ok := orders.ParseSyncEvent("Order Update", map[string]any{
//	    "orderId": float64(42),
//	    "status":  "Delivered",
//	})
//	if ok && event.Kind == orders.SyncStatusChanged {
//	    store.ApplyStatus(event.OrderID, event.Status)
//	}
package orders
