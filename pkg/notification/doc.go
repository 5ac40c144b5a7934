// Package notification defines the canonical notification record, the
// payload normalizer that produces it, and local notification state storage.
//
// # Architecture
//
// The package has three parts:
//
//   - Notification: the schema-stable domain model consumed by the rest of
//     the system.
//   - Normalize: converts arbitrary-shaped transport payloads into canonical
//     records. Upstream serializers disagree on field casing, so resolution
//     is case-insensitive with PascalCase preferred.
//   - Store / MemoryStore: local notification state with duplicate-id
//     rejection, mark-read and delete operations.
//
// # Usage
//
//	store := notification.NewMemoryStore()
//
//	n := notification.Normalize(map[string]any{
//	    "Id":      float64(7),
//	    "Title":   "Order Shipped",
//	    "Message": "Your order is on the way",
//	    "Type":    "SUCCESS",
//	})
//
//	if store.Append(n) {
//	    // first delivery of this id
//	}
//
// Normalize never fails: unknown types coerce to info, unparsable timestamps
// fall back to now, and IsRead is always initialized to false.
package notification
