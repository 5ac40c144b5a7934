package orders

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SyncKind identifies the intent derived from a notification about an order.
type SyncKind int

const (
	// SyncCreated means a new order exists server-side and the full record
	// should be fetched by id.
	SyncCreated SyncKind = iota
	// SyncStatusChanged means the event carries an explicit status to apply.
	SyncStatusChanged
	// SyncCancelled means the order should be forced to StatusCancelled.
	SyncCancelled
)

// SyncEvent is the order-synchronization intent derived from a notification's
// title and metadata. It is not a wire-level message.
type SyncEvent struct {
	OrderID int64
	Kind    SyncKind
	Status  Status // set only for SyncStatusChanged
}

// Title markers used by the server when emitting order notifications.
const (
	newOrderMarker  = "new order"
	cancelledMarker = "cancel"
)

// ParseSyncEvent derives an order-sync intent from a notification title and
// its opaque metadata. The metadata may be a pre-parsed object, a
// JSON-encoded string, or raw bytes; every branch is handled explicitly and
// malformed input yields ok=false rather than an error, since order sync is
// best-effort and must never interrupt notification delivery.
//
// Intent resolution, in order:
//   - title contains a new-order marker and no status is present: SyncCreated
//   - metadata carries an explicit status: SyncStatusChanged
//   - title contains a cancellation marker: SyncCancelled
func ParseSyncEvent(title string, metadata any) (SyncEvent, bool) {
	meta, ok := decodeMetadata(metadata)
	if !ok {
		return SyncEvent{}, false
	}

	orderID := metaInt64(meta, "orderId", "OrderId", "orderID", "order_id")
	if orderID == 0 {
		return SyncEvent{}, false
	}

	status := metaString(meta, "status", "Status")
	lowerTitle := strings.ToLower(title)

	switch {
	case strings.Contains(lowerTitle, newOrderMarker) && status == "":
		return SyncEvent{OrderID: orderID, Kind: SyncCreated}, true
	case status != "":
		return SyncEvent{OrderID: orderID, Kind: SyncStatusChanged, Status: ParseStatus(status)}, true
	case strings.Contains(lowerTitle, cancelledMarker):
		return SyncEvent{OrderID: orderID, Kind: SyncCancelled}, true
	}
	return SyncEvent{}, false
}

// decodeMetadata handles the three shapes metadata arrives in: a pre-parsed
// object, a JSON-encoded string, or raw bytes.
func decodeMetadata(metadata any) (map[string]any, bool) {
	switch m := metadata.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return m, true
	case string:
		return unmarshalMetadata([]byte(m))
	case []byte:
		return unmarshalMetadata(m)
	case json.RawMessage:
		return unmarshalMetadata(m)
	}
	return nil, false
}

func unmarshalMetadata(b []byte) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}

func metaInt64(meta map[string]any, keys ...string) int64 {
	for _, key := range keys {
		v, ok := meta[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int64(n)
		case int64:
			return n
		case int:
			return int64(n)
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return i
			}
		case string:
			if i, err := strconv.ParseInt(n, 10, 64); err == nil {
				return i
			}
		}
	}
	return 0
}

func metaString(meta map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := meta[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}
