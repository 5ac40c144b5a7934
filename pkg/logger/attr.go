package logger

import (
	"log/slog"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// NotificationID records the notification identifier under the key "notification_id".
func NotificationID(id int64) slog.Attr {
	return slog.Int64("notification_id", id)
}

// OrderID records the order identifier under the key "order_id".
func OrderID(id int64) slog.Attr {
	return slog.Int64("order_id", id)
}

// OrderStatus records an order status under the key "order_status".
func OrderStatus(status any) slog.Attr {
	if status == nil {
		return slog.Attr{}
	}
	return slog.Any("order_status", status)
}

// ConnectionState records a connection state under the key "connection_state".
func ConnectionState(state any) slog.Attr {
	if state == nil {
		return slog.Attr{}
	}
	return slog.Any("connection_state", state)
}

// Attempt records a retry attempt number under the key "attempt".
func Attempt(n int) slog.Attr {
	return slog.Int("attempt", n)
}

// Endpoint records a transport endpoint under the key "endpoint".
func Endpoint(endpoint string) slog.Attr {
	return slog.String("endpoint", endpoint)
}

// EventType records the event type under the key "event_type".
func EventType(eventType string) slog.Attr {
	return slog.String("event_type", eventType)
}
