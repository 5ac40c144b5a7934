package coordinator

import (
	"context"

	"github.com/dmitrymomot/synckit/pkg/notification"
	"github.com/dmitrymomot/synckit/pkg/orders"
)

// Client is the backend API surface the coordinator synchronizes against.
// The data plane (REST, gRPC, ...) is the caller's concern; the coordinator
// only needs these five operations.
type Client interface {
	// ListNotifications returns the server-side notification snapshot used
	// to seed local state on activation.
	ListNotifications(ctx context.Context) ([]notification.Notification, error)

	// FetchOrder loads the full order referenced by a new-order event.
	FetchOrder(ctx context.Context, id int64) (orders.Order, error)

	// MarkNotificationRead propagates a local read mark to the server.
	MarkNotificationRead(ctx context.Context, id int64) error

	// MarkAllNotificationsRead propagates a bulk read mark to the server.
	MarkAllNotificationsRead(ctx context.Context) error

	// DeleteNotification removes the notification on the server.
	DeleteNotification(ctx context.Context, id int64) error
}
