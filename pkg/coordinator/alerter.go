package coordinator

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/synckit/pkg/logger"
	"github.com/dmitrymomot/synckit/pkg/notification"
)

// Alerter surfaces a freshly arrived notification to the user (toast, system
// tray, ...). Alert runs synchronously on the delivery path and must return
// quickly. ActionURL, when present, is the navigation target to offer.
type Alerter interface {
	Alert(ctx context.Context, n notification.Notification)
}

// AlertFunc adapts a plain function to the Alerter interface.
type AlertFunc func(ctx context.Context, n notification.Notification)

func (f AlertFunc) Alert(ctx context.Context, n notification.Notification) { f(ctx, n) }

// logAlerter is the default: notifications land in the log until the
// application wires a real presentation layer.
type logAlerter struct {
	log *slog.Logger
}

func (a *logAlerter) Alert(ctx context.Context, n notification.Notification) {
	a.log.LogAttrs(ctx, slog.LevelInfo, n.Title,
		logger.Component("coordinator"),
		logger.NotificationID(n.ID),
		logger.EventType(string(n.Type)),
		slog.String("message", n.Message),
		slog.String("action_url", n.ActionURL),
	)
}
