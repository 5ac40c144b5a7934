package coordinator

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/synckit/pkg/fanout"
	"github.com/dmitrymomot/synckit/pkg/logger"
	"github.com/dmitrymomot/synckit/pkg/notification"
	"github.com/dmitrymomot/synckit/pkg/orders"
	"github.com/dmitrymomot/synckit/pkg/realtime"
)

// Connection is the push-connection surface the coordinator drives.
// *realtime.Manager satisfies it.
type Connection interface {
	Start(ctx context.Context) error
	Stop()
	OnNotification(fn func(notification.Notification)) *fanout.Subscription[notification.Notification]
	OnStateChange(fn func(realtime.State)) *fanout.Subscription[realtime.State]
}

// Coordinator keeps local notification and order state in sync with the
// backend: it seeds a snapshot on activation, applies pushed notifications in
// delivery order, derives order updates from notification metadata, and
// mirrors local read/delete mutations back to the server best-effort.
type Coordinator struct {
	client     Client
	conn       Connection
	notifStore notification.Store
	orderStore orders.Store
	alerter    Alerter
	log        *slog.Logger

	connected atomic.Bool

	mu       sync.Mutex
	active   bool
	epoch    uint64 // bumped by Activate and Deactivate; stale session work checks it
	notifSub *fanout.Subscription[notification.Notification]
	stateSub *fanout.Subscription[realtime.State]
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for the Coordinator.
func WithLogger(log *slog.Logger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}

// WithAlerter replaces the default log-based alerter.
func WithAlerter(a Alerter) Option {
	return func(c *Coordinator) {
		if a != nil {
			c.alerter = a
		}
	}
}

// WithNotificationStore replaces the default in-memory notification store.
func WithNotificationStore(s notification.Store) Option {
	return func(c *Coordinator) {
		if s != nil {
			c.notifStore = s
		}
	}
}

// WithOrderStore replaces the default in-memory order store.
func WithOrderStore(s orders.Store) Option {
	return func(c *Coordinator) {
		if s != nil {
			c.orderStore = s
		}
	}
}

// New creates a coordinator over the given backend client and push
// connection.
func New(client Client, conn Connection, opts ...Option) (*Coordinator, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if conn == nil {
		return nil, ErrNilConnection
	}

	c := &Coordinator{
		client:     client,
		conn:       conn,
		notifStore: notification.NewMemoryStore(),
		orderStore: orders.NewMemoryStore(),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.alerter == nil {
		c.alerter = &logAlerter{log: c.log}
	}
	return c, nil
}

// Notifications exposes the local notification store.
func (c *Coordinator) Notifications() notification.Store { return c.notifStore }

// Orders exposes the local order store.
func (c *Coordinator) Orders() orders.Store { return c.orderStore }

// IsConnected reports whether the push connection is currently established.
func (c *Coordinator) IsConnected() bool { return c.connected.Load() }

// Activate seeds local state from the server snapshot, subscribes to the push
// connection, and starts it asynchronously. It is idempotent, and nothing in
// it is fatal: a failed snapshot fetch seeds an empty store, and connection
// failures surface through the state subscription.
func (c *Coordinator) Activate(ctx context.Context) {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return
	}
	c.active = true
	c.epoch++
	epoch := c.epoch
	c.mu.Unlock()

	snapshot, err := c.client.ListNotifications(ctx)
	if err != nil {
		c.log.LogAttrs(ctx, slog.LevelWarn, "coordinator: snapshot fetch failed, starting empty",
			logger.Component("coordinator"),
			logger.Error(err),
		)
		snapshot = nil
	}
	c.notifStore.Seed(snapshot)

	c.mu.Lock()
	if c.epoch != epoch { // Deactivate won the race during the snapshot fetch
		c.mu.Unlock()
		return
	}
	c.notifSub = c.conn.OnNotification(c.handleNotification)
	c.stateSub = c.conn.OnStateChange(c.handleState)
	c.mu.Unlock()

	// The connection outlives the activation call, so it is not bound to the
	// caller's context.
	go c.startConnection(context.WithoutCancel(ctx), epoch)
}

// startConnection runs the asynchronous connection start for one activation
// epoch. Deactivate is the teardown boundary: a start that loses the race
// against it must not leave a live transport behind, so the epoch is checked
// before dialing and again after, stopping the connection if the session went
// away in between.
func (c *Coordinator) startConnection(ctx context.Context, epoch uint64) {
	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	err := c.conn.Start(ctx)

	c.mu.Lock()
	stale := c.epoch != epoch
	c.mu.Unlock()
	if stale {
		// Deactivate ran while the dial was in flight; its Stop may have
		// preceded the connection being established, so tear down again.
		c.conn.Stop()
		return
	}
	if err != nil {
		c.log.LogAttrs(ctx, slog.LevelWarn, "coordinator: connection start failed",
			logger.Component("coordinator"),
			logger.Error(err),
		)
	}
}

// Deactivate unsubscribes from the connection and stops it. Safe to call
// mid-connect, repeatedly, and before Activate.
func (c *Coordinator) Deactivate() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	c.epoch++
	notifSub, stateSub := c.notifSub, c.stateSub
	c.notifSub, c.stateSub = nil, nil
	c.mu.Unlock()

	if notifSub != nil {
		notifSub.Unsubscribe()
	}
	if stateSub != nil {
		stateSub.Unsubscribe()
	}
	c.conn.Stop()
	c.connected.Store(false)
}

// MarkRead marks the notification read locally and propagates the change to
// the server without blocking the caller. It reports whether a local
// notification actually transitioned to read; nothing is propagated for
// unknown or already-read ids. A remote failure is logged, not returned;
// local and remote state may drift until the next snapshot.
func (c *Coordinator) MarkRead(ctx context.Context, id int64) bool {
	if !c.notifStore.MarkRead(id) {
		return false
	}
	c.fireAndForget(ctx, "mark notification read", func(ctx context.Context) error {
		return c.client.MarkNotificationRead(ctx, id)
	})
	return true
}

// MarkAllRead marks every local notification read, propagates the bulk change
// to the server without blocking the caller, and returns the number of
// notifications affected locally.
func (c *Coordinator) MarkAllRead(ctx context.Context) int {
	n := c.notifStore.MarkAllRead()
	c.fireAndForget(ctx, "mark all notifications read", func(ctx context.Context) error {
		return c.client.MarkAllNotificationsRead(ctx)
	})
	return n
}

// Delete removes the notification locally and propagates the deletion to the
// server without blocking the caller. It reports whether the notification was
// present locally.
func (c *Coordinator) Delete(ctx context.Context, id int64) bool {
	if !c.notifStore.Delete(id) {
		return false
	}
	c.fireAndForget(ctx, "delete notification", func(ctx context.Context) error {
		return c.client.DeleteNotification(ctx, id)
	})
	return true
}

func (c *Coordinator) fireAndForget(ctx context.Context, op string, fn func(ctx context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := fn(ctx); err != nil {
			c.log.LogAttrs(ctx, slog.LevelWarn, "coordinator: remote mutation failed",
				logger.Component("coordinator"),
				slog.String("operation", op),
				logger.Error(err),
			)
		}
	}()
}

// handleNotification runs synchronously on the manager's dispatch path, so
// notifications are applied strictly in delivery order.
func (c *Coordinator) handleNotification(n notification.Notification) {
	if !c.notifStore.Append(n) {
		c.log.LogAttrs(context.Background(), slog.LevelDebug, "coordinator: duplicate notification dropped",
			logger.Component("coordinator"),
			logger.NotificationID(n.ID),
		)
		return
	}

	c.syncOrder(n)
	c.alerter.Alert(context.Background(), n)
}

func (c *Coordinator) handleState(s realtime.State) {
	c.connected.Store(s.Connected())
	c.log.LogAttrs(context.Background(), slog.LevelDebug, "coordinator: connection state changed",
		logger.Component("coordinator"),
		logger.ConnectionState(s.String()),
	)
}

// syncOrder derives the order-side effect of a notification, best-effort:
// a failed fetch or an update for an order that was never loaded is logged
// and skipped, never propagated to the delivery path.
func (c *Coordinator) syncOrder(n notification.Notification) {
	ev, ok := orders.ParseSyncEvent(n.Title, n.Metadata)
	if !ok {
		return
	}
	ctx := context.Background()

	switch ev.Kind {
	case orders.SyncCreated:
		order, err := c.client.FetchOrder(ctx, ev.OrderID)
		if err != nil {
			c.log.LogAttrs(ctx, slog.LevelWarn, "coordinator: order fetch failed",
				logger.Component("coordinator"),
				logger.OrderID(ev.OrderID),
				logger.Error(err),
			)
			return
		}
		c.orderStore.Upsert(order)

	case orders.SyncStatusChanged:
		if !c.orderStore.ApplyStatus(ev.OrderID, ev.Status) {
			c.log.LogAttrs(ctx, slog.LevelDebug, "coordinator: status update for unknown order",
				logger.Component("coordinator"),
				logger.OrderID(ev.OrderID),
				logger.OrderStatus(string(ev.Status)),
			)
		}

	case orders.SyncCancelled:
		if !c.orderStore.ApplyStatus(ev.OrderID, orders.StatusCancelled) {
			c.log.LogAttrs(ctx, slog.LevelDebug, "coordinator: cancellation for unknown order",
				logger.Component("coordinator"),
				logger.OrderID(ev.OrderID),
			)
		}
	}
}
