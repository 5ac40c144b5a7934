package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/synckit/pkg/backoff"
	"github.com/dmitrymomot/synckit/pkg/fanout"
	"github.com/dmitrymomot/synckit/pkg/logger"
	"github.com/dmitrymomot/synckit/pkg/notification"
)

// Config carries the Manager's connection parameters.
type Config struct {
	// Endpoint is the push server address. Required.
	Endpoint string `env:"PUSH_ENDPOINT,required"`
	// WithCredentials asks the transport to attach ambient credentials.
	WithCredentials bool `env:"PUSH_WITH_CREDENTIALS" envDefault:"true"`
	// RetryInterval is the fixed delay before retrying a failed initial
	// connection attempt.
	RetryInterval time.Duration `env:"PUSH_RETRY_INTERVAL" envDefault:"5s"`
	// MaxReconnectAttempts bounds the recovery loop after an established
	// session drops. Zero means unlimited.
	MaxReconnectAttempts int `env:"PUSH_MAX_RECONNECT_ATTEMPTS" envDefault:"0"`
}

// Manager owns the single push connection for a session. It guarantees at
// most one in-flight connection attempt, recovers dropped sessions with
// backoff, and publishes normalized notifications and state transitions to
// its subscribers.
//
// One Manager exists per process/session; remounting UI components reuses
// the same instance instead of creating parallel connections.
type Manager struct {
	transport Transport
	cfg       Config
	log       *slog.Logger
	reconnect backoff.Strategy

	notifications *fanout.Registry[notification.Notification]
	states        *fanout.Registry[State]

	state atomic.Int32

	mu         sync.Mutex
	conn       Conn
	gen        uint64 // bumped by Stop and by every new connection attempt
	inflight   *inflight
	retryTimer *time.Timer
	cancelLoop context.CancelFunc

	dispatchMu sync.Mutex // serializes inbound message normalization and publish
}

// inflight is the shared handle for one connection attempt. Overlapping
// Start callers wait on done and observe the same settled error.
type inflight struct {
	done chan struct{}
	err  error
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger for the Manager.
func WithLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithReconnectStrategy overrides the recovery backoff used after an
// established session drops.
func WithReconnectStrategy(strategy backoff.Strategy) ManagerOption {
	return func(m *Manager) {
		if strategy != nil {
			m.reconnect = strategy
		}
	}
}

// NewManager creates a connection manager for the given transport.
// A missing endpoint is a construction-time error.
func NewManager(transport Transport, cfg Config, opts ...ManagerOption) (*Manager, error) {
	if cfg.Endpoint == "" {
		return nil, ErrEndpointRequired
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 5 * time.Second
	}

	m := &Manager{
		transport:     transport,
		cfg:           cfg,
		log:           slog.Default(),
		reconnect:     backoff.DefaultReconnectSchedule(),
		notifications: fanout.NewRegistry[notification.Notification](),
		states:        fanout.NewRegistry[State](),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// State returns the current connection state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// IsConnected reports whether the push connection is established.
func (m *Manager) IsConnected() bool {
	return m.State().Connected()
}

// OnNotification subscribes to normalized notifications. Callbacks run
// synchronously in delivery order; they must not call back into the Manager.
func (m *Manager) OnNotification(fn func(notification.Notification)) *fanout.Subscription[notification.Notification] {
	return m.notifications.Subscribe(fn)
}

// OnStateChange subscribes to connection state transitions. Callbacks run
// synchronously in transition order; they must return quickly and must not
// call back into the Manager.
func (m *Manager) OnStateChange(fn func(State)) *fanout.Subscription[State] {
	return m.states.Subscribe(fn)
}

// Start establishes the push connection.
//
// It is idempotent: when already connected it returns immediately, and when
// an attempt is already in flight the caller waits for that same attempt
// instead of initiating a second one, so overlapping Start calls never
// create duplicate transport connections.
//
// Expected connection failures are also reported through the state-change
// channel; steady-state callers may ignore the returned error and observe
// state instead. A transient failure schedules exactly one retry after the
// configured interval; a permanent failure (see MarkPermanent) does not
// retry until Start is called again.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.State() == StateConnected {
		m.mu.Unlock()
		return nil
	}
	if fl := m.inflight; fl != nil {
		m.mu.Unlock()
		select {
		case <-fl.done:
			return fl.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// Take over from any pending retry timer or recovery loop and discard
	// a stale non-connected transport before dialing a fresh one.
	m.cancelRetryLocked()
	m.cancelReconnectLocked()
	if m.conn != nil {
		_ = m.conn.Stop()
		m.conn = nil
	}

	m.gen++
	gen := m.gen
	fl := &inflight{done: make(chan struct{})}
	m.inflight = fl
	m.setStateLocked(StateConnecting)
	m.mu.Unlock()

	err := m.dial(ctx, gen)
	m.settle(fl, err)
	return err
}

// Stop tears down the transport and sets the state to Disconnected. It is
// safe to call when already disconnected. No state change or notification is
// published after Stop returns, even if a retry timer or recovery loop was
// pending.
func (m *Manager) Stop() {
	m.mu.Lock()
	m.gen++
	m.cancelRetryLocked()
	m.cancelReconnectLocked()
	conn := m.conn
	m.conn = nil
	m.setStateLocked(StateDisconnected)
	m.mu.Unlock()

	// Wait out any message dispatch that passed the generation check before
	// the bump above; once this barrier is crossed, later dispatches see the
	// stale generation and drop the message.
	m.dispatchMu.Lock()
	m.dispatchMu.Unlock() //nolint:staticcheck // empty critical section is the barrier

	if conn != nil {
		_ = conn.Stop()
	}
}

func (m *Manager) dial(ctx context.Context, gen uint64) error {
	conn, err := m.transport.Connect(ctx, m.dialOptions())
	if err == nil && conn != nil {
		m.bind(conn, gen)
	}

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		if conn != nil {
			_ = conn.Stop()
		}
		return ErrSuperseded
	}
	if err != nil {
		m.setStateLocked(StateDisconnected)
		retrying := !Permanent(err) && ctx.Err() == nil
		if retrying {
			m.scheduleRetryLocked(gen)
		}
		m.mu.Unlock()

		m.log.LogAttrs(ctx, slog.LevelError, "realtime: connection failed",
			logger.Component("realtime"),
			logger.Endpoint(m.cfg.Endpoint),
			slog.Bool("retry_scheduled", retrying),
			logger.Error(err),
		)
		return err
	}

	m.conn = conn
	m.setStateLocked(StateConnected)
	m.mu.Unlock()

	m.log.LogAttrs(ctx, slog.LevelInfo, "realtime: connected",
		logger.Component("realtime"),
		logger.Endpoint(m.cfg.Endpoint),
	)
	return nil
}

func (m *Manager) dialOptions() DialOptions {
	return DialOptions{
		Endpoint:        m.cfg.Endpoint,
		WithCredentials: m.cfg.WithCredentials,
	}
}

// bind wires the connection's callbacks to this attempt's generation so
// events from superseded connections are ignored.
func (m *Manager) bind(conn Conn, gen uint64) {
	conn.OnMessage(func(payload map[string]any) {
		m.handleMessage(gen, payload)
	})
	conn.OnClose(func(cause error) {
		m.handleDrop(gen, cause)
	})
}

// settle resolves the shared in-flight handle. It always runs when an
// attempt finishes, success or failure, so a future Start is never blocked
// behind a wedged handle.
func (m *Manager) settle(fl *inflight, err error) {
	m.mu.Lock()
	if m.inflight == fl {
		m.inflight = nil
	}
	m.mu.Unlock()

	fl.err = err
	close(fl.done)
}

// setStateLocked transitions the state and publishes the change. Publishing
// while holding mu keeps transitions strictly ordered: a slower, older
// attempt can never deliver a stale state after a newer one.
func (m *Manager) setStateLocked(s State) {
	if State(m.state.Swap(int32(s))) == s {
		return
	}
	m.states.Publish(s)
}

func (m *Manager) handleMessage(gen uint64, payload map[string]any) {
	// Serialized dispatch: two inbound messages are never normalized or
	// published concurrently, preserving delivery order for consumers that
	// apply stateful updates. The generation check happens while dispatchMu
	// is held so Stop's barrier can guarantee nothing is published after it
	// returns.
	m.dispatchMu.Lock()
	defer m.dispatchMu.Unlock()

	m.mu.Lock()
	stale := gen != m.gen
	m.mu.Unlock()
	if stale {
		return
	}

	n := notification.Normalize(payload)
	m.log.LogAttrs(context.Background(), slog.LevelDebug, "realtime: notification received",
		logger.Component("realtime"),
		logger.NotificationID(n.ID),
		logger.EventType(string(n.Type)),
	)
	m.notifications.Publish(n)
}

func (m *Manager) handleDrop(gen uint64, cause error) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	if m.conn != nil {
		_ = m.conn.Stop()
		m.conn = nil
	}
	m.gen++
	next := m.gen
	m.setStateLocked(StateReconnecting)

	rctx, cancel := context.WithCancel(context.Background())
	m.cancelLoop = cancel
	m.mu.Unlock()

	m.log.LogAttrs(context.Background(), slog.LevelWarn, "realtime: connection dropped",
		logger.Component("realtime"),
		logger.Error(cause),
	)
	go m.reconnectLoop(rctx, cancel, next)
}

// reconnectLoop recovers a previously established session. It attempts
// faster than the initial-connect retry: immediately first, then backing off
// along the configured schedule.
func (m *Manager) reconnectLoop(ctx context.Context, cancel context.CancelFunc, gen uint64) {
	defer cancel()
	for attempt := 1; ; attempt++ {
		if m.cfg.MaxReconnectAttempts > 0 && attempt > m.cfg.MaxReconnectAttempts {
			m.giveUp(gen, nil)
			return
		}

		if wait := m.reconnect.NextInterval(attempt); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		} else if ctx.Err() != nil {
			return
		}

		conn, err := m.transport.Connect(ctx, m.dialOptions())
		if err == nil && conn != nil {
			m.bind(conn, gen)
		}

		m.mu.Lock()
		if gen != m.gen || ctx.Err() != nil {
			m.mu.Unlock()
			if conn != nil {
				_ = conn.Stop()
			}
			return
		}
		if err != nil {
			m.mu.Unlock()
			if Permanent(err) {
				m.giveUp(gen, err)
				return
			}
			m.log.LogAttrs(ctx, slog.LevelWarn, "realtime: reconnect attempt failed",
				logger.Component("realtime"),
				logger.Attempt(attempt),
				logger.Error(err),
			)
			continue
		}

		m.conn = conn
		m.cancelLoop = nil
		m.setStateLocked(StateConnected)
		m.mu.Unlock()

		m.log.LogAttrs(ctx, slog.LevelInfo, "realtime: reconnected",
			logger.Component("realtime"),
			logger.Attempt(attempt),
		)
		return
	}
}

// giveUp ends a recovery loop that exhausted its attempts or hit a permanent
// failure. The session stays Disconnected until Start is called again.
func (m *Manager) giveUp(gen uint64, cause error) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.cancelLoop = nil
	m.setStateLocked(StateDisconnected)
	m.mu.Unlock()

	m.log.LogAttrs(context.Background(), slog.LevelError, "realtime: reconnect abandoned",
		logger.Component("realtime"),
		logger.Error(cause),
	)
}

// scheduleRetryLocked arms exactly one fixed-delay retry for a failed
// initial connection attempt. The timer is disarmed by Stop and taken over
// by an external Start.
func (m *Manager) scheduleRetryLocked(gen uint64) {
	m.retryTimer = time.AfterFunc(m.cfg.RetryInterval, func() {
		m.mu.Lock()
		stale := gen != m.gen
		m.retryTimer = nil
		m.mu.Unlock()
		if stale {
			return
		}
		if err := m.Start(context.Background()); err != nil && !errors.Is(err, ErrSuperseded) {
			m.log.LogAttrs(context.Background(), slog.LevelWarn, "realtime: scheduled retry failed",
				logger.Component("realtime"),
				logger.Error(err),
			)
		}
	})
}

func (m *Manager) cancelRetryLocked() {
	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
}

func (m *Manager) cancelReconnectLocked() {
	if m.cancelLoop != nil {
		m.cancelLoop()
		m.cancelLoop = nil
	}
}
