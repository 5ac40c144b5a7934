package redistransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/synckit/pkg/logger"
	"github.com/dmitrymomot/synckit/pkg/realtime"
)

// Transport implements realtime.Transport over a Redis pub/sub channel. Each
// Connect call owns its own client and subscription, so a superseded
// connection can be torn down without disturbing a newer one.
type Transport struct {
	cfg Config
	log *slog.Logger
}

// Option configures a Transport.
type Option func(*Transport)

// WithLogger sets the logger for the Transport.
func WithLogger(log *slog.Logger) Option {
	return func(t *Transport) {
		if log != nil {
			t.log = log
		}
	}
}

// New creates a Redis-backed push transport. The endpoint itself arrives per
// connection through realtime.DialOptions; the config carries the channel and
// timeouts shared by all connections.
func New(cfg Config, opts ...Option) (*Transport, error) {
	if cfg.Channel == "" {
		return nil, ErrChannelRequired
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	t := &Transport{cfg: cfg, log: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Connect dials Redis, verifies it with a ping, and subscribes to the push
// channel. A malformed endpoint is reported as permanent so the connection
// manager skips automatic retries; an unreachable server is transient.
func (t *Transport) Connect(ctx context.Context, opts realtime.DialOptions) (realtime.Conn, error) {
	redisOpts, err := redis.ParseURL(opts.Endpoint)
	if err != nil {
		return nil, realtime.MarkPermanent(errors.Join(ErrFailedToParseEndpoint, err))
	}

	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, t.cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrRedisNotReady, err)
	}

	pubsub := client.Subscribe(ctx, t.cfg.Channel)
	// Force the subscription onto the wire before reporting the connection
	// as established.
	if _, err := pubsub.Receive(pingCtx); err != nil {
		_ = pubsub.Close()
		_ = client.Close()
		return nil, errors.Join(ErrRedisNotReady, err)
	}

	c := &conn{
		client: client,
		pubsub: pubsub,
		log:    t.log,
	}
	go c.readLoop()
	return c, nil
}

// conn is one live subscription. Messages arriving before OnMessage is
// registered are dropped, which the realtime.Conn contract permits.
type conn struct {
	client *redis.Client
	pubsub *redis.PubSub
	log    *slog.Logger

	mu        sync.Mutex
	onMessage func(payload map[string]any)
	onClose   func(cause error)
	stopped   bool

	stopOnce sync.Once
}

func (c *conn) OnMessage(fn func(payload map[string]any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = fn
}

func (c *conn) OnClose(fn func(cause error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClose = fn
}

// Stop closes the subscription and the client. The readLoop observes the
// closed channel and exits without invoking OnClose.
func (c *conn) Stop() error {
	var err error
	c.stopOnce.Do(func() {
		c.mu.Lock()
		c.stopped = true
		c.mu.Unlock()

		err = errors.Join(c.pubsub.Close(), c.client.Close())
	})
	return err
}

func (c *conn) readLoop() {
	for msg := range c.pubsub.Channel() {
		payload, err := decodePayload([]byte(msg.Payload))
		if err != nil {
			c.log.LogAttrs(context.Background(), slog.LevelWarn, "redistransport: dropping undecodable payload",
				logger.Component("redistransport"),
				logger.Error(err),
			)
			continue
		}

		c.mu.Lock()
		fn := c.onMessage
		stopped := c.stopped
		c.mu.Unlock()
		if stopped {
			return
		}
		if fn != nil {
			fn(payload)
		}
	}

	// Channel closed: either Stop (silent) or the subscription died.
	c.mu.Lock()
	fn := c.onClose
	stopped := c.stopped
	c.mu.Unlock()
	if !stopped && fn != nil {
		fn(ErrSubscriptionClosed)
	}
}

// decodePayload expects one JSON object per published message.
func decodePayload(raw []byte) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
