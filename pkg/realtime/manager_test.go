package realtime_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/synckit/pkg/backoff"
	"github.com/dmitrymomot/synckit/pkg/notification"
	"github.com/dmitrymomot/synckit/pkg/realtime"
)

// fakeConn records handlers so tests can inject messages and drops.
// Stop intentionally does not block delivery: the manager's own generation
// guard is what keeps superseded connections silent.
type fakeConn struct {
	mu        sync.Mutex
	onMessage func(map[string]any)
	onClose   func(error)
	stops     atomic.Int32
}

func (c *fakeConn) OnMessage(fn func(payload map[string]any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = fn
}

func (c *fakeConn) OnClose(fn func(cause error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClose = fn
}

func (c *fakeConn) Stop() error {
	c.stops.Add(1)
	return nil
}

func (c *fakeConn) deliver(payload map[string]any) {
	c.mu.Lock()
	fn := c.onMessage
	c.mu.Unlock()
	if fn != nil {
		fn(payload)
	}
}

func (c *fakeConn) drop(cause error) {
	c.mu.Lock()
	fn := c.onClose
	c.mu.Unlock()
	if fn != nil {
		fn(cause)
	}
}

// fakeTransport returns scripted results: one entry per Connect call, then
// unconditional success.
type fakeTransport struct {
	mu       sync.Mutex
	script   []error
	conns    []*fakeConn
	connects atomic.Int32
	gate     chan struct{} // when set, Connect blocks until the gate closes
}

func (t *fakeTransport) Connect(ctx context.Context, opts realtime.DialOptions) (realtime.Conn, error) {
	n := int(t.connects.Add(1))

	t.mu.Lock()
	gate := t.gate
	t.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if n <= len(t.script) && t.script[n-1] != nil {
		return nil, t.script[n-1]
	}
	conn := &fakeConn{}
	t.conns = append(t.conns, conn)
	return conn, nil
}

func (t *fakeTransport) lastConn() *fakeConn {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.conns) == 0 {
		return nil
	}
	return t.conns[len(t.conns)-1]
}

// stateRecorder collects published state transitions.
type stateRecorder struct {
	mu     sync.Mutex
	states []realtime.State
}

func (r *stateRecorder) record(s realtime.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *stateRecorder) snapshot() []realtime.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]realtime.State, len(r.states))
	copy(out, r.states)
	return out
}

func newManager(t *testing.T, transport realtime.Transport, opts ...realtime.ManagerOption) *realtime.Manager {
	t.Helper()
	mgr, err := realtime.NewManager(transport, realtime.Config{
		Endpoint:      "wss://push.test/hub",
		RetryInterval: 25 * time.Millisecond,
	}, opts...)
	require.NoError(t, err)
	t.Cleanup(mgr.Stop)
	return mgr
}

func TestNewManager_RequiresEndpoint(t *testing.T) {
	_, err := realtime.NewManager(&fakeTransport{}, realtime.Config{})
	assert.ErrorIs(t, err, realtime.ErrEndpointRequired)
}

func TestManager_StartConnects(t *testing.T) {
	transport := &fakeTransport{}
	rec := &stateRecorder{}
	mgr := newManager(t, transport)
	mgr.OnStateChange(rec.record)

	require.NoError(t, mgr.Start(context.Background()))

	assert.True(t, mgr.IsConnected())
	assert.Equal(t, int32(1), transport.connects.Load())
	assert.Equal(t, []realtime.State{realtime.StateConnecting, realtime.StateConnected}, rec.snapshot())
}

func TestManager_StartIdempotentWhenConnected(t *testing.T) {
	transport := &fakeTransport{}
	mgr := newManager(t, transport)

	require.NoError(t, mgr.Start(context.Background()))
	require.NoError(t, mgr.Start(context.Background()))

	assert.Equal(t, int32(1), transport.connects.Load())
}

func TestManager_ConcurrentStartSharesAttempt(t *testing.T) {
	gate := make(chan struct{})
	transport := &fakeTransport{gate: gate}
	mgr := newManager(t, transport)

	const callers = 5
	errs := make(chan error, callers)
	for range callers {
		go func() {
			errs <- mgr.Start(context.Background())
		}()
	}

	// Let every caller reach the manager before the dial settles.
	require.Eventually(t, func() bool {
		return transport.connects.Load() == 1
	}, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	close(gate)

	for range callers {
		assert.NoError(t, <-errs)
	}
	assert.Equal(t, int32(1), transport.connects.Load(), "exactly one transport connection")
	assert.True(t, mgr.IsConnected())
}

func TestManager_TransientFailureSchedulesRetry(t *testing.T) {
	transport := &fakeTransport{script: []error{errors.New("connection refused")}}
	mgr := newManager(t, transport)

	err := mgr.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, realtime.StateDisconnected, mgr.State())

	require.Eventually(t, mgr.IsConnected, time.Second, 5*time.Millisecond,
		"scheduled retry should recover the connection")
	assert.Equal(t, int32(2), transport.connects.Load())
}

func TestManager_PermanentFailureDoesNotRetry(t *testing.T) {
	transport := &fakeTransport{script: []error{
		realtime.MarkPermanent(errors.New("endpoint not found")),
	}}
	mgr := newManager(t, transport)

	err := mgr.Start(context.Background())
	require.Error(t, err)
	assert.True(t, realtime.Permanent(err))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), transport.connects.Load())
	assert.Equal(t, realtime.StateDisconnected, mgr.State())

	// Manual retry via Start still works.
	require.NoError(t, mgr.Start(context.Background()))
	assert.True(t, mgr.IsConnected())
}

func TestManager_StopCancelsPendingRetry(t *testing.T) {
	transport := &fakeTransport{script: []error{errors.New("transient")}}
	rec := &stateRecorder{}
	mgr := newManager(t, transport)
	mgr.OnStateChange(rec.record)

	require.Error(t, mgr.Start(context.Background()))
	mgr.Stop()
	before := rec.snapshot()

	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(1), transport.connects.Load(), "retry timer must not fire after Stop")
	assert.Equal(t, before, rec.snapshot(), "no state change published after Stop")
}

func TestManager_StopIsIdempotent(t *testing.T) {
	transport := &fakeTransport{}
	mgr := newManager(t, transport)

	require.NotPanics(t, func() {
		mgr.Stop()
		mgr.Stop()
	})

	require.NoError(t, mgr.Start(context.Background()))
	mgr.Stop()
	mgr.Stop()
	assert.Equal(t, realtime.StateDisconnected, mgr.State())
}

func TestManager_ReconnectsAfterDrop(t *testing.T) {
	transport := &fakeTransport{}
	rec := &stateRecorder{}
	mgr := newManager(t, transport, realtime.WithReconnectStrategy(backoff.Schedule{0}))
	mgr.OnStateChange(rec.record)

	require.NoError(t, mgr.Start(context.Background()))
	transport.lastConn().drop(errors.New("connection reset"))

	require.Eventually(t, func() bool {
		return mgr.IsConnected() && transport.connects.Load() == 2
	}, time.Second, time.Millisecond)

	states := rec.snapshot()
	assert.Contains(t, states, realtime.StateReconnecting)
	assert.Equal(t, realtime.StateConnected, states[len(states)-1])
}

func TestManager_StopDuringReconnectWindow(t *testing.T) {
	transport := &fakeTransport{}
	rec := &stateRecorder{}
	mgr := newManager(t, transport, realtime.WithReconnectStrategy(backoff.Schedule{time.Hour}))
	mgr.OnStateChange(rec.record)

	require.NoError(t, mgr.Start(context.Background()))
	transport.lastConn().drop(errors.New("connection reset"))

	require.Eventually(t, func() bool {
		return mgr.State() == realtime.StateReconnecting
	}, time.Second, time.Millisecond)

	mgr.Stop()
	before := rec.snapshot()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), transport.connects.Load())
	assert.Equal(t, before, rec.snapshot())
	assert.Equal(t, realtime.StateDisconnected, mgr.State())
}

func TestManager_ReconnectGivesUpAfterMaxAttempts(t *testing.T) {
	transport := &fakeTransport{script: []error{
		nil, // initial connect succeeds
		errors.New("transient"),
		errors.New("transient"),
	}}
	mgr, err := realtime.NewManager(transport, realtime.Config{
		Endpoint:             "wss://push.test/hub",
		RetryInterval:        time.Hour,
		MaxReconnectAttempts: 2,
	}, realtime.WithReconnectStrategy(backoff.Schedule{0}))
	require.NoError(t, err)
	t.Cleanup(mgr.Stop)

	require.NoError(t, mgr.Start(context.Background()))
	transport.lastConn().drop(errors.New("gone"))

	require.Eventually(t, func() bool {
		return mgr.State() == realtime.StateDisconnected
	}, time.Second, time.Millisecond)
	assert.Equal(t, int32(3), transport.connects.Load())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(3), transport.connects.Load(), "no further attempts after giving up")
}

func TestManager_NormalizesInboundMessages(t *testing.T) {
	transport := &fakeTransport{}
	mgr := newManager(t, transport)

	var mu sync.Mutex
	var received []notification.Notification
	mgr.OnNotification(func(n notification.Notification) {
		mu.Lock()
		received = append(received, n)
		mu.Unlock()
	})

	require.NoError(t, mgr.Start(context.Background()))
	transport.lastConn().deliver(map[string]any{
		"Id":      float64(7),
		"Title":   "Order Shipped",
		"Message": "On the way",
		"Type":    "SUCCESS",
		"IsRead":  true,
	})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, int64(7), received[0].ID)
	assert.Equal(t, notification.TypeSuccess, received[0].Type)
	assert.False(t, received[0].IsRead, "arriving notifications are never pre-marked read")
}

func TestManager_StopWaitsForInflightDispatch(t *testing.T) {
	transport := &fakeTransport{}
	mgr := newManager(t, transport)

	entered := make(chan struct{})
	release := make(chan struct{})
	var count atomic.Int32
	mgr.OnNotification(func(notification.Notification) {
		if count.Add(1) == 1 {
			close(entered)
		}
		<-release
	})

	require.NoError(t, mgr.Start(context.Background()))
	conn := transport.lastConn()

	go conn.deliver(map[string]any{"Id": float64(1)})
	<-entered

	stopDone := make(chan struct{})
	go func() {
		mgr.Stop()
		close(stopDone)
	}()

	// Stop must not return while a subscriber is still being handed the
	// message that passed the generation check.
	select {
	case <-stopDone:
		t.Fatal("Stop returned with a message dispatch still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopDone:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the dispatch completed")
	}

	// Anything arriving after Stop sees the stale generation and is dropped.
	conn.deliver(map[string]any{"Id": float64(2)})
	assert.Equal(t, int32(1), count.Load())
}

func TestManager_NoEventsFromSupersededConnection(t *testing.T) {
	transport := &fakeTransport{}
	mgr := newManager(t, transport)

	var count atomic.Int32
	mgr.OnNotification(func(notification.Notification) { count.Add(1) })

	require.NoError(t, mgr.Start(context.Background()))
	old := transport.lastConn()
	mgr.Stop()

	// The old connection's handlers still exist; the manager must ignore them.
	old.deliver(map[string]any{"Id": float64(1)})
	old.drop(errors.New("late close"))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), count.Load())
	assert.Equal(t, realtime.StateDisconnected, mgr.State())
	assert.Equal(t, int32(1), transport.connects.Load())
}

func TestManager_UnsubscribeStopsDelivery(t *testing.T) {
	transport := &fakeTransport{}
	mgr := newManager(t, transport)

	var count atomic.Int32
	sub := mgr.OnNotification(func(notification.Notification) { count.Add(1) })
	require.NoError(t, mgr.Start(context.Background()))

	transport.lastConn().deliver(map[string]any{"Id": float64(1)})
	sub.Unsubscribe()
	transport.lastConn().deliver(map[string]any{"Id": float64(2)})

	assert.Equal(t, int32(1), count.Load())
}

func TestManager_StartAfterStopReconnects(t *testing.T) {
	transport := &fakeTransport{}
	mgr := newManager(t, transport)

	require.NoError(t, mgr.Start(context.Background()))
	mgr.Stop()
	require.NoError(t, mgr.Start(context.Background()))

	assert.True(t, mgr.IsConnected())
	assert.Equal(t, int32(2), transport.connects.Load())
}
