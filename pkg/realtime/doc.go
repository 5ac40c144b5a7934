// Package realtime manages the single long-lived push connection of a
// session: it owns the transport, keeps connection attempts from racing,
// recovers dropped sessions with backoff, and fans out normalized
// notifications and state transitions to independent subscribers.
//
// # Architecture
//
//   - Transport / Conn: the pluggable push mechanism. The manager assumes
//     nothing about the wire protocol beyond "structured message in,
//     structured message out".
//   - Manager: the connection state machine. Start is idempotent and safe
//     under concurrent calls - overlapping callers share one in-flight
//     attempt; a generation counter makes state monotonic per attempt so a
//     slower, older callback can never clobber a newer state.
//   - Fan-out: two independent event classes, notifications and state
//     changes, each backed by its own fanout.Registry.
//
// Connection failures are split into two categories. Transient failures
// retry automatically: a failed initial connect retries once after a fixed
// interval, and a dropped established session recovers along a faster
// schedule (immediate, 2s, 5s, 10s, 30s ceiling). Permanent failures -
// errors wrapped with MarkPermanent - stay down until Start is called
// again. Classification is structural (errors.As), not message matching.
//
// # Usage
//
//	mgr, err := realtime.NewManager(transport, realtime.Config{
//	    Endpoint: "wss://push.example.com/hub",
//	})
//	if err != nil {
//	    return err
//	}
//
//	sub := mgr.OnNotification(func(n notification.Notification) {
//	    // delivered in receipt order
//	})
//	defer sub.Unsubscribe()
//
//	if err := mgr.Start(ctx); err != nil {
//	    // state subscribers were already informed; manual retry is another Start
//	}
//	defer mgr.Stop()
//
// After Stop returns, no further event is published: pending retry timers
// and recovery loops are neutralized by the generation bump.
package realtime
