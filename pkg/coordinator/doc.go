// Package coordinator ties the push connection to local state: it seeds a
// notification snapshot on activation, applies pushed notifications exactly
// once in delivery order, derives order updates from notification metadata,
// and mirrors local read/delete mutations back to the server best-effort.
//
// # Architecture
//
//   - Client: the backend API surface (snapshot, order fetch, read/delete
//     propagation). The coordinator never talks to a wire protocol directly.
//   - Connection: the push side, satisfied by realtime.Manager.
//   - notification.Store / orders.Store: local state, in-memory by default.
//   - Alerter: the user-facing surface for fresh notifications; the default
//     logs them.
//
// Order synchronization is best-effort on top of the notification stream: a
// new-order event triggers a fetch-and-upsert (fetch failures are swallowed),
// an explicit status in the metadata is applied to the loaded order (a no-op
// when the order was never loaded), and a cancellation title forces
// StatusCancelled. None of it can interrupt notification delivery.
//
// Remote mutations (mark read, mark all read, delete) apply locally first and
// propagate asynchronously; a remote failure is logged and accepted as drift
// until the next snapshot.
//
// # Usage
//
//	c, err := coordinator.New(apiClient, mgr)
//	if err != nil {
//	    return err
//	}
//
//	c.Activate(ctx)
//	defer c.Deactivate()
//
//	unread := c.Notifications().CountUnread()
package coordinator
