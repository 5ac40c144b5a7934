// Package fanout provides a typed, synchronous publish/subscribe registry
// used to deliver in-process events to multiple independent subscribers.
//
// Unlike channel-based broadcasters, a Registry invokes callbacks directly
// and in registration order, which keeps event delivery deterministic for
// consumers that apply stateful updates (for example, order-status changes
// that must be observed in the sequence the server emitted them).
//
// # Usage
//
//	reg := fanout.NewRegistry[string]()
//
//	sub := reg.Subscribe(func(msg string) {
//	    fmt.Println("received:", msg)
//	})
//	defer sub.Unsubscribe()
//
//	reg.Publish("hello")
//
// Each event class gets its own Registry instance, so unsubscribing from one
// class never affects another. A panicking callback is isolated: remaining
// subscribers still receive the event.
//
// Publish is safe for concurrent use, but delivery order across concurrent
// Publish calls is defined by the caller. Components that require strict
// ordering (such as the realtime connection manager) serialize their own
// Publish calls.
package fanout
