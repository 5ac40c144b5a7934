package fanout_test

import (
	"fmt"

	"github.com/dmitrymomot/synckit/pkg/fanout"
)

func ExampleRegistry() {
	r := fanout.NewRegistry[string]()

	sub := r.Subscribe(func(msg string) {
		fmt.Println("received:", msg)
	})
	defer sub.Unsubscribe()

	r.Publish("order shipped")

	// Output:
	// received: order shipped
}

func ExampleRegistry_multipleSubscribers() {
	type stateChange struct {
		From, To string
	}

	r := fanout.NewRegistry[stateChange]()

	ui := r.Subscribe(func(c stateChange) {
		fmt.Printf("ui: %s -> %s\n", c.From, c.To)
	})
	defer ui.Unsubscribe()

	audit := r.Subscribe(func(c stateChange) {
		fmt.Printf("audit: %s -> %s\n", c.From, c.To)
	})
	defer audit.Unsubscribe()

	// Callbacks run synchronously in registration order.
	r.Publish(stateChange{From: "connecting", To: "connected"})

	// Output:
	// ui: connecting -> connected
	// audit: connecting -> connected
}
