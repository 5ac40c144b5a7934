package fanout

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Registry is a synchronous fan-out list of callbacks for a single event class.
// The zero value is not usable; create instances with NewRegistry.
type Registry[T any] struct {
	mu     sync.Mutex
	subs   []*Subscription[T]
	logger *slog.Logger
}

// Subscription is the handle returned by Subscribe. Unsubscribing removes
// exactly the callback registered by the matching Subscribe call.
type Subscription[T any] struct {
	id       string
	fn       func(T)
	registry *Registry[T]
	once     sync.Once
}

// RegistryOption configures a Registry.
type RegistryOption[T any] func(*Registry[T])

// WithRegistryLogger sets the logger used to report recovered callback panics.
func WithRegistryLogger[T any](logger *slog.Logger) RegistryOption[T] {
	return func(r *Registry[T]) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty callback registry for one event class.
func NewRegistry[T any](opts ...RegistryOption[T]) *Registry[T] {
	r := &Registry[T]{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscribe registers fn and returns its subscription handle.
// Nil callbacks are rejected with a no-op handle so callers can always
// defer Unsubscribe without nil checks.
func (r *Registry[T]) Subscribe(fn func(T)) *Subscription[T] {
	sub := &Subscription[T]{
		id:       uuid.New().String(),
		fn:       fn,
		registry: r,
	}
	if fn == nil {
		// Mark as already removed; Unsubscribe stays a no-op.
		sub.once.Do(func() {})
		return sub
	}

	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()
	return sub
}

// Publish delivers v to every currently registered callback, synchronously
// and in registration order. A panicking callback does not prevent the
// remaining callbacks from running.
func (r *Registry[T]) Publish(v T) {
	// Snapshot under lock so callbacks may subscribe/unsubscribe freely.
	r.mu.Lock()
	subs := make([]*Subscription[T], len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	for _, sub := range subs {
		r.invoke(sub, v)
	}
}

// Len returns the number of currently registered callbacks.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

func (r *Registry[T]) invoke(sub *Subscription[T], v T) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("fanout: subscriber callback panicked",
				slog.String("subscription_id", sub.id),
				slog.Any("panic", rec),
			)
		}
	}()
	sub.fn(v)
}

func (r *Registry[T]) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, sub := range r.subs {
		if sub.id == id {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return
		}
	}
}

// ID returns the unique subscription identifier.
func (s *Subscription[T]) ID() string {
	return s.id
}

// Unsubscribe removes the callback from its registry.
// Calling it more than once is a no-op.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		s.registry.remove(s.id)
	})
}
