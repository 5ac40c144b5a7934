package orders

import (
	"sort"
	"sync"
	"time"
)

// Store holds the local order-tracking list. Implementations must be safe
// for concurrent use.
type Store interface {
	// Upsert inserts the order or replaces the entry with the same id.
	Upsert(order Order)

	// ApplyStatus sets the status of a loaded order. It returns false when
	// the order is not currently loaded (a no-op, not an error).
	ApplyStatus(id int64, status Status) bool

	// Get retrieves a single order by id.
	Get(id int64) (Order, bool)

	// List returns all loaded orders, newest first.
	List() []Order
}

// MemoryStore is an in-memory implementation of the Store interface.
type MemoryStore struct {
	orders map[int64]Order
	mu     sync.RWMutex
}

// NewMemoryStore creates a new in-memory order store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders: make(map[int64]Order),
	}
}

func (s *MemoryStore) Upsert(order Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = time.Now()
	}
	s.orders[order.ID] = order
}

func (s *MemoryStore) ApplyStatus(id int64, status Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, exists := s.orders[id]
	if !exists {
		return false
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	s.orders[id] = order
	return true
}

func (s *MemoryStore) Get(id int64) (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, exists := s.orders[id]
	return order, exists
}

func (s *MemoryStore) List() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Order, 0, len(s.orders))
	for _, order := range s.orders {
		out = append(out, order)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
