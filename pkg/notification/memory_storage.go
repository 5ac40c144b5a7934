package notification

import (
	"errors"
	"sort"
	"sync"
)

// ErrNotificationNotFound is returned when a notification is not found.
var ErrNotificationNotFound = errors.New("notification not found")

// MemoryStore is an in-memory implementation of the Store interface.
// It keeps notifications in arrival order and rejects duplicate ids, giving
// at-most-once semantics at the state layer independent of any
// transport-level deduplication.
type MemoryStore struct {
	notifications []Notification
	index         map[int64]int // id -> position in notifications
	mu            sync.RWMutex
}

// NewMemoryStore creates a new in-memory notification store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[int64]int),
	}
}

func (s *MemoryStore) Seed(notifs []Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = s.notifications[:0]
	clear(s.index)
	for _, n := range notifs {
		if _, exists := s.index[n.ID]; exists {
			continue
		}
		s.index[n.ID] = len(s.notifications)
		s.notifications = append(s.notifications, n)
	}
}

func (s *MemoryStore) Append(notif Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[notif.ID]; exists {
		return false
	}
	s.index[notif.ID] = len(s.notifications)
	s.notifications = append(s.notifications, notif)
	return true
}

func (s *MemoryStore) Get(id int64) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, exists := s.index[id]
	if !exists {
		return nil, ErrNotificationNotFound
	}
	// Return a copy to prevent external mutation of stored data.
	n := s.notifications[pos]
	return &n, nil
}

func (s *MemoryStore) List(opts ListOptions) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []Notification
	for _, n := range s.notifications {
		if opts.OnlyUnread && n.IsRead {
			continue
		}
		if len(opts.Types) > 0 {
			found := false
			for _, t := range opts.Types {
				if n.Type == t {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		filtered = append(filtered, n)
	}

	// Newest first.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	// Negative pagination values are treated as unset.
	start := max(opts.Offset, 0)
	if start > len(filtered) {
		return []Notification{}
	}
	end := len(filtered)
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}
	return filtered[start:end]
}

func (s *MemoryStore) MarkRead(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, exists := s.index[id]
	if !exists || s.notifications[pos].IsRead {
		return false
	}
	s.notifications[pos].MarkAsRead()
	return true
}

func (s *MemoryStore) MarkAllRead() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for i := range s.notifications {
		if !s.notifications[i].IsRead {
			s.notifications[i].MarkAsRead()
			count++
		}
	}
	return count
}

func (s *MemoryStore) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, exists := s.index[id]
	if !exists {
		return false
	}
	s.notifications = append(s.notifications[:pos], s.notifications[pos+1:]...)
	delete(s.index, id)
	// Reindex the tail shifted left by the removal.
	for i := pos; i < len(s.notifications); i++ {
		s.index[s.notifications[i].ID] = i
	}
	return true
}

func (s *MemoryStore) CountUnread() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// Len returns the total number of stored notifications.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notifications)
}

// All returns every stored notification in arrival order.
func (s *MemoryStore) All() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}
