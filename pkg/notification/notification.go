package notification

import (
	"time"
)

// Type represents the notification type/severity.
type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
	TypeSystem  Type = "system"
)

// Valid reports whether t is one of the known notification types.
func (t Type) Valid() bool {
	switch t {
	case TypeInfo, TypeSuccess, TypeWarning, TypeError, TypeSystem:
		return true
	}
	return false
}

// Notification is the canonical record for one asynchronous event delivered
// to the user. Instances are produced by Normalize from raw transport
// payloads; the ID is unique per delivery and used for deduplication.
type Notification struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	ActionURL string    `json:"action_url,omitempty"`

	// Metadata is an opaque structured payload. The normalizer carries it
	// through untouched; consumers such as the order synchronizer decode it
	// on a best-effort basis.
	Metadata any `json:"metadata,omitempty"`
}

// MarkAsRead marks the notification as read.
func (n *Notification) MarkAsRead() {
	n.IsRead = true
}
