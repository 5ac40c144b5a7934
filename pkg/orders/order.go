package orders

import (
	"strings"
	"time"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// ParseStatus normalizes a server-supplied status string.
// Unknown values are passed through lowercased so a newly introduced
// server-side status does not get silently dropped.
func ParseStatus(s string) Status {
	return Status(strings.ToLower(strings.TrimSpace(s)))
}

// Order is the order-tracking entry kept in the local order list.
type Order struct {
	ID        int64     `json:"id"`
	Number    string    `json:"number,omitempty"`
	Status    Status    `json:"status"`
	Total     float64   `json:"total,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
