package notification

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
)

// Confirmation is one queued order-confirmation message. Delivery is
// at-least-once: a locked batch whose lease expires becomes deliverable
// again, and the dispatcher dedupes by order id.
type Confirmation struct {
	ID         int64
	OrderID    string
	Phone      string
	Message    string
	Status     Status
	CreatedAt  time.Time
	RelayID    string
	LeaseUntil time.Time
	RetryCount int
	LastError  string
}
