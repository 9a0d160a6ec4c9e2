package notification

import (
	"context"
	"sync"
	"time"
)

type Store interface {
	Enqueue(ctx context.Context, c Confirmation) (int64, error)
	LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]Confirmation, error)
	MarkSent(ctx context.Context, ids []int64) error
	MarkFailed(ctx context.Context, id int64, errMsg string) error
	ExtendLease(ctx context.Context, relayID string, ids []int64, lease time.Duration) error
}

// MemoryStore holds the queue in process, like every other store in this
// system. Insertion order is preserved; LockBatch picks pending rows and
// failed or expired-lease rows, oldest first.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	rows   []*Confirmation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Enqueue(ctx context.Context, c Confirmation) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID
	s.nextID++
	c.Status = StatusPending
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	s.rows = append(s.rows, &c)
	return c.ID, nil
}

func (s *MemoryStore) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]Confirmation, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	var locked []Confirmation
	for _, row := range s.rows {
		if len(locked) >= batchSize {
			break
		}
		deliverable := row.Status == StatusPending ||
			row.Status == StatusFailed ||
			(row.Status == StatusInProgress && now.After(row.LeaseUntil))
		if !deliverable {
			continue
		}
		row.Status = StatusInProgress
		row.RelayID = relayID
		row.LeaseUntil = now.Add(lease)
		locked = append(locked, *row)
	}
	return locked, nil
}

func (s *MemoryStore) MarkSent(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if row := s.find(id); row != nil {
			row.Status = StatusSent
		}
	}
	return nil
}

func (s *MemoryStore) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row := s.find(id); row != nil {
		row.Status = StatusFailed
		row.LastError = errMsg
		row.RetryCount++
	}
	return nil
}

func (s *MemoryStore) ExtendLease(ctx context.Context, relayID string, ids []int64, lease time.Duration) error {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if row := s.find(id); row != nil && row.RelayID == relayID {
			row.LeaseUntil = now.Add(lease)
		}
	}
	return nil
}

// Get returns a snapshot of one queued confirmation, for inspection in tests.
func (s *MemoryStore) Get(id int64) (Confirmation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row := s.find(id); row != nil {
		return *row, true
	}
	return Confirmation{}, false
}

func (s *MemoryStore) find(id int64) *Confirmation {
	for _, row := range s.rows {
		if row.ID == id {
			return row
		}
	}
	return nil
}
