package memory

import (
	"context"
	"sync"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
)

// ChangeEventStore is an in-memory append-only log of record changes.
// It is intended for use in tests and dev environments.
type ChangeEventStore struct {
	mu     sync.Mutex
	events []store.ChangeEventRecord
}

func NewChangeEventStore() *ChangeEventStore {
	return &ChangeEventStore{}
}

func (s *ChangeEventStore) RecordChange(_ context.Context, ev store.ChangeEventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev.ID = int64(len(s.events)) + 1
	s.events = append(s.events, ev)
	return nil
}

func (s *ChangeEventStore) ListChanges(_ context.Context, afterID int64, limit int) ([]store.ChangeEventRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if afterID < 0 {
		afterID = 0
	}
	if afterID >= int64(len(s.events)) || limit <= 0 {
		return nil, nil
	}
	rest := s.events[afterID:]
	if len(rest) > limit {
		rest = rest[:limit]
	}
	out := make([]store.ChangeEventRecord, len(rest))
	copy(out, rest)
	return out, nil
}

// Events returns a copy of all recorded events.  Test-only helper.
func (s *ChangeEventStore) Events() []store.ChangeEventRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.ChangeEventRecord, len(s.events))
	copy(out, s.events)
	return out
}
