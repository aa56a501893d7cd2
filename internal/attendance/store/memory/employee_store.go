package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
)

type EmployeeStore struct {
	mu    sync.RWMutex
	known map[string]struct{}
	since map[string]time.Time
	seen  map[string]time.Time
}

func NewEmployeeStore(knownEmployees []string) *EmployeeStore {
	k := make(map[string]struct{}, len(knownEmployees))
	for _, e := range knownEmployees {
		e = strings.TrimSpace(e)
		if e != "" {
			k[e] = struct{}{}
		}
	}
	return &EmployeeStore{
		known: k,
		since: make(map[string]time.Time),
		seen:  make(map[string]time.Time),
	}
}

// MarkSeen records activity and adds the employee to the roster. The first
// sighting of an employee not seeded at construction sets Since.
func (s *EmployeeStore) MarkSeen(_ context.Context, employeeID string, t time.Time) error {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.known[employeeID]; !ok {
		s.known[employeeID] = struct{}{}
		s.since[employeeID] = t
	}
	s.seen[employeeID] = t
	return nil
}

func (s *EmployeeStore) ListEmployees(_ context.Context) ([]store.EmployeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.EmployeeRecord, 0, len(s.known))
	for id := range s.known {
		out = append(out, store.EmployeeRecord{
			EmployeeID: id,
			Known:      true,
			Since:      s.since[id],
			LastSeen:   s.seen[id],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}
