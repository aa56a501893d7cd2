package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
)

type HolidayStore struct {
	mu   sync.RWMutex
	days map[string]string
}

// NewHolidayStore seeds the calendar with dates (policy.DateLayout).
func NewHolidayStore(dates []string) *HolidayStore {
	s := &HolidayStore{days: make(map[string]string, len(dates))}
	for _, d := range dates {
		d = strings.TrimSpace(d)
		if d != "" {
			s.days[d] = ""
		}
	}
	return s
}

func (s *HolidayStore) AddHoliday(_ context.Context, h store.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days[h.Date] = h.Name
	return nil
}

func (s *HolidayStore) ListHolidays(_ context.Context, from, to string) ([]store.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Holiday
	for d, name := range s.days {
		if d >= from && d <= to {
			out = append(out, store.Holiday{Date: d, Name: name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
