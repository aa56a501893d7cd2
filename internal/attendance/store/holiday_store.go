package store

import "context"

// Holiday is a company-wide non-working day.
type Holiday struct {
	Date string // policy.DateLayout
	Name string
}

// HolidayStore holds the company holiday calendar. Adding an existing date
// replaces its name.
type HolidayStore interface {
	AddHoliday(ctx context.Context, h Holiday) error
	ListHolidays(ctx context.Context, from, to string) ([]Holiday, error)
}
