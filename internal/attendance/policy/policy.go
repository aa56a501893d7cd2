// Package policy holds the company shift rules: when a clock-in is accepted,
// whether it counts as late, and how a finished shift is classified.
//
// Everything here is pure. Callers pass the current time in; nothing reads
// the wall clock except SystemClock.
package policy

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day key format used by records and stores.
const DateLayout = "2006-01-02"

// Status is the derived state of an attendance record.
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusAbsent  Status = "absent"
)

// ClockInClass is the outcome of ClassifyClockIn.
type ClockInClass int

const (
	TooEarly ClockInClass = iota
	OnTime
	Late
	TooLateToday
)

func (c ClockInClass) String() string {
	switch c {
	case TooEarly:
		return "too_early"
	case OnTime:
		return "on_time"
	case Late:
		return "late"
	case TooLateToday:
		return "too_late_today"
	default:
		return "unknown"
	}
}

// HalfDayRule selects which early-departure rule demotes a shift to half_day.
type HalfDayRule string

const (
	// HalfDayBelowMinHours demotes employee clock-outs that credit fewer
	// than MinFullDayHours.
	HalfDayBelowMinHours HalfDayRule = "min_hours"
	// HalfDayEarlyDeparture demotes employee clock-outs strictly before
	// the shift end.
	HalfDayEarlyDeparture HalfDayRule = "early_departure"
)

// TimeOfDay is a wall-clock time in the company location.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

func (t TimeOfDay) seconds() int { return t.Hour*3600 + t.Minute*60 + t.Second }

// Policy describes one company's shift boundaries.
type Policy struct {
	Location        *time.Location
	ShiftStart      TimeOfDay
	LateCutoff      TimeOfDay
	ShiftEnd        TimeOfDay
	HalfDayRule     HalfDayRule
	MinFullDayHours float64
}

// Default returns the 09:00 / 11:00 / 19:00 policy in loc.
func Default(loc *time.Location) Policy {
	if loc == nil {
		loc = time.UTC
	}
	return Policy{
		Location:        loc,
		ShiftStart:      TimeOfDay{Hour: 9},
		LateCutoff:      TimeOfDay{Hour: 11},
		ShiftEnd:        TimeOfDay{Hour: 19},
		HalfDayRule:     HalfDayBelowMinHours,
		MinFullDayHours: 4,
	}
}

// Validate checks that start ≤ cutoff < end and the rule is known.
func (p Policy) Validate() error {
	if p.Location == nil {
		return fmt.Errorf("policy location is required")
	}
	if p.ShiftStart.seconds() > p.LateCutoff.seconds() {
		return fmt.Errorf("shift start %s is after late cutoff %s", p.ShiftStart, p.LateCutoff)
	}
	if p.LateCutoff.seconds() >= p.ShiftEnd.seconds() {
		return fmt.Errorf("late cutoff %s must be before shift end %s", p.LateCutoff, p.ShiftEnd)
	}
	switch p.HalfDayRule {
	case HalfDayBelowMinHours, HalfDayEarlyDeparture:
	default:
		return fmt.Errorf("unknown half-day rule %q", p.HalfDayRule)
	}
	if p.MinFullDayHours < 0 {
		return fmt.Errorf("min full-day hours must be non-negative")
	}
	return nil
}

// Day returns the company-local calendar day of t as a DateLayout key.
func (p Policy) Day(t time.Time) string {
	return t.In(p.Location).Format(DateLayout)
}

// ParseDay parses a DateLayout key as midnight in the company location.
func (p Policy) ParseDay(day string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(day), p.Location)
}

func (p Policy) at(day string, tod TimeOfDay) (time.Time, error) {
	d, err := p.ParseDay(day)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), tod.Hour, tod.Minute, tod.Second, 0, p.Location), nil
}

// ShiftStartOn returns the instant the shift opens on day.
func (p Policy) ShiftStartOn(day string) (time.Time, error) { return p.at(day, p.ShiftStart) }

// LateCutoffOn returns the last instant a clock-in is accepted on day.
func (p Policy) LateCutoffOn(day string) (time.Time, error) { return p.at(day, p.LateCutoff) }

// ShiftEndOn returns the forced closeout instant for day.
func (p Policy) ShiftEndOn(day string) (time.Time, error) { return p.at(day, p.ShiftEnd) }

// ClassifyClockIn places now relative to the clock-in window of its own day.
// Exactly at shift start is on time; anything later up to and including the
// cutoff is late.
func (p Policy) ClassifyClockIn(now time.Time) ClockInClass {
	day := p.Day(now)
	start, _ := p.ShiftStartOn(day)
	cutoff, _ := p.LateCutoffOn(day)

	switch {
	case now.Before(start):
		return TooEarly
	case now.Equal(start):
		return OnTime
	case !now.After(cutoff):
		return Late
	default:
		return TooLateToday
	}
}

// WindowClosed reports whether the clock-in window for day has passed at now.
func (p Policy) WindowClosed(day string, now time.Time) bool {
	cutoff, err := p.LateCutoffOn(day)
	if err != nil {
		return false
	}
	return now.After(cutoff)
}

// Completion describes a shift being closed.
type Completion struct {
	WorkingHours float64
	IsLate       bool
	ClosedAt     time.Time
	Day          string
	Auto         bool
}

// ClassifyCompletedShift derives the final status of a closed shift.
//
// Sweeper closures are never demoted to half_day. Lateness alone never
// demotes either; a late shift that is not a half day stays late.
func (p Policy) ClassifyCompletedShift(c Completion) Status {
	if !c.Auto && p.isHalfDay(c) {
		return StatusHalfDay
	}
	if c.IsLate {
		return StatusLate
	}
	return StatusPresent
}

func (p Policy) isHalfDay(c Completion) bool {
	switch p.HalfDayRule {
	case HalfDayEarlyDeparture:
		end, err := p.ShiftEndOn(c.Day)
		if err != nil {
			return false
		}
		return c.ClosedAt.Before(end)
	default:
		return c.WorkingHours < p.MinFullDayHours
	}
}

// WorkingHours returns to-from in hours, rounded to one decimal and never
// negative.
func WorkingHours(from, to time.Time) float64 {
	d := to.Sub(from)
	if d < 0 {
		d = 0
	}
	return RoundHours(d.Hours())
}

// RoundHours rounds h half away from zero to one decimal.
func RoundHours(h float64) float64 {
	v, _ := decimal.NewFromFloat(h).Round(1).Float64()
	return v
}

// IsWorkingDay reports whether day falls on Monday through Friday.
func IsWorkingDay(day time.Time) bool {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// WeekStart returns the Monday of the ISO week containing day.
func WeekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
