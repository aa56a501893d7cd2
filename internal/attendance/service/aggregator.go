package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/policy"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
)

type DayHours struct {
	Date  string
	Hours float64
}

// WeeklyHours sums worked hours over one Monday–Sunday week.
type WeeklyHours struct {
	EmployeeID string
	WeekStart  string
	WeekEnd    string
	TotalHours float64
	Days       []DayHours
}

// MonthlyStats summarizes one employee (or everyone) over a calendar month.
// Absent days are inferred: expected working days with no record.
type MonthlyStats struct {
	EmployeeID        string
	Year              int
	Month             time.Month
	WorkingDays       int
	Present           int
	Absent            int
	HalfDays          int
	LateCount         int
	TotalHours        float64
	AvgHoursPerDay    float64
	AttendancePercent float64
}

// TeamOverview is the owner's month view: one row per employee, company
// totals, and the newest records of the month across everyone.
type TeamOverview struct {
	Year      int
	Month     time.Month
	Employees []MonthlyStats
	Totals    MonthlyStats
	Recent    []store.AttendanceRecord
}

// Aggregator derives read-only statistics from the record store. It holds
// no state of its own and is safe for concurrent use.
type Aggregator struct {
	records  store.RecordStore
	holidays store.HolidayStore
	registry *EmployeeRegistry
	policy   policy.Policy
	clock    policy.Clock
}

func NewAggregator(rs store.RecordStore, hs store.HolidayStore, reg *EmployeeRegistry, p policy.Policy, clock policy.Clock) *Aggregator {
	if clock == nil {
		clock = policy.SystemClock{}
	}
	return &Aggregator{records: rs, holidays: hs, registry: reg, policy: p, clock: clock}
}

// WeeklyHours sums hours for records in the ISO week containing anchorDate.
func (a *Aggregator) WeeklyHours(ctx context.Context, employeeID, anchorDate string) (WeeklyHours, error) {
	ctx, span := tracer.Start(ctx, "Aggregator.WeeklyHours")
	defer span.End()

	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return WeeklyHours{}, ErrInvalidEmployeeID
	}
	anchor, err := time.Parse(policy.DateLayout, strings.TrimSpace(anchorDate))
	if err != nil {
		return WeeklyHours{}, ErrInvalidRange
	}

	start := policy.WeekStart(anchor)
	end := start.AddDate(0, 0, 6)
	from, to := start.Format(policy.DateLayout), end.Format(policy.DateLayout)

	recs, err := a.records.ListRange(ctx, employeeFilter(employeeID), from, to)
	if err != nil {
		return WeeklyHours{}, storageErr("weekly hours", err)
	}

	perDay := make(map[string]float64, 7)
	var total float64
	for _, rec := range recs {
		if rec.WorkingHours == nil {
			continue
		}
		perDay[rec.Date] += *rec.WorkingHours
		total += *rec.WorkingHours
	}

	out := WeeklyHours{
		EmployeeID: employeeID,
		WeekStart:  from,
		WeekEnd:    to,
		TotalHours: policy.RoundHours(total),
		Days:       make([]DayHours, 0, 7),
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(policy.DateLayout)
		out.Days = append(out.Days, DayHours{Date: key, Hours: policy.RoundHours(perDay[key])})
	}
	return out, nil
}

// MonthlyStats computes stats for one employee, or for everyone when
// employeeID is "*" (present/absent summed per employee-day).
func (a *Aggregator) MonthlyStats(ctx context.Context, employeeID string, year int, month time.Month) (MonthlyStats, error) {
	ctx, span := tracer.Start(ctx, "Aggregator.MonthlyStats",
		trace.WithAttributes(attribute.String("employee.id", employeeID), attribute.Int("year", year), attribute.Int("month", int(month))))
	defer span.End()

	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return MonthlyStats{}, ErrInvalidEmployeeID
	}
	if month < time.January || month > time.December {
		return MonthlyStats{}, ErrInvalidRange
	}

	if employeeID == "*" {
		ov, err := a.TeamOverview(ctx, year, month, 0)
		if err != nil {
			return MonthlyStats{}, err
		}
		return ov.Totals, nil
	}

	first, last := monthBounds(year, month)
	cal, err := a.calendar(ctx, first, last)
	if err != nil {
		return MonthlyStats{}, err
	}
	recs, err := a.records.ListRange(ctx, employeeID, first.Format(policy.DateLayout), last.Format(policy.DateLayout))
	if err != nil {
		return MonthlyStats{}, storageErr("monthly stats", err)
	}
	return computeStats(employeeID, year, month, cal, recs), nil
}

// TeamOverview computes per-employee stats for everyone with a record in
// the month or on the roster by the month's end, plus up to recentLimit
// newest records.
func (a *Aggregator) TeamOverview(ctx context.Context, year int, month time.Month, recentLimit int) (TeamOverview, error) {
	ctx, span := tracer.Start(ctx, "Aggregator.TeamOverview")
	defer span.End()

	if month < time.January || month > time.December {
		return TeamOverview{}, ErrInvalidRange
	}

	first, last := monthBounds(year, month)
	lastDay := last.Format(policy.DateLayout)
	cal, err := a.calendar(ctx, first, last)
	if err != nil {
		return TeamOverview{}, err
	}
	recs, err := a.records.ListRange(ctx, "", first.Format(policy.DateLayout), lastDay)
	if err != nil {
		return TeamOverview{}, storageErr("team overview", err)
	}

	byEmployee := make(map[string][]store.AttendanceRecord)
	for _, rec := range recs {
		byEmployee[rec.EmployeeID] = append(byEmployee[rec.EmployeeID], rec)
	}
	if a.registry != nil {
		members, err := a.registry.Members(ctx)
		if err != nil {
			return TeamOverview{}, storageErr("team overview roster", err)
		}
		for _, m := range members {
			if _, ok := byEmployee[m.EmployeeID]; ok {
				continue
			}
			if !m.Since.IsZero() && a.policy.Day(m.Since) > lastDay {
				continue
			}
			byEmployee[m.EmployeeID] = nil
		}
	}

	ids := make([]string, 0, len(byEmployee))
	for id := range byEmployee {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := TeamOverview{Year: year, Month: month, Employees: make([]MonthlyStats, 0, len(ids))}
	for _, id := range ids {
		out.Employees = append(out.Employees, computeStats(id, year, month, cal, byEmployee[id]))
	}
	out.Totals = combineStats(year, month, out.Employees)
	out.Recent = mostRecent(recs, recentLimit)
	span.SetAttributes(attribute.Int("team.size", len(ids)), attribute.Int("team.records", len(recs)))
	return out, nil
}

// workCalendar is the set of expected working days in a month so far.
// Pending is today when it is a working day whose clock-in window is still
// open; it only counts for employees who already have a record on it.
type workCalendar struct {
	Days    []string
	Pending string
}

// calendar lists weekdays in [first, last] that are not company
// holidays and are not in the future. Today only counts once the clock-in
// window has closed.
func (a *Aggregator) calendar(ctx context.Context, first, last time.Time) (workCalendar, error) {
	from, to := first.Format(policy.DateLayout), last.Format(policy.DateLayout)

	holidays := make(map[string]struct{})
	if a.holidays != nil {
		hs, err := a.holidays.ListHolidays(ctx, from, to)
		if err != nil {
			return workCalendar{}, storageErr("holidays", err)
		}
		for _, h := range hs {
			holidays[h.Date] = struct{}{}
		}
	}

	now := a.clock.Now()
	today := a.policy.Day(now)

	var cal workCalendar
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(policy.DateLayout)
		if key > today {
			break
		}
		if !policy.IsWorkingDay(d) {
			continue
		}
		if _, ok := holidays[key]; ok {
			continue
		}
		if key == today && !a.policy.WindowClosed(today, now) {
			cal.Pending = key
			continue
		}
		cal.Days = append(cal.Days, key)
	}
	return cal, nil
}

// computeStats counts statuses only on expected working days. Hours worked
// on weekends or holidays still add to TotalHours.
func computeStats(employeeID string, year int, month time.Month, cal workCalendar, recs []store.AttendanceRecord) MonthlyStats {
	st := MonthlyStats{
		EmployeeID: employeeID,
		Year:       year,
		Month:      month,
	}

	expected := make(map[string]struct{}, len(cal.Days)+1)
	for _, day := range cal.Days {
		expected[day] = struct{}{}
	}
	var total float64
	for _, rec := range recs {
		if cal.Pending != "" && rec.Date == cal.Pending {
			expected[rec.Date] = struct{}{}
		}
		if rec.WorkingHours != nil {
			total += *rec.WorkingHours
		}
	}
	st.WorkingDays = len(expected)

	attended := 0
	for _, rec := range recs {
		if _, ok := expected[rec.Date]; !ok {
			continue
		}
		attended++
		switch rec.Status {
		case policy.StatusPresent:
			st.Present++
		case policy.StatusHalfDay:
			st.HalfDays++
		}
		if rec.IsLate {
			st.LateCount++
		}
	}
	st.Absent = st.WorkingDays - attended

	st.TotalHours = policy.RoundHours(total)
	st.AvgHoursPerDay = policy.RoundHours(total / float64(max(st.Present, 1)))
	if st.WorkingDays > 0 {
		st.AttendancePercent = policy.RoundHours(float64(st.Present) / float64(st.WorkingDays) * 100)
	}
	return st
}

// combineStats sums per-employee rows; the attendance rate is taken over
// all employee working days.
func combineStats(year int, month time.Month, rows []MonthlyStats) MonthlyStats {
	out := MonthlyStats{EmployeeID: "*", Year: year, Month: month}
	var total float64
	for _, r := range rows {
		out.WorkingDays += r.WorkingDays
		out.Present += r.Present
		out.Absent += r.Absent
		out.HalfDays += r.HalfDays
		out.LateCount += r.LateCount
		total += r.TotalHours
	}
	out.TotalHours = policy.RoundHours(total)
	out.AvgHoursPerDay = policy.RoundHours(total / float64(max(out.Present, 1)))
	if out.WorkingDays > 0 {
		out.AttendancePercent = policy.RoundHours(float64(out.Present) / float64(out.WorkingDays) * 100)
	}
	return out
}

func mostRecent(recs []store.AttendanceRecord, limit int) []store.AttendanceRecord {
	if limit <= 0 || len(recs) == 0 {
		return nil
	}
	sorted := make([]store.AttendanceRecord, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date > sorted[j].Date
		}
		return sorted[i].ClockIn.After(sorted[j].ClockIn)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

func employeeFilter(employeeID string) string {
	if employeeID == "*" {
		return ""
	}
	return employeeID
}
