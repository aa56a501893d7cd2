package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/policy"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/service"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
)

// marchWeekdays lists the 22 Monday–Friday dates of March 2026.
func marchWeekdays() []string {
	var out []string
	for d := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC); d.Month() == time.March; d = d.AddDate(0, 0, 1) {
		if policy.IsWorkingDay(d) {
			out = append(out, d.Format(policy.DateLayout))
		}
	}
	return out
}

// put stores a closed record directly, bypassing the clock-in window.
func put(t *testing.T, e *engine, employeeID, date string, status policy.Status, late bool, hours float64) {
	t.Helper()
	d, err := time.ParseInLocation(policy.DateLayout, date, wib)
	if err != nil {
		t.Fatalf("parse %s: %v", date, err)
	}
	in := d.Add(9 * time.Hour)
	out := in.Add(time.Duration(hours * float64(time.Hour)))
	h := hours
	rec := store.AttendanceRecord{
		ID:           employeeID + "-" + date,
		EmployeeID:   employeeID,
		Date:         date,
		ClockIn:      in,
		ClockOut:     &out,
		WorkingHours: &h,
		Status:       status,
		IsLate:       late,
	}
	if err := e.records.CreateRecord(context.Background(), rec); err != nil {
		t.Fatalf("CreateRecord(%s, %s): %v", employeeID, date, err)
	}
}

// ── Monthly stats ────────────────────────────────────────────────────────────

func TestMonthlyStats_FullMonth(t *testing.T) {
	e := newEngine(t, at(2026, 4, 1, 10, 0, 0))
	days := marchWeekdays()
	if len(days) != 22 {
		t.Fatalf("expected 22 weekdays in March 2026, got %d", len(days))
	}

	for _, d := range days[:20] {
		put(t, e, "alice", d, policy.StatusPresent, false, 8.0)
	}
	put(t, e, "alice", days[20], policy.StatusLate, true, 8.0)
	// days[21] has no record: absent.

	st, err := e.agg.MonthlyStats(context.Background(), "alice", 2026, time.March)
	if err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}

	if st.WorkingDays != 22 {
		t.Errorf("expected 22 working days, got %d", st.WorkingDays)
	}
	if st.Present != 20 {
		t.Errorf("expected 20 present, got %d", st.Present)
	}
	if st.LateCount != 1 {
		t.Errorf("expected 1 late, got %d", st.LateCount)
	}
	if st.Absent != 1 {
		t.Errorf("expected 1 absent, got %d", st.Absent)
	}
	if st.AttendancePercent != 90.9 {
		t.Errorf("expected 90.9%%, got %.1f", st.AttendancePercent)
	}
	if st.TotalHours != 168.0 {
		t.Errorf("expected 168.0 hours, got %.1f", st.TotalHours)
	}
	if st.AvgHoursPerDay != 8.4 {
		t.Errorf("expected 8.4 average, got %.1f", st.AvgHoursPerDay)
	}
}

func TestMonthlyStats_HalfDaysAreNeitherPresentNorAbsent(t *testing.T) {
	e := newEngine(t, at(2026, 4, 1, 10, 0, 0))
	days := marchWeekdays()
	put(t, e, "alice", days[0], policy.StatusHalfDay, false, 3.0)
	put(t, e, "alice", days[1], policy.StatusPresent, false, 8.0)

	st, err := e.agg.MonthlyStats(context.Background(), "alice", 2026, time.March)
	if err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}
	if st.HalfDays != 1 || st.Present != 1 || st.Absent != 20 {
		t.Errorf("unexpected counts %+v", st)
	}
	if st.TotalHours != 11.0 {
		t.Errorf("expected 11.0 hours, got %.1f", st.TotalHours)
	}
}

func TestMonthlyStats_NoRecords(t *testing.T) {
	e := newEngine(t, at(2026, 4, 1, 10, 0, 0))

	st, err := e.agg.MonthlyStats(context.Background(), "ghost", 2026, time.March)
	if err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}
	if st.Present != 0 || st.Absent != 22 || st.AttendancePercent != 0 || st.AvgHoursPerDay != 0 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestMonthlyStats_ExcludesHolidays(t *testing.T) {
	e := newEngine(t, at(2026, 4, 1, 10, 0, 0))
	if err := e.holidays.AddHoliday(context.Background(), store.Holiday{Date: "2026-03-17", Name: "Company day"}); err != nil {
		t.Fatalf("AddHoliday: %v", err)
	}
	// A weekend holiday changes nothing.
	if err := e.holidays.AddHoliday(context.Background(), store.Holiday{Date: "2026-03-21"}); err != nil {
		t.Fatalf("AddHoliday: %v", err)
	}

	st, err := e.agg.MonthlyStats(context.Background(), "alice", 2026, time.March)
	if err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}
	if st.WorkingDays != 21 || st.Absent != 21 {
		t.Errorf("expected 21 working days and 21 absences, got %d / %d", st.WorkingDays, st.Absent)
	}
}

func TestMonthlyStats_CurrentMonthCountsOnlyElapsedDays(t *testing.T) {
	e := newEngine(t, at(2026, 3, 10, 10, 0, 0))
	ctx := context.Background()

	// Window still open today: Mon 2nd–Fri 6th and Mon 9th.
	st, err := e.agg.MonthlyStats(ctx, "alice", 2026, time.March)
	if err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}
	if st.WorkingDays != 6 || st.Absent != 6 {
		t.Errorf("expected 6 elapsed working days, got %d (absent %d)", st.WorkingDays, st.Absent)
	}

	e.clock.Set(at(2026, 3, 10, 11, 0, 1))
	st, err = e.agg.MonthlyStats(ctx, "alice", 2026, time.March)
	if err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}
	if st.WorkingDays != 7 {
		t.Errorf("expected today to count once the window closed, got %d", st.WorkingDays)
	}

	st, err = e.agg.MonthlyStats(ctx, "alice", 2026, time.April)
	if err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}
	if st.WorkingDays != 0 || st.Absent != 0 {
		t.Errorf("future month should have no expected days, got %+v", st)
	}
}

func TestMonthlyStats_TodayPresentBeforeWindowCloses(t *testing.T) {
	e := newEngine(t, at(2026, 3, 2, 9, 0, 0))
	e.clockIn(t, "alice", at(2026, 3, 2, 9, 0, 0))

	st, err := e.agg.MonthlyStats(context.Background(), "alice", 2026, time.March)
	if err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}
	if st.Absent != 0 {
		t.Errorf("expected no absences on the first morning, got %d", st.Absent)
	}
	if st.Present != 1 {
		t.Errorf("expected open on-time shift to count present, got %d", st.Present)
	}
	if st.WorkingDays != 1 || st.AttendancePercent != 100 {
		t.Errorf("expected today to count once attended, got %d days at %.1f%%", st.WorkingDays, st.AttendancePercent)
	}

	st, err = e.agg.MonthlyStats(context.Background(), "bob", 2026, time.March)
	if err != nil {
		t.Fatalf("MonthlyStats(bob): %v", err)
	}
	if st.WorkingDays != 0 || st.Absent != 0 {
		t.Errorf("expected no expected days for bob yet, got %+v", st)
	}
}

func TestMonthlyStats_OffDayRecordsDoNotInflateRate(t *testing.T) {
	e := newEngine(t, at(2026, 4, 1, 10, 0, 0))
	ctx := context.Background()
	if err := e.holidays.AddHoliday(ctx, store.Holiday{Date: "2026-03-17", Name: "Company day"}); err != nil {
		t.Fatalf("AddHoliday: %v", err)
	}

	// Every day of March, weekends and the holiday included.
	for d := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC); d.Month() == time.March; d = d.AddDate(0, 0, 1) {
		put(t, e, "alice", d.Format(policy.DateLayout), policy.StatusPresent, false, 8.0)
	}
	put(t, e, "bob", "2026-03-07", policy.StatusLate, true, 4.0)
	put(t, e, "bob", "2026-03-17", policy.StatusHalfDay, false, 3.0)

	st, err := e.agg.MonthlyStats(ctx, "alice", 2026, time.March)
	if err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}
	if st.WorkingDays != 21 || st.Present != 21 || st.Absent != 0 {
		t.Errorf("expected 21/21 present with no absences, got %+v", st)
	}
	if st.AttendancePercent != 100 {
		t.Errorf("expected 100%%, got %.1f", st.AttendancePercent)
	}
	if st.TotalHours != 248.0 {
		t.Errorf("expected weekend and holiday hours in the total, got %.1f", st.TotalHours)
	}

	st, err = e.agg.MonthlyStats(ctx, "bob", 2026, time.March)
	if err != nil {
		t.Fatalf("MonthlyStats(bob): %v", err)
	}
	if st.LateCount != 0 || st.HalfDays != 0 || st.Absent != 21 {
		t.Errorf("Saturday and holiday records should not count, got %+v", st)
	}
	if st.TotalHours != 7.0 {
		t.Errorf("expected 7.0 hours, got %.1f", st.TotalHours)
	}

	all, err := e.agg.MonthlyStats(ctx, "*", 2026, time.March)
	if err != nil {
		t.Fatalf("MonthlyStats(*): %v", err)
	}
	if all.WorkingDays != 42 || all.Present != 21 || all.AttendancePercent != 50 {
		t.Errorf("unexpected combined stats %+v", all)
	}
}

func TestMonthlyStats_AllEmployees(t *testing.T) {
	e := newEngine(t, at(2026, 4, 1, 10, 0, 0))
	days := marchWeekdays()
	for _, d := range days[:20] {
		put(t, e, "alice", d, policy.StatusPresent, false, 8.0)
	}
	put(t, e, "alice", days[20], policy.StatusLate, true, 8.0)
	for _, d := range days {
		put(t, e, "bob", d, policy.StatusPresent, false, 8.0)
	}

	st, err := e.agg.MonthlyStats(context.Background(), "*", 2026, time.March)
	if err != nil {
		t.Fatalf("MonthlyStats(*): %v", err)
	}
	if st.EmployeeID != "*" {
		t.Errorf("expected employee_id=*, got %q", st.EmployeeID)
	}
	if st.WorkingDays != 44 || st.Present != 42 || st.Absent != 1 || st.LateCount != 1 {
		t.Errorf("unexpected combined counts %+v", st)
	}
	if st.AttendancePercent != 95.5 {
		t.Errorf("expected 95.5%%, got %.1f", st.AttendancePercent)
	}
	if st.TotalHours != 344.0 {
		t.Errorf("expected 344.0 hours, got %.1f", st.TotalHours)
	}
}

func TestMonthlyStats_Validation(t *testing.T) {
	e := newEngine(t, at(2026, 4, 1, 10, 0, 0))
	ctx := context.Background()

	if _, err := e.agg.MonthlyStats(ctx, "", 2026, time.March); !errors.Is(err, service.ErrInvalidEmployeeID) {
		t.Errorf("expected ErrInvalidEmployeeID, got %v", err)
	}
	if _, err := e.agg.MonthlyStats(ctx, "alice", 2026, 13); !errors.Is(err, service.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}

	e.records.setFailReads(true)
	if _, err := e.agg.MonthlyStats(ctx, "alice", 2026, time.March); !errors.Is(err, service.ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got %v", err)
	}
}

// ── Weekly hours ─────────────────────────────────────────────────────────────

func TestWeeklyHours(t *testing.T) {
	e := newEngine(t, at(2026, 3, 9, 9, 0, 0))
	for day := 9; day <= 11; day++ {
		e.clockIn(t, "alice", at(2026, 3, day, 9, 0, 0))
		e.clockOut(t, "alice", at(2026, 3, day, 17, 0, 0))
	}
	// Previous week and other employees do not count.
	e.clockIn(t, "alice", at(2026, 3, 6, 9, 0, 0))
	e.clockOut(t, "alice", at(2026, 3, 6, 17, 0, 0))
	e.clockIn(t, "alice", at(2026, 3, 16, 9, 0, 0))
	e.clockOut(t, "alice", at(2026, 3, 16, 17, 0, 0))
	e.clockIn(t, "bob", at(2026, 3, 10, 9, 0, 0))
	e.clockOut(t, "bob", at(2026, 3, 10, 17, 0, 0))
	// Open shifts contribute nothing yet.
	e.clockIn(t, "alice", at(2026, 3, 12, 9, 0, 0))

	wk, err := e.agg.WeeklyHours(context.Background(), "alice", "2026-03-12")
	if err != nil {
		t.Fatalf("WeeklyHours: %v", err)
	}
	if wk.WeekStart != "2026-03-09" || wk.WeekEnd != "2026-03-15" {
		t.Errorf("unexpected week bounds %s..%s", wk.WeekStart, wk.WeekEnd)
	}
	if wk.TotalHours != 24.0 {
		t.Errorf("expected 24.0 hours, got %.1f", wk.TotalHours)
	}
	if len(wk.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(wk.Days))
	}
	if wk.Days[0].Hours != 8.0 || wk.Days[3].Hours != 0 || wk.Days[6].Date != "2026-03-15" {
		t.Errorf("unexpected per-day breakdown %+v", wk.Days)
	}
}

func TestWeeklyHours_AnchorOnSunday(t *testing.T) {
	e := newEngine(t, at(2026, 3, 16, 9, 0, 0))
	wk, err := e.agg.WeeklyHours(context.Background(), "alice", "2026-03-15")
	if err != nil {
		t.Fatalf("WeeklyHours: %v", err)
	}
	if wk.WeekStart != "2026-03-09" {
		t.Errorf("expected Sunday to belong to the week starting Monday 9th, got %s", wk.WeekStart)
	}
	if wk.TotalHours != 0 {
		t.Errorf("expected 0 hours, got %.1f", wk.TotalHours)
	}
}

func TestWeeklyHours_BadAnchor(t *testing.T) {
	e := newEngine(t, at(2026, 3, 16, 9, 0, 0))
	if _, err := e.agg.WeeklyHours(context.Background(), "alice", "03/12/2026"); !errors.Is(err, service.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

// ── Team overview ────────────────────────────────────────────────────────────

func TestTeamOverview(t *testing.T) {
	e := newEngine(t, at(2026, 3, 9, 9, 0, 0), "carol")
	e.clockIn(t, "alice", at(2026, 3, 9, 9, 0, 0))
	e.clockOut(t, "alice", at(2026, 3, 9, 17, 0, 0))
	e.clockIn(t, "bob", at(2026, 3, 9, 9, 30, 0))
	e.clockOut(t, "bob", at(2026, 3, 9, 18, 30, 0))
	e.clockIn(t, "alice", at(2026, 3, 10, 9, 0, 0))
	e.clock.Set(at(2026, 3, 10, 12, 0, 0))

	ov, err := e.agg.TeamOverview(context.Background(), 2026, time.March, 2)
	if err != nil {
		t.Fatalf("TeamOverview: %v", err)
	}

	if len(ov.Employees) != 3 {
		t.Fatalf("expected alice, bob and carol, got %d rows", len(ov.Employees))
	}
	byID := make(map[string]service.MonthlyStats)
	for _, st := range ov.Employees {
		byID[st.EmployeeID] = st
	}
	if ov.Employees[0].EmployeeID != "alice" || ov.Employees[2].EmployeeID != "carol" {
		t.Errorf("expected rows sorted by employee, got %s..%s", ov.Employees[0].EmployeeID, ov.Employees[2].EmployeeID)
	}

	// Mar 2–10 with today's window closed: 7 expected days.
	if carol := byID["carol"]; carol.WorkingDays != 7 || carol.Absent != 7 {
		t.Errorf("rostered employee with no records should be absent every day, got %+v", carol)
	}
	if alice := byID["alice"]; alice.Present != 2 || alice.Absent != 5 || alice.TotalHours != 8.0 {
		t.Errorf("unexpected alice row %+v", alice)
	}
	if bob := byID["bob"]; bob.LateCount != 1 || bob.Present != 0 || bob.Absent != 6 {
		t.Errorf("unexpected bob row %+v", bob)
	}

	if ov.Totals.EmployeeID != "*" || ov.Totals.WorkingDays != 21 || ov.Totals.Absent != 18 {
		t.Errorf("unexpected totals %+v", ov.Totals)
	}

	if len(ov.Recent) != 2 {
		t.Fatalf("expected 2 recent records, got %d", len(ov.Recent))
	}
	if ov.Recent[0].EmployeeID != "alice" || ov.Recent[0].Date != tuesday {
		t.Errorf("expected alice's open shift first, got %s/%s", ov.Recent[0].EmployeeID, ov.Recent[0].Date)
	}
	if ov.Recent[1].EmployeeID != "bob" {
		t.Errorf("expected bob's 09:30 clock-in second, got %s", ov.Recent[1].EmployeeID)
	}
}

func TestTeamOverview_SkipsMonthsBeforeJoining(t *testing.T) {
	e := newEngine(t, at(2026, 3, 10, 9, 0, 0), "carol")
	e.clockIn(t, "newhire", at(2026, 3, 10, 9, 0, 0))
	e.clock.Set(at(2026, 3, 10, 12, 0, 0))
	ctx := context.Background()

	ov, err := e.agg.TeamOverview(ctx, 2026, time.January, 0)
	if err != nil {
		t.Fatalf("TeamOverview(January): %v", err)
	}
	if len(ov.Employees) != 1 || ov.Employees[0].EmployeeID != "carol" {
		t.Fatalf("expected only the seeded roster in January, got %+v", ov.Employees)
	}
	if ov.Totals.WorkingDays != 22 || ov.Totals.Absent != 22 {
		t.Errorf("unexpected January totals %+v", ov.Totals)
	}

	ov, err = e.agg.TeamOverview(ctx, 2026, time.March, 0)
	if err != nil {
		t.Fatalf("TeamOverview(March): %v", err)
	}
	if len(ov.Employees) != 2 || ov.Employees[1].EmployeeID != "newhire" {
		t.Fatalf("expected carol and newhire in March, got %+v", ov.Employees)
	}
	if nh := ov.Employees[1]; nh.Present != 1 || nh.WorkingDays != 7 {
		t.Errorf("unexpected newhire row %+v", nh)
	}
}
