// Package export renders attendance data as spreadsheets for owners.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/service"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
)

const (
	SummarySheet = "Summary"
	RecordsSheet = "Records"
)

var summaryHeader = []any{
	"Employee", "Working days", "Present", "Absent", "Half days", "Late",
	"Total hours", "Avg hours/day", "Attendance %",
}

var recordsHeader = []any{
	"Date", "Employee", "Clock in", "Clock out", "Hours", "Status", "Late", "Auto clock-out", "Location", "Notes",
}

// WriteMonthlyReport writes a two-sheet workbook: one summary row per
// employee plus a totals row, then every record of the month. Clock times
// are shown in loc.
func WriteMonthlyReport(w io.Writer, ov service.TeamOverview, recs []store.AttendanceRecord, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRow(f, SummarySheet, 1, summaryHeader); err != nil {
		return err
	}
	row := 2
	for _, st := range ov.Employees {
		if err := writeRow(f, SummarySheet, row, statsRow(st.EmployeeID, st)); err != nil {
			return err
		}
		row++
	}
	if err := writeRow(f, SummarySheet, row, statsRow("Total", ov.Totals)); err != nil {
		return err
	}

	if _, err := f.NewSheet(RecordsSheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	if err := writeRow(f, RecordsSheet, 1, recordsHeader); err != nil {
		return err
	}
	for i, rec := range recs {
		if err := writeRow(f, RecordsSheet, i+2, recordRow(rec, loc)); err != nil {
			return err
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   fmt.Sprintf("Attendance %04d-%02d", ov.Year, int(ov.Month)),
		Creator: "attendance-server",
	}); err != nil {
		return fmt.Errorf("doc props: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}

func statsRow(label string, st service.MonthlyStats) []any {
	return []any{
		label, st.WorkingDays, st.Present, st.Absent, st.HalfDays, st.LateCount,
		st.TotalHours, st.AvgHoursPerDay, st.AttendancePercent,
	}
}

func recordRow(rec store.AttendanceRecord, loc *time.Location) []any {
	clockOut, hours := "", any("")
	if rec.ClockOut != nil {
		clockOut = rec.ClockOut.In(loc).Format("15:04")
	}
	if rec.WorkingHours != nil {
		hours = *rec.WorkingHours
	}
	return []any{
		rec.Date, rec.EmployeeID, rec.ClockIn.In(loc).Format("15:04"), clockOut, hours,
		string(rec.Status), yesNo(rec.IsLate), yesNo(rec.IsAutoClockedOut), rec.Location, rec.Notes,
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
