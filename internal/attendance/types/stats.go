package types

import "github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/service"

func NewMonthlyStats(st service.MonthlyStats) MonthlyStats {
	return MonthlyStats{
		EmployeeID:        st.EmployeeID,
		Year:              st.Year,
		Month:             int(st.Month),
		WorkingDays:       st.WorkingDays,
		Present:           st.Present,
		Absent:            st.Absent,
		HalfDays:          st.HalfDays,
		LateCount:         st.LateCount,
		TotalHours:        st.TotalHours,
		AvgHoursPerDay:    st.AvgHoursPerDay,
		AttendancePercent: st.AttendancePercent,
	}
}

func NewWeeklyHours(wk service.WeeklyHours) WeeklyHours {
	out := WeeklyHours{
		EmployeeID: wk.EmployeeID,
		WeekStart:  wk.WeekStart,
		WeekEnd:    wk.WeekEnd,
		TotalHours: wk.TotalHours,
		Days:       make([]DayHours, 0, len(wk.Days)),
	}
	for _, d := range wk.Days {
		out.Days = append(out.Days, DayHours{Date: d.Date, Hours: d.Hours})
	}
	return out
}

func NewTeamOverview(ov service.TeamOverview) TeamOverview {
	out := TeamOverview{
		Year:      ov.Year,
		Month:     int(ov.Month),
		Employees: make([]MonthlyStats, 0, len(ov.Employees)),
		Totals:    NewMonthlyStats(ov.Totals),
		Recent:    NewRecords(ov.Recent),
	}
	for _, st := range ov.Employees {
		out.Employees = append(out.Employees, NewMonthlyStats(st))
	}
	return out
}
