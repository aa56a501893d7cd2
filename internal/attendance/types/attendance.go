package types

import (
	"time"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
)

type ClockInRequest struct {
	Location string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type ClockOutRequest struct {
	Notes string `json:"notes,omitempty"`
}

// Record is the wire form of store.AttendanceRecord. Times are RFC 3339 UTC.
type Record struct {
	ID               string   `json:"id"`
	EmployeeID       string   `json:"employee_id"`
	Date             string   `json:"date"`
	ClockIn          string   `json:"clock_in"`
	ClockOut         string   `json:"clock_out,omitempty"`
	WorkingHours     *float64 `json:"working_hours,omitempty"`
	Status           string   `json:"status"`
	IsLate           bool     `json:"is_late"`
	IsAutoClockedOut bool     `json:"is_auto_clocked_out"`
	Location         string   `json:"location,omitempty"`
	Notes            string   `json:"notes,omitempty"`
}

type RecordResponse struct {
	OK         bool   `json:"ok"`
	Record     Record `json:"record"`
	ServerTime string `json:"server_time"`
}

// TodayResponse carries a nil Record when the employee has not clocked in.
type TodayResponse struct {
	Record     *Record `json:"record"`
	ServerTime string  `json:"server_time"`
}

type RecordsResponse struct {
	Records []Record `json:"records"`
}

type MonthlyStats struct {
	EmployeeID        string  `json:"employee_id"`
	Year              int     `json:"year"`
	Month             int     `json:"month"`
	WorkingDays       int     `json:"working_days"`
	Present           int     `json:"present"`
	Absent            int     `json:"absent"`
	HalfDays          int     `json:"half_days"`
	LateCount         int     `json:"late_count"`
	TotalHours        float64 `json:"total_hours"`
	AvgHoursPerDay    float64 `json:"avg_hours_per_day"`
	AttendancePercent float64 `json:"attendance_percent"`
}

type DayHours struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

type WeeklyHours struct {
	EmployeeID string     `json:"employee_id"`
	WeekStart  string     `json:"week_start"`
	WeekEnd    string     `json:"week_end"`
	TotalHours float64    `json:"total_hours"`
	Days       []DayHours `json:"days"`
}

type TeamOverview struct {
	Year      int            `json:"year"`
	Month     int            `json:"month"`
	Employees []MonthlyStats `json:"employees"`
	Totals    MonthlyStats   `json:"totals"`
	Recent    []Record       `json:"recent"`
}

type Change struct {
	ID         int64  `json:"id"`
	RecordID   string `json:"record_id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Kind       string `json:"kind"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
}

type ChangesResponse struct {
	Changes []Change `json:"changes"`
	// NextAfterID is the cursor for the next poll.
	NextAfterID int64 `json:"next_after_id"`
}

type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name,omitempty"`
}

type HolidaysResponse struct {
	Holidays []Holiday `json:"holidays"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func NewRecord(rec store.AttendanceRecord) Record {
	out := Record{
		ID:               rec.ID,
		EmployeeID:       rec.EmployeeID,
		Date:             rec.Date,
		ClockIn:          FormatTime(rec.ClockIn),
		Status:           string(rec.Status),
		IsLate:           rec.IsLate,
		IsAutoClockedOut: rec.IsAutoClockedOut,
		Location:         rec.Location,
		Notes:            rec.Notes,
	}
	if rec.ClockOut != nil {
		out.ClockOut = FormatTime(*rec.ClockOut)
	}
	if rec.WorkingHours != nil {
		h := *rec.WorkingHours
		out.WorkingHours = &h
	}
	return out
}

func NewRecords(recs []store.AttendanceRecord) []Record {
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, NewRecord(r))
	}
	return out
}

func NewChanges(evs []store.ChangeEventRecord, afterID int64) ChangesResponse {
	out := ChangesResponse{Changes: make([]Change, 0, len(evs)), NextAfterID: afterID}
	for _, ev := range evs {
		out.Changes = append(out.Changes, Change{
			ID:         ev.ID,
			RecordID:   ev.RecordID,
			EmployeeID: ev.EmployeeID,
			Date:       ev.Date,
			Kind:       string(ev.Kind),
			Status:     string(ev.Status),
			OccurredAt: FormatTime(ev.OccurredAt),
		})
		if ev.ID > out.NextAfterID {
			out.NextAfterID = ev.ID
		}
	}
	return out
}
