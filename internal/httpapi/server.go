package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/export"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/policy"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/service"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/types"
)

const (
	defaultChangesLimit = 100
	maxChangesLimit     = 500
	xlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Dependencies struct {
	Logger       *log.Logger
	Addr         string
	ClockService *service.ClockService
	Aggregator   *service.Aggregator
	Holidays     store.HolidayStore
	// Clock supplies server_time and the default year/month. Defaults to
	// the system clock.
	Clock policy.Clock
	// JWTSecret enables bearer-token auth; empty trusts identity headers.
	JWTSecret   string
	RecentLimit int
}

type Server struct {
	httpServer   *http.Server
	logger       *log.Logger
	mux          *http.ServeMux
	clockService *service.ClockService
	aggregator   *service.Aggregator
	holidays     store.HolidayStore
	policy       policy.Policy
	clock        policy.Clock
	recentLimit  int
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	clock := d.Clock
	if clock == nil {
		clock = policy.SystemClock{}
	}
	recent := d.RecentLimit
	if recent <= 0 {
		recent = 20
	}

	s := &Server{
		logger:       d.Logger,
		mux:          mux,
		clockService: d.ClockService,
		aggregator:   d.Aggregator,
		holidays:     d.Holidays,
		policy:       d.ClockService.Policy(),
		clock:        clock,
		recentLimit:  recent,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /v1/clock-in", s.handleClockIn)
	mux.HandleFunc("POST /v1/clock-out", s.handleClockOut)
	mux.HandleFunc("GET /v1/attendance/today", s.handleToday)
	mux.HandleFunc("GET /v1/attendance", s.handleRange)
	mux.HandleFunc("GET /v1/activity", s.handleActivity)

	mux.HandleFunc("GET /v1/stats/monthly", s.handleMonthlyStats)
	mux.HandleFunc("GET /v1/stats/weekly", s.handleWeeklyHours)
	mux.HandleFunc("GET /v1/team/overview", s.handleTeamOverview)
	mux.HandleFunc("GET /v1/reports/monthly.xlsx", s.handleMonthlyReport)

	mux.HandleFunc("GET /v1/changes", s.handleChanges)
	mux.HandleFunc("GET /v1/holidays", s.handleListHolidays)
	mux.HandleFunc("POST /v1/holidays", s.handleAddHoliday)

	handler := authMiddleware(d.JWTSecret, map[string]bool{"/healthz": true}, mux)
	handler = loggingMiddleware(d.Logger, handler)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "server_time": s.serverTime()})
}

// ── Clock engine ─────────────────────────────────────────────────────────────

func (s *Server) handleClockIn(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	var req types.ClockInRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadJSON)
		return
	}

	rec, err := s.clockService.ClockIn(r.Context(), id.EmployeeID, service.ClockInOptions{
		Location: req.Location,
		Notes:    req.Notes,
	})
	if err != nil {
		s.writeServiceError(w, r, "clock-in", err)
		return
	}

	writeResponse(w, r, http.StatusCreated, types.RecordResponse{
		OK:         true,
		Record:     types.NewRecord(rec),
		ServerTime: s.serverTime(),
	})
}

func (s *Server) handleClockOut(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	var req types.ClockOutRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadJSON)
		return
	}

	rec, err := s.clockService.ClockOut(r.Context(), id.EmployeeID, req.Notes)
	if err != nil {
		s.writeServiceError(w, r, "clock-out", err)
		return
	}

	writeResponse(w, r, http.StatusOK, types.RecordResponse{
		OK:         true,
		Record:     types.NewRecord(rec),
		ServerTime: s.serverTime(),
	})
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	rec, err := s.clockService.GetToday(r.Context(), id.EmployeeID)
	if err != nil {
		s.writeServiceError(w, r, "today", err)
		return
	}

	resp := types.TodayResponse{ServerTime: s.serverTime()}
	if rec != nil {
		v := types.NewRecord(*rec)
		resp.Record = &v
	}
	writeResponse(w, r, http.StatusOK, resp)
}

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	employeeID, ok := s.targetEmployee(w, r, q.Get("employee_id"))
	if !ok {
		return
	}

	recs, err := s.clockService.GetRange(r.Context(), employeeID, q.Get("from"), q.Get("to"))
	if err != nil {
		s.writeServiceError(w, r, "range", err)
		return
	}
	writeResponse(w, r, http.StatusOK, types.RecordsResponse{Records: types.NewRecords(recs)})
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if !s.requireOwner(w, r) {
		return
	}
	limit, err := intParam(r, "limit", s.recentLimit)
	if err != nil || limit <= 0 {
		writeError(w, r, http.StatusBadRequest, codeBadRequest)
		return
	}

	recs, err := s.clockService.Recent(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, r, "activity", err)
		return
	}
	writeResponse(w, r, http.StatusOK, types.RecordsResponse{Records: types.NewRecords(recs)})
}

// ── Aggregation ──────────────────────────────────────────────────────────────

func (s *Server) handleMonthlyStats(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := s.targetEmployee(w, r, r.URL.Query().Get("employee_id"))
	if !ok {
		return
	}
	year, month, err := s.yearMonth(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, service.CodeInvalidRange)
		return
	}
	if employeeID == "" {
		employeeID = "*"
	}

	st, err := s.aggregator.MonthlyStats(r.Context(), employeeID, year, month)
	if err != nil {
		s.writeServiceError(w, r, "monthly stats", err)
		return
	}
	writeResponse(w, r, http.StatusOK, types.NewMonthlyStats(st))
}

func (s *Server) handleWeeklyHours(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	employeeID, ok := s.targetEmployee(w, r, q.Get("employee_id"))
	if !ok {
		return
	}
	if employeeID == "" {
		employeeID = "*"
	}
	anchor := strings.TrimSpace(q.Get("date"))
	if anchor == "" {
		anchor = s.policy.Day(s.clock.Now())
	}

	wk, err := s.aggregator.WeeklyHours(r.Context(), employeeID, anchor)
	if err != nil {
		s.writeServiceError(w, r, "weekly hours", err)
		return
	}
	writeResponse(w, r, http.StatusOK, types.NewWeeklyHours(wk))
}

func (s *Server) handleTeamOverview(w http.ResponseWriter, r *http.Request) {
	if !s.requireOwner(w, r) {
		return
	}
	year, month, err := s.yearMonth(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, service.CodeInvalidRange)
		return
	}
	recent, err := intParam(r, "recent", s.recentLimit)
	if err != nil || recent < 0 {
		writeError(w, r, http.StatusBadRequest, codeBadRequest)
		return
	}

	ov, err := s.aggregator.TeamOverview(r.Context(), year, month, recent)
	if err != nil {
		s.writeServiceError(w, r, "team overview", err)
		return
	}
	writeResponse(w, r, http.StatusOK, types.NewTeamOverview(ov))
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireOwner(w, r) {
		return
	}
	year, month, err := s.yearMonth(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, service.CodeInvalidRange)
		return
	}

	ov, err := s.aggregator.TeamOverview(r.Context(), year, month, 0)
	if err != nil {
		s.writeServiceError(w, r, "monthly report", err)
		return
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	recs, err := s.clockService.GetRange(r.Context(), "*", first.Format(policy.DateLayout), last.Format(policy.DateLayout))
	if err != nil {
		s.writeServiceError(w, r, "monthly report", err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteMonthlyReport(&buf, ov, recs, s.policy.Location); err != nil {
		s.logger.Printf("monthly report error: %v", err)
		writeError(w, r, http.StatusInternalServerError, codeInternal)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%04d-%02d.xlsx"`, year, int(month)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ── Change feed and calendar ─────────────────────────────────────────────────

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	if !s.requireOwner(w, r) {
		return
	}
	afterID, err := intParam(r, "after_id", 0)
	if err != nil || afterID < 0 {
		writeError(w, r, http.StatusBadRequest, codeBadRequest)
		return
	}
	limit, err := intParam(r, "limit", defaultChangesLimit)
	if err != nil || limit <= 0 {
		writeError(w, r, http.StatusBadRequest, codeBadRequest)
		return
	}
	limit = min(limit, maxChangesLimit)

	evs, err := s.clockService.Changes(r.Context(), int64(afterID), limit)
	if err != nil {
		s.writeServiceError(w, r, "changes", err)
		return
	}
	writeResponse(w, r, http.StatusOK, types.NewChanges(evs, int64(afterID)))
}

func (s *Server) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year := s.clock.Now().In(s.policy.Location).Year()
	from, to := strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to"))
	if from == "" {
		from = fmt.Sprintf("%04d-01-01", year)
	}
	if to == "" {
		to = fmt.Sprintf("%04d-12-31", year)
	}
	if _, err := s.policy.ParseDay(from); err != nil {
		writeError(w, r, http.StatusBadRequest, service.CodeInvalidRange)
		return
	}
	if _, err := s.policy.ParseDay(to); err != nil || to < from {
		writeError(w, r, http.StatusBadRequest, service.CodeInvalidRange)
		return
	}

	hs, err := s.holidays.ListHolidays(r.Context(), from, to)
	if err != nil {
		s.logger.Printf("holidays error: %v", err)
		writeError(w, r, http.StatusServiceUnavailable, service.CodeStorageUnavailable)
		return
	}
	out := types.HolidaysResponse{Holidays: make([]types.Holiday, 0, len(hs))}
	for _, h := range hs {
		out.Holidays = append(out.Holidays, types.Holiday{Date: h.Date, Name: h.Name})
	}
	writeResponse(w, r, http.StatusOK, out)
}

func (s *Server) handleAddHoliday(w http.ResponseWriter, r *http.Request) {
	if !s.requireOwner(w, r) {
		return
	}
	var req types.Holiday
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadJSON)
		return
	}
	day, err := s.policy.ParseDay(req.Date)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, service.CodeInvalidRange)
		return
	}

	h := store.Holiday{Date: day.Format(policy.DateLayout), Name: strings.TrimSpace(req.Name)}
	if err := s.holidays.AddHoliday(r.Context(), h); err != nil {
		s.logger.Printf("add holiday error: %v", err)
		writeError(w, r, http.StatusServiceUnavailable, service.CodeStorageUnavailable)
		return
	}
	writeResponse(w, r, http.StatusCreated, types.Holiday{Date: h.Date, Name: h.Name})
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// writeServiceError maps service errors to statuses. Rejections are 4xx and
// not logged; storage failures are 503 and faults 500, both logged.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	code := service.ErrorCode(err)
	switch code {
	case service.CodeInvalidEmployeeID, service.CodeInvalidRange:
		writeError(w, r, http.StatusBadRequest, code)
	case service.CodeAlreadyClockedIn, service.CodeAlreadyClockedOut, service.CodeNoOpenShift:
		writeError(w, r, http.StatusConflict, code)
	case service.CodeTooEarly:
		writeError(w, r, http.StatusUnprocessableEntity, code, hhmm(s.policy.ShiftStart))
	case service.CodeWindowClosed:
		writeError(w, r, http.StatusUnprocessableEntity, code, hhmm(s.policy.LateCutoff))
	case service.CodeStorageUnavailable:
		s.logger.Printf("%s error: %v", op, err)
		writeError(w, r, http.StatusServiceUnavailable, code)
	default:
		s.logger.Printf("%s error: %v", op, err)
		writeError(w, r, http.StatusInternalServerError, codeInternal)
	}
}

// targetEmployee resolves the employee_id query parameter. Employees may only
// read their own data; owners may name anyone or "*". An owner with no
// parameter gets "" (everyone); an employee gets themself.
func (s *Server) targetEmployee(w http.ResponseWriter, r *http.Request, requested string) (string, bool) {
	id, _ := identityFrom(r.Context())
	requested = strings.TrimSpace(requested)

	if id.IsOwner() {
		if requested == "*" {
			requested = ""
		}
		return requested, true
	}
	if requested == "" || requested == id.EmployeeID {
		return id.EmployeeID, true
	}
	writeError(w, r, http.StatusForbidden, codeForbidden)
	return "", false
}

func (s *Server) requireOwner(w http.ResponseWriter, r *http.Request) bool {
	id, _ := identityFrom(r.Context())
	if !id.IsOwner() {
		writeError(w, r, http.StatusForbidden, codeForbidden)
		return false
	}
	return true
}

// yearMonth reads ?year=&month=, defaulting to the current company month.
func (s *Server) yearMonth(r *http.Request) (int, time.Month, error) {
	now := s.clock.Now().In(s.policy.Location)
	year, err := intParam(r, "year", now.Year())
	if err != nil {
		return 0, 0, err
	}
	month, err := intParam(r, "month", int(now.Month()))
	if err != nil {
		return 0, 0, err
	}
	if month < 1 || month > 12 || year < 1 {
		return 0, 0, fmt.Errorf("invalid year/month %d/%d", year, month)
	}
	return year, time.Month(month), nil
}

func (s *Server) serverTime() string {
	return types.FormatTime(s.clock.Now())
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func hhmm(t policy.TimeOfDay) string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
