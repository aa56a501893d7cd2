// Package grpcapi exposes the clock engine and aggregator over gRPC for
// internal callers such as payroll jobs and kiosks.
package grpcapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/policy"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/service"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/types"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/platform/auth"
)

// Metadata keys carrying the caller identity when no JWT secret is set.
const (
	MetadataEmployeeID   = "x-employee-id"
	MetadataEmployeeRole = "x-employee-role"
)

type Dependencies struct {
	Logger       *log.Logger
	ClockService *service.ClockService
	Aggregator   *service.Aggregator
	Clock        policy.Clock
	JWTSecret    string
}

type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     *log.Logger
	api        *attendanceAPI
}

func NewServer(d Dependencies) *Server {
	clock := d.Clock
	if clock == nil {
		clock = policy.SystemClock{}
	}
	api := &attendanceAPI{
		clockService: d.ClockService,
		aggregator:   d.Aggregator,
		policy:       d.ClockService.Policy(),
		clock:        clock,
		logger:       d.Logger,
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(identityInterceptor(d.JWTSecret)),
	)
	healthServer := health.NewServer()
	RegisterAttendanceServer(grpcServer, api)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{grpcServer: grpcServer, health: healthServer, logger: d.Logger, api: api}
}

// Serve runs the gRPC server on lis until ctx is cancelled, then stops
// gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.logger.Printf("grpc listening on %s", lis.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

// ── Identity ─────────────────────────────────────────────────────────────────

type identityKey struct{}

func identityFrom(ctx context.Context) auth.Identity {
	id, _ := ctx.Value(identityKey{}).(auth.Identity)
	return id
}

// identityInterceptor resolves the caller for attendance methods from the
// "authorization" metadata when secret is set, otherwise from the
// x-employee-id / x-employee-role metadata.
func identityInterceptor(secret string) grpc.UnaryServerInterceptor {
	prefix := "/" + ServiceName + "/"
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !strings.HasPrefix(info.FullMethod, prefix) {
			return handler(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		first := func(key string) string {
			if v := md.Get(key); len(v) > 0 {
				return v[0]
			}
			return ""
		}

		var (
			id  auth.Identity
			err error
		)
		if secret != "" {
			id, err = auth.FromBearer(first("authorization"), secret)
		} else {
			id, err = auth.FromHeaders(first(MetadataEmployeeID), first(MetadataEmployeeRole))
		}
		if err != nil {
			return nil, statusError(reasonUnauthenticated, "missing or invalid identity", nil)
		}
		return handler(context.WithValue(ctx, identityKey{}, id), req)
	}
}

// ── Service ──────────────────────────────────────────────────────────────────

type attendanceAPI struct {
	clockService *service.ClockService
	aggregator   *service.Aggregator
	policy       policy.Policy
	clock        policy.Clock
	logger       *log.Logger
}

func (a *attendanceAPI) ClockIn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req types.ClockInRequest
	if err := types.FromStruct(in, &req); err != nil {
		return nil, statusError(reasonBadRequest, err.Error(), nil)
	}
	rec, err := a.clockService.ClockIn(ctx, identityFrom(ctx).EmployeeID, service.ClockInOptions{
		Location: req.Location,
		Notes:    req.Notes,
	})
	if err != nil {
		return nil, a.serviceError(MethodClockIn, err)
	}
	return a.reply(types.RecordResponse{OK: true, Record: types.NewRecord(rec), ServerTime: a.serverTime()})
}

func (a *attendanceAPI) ClockOut(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req types.ClockOutRequest
	if err := types.FromStruct(in, &req); err != nil {
		return nil, statusError(reasonBadRequest, err.Error(), nil)
	}
	rec, err := a.clockService.ClockOut(ctx, identityFrom(ctx).EmployeeID, req.Notes)
	if err != nil {
		return nil, a.serviceError(MethodClockOut, err)
	}
	return a.reply(types.RecordResponse{OK: true, Record: types.NewRecord(rec), ServerTime: a.serverTime()})
}

func (a *attendanceAPI) GetToday(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	rec, err := a.clockService.GetToday(ctx, identityFrom(ctx).EmployeeID)
	if err != nil {
		return nil, a.serviceError(MethodGetToday, err)
	}
	resp := types.TodayResponse{ServerTime: a.serverTime()}
	if rec != nil {
		v := types.NewRecord(*rec)
		resp.Record = &v
	}
	return a.reply(resp)
}

type monthlyStatsRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
}

func (a *attendanceAPI) GetMonthlyStats(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req monthlyStatsRequest
	if err := types.FromStruct(in, &req); err != nil {
		return nil, statusError(reasonBadRequest, err.Error(), nil)
	}
	employeeID, err := a.target(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now().In(a.policy.Location)
	if req.Year == 0 {
		req.Year = now.Year()
	}
	if req.Month == 0 {
		req.Month = int(now.Month())
	}

	st, err := a.aggregator.MonthlyStats(ctx, employeeID, req.Year, time.Month(req.Month))
	if err != nil {
		return nil, a.serviceError(MethodGetMonthlyStats, err)
	}
	return a.reply(types.NewMonthlyStats(st))
}

type weeklyHoursRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
}

func (a *attendanceAPI) GetWeeklyHours(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req weeklyHoursRequest
	if err := types.FromStruct(in, &req); err != nil {
		return nil, statusError(reasonBadRequest, err.Error(), nil)
	}
	employeeID, err := a.target(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Date) == "" {
		req.Date = a.policy.Day(a.clock.Now())
	}

	wk, err := a.aggregator.WeeklyHours(ctx, employeeID, req.Date)
	if err != nil {
		return nil, a.serviceError(MethodGetWeeklyHours, err)
	}
	return a.reply(types.NewWeeklyHours(wk))
}

// target applies the same ownership rule as the HTTP API: employees read
// only themselves, owners may name anyone or "*" (the default).
func (a *attendanceAPI) target(ctx context.Context, requested string) (string, error) {
	id := identityFrom(ctx)
	requested = strings.TrimSpace(requested)
	if id.IsOwner() {
		if requested == "" {
			return "*", nil
		}
		return requested, nil
	}
	if requested == "" || requested == id.EmployeeID {
		return id.EmployeeID, nil
	}
	return "", statusError(reasonForbidden, "only owners can read other employees", nil)
}

func (a *attendanceAPI) serviceError(method string, err error) error {
	code := service.ErrorCode(err)
	switch code {
	case "":
		a.logger.Printf("grpc %s error: %v", method, err)
		return statusError(reasonInternal, "unexpected server error", nil)
	case service.CodeStorageUnavailable:
		a.logger.Printf("grpc %s error: %v", method, err)
		return statusError(code, err.Error(), nil)
	case service.CodeTooEarly:
		return statusError(code, err.Error(), map[string]string{"shift_start": a.policy.ShiftStart.String()})
	case service.CodeWindowClosed:
		return statusError(code, err.Error(), map[string]string{"late_cutoff": a.policy.LateCutoff.String()})
	default:
		return statusError(code, err.Error(), nil)
	}
}

func (a *attendanceAPI) reply(v any) (*structpb.Struct, error) {
	s, err := types.ToStruct(v)
	if err != nil {
		return nil, statusError(reasonInternal, err.Error(), nil)
	}
	return s, nil
}

func (a *attendanceAPI) serverTime() string {
	return types.FormatTime(a.clock.Now())
}
