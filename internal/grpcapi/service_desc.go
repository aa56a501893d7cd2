package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "attendance.v1.AttendanceService"

// Method names. Requests and responses are google.protobuf.Struct values
// carrying the same fields as the HTTP JSON views.
const (
	MethodClockIn         = "ClockIn"
	MethodClockOut        = "ClockOut"
	MethodGetToday        = "GetToday"
	MethodGetMonthlyStats = "GetMonthlyStats"
	MethodGetWeeklyHours  = "GetWeeklyHours"
)

// AttendanceServer is the server API for the attendance service.
type AttendanceServer interface {
	ClockIn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClockOut(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetToday(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetMonthlyStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetWeeklyHours(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(AttendanceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AttendanceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AttendanceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// FullMethod returns "/attendance.v1.AttendanceService/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AttendanceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodClockIn, Handler: unaryHandler(MethodClockIn, AttendanceServer.ClockIn)},
		{MethodName: MethodClockOut, Handler: unaryHandler(MethodClockOut, AttendanceServer.ClockOut)},
		{MethodName: MethodGetToday, Handler: unaryHandler(MethodGetToday, AttendanceServer.GetToday)},
		{MethodName: MethodGetMonthlyStats, Handler: unaryHandler(MethodGetMonthlyStats, AttendanceServer.GetMonthlyStats)},
		{MethodName: MethodGetWeeklyHours, Handler: unaryHandler(MethodGetWeeklyHours, AttendanceServer.GetWeeklyHours)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "attendance/v1/attendance.proto",
}

// RegisterAttendanceServer registers srv on s.
func RegisterAttendanceServer(s grpc.ServiceRegistrar, srv AttendanceServer) {
	s.RegisterService(&serviceDesc, srv)
}
