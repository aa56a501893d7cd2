package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/types"
)

// Client is a typed wrapper over the Struct-based attendance service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) ClockIn(ctx context.Context, req types.ClockInRequest, opts ...grpc.CallOption) (types.RecordResponse, error) {
	var out types.RecordResponse
	err := c.invoke(ctx, MethodClockIn, req, &out, opts...)
	return out, err
}

func (c *Client) ClockOut(ctx context.Context, req types.ClockOutRequest, opts ...grpc.CallOption) (types.RecordResponse, error) {
	var out types.RecordResponse
	err := c.invoke(ctx, MethodClockOut, req, &out, opts...)
	return out, err
}

func (c *Client) GetToday(ctx context.Context, opts ...grpc.CallOption) (types.TodayResponse, error) {
	var out types.TodayResponse
	err := c.invoke(ctx, MethodGetToday, struct{}{}, &out, opts...)
	return out, err
}

func (c *Client) GetMonthlyStats(ctx context.Context, employeeID string, year, month int, opts ...grpc.CallOption) (types.MonthlyStats, error) {
	var out types.MonthlyStats
	req := monthlyStatsRequest{EmployeeID: employeeID, Year: year, Month: month}
	err := c.invoke(ctx, MethodGetMonthlyStats, req, &out, opts...)
	return out, err
}

func (c *Client) GetWeeklyHours(ctx context.Context, employeeID, date string, opts ...grpc.CallOption) (types.WeeklyHours, error) {
	var out types.WeeklyHours
	req := weeklyHoursRequest{EmployeeID: employeeID, Date: date}
	err := c.invoke(ctx, MethodGetWeeklyHours, req, &out, opts...)
	return out, err
}

func (c *Client) invoke(ctx context.Context, method string, req, out any, opts ...grpc.CallOption) error {
	in, err := types.ToStruct(req)
	if err != nil {
		return err
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, resp, opts...); err != nil {
		return err
	}
	return types.FromStruct(resp, out)
}
