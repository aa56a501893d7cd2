package grpcapi

import (
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/service"
)

// ErrorDomain is the errdetails.ErrorInfo domain for attendance errors.
const ErrorDomain = "attendance"

// Codes the gRPC layer adds on top of service.ErrorCode.
const (
	reasonUnauthenticated = "unauthenticated"
	reasonForbidden       = "forbidden"
	reasonBadRequest      = "bad_request"
	reasonInternal        = "internal_error"
)

var grpcCodes = map[string]codes.Code{
	service.CodeInvalidEmployeeID:  codes.InvalidArgument,
	service.CodeInvalidRange:       codes.InvalidArgument,
	service.CodeAlreadyClockedIn:   codes.AlreadyExists,
	service.CodeAlreadyClockedOut:  codes.FailedPrecondition,
	service.CodeNoOpenShift:        codes.FailedPrecondition,
	service.CodeTooEarly:           codes.FailedPrecondition,
	service.CodeWindowClosed:       codes.FailedPrecondition,
	service.CodeStorageUnavailable: codes.Unavailable,
	reasonUnauthenticated:          codes.Unauthenticated,
	reasonForbidden:                codes.PermissionDenied,
	reasonBadRequest:               codes.InvalidArgument,
}

// statusError builds a status carrying an ErrorInfo whose Reason is the
// stable error code.
func statusError(reason, message string, metadata map[string]string) error {
	code, ok := grpcCodes[reason]
	if !ok {
		code = codes.Internal
	}
	st := status.New(code, message)
	withDetails, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   reason,
		Domain:   ErrorDomain,
		Metadata: metadata,
	})
	if err != nil {
		return st.Err()
	}
	return withDetails.Err()
}

// ReasonOf extracts the ErrorInfo reason from a status error, or "".
func ReasonOf(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == ErrorDomain {
			return info.GetReason()
		}
	}
	return ""
}
