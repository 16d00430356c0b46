package errors

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
)

func InvalidArgument() ErrorResponse {
	return New("Invalid argument", codes.InvalidArgument, nil).WithReason("invalid_argument")
}
func NotFound() ErrorResponse {
	return New("Resource not found", codes.NotFound, nil).WithReason("not_found")
}
func FailedPrecondition() ErrorResponse {
	return New("Operation cannot be performed in the current state", codes.FailedPrecondition, nil).WithReason("failed_precondition")
}
func Unavailable() ErrorResponse {
	return New("Service unavailable", codes.Unavailable, nil).WithReason("unavailable")
}
func Internal() ErrorResponse {
	return New("Internal error", codes.Internal, nil).WithReason("internal")
}
func Canceled() ErrorResponse {
	return New("Request canceled", codes.Canceled, nil).WithReason("canceled")
}
func DeadlineExceeded() ErrorResponse {
	return New("Deadline exceeded", codes.DeadlineExceeded, nil).WithReason("deadline_exceeded")
}

func ValidationViolations(v []FieldViolation) ErrorResponse {
	return InvalidArgument().WithReason("validation_failed").WithViolations(v)
}

// CatalogNotReady is returned when the country catalog is read before its
// first successful load.
func CatalogNotReady() ErrorResponse {
	return FailedPrecondition().
		WithReason("catalog_not_ready").
		WithMessage("country catalog is not loaded yet")
}

// CatalogEmpty is returned when a source yields no records.
func CatalogEmpty(source string) ErrorResponse {
	return FailedPrecondition().
		WithReason("catalog_empty").
		WithMessage("country catalog source returned no records").
		WithDetail("source", source)
}

// SourceUnavailable wraps a failed catalog source read.
func SourceUnavailable(source string, cause error) ErrorResponse {
	e := Unavailable().
		WithReason("source_unavailable").
		WithDetail("source", source).
		WithCause(cause)
	if cause != nil {
		e = e.WithMessage("country catalog source failed: " + cause.Error())
	}
	return e
}

// UnknownCountry reports a country code missing from the catalog.
// The formatting core never returns it; the CLI uses it for flags.
func UnknownCountry(code string) ErrorResponse {
	return NotFound().WithReason("unknown_country").WithDetail("code", code)
}

// ToErrorResponse converts any error into ErrorResponse.
func ToErrorResponse(err error) ErrorResponse {
	if err == nil {
		return Internal().WithReason("unexpected_error")
	}
	if errors.Is(err, context.Canceled) {
		return Canceled().WithCause(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return DeadlineExceeded().WithCause(err)
	}

	var e ErrorResponse
	if errors.As(err, &e) {
		return e
	}
	return Internal().WithReason("unexpected_error").WithCause(err)
}
