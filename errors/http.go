package errors

import (
	"encoding/json"
	"net/http"

	"google.golang.org/grpc/codes"
)

const statusClientClosedRequest = 499

// HTTPStatus maps a gRPC code to the status ToHTTP writes.
func HTTPStatus(code codes.Code) int {
	switch code {
	case codes.InvalidArgument, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Canceled:
		return statusClientClosedRequest
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.NotFound:
		return http.StatusNotFound
	case codes.FailedPrecondition:
		return http.StatusPreconditionFailed
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type httpBody struct {
	Code       string            `json:"code"`
	Reason     Reason            `json:"reason,omitempty"`
	Domain     string            `json:"domain,omitempty"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Violations []FieldViolation  `json:"violations,omitempty"`
}

// ToHTTP writes e as JSON with the status mapped from its code.
func (e ErrorResponse) ToHTTP(w http.ResponseWriter) {
	e.WriteHTTP(w, HTTPStatus(e.Code))
}

// WriteHTTP writes e as JSON with an explicit status. Probes use it to
// answer 503 whatever the underlying code.
func (e ErrorResponse) WriteHTTP(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(httpBody{
		Code:       e.Code.String(),
		Reason:     e.Reason,
		Domain:     e.Domain,
		Message:    e.Message,
		Details:    e.Details,
		Violations: e.Violations,
	})
}
