package errors

import (
	"encoding/json"

	"google.golang.org/grpc/codes"
)

// Domain is stamped on every error produced by this module.
const Domain = "intlphone"

// Reason is a stable machine-readable code.
type Reason string

type FieldViolation struct {
	Field       string `json:"field"`
	Reason      string `json:"reason,omitempty"`
	Description string `json:"description,omitempty"`
}

type ErrorResponse struct {
	Code       codes.Code        `json:"code"`
	Reason     Reason            `json:"reason,omitempty"`
	Domain     string            `json:"domain,omitempty"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Violations []FieldViolation  `json:"violations,omitempty"`

	cause error
}

func New(message string, code codes.Code, details map[string]string) ErrorResponse {
	return ErrorResponse{Code: code, Domain: Domain, Message: message, Details: cloneDetails(details)}
}

func (e ErrorResponse) WithReason(r string) ErrorResponse { e.Reason = Reason(r); return e }
func (e ErrorResponse) WithMessage(m string) ErrorResponse { e.Message = m; return e }

// WithCause keeps err reachable through errors.Is / errors.As without
// exposing it in the serialized form.
func (e ErrorResponse) WithCause(err error) ErrorResponse { e.cause = err; return e }

func (e ErrorResponse) WithDetail(k, v string) ErrorResponse {
	// Copy-on-write to keep builder-style methods immutable.
	details := cloneDetails(e.Details)
	if details == nil {
		details = map[string]string{}
	}
	details[k] = v
	e.Details = details
	return e
}

func (e ErrorResponse) WithDetails(m map[string]string) ErrorResponse {
	if len(m) == 0 {
		return e
	}
	details := cloneDetails(e.Details)
	if details == nil {
		details = map[string]string{}
	}
	for k, v := range m {
		details[k] = v
	}
	e.Details = details
	return e
}

func (e ErrorResponse) WithViolations(v []FieldViolation) ErrorResponse {
	if len(v) == 0 {
		return e
	}
	e.Violations = append([]FieldViolation(nil), v...)
	return e
}

func (e ErrorResponse) Unwrap() error { return e.cause }

// Is matches another ErrorResponse by code and reason, so sentinel presets
// such as CatalogNotReady() work with errors.Is.
func (e ErrorResponse) Is(target error) bool {
	t, ok := target.(ErrorResponse)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Reason == e.Reason
}

func (e ErrorResponse) ToString() string {
	type out struct {
		Code       string            `json:"code"`
		Reason     Reason            `json:"reason,omitempty"`
		Domain     string            `json:"domain,omitempty"`
		Message    string            `json:"message"`
		Details    map[string]string `json:"details,omitempty"`
		Violations []FieldViolation  `json:"violations,omitempty"`
	}
	b, _ := json.Marshal(out{
		Code:       e.Code.String(),
		Reason:     e.Reason,
		Domain:     e.Domain,
		Message:    e.Message,
		Details:    e.Details,
		Violations: e.Violations,
	})
	return string(b)
}

func (e ErrorResponse) Error() string { return e.ToString() }

func cloneDetails(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
