package errors

import (
	"fmt"
	"strings"

	play "github.com/go-playground/validator/v10"
)

// FromPlayground converts go-playground/validator errors to InvalidArgument
// with one violation per failed field. prefix, when set, is prepended to
// every field path (e.g. "countries[3]").
func FromPlayground(err play.ValidationErrors, tagToReason map[string]string, prefix string) ErrorResponse {
	return ValidationViolations(ViolationsFromPlayground(err, tagToReason, prefix))
}

func ViolationsFromPlayground(err play.ValidationErrors, tagToReason map[string]string, prefix string) []FieldViolation {
	violations := make([]FieldViolation, 0, len(err))
	for _, fe := range err {
		tag := fe.Tag()
		reason := tagToReason[tag]
		if reason == "" {
			reason = "invalid"
		}

		// Namespace() is "Type.Field.Sub"; drop the root type.
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 && i+1 < len(field) {
			field = field[i+1:]
		}
		if field == "" {
			field = fe.Field()
		}
		if prefix != "" {
			field = prefix + "." + field
		}

		violations = append(violations, FieldViolation{
			Field:       field,
			Reason:      reason,
			Description: fmt.Sprintf("%s validation failed (%s)", field, tag),
		})
	}
	return violations
}
