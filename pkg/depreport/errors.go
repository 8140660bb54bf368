package depreport

import (
	"strings"
)

// ValidationError captures a single field-level problem in a report.
type ValidationError struct {
	Module  string
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	parts := make([]string, 0, 3)
	if e.Module != "" {
		parts = append(parts, "module "+e.Module)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.TrimSpace(strings.Join(parts, " "))
}

// ValidationErrors aggregates multiple validation issues.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Issues returns a copy of the underlying validation errors.
func (errs ValidationErrors) Issues() []ValidationError {
	return append([]ValidationError(nil), errs...)
}
