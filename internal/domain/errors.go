package domain

import (
	"fmt"
	"sort"
	"strings"
)

// AuthRequiredError is returned when a mutating operation runs without a
// valid session credential.
type AuthRequiredError struct {
	Op string
}

func (e *AuthRequiredError) Error() string {
	return fmt.Sprintf("%s requires an authenticated session", e.Op)
}

// ValidationError reports client-side input rejected before any network
// call. Fields maps field name to a human-readable reason.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
