package domain

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors shared by the service and transport layers
var (
	ErrUnauthenticated = errors.New("authentication credentials were not provided or are invalid")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("invite no longer valid")
)

// NonFieldErrors keys messages that do not belong to a single field
const NonFieldErrors = "non_field_errors"

// ValidationError carries human-readable messages per field
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError builds an error with a single message
func NewValidationError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// Add appends msg to field
func (v *ValidationError) Add(field, msg string) {
	if v.Fields == nil {
		v.Fields = make(map[string][]string)
	}
	v.Fields[field] = append(v.Fields[field], msg)
}

// Merge appends every message of other
func (v *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for f, msgs := range other.Fields {
		for _, m := range msgs {
			v.Add(f, m)
		}
	}
}

// Has reports whether field has any message
func (v *ValidationError) Has(field string) bool {
	return len(v.Fields[field]) > 0
}

// Empty reports whether no message was recorded
func (v *ValidationError) Empty() bool {
	return v == nil || len(v.Fields) == 0
}

// OrNil returns v as an error, or nil when it is empty
func (v *ValidationError) OrNil() error {
	if v.Empty() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	fields := make([]string, 0, len(v.Fields))
	for f := range v.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(v.Fields[f], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// AsValidation unwraps a *ValidationError from err
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
