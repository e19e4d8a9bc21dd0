package services

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoCategory marks a submission whose category could not be resolved.
// The API maps it to a 400 with a category_id detail.
var ErrNoCategory = errors.New("services: category not found")

// FieldError is a single per-field validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every rejected field of a submission.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("services: validation failed on %d field(s)", len(e.Details))
}

// newValidationError builds a ValidationError from the validate package's
// field → message map, sorted into a stable detail list by the caller's map
// iteration being normalised here.
func newValidationError(errs map[string]string) *ValidationError {
	ve := &ValidationError{Details: make([]FieldError, 0, len(errs))}
	for _, field := range sortedKeys(errs) {
		ve.Details = append(ve.Details, FieldError{Field: field, Message: errs[field]})
	}
	return ve
}

// UploadError reports an image upload failure along with the object paths
// that were already written, so the compensator knows what to clean up.
type UploadError struct {
	Index int
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("services: upload image %d: %v", e.Index, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
