package submit

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSubmitInFlight is returned when Submit is called while a previous
// submission from the same pipeline has not resolved yet.
var ErrSubmitInFlight = errors.New("a submission is already in progress")

// ValidationError rejects a draft before anything is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Failure is one batch item the backend (or the snapshot step) rejected.
type Failure struct {
	Target string
	Err    error
}

// BatchError summarizes the failed items of a batch.
type BatchError struct {
	Failures []Failure
	Total    int
}

func (e *BatchError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Target, f.Err))
	}
	return fmt.Sprintf("%d of %d failed (%s)", len(e.Failures), e.Total, strings.Join(parts, "; "))
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
