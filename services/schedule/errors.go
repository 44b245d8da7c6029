// File: services/schedule/errors.go
package schedule

import (
	"errors"
	"fmt"

	"furever/models"
)

// ErrorKind partitions scheduling failures into the categories the API
// layer is allowed to see. Raw transport errors never leave this package.
type ErrorKind string

const (
	KindInvalidRange      ErrorKind = "invalid_range"
	KindConflict          ErrorKind = "conflict"
	KindNoServiceSelected ErrorKind = "no_service_selected"
	KindNetworkFailure    ErrorKind = "network_failure"
	KindTimeout           ErrorKind = "timeout"
	KindAborted           ErrorKind = "aborted"
	KindPartialBatch      ErrorKind = "partial_batch_failure"
	KindServerRejected    ErrorKind = "server_rejected"
)

// Error is the scheduling error type carried across the service boundary.
type Error struct {
	Kind        ErrorKind
	Message     string
	Conflicting *models.TimeSlot    // populated for KindConflict
	Batch       *models.BatchResult // populated for KindPartialBatch
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the scheduling kind from an error chain; empty when
// the error did not originate here.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsKind reports whether err carries the given scheduling kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

func invalidRangeErr(start, end string) *Error {
	return &Error{
		Kind:    KindInvalidRange,
		Message: fmt.Sprintf("end time %q must be after start time %q", end, start),
	}
}

func conflictErr(existing models.TimeSlot) *Error {
	s := existing
	return &Error{
		Kind:        KindConflict,
		Message:     fmt.Sprintf("overlaps existing slot %s-%s", existing.Start, existing.End),
		Conflicting: &s,
	}
}

func noServiceErr() *Error {
	return &Error{
		Kind:    KindNoServiceSelected,
		Message: "at least one service package must be selected",
	}
}

func partialBatchErr(result models.BatchResult) *Error {
	r := result
	return &Error{
		Kind:    KindPartialBatch,
		Message: fmt.Sprintf("%d of %d days failed to save", len(result.Failed), result.Attempted),
		Batch:   &r,
	}
}
