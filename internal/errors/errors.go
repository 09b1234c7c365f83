package errors

import "fmt"

// ErrorCode represents a snitch error code.
type ErrorCode string

const (
	ErrNotInProject    ErrorCode = "NOT_IN_PROJECT"   // 404, blocking: capture aborted
	ErrGuardMismatch   ErrorCode = "GUARD_MISMATCH"   // 409, absorbed: rewrite skipped
	ErrStaleMarker     ErrorCode = "STALE_MARKER"     // 410, absorbed: rewrite skipped
	ErrPatternMismatch ErrorCode = "PATTERN_MISMATCH" // 422, absorbed: overlay left raw
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"  // 400
	ErrNotFound        ErrorCode = "NOT_FOUND"        // 404
	ErrInternal        ErrorCode = "INTERNAL"         // 500
)

// SnitchError represents a structured error with code, status, and details.
type SnitchError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *SnitchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewNotInProject creates a 404 error for when no project root is resolvable.
// This is the only capture error surfaced to the user as a blocking message.
func NewNotInProject(path string) *SnitchError {
	return &SnitchError{
		Code:    ErrNotInProject,
		Status:  404,
		Message: fmt.Sprintf("no project root found for %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewGuardMismatch creates a 409 error for a finalize event whose template
// key does not belong to the pending session. Callers absorb it: the entry
// is still saved, only the source-side rewrite is skipped.
func NewGuardMismatch(sessionKey, finalizeKey string) *SnitchError {
	return &SnitchError{
		Code:    ErrGuardMismatch,
		Status:  409,
		Message: fmt.Sprintf("finalize key %q does not match pending session key %q", finalizeKey, sessionKey),
		Details: map[string]any{"session_key": sessionKey, "finalize_key": finalizeKey},
	}
}

// NewStaleMarker creates a 410 error for when the captured region's buffer
// was closed or its markers are no longer valid at finalize time.
func NewStaleMarker(buffer string) *SnitchError {
	return &SnitchError{
		Code:    ErrStaleMarker,
		Status:  410,
		Message: fmt.Sprintf("capture region in buffer %q is no longer addressable", buffer),
		Details: map[string]any{"buffer": buffer},
	}
}

// NewPatternMismatch creates a 422 error for when buffer text at an overlay's
// start no longer matches the link pattern.
func NewPatternMismatch(offset int) *SnitchError {
	return &SnitchError{
		Code:    ErrPatternMismatch,
		Status:  422,
		Message: fmt.Sprintf("text at offset %d no longer matches the link pattern", offset),
		Details: map[string]any{"offset": offset},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *SnitchError {
	return &SnitchError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing entry or location.
func NewNotFound(identifier string) *SnitchError {
	return &SnitchError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *SnitchError {
	return &SnitchError{
		Code:    ErrInternal,
		Status:  500,
		Message: err.Error(),
	}
}

// IsCode reports whether err is a SnitchError with the given code.
func IsCode(err error, code ErrorCode) bool {
	se, ok := err.(*SnitchError)
	return ok && se.Code == code
}
