package errors

import (
	"errors"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := NewNotInProject("/tmp/scratch/main.go")
	want := "NOT_IN_PROJECT: no project root found for /tmp/scratch/main.go"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestConstructorCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *SnitchError
		code   ErrorCode
		status int
	}{
		{"not in project", NewNotInProject("/x"), ErrNotInProject, 404},
		{"guard mismatch", NewGuardMismatch("nt", "zz"), ErrGuardMismatch, 409},
		{"stale marker", NewStaleMarker("main.go"), ErrStaleMarker, 410},
		{"pattern mismatch", NewPatternMismatch(42), ErrPatternMismatch, 422},
		{"invalid request", NewInvalidRequest("bad"), ErrInvalidRequest, 400},
		{"not found", NewNotFound("abc"), ErrNotFound, 404},
		{"internal", NewInternal(errors.New("boom")), ErrInternal, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Status != tt.status {
				t.Errorf("Status = %d, want %d", tt.err.Status, tt.status)
			}
		})
	}
}

func TestGuardMismatchDetails(t *testing.T) {
	err := NewGuardMismatch("nt", "xq")
	if err.Details["session_key"] != "nt" {
		t.Errorf("Details[session_key] = %v, want nt", err.Details["session_key"])
	}
	if err.Details["finalize_key"] != "xq" {
		t.Errorf("Details[finalize_key] = %v, want xq", err.Details["finalize_key"])
	}
}

func TestIsCode(t *testing.T) {
	if !IsCode(NewStaleMarker("b"), ErrStaleMarker) {
		t.Error("IsCode should match a stale marker error")
	}
	if IsCode(NewStaleMarker("b"), ErrNotFound) {
		t.Error("IsCode should not match a different code")
	}
	if IsCode(errors.New("plain"), ErrInternal) {
		t.Error("IsCode should not match a plain error")
	}
}
