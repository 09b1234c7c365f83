package capture

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/snitch-dev/snitch/internal/buffer"
)

// State is the capture state machine position.
type State int

const (
	Idle State = iota
	Pending
	Finalizing
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Finalizing:
		return "finalizing"
	default:
		return "idle"
	}
}

// Session binds one in-progress capture to a source buffer region. The
// buffer is held by name only (a registry key, not an owning reference);
// the region boundaries are live markers that track edits made while the
// capture is being composed.
type Session struct {
	id          string
	bufferName  string
	start       *buffer.Marker
	end         *buffer.Marker
	templateKey string
}

// ID returns the session's ulid, used for log correlation.
func (s *Session) ID() string { return s.id }

// TemplateKey returns the capture template key that opened the session.
func (s *Session) TemplateKey() string { return s.templateKey }

// Region resolves the current marker positions. ok is false when the
// buffer has been closed or the markers dropped.
func (s *Session) Region() (start, end int, ok bool) {
	start, ok = s.start.Offset()
	if !ok {
		return 0, 0, false
	}
	end, ok = s.end.Offset()
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

// drop detaches the session's markers.
func (s *Session) drop() {
	s.start.Drop()
	s.end.Drop()
}

// newSessionID generates a ulid for log correlation.
func newSessionID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "unknown"
	}
	return id.String()
}
