// Package capture implements the capture-session state machine: binding an
// in-progress capture to a source buffer region and rewriting that region
// into a link once the capture is finalized.
package capture

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/snitch-dev/snitch/internal/buffer"
	"github.com/snitch-dev/snitch/internal/entry"
	"github.com/snitch-dev/snitch/internal/errors"
	"github.com/snitch-dev/snitch/internal/track"
)

// Controller owns the single process-wide capture session and drives the
// Idle -> Pending -> Finalizing -> Idle lifecycle. Only one capture-region
// binding can be pending at a time; a second Start while one is pending is
// a no-op and the first session wins.
//
// All methods are meant to be called from a single event dispatch; the
// controller performs no locking of its own.
type Controller struct {
	registry   *buffer.Registry
	prefix     string
	idStrategy entry.IDStrategy
	logger     *slog.Logger

	state   State
	session *Session
}

// Option configures a Controller.
type Option func(*Controller)

// WithIDStrategy overrides the default id computation. The strategy is
// resolved here, at construction time, not probed per call.
func WithIDStrategy(s entry.IDStrategy) Option {
	return func(c *Controller) {
		if s != nil {
			c.idStrategy = s
		}
	}
}

// WithLogger sets the logger used for absorbed failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController creates a controller. prefix is the capture key family
// prefix used by the finalize guard.
func NewController(registry *buffer.Registry, prefix string, opts ...Option) *Controller {
	c := &Controller{
		registry:   registry,
		prefix:     prefix,
		idStrategy: entry.ComputeID,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state machine position.
func (c *Controller) State() State { return c.state }

// Session returns the pending session, or nil.
func (c *Controller) Session() *Session { return c.session }

// IsCaptureContextActive reports whether a capture session is pending. The
// host's context filtering uses it to decide whether region-capture entry
// points are offered.
func (c *Controller) IsCaptureContextActive() bool { return c.state == Pending }

// Start opens a capture session over buf's [start, end) region. It returns
// the session, or nil when the preconditions fail: an empty selection never
// creates a session, and a second capture while one is pending is a no-op.
func (c *Controller) Start(buf *buffer.Buffer, start, end int, templateKey string) *Session {
	if start >= end {
		return nil
	}
	if c.state != Idle {
		c.logger.Debug("capture already pending, ignoring start",
			"session", c.session.ID(), "template", templateKey)
		return nil
	}

	regionStart, regionEnd := buf.NewRegion(start, end)
	c.session = &Session{
		id:          newSessionID(),
		bufferName:  buf.Name(),
		start:       regionStart,
		end:         regionEnd,
		templateKey: templateKey,
	}
	c.state = Pending
	c.logger.Debug("capture session started",
		"session", c.session.id, "buffer", c.session.bufferName, "template", templateKey)
	return c.session
}

// HandleFinalize is the capture-finalize lifecycle hook. It assigns the
// entry's id and sequence number, persists the document, and — when the
// pending session passes the guard — rewrites the captured region into a
// link. The session is cleaned up unconditionally, whether or not the
// rewrite happened.
//
// Absorbed failures (guard mismatch, stale markers) skip the rewrite and
// are logged, never returned: the entry's persistence outranks the cosmetic
// source-side rewrite. Document save failures do propagate.
func (c *Controller) HandleFinalize(doc *track.Document, h track.Handle, templateKey string) error {
	if c.state == Pending {
		c.state = Finalizing
	}
	defer c.Cleanup()

	// (1) id, unless the entry already carries one
	id, ok := doc.GetProperty(h, entry.PropID)
	if !ok || id == "" {
		id = c.idStrategy(h.Title)
		if err := doc.SetProperty(h, entry.PropID, id); err != nil {
			return err
		}
	}

	// (2) sequence number, scanned at finalize time
	seq := 0
	if seqStr, ok := doc.GetProperty(h, entry.PropSeq); ok {
		seq, _ = strconv.Atoi(strings.TrimSpace(seqStr))
	}
	if seq == 0 {
		seq = doc.NextSequenceNumber()
		if err := doc.SetProperty(h, entry.PropSeq, strconv.Itoa(seq)); err != nil {
			return err
		}
	}

	// (3) persist; failures propagate, committed id/seq are not rolled back
	if err := doc.Save(); err != nil {
		return err
	}

	// (4)+(5) source-side rewrite, guarded
	c.rewrite(id, seq, templateKey)
	return nil
}

// rewrite performs the guarded source-side link rewrite. Every failure in
// here is absorbed: the entry is already persisted.
func (c *Controller) rewrite(id string, seq int, templateKey string) {
	s := c.session
	if c.state != Finalizing || s == nil {
		c.logger.Debug("no pending capture session, skipping rewrite", "template", templateKey)
		return
	}

	// Guard against cross-talk from unrelated capture flows finalized while
	// this session was pending.
	if !strings.HasPrefix(templateKey, c.prefix) {
		err := errors.NewGuardMismatch(s.templateKey, templateKey)
		c.logger.Warn("rewrite skipped", "session", s.id, "error", err)
		return
	}

	buf, ok := c.registry.Get(s.bufferName)
	if !ok {
		c.logger.Warn("rewrite skipped",
			"session", s.id, "error", errors.NewStaleMarker(s.bufferName))
		return
	}

	literal, err := Rewrite(buf, s.start, s.end, func(literal string) string {
		return entry.FormatLink(seq, id, literal)
	})
	if err != nil {
		c.logger.Warn("rewrite skipped", "session", s.id, "error", err)
		return
	}
	c.logger.Debug("region rewritten into link",
		"session", s.id, "buffer", s.bufferName, "seq", seq, "label", literal)
}

// Cleanup unconditionally discards the session and returns to Idle. It is
// safe to call at any time; the host invokes it on capture abort as well.
func (c *Controller) Cleanup() {
	if c.session != nil {
		c.session.drop()
	}
	c.session = nil
	c.state = Idle
}
