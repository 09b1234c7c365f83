// Package overlay implements the rendering engine that masks raw link
// syntax with compact styled annotations. Overlays are visual-only: the
// underlying buffer text is never modified, and every overlay is rebuilt
// from a full scan on each edit or save.
package overlay

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/snitch-dev/snitch/internal/buffer"
	"github.com/snitch-dev/snitch/internal/entry"
	"github.com/snitch-dev/snitch/internal/errors"
)

// HoverState is whether an overlay currently shows its rendered label or
// the raw underlying text.
type HoverState int

const (
	Rendered HoverState = iota
	Raw
)

func (s HoverState) String() string {
	if s == Raw {
		return "raw"
	}
	return "rendered"
}

// Overlay is a transient annotation over one link occurrence.
type Overlay struct {
	Start int
	End   int
	Label string
	State HoverState
}

// contains reports whether pos falls inside the overlay's range.
func (o *Overlay) contains(pos int) bool {
	return pos >= o.Start && pos < o.End
}

// binding is the per-buffer bookkeeping for an enabled buffer.
type binding struct {
	buf       *buffer.Buffer
	overlays  []*Overlay
	changeSub int
	saveSub   int
}

// Engine owns the overlays it creates and the rescan hooks it installs.
// Disabling a buffer removes only this engine's overlays and hooks.
type Engine struct {
	style   lipgloss.Style
	logger  *slog.Logger
	enabled map[string]*binding
}

// Option configures an Engine.
type Option func(*Engine)

// WithStyle overrides the rendered-label styling.
func WithStyle(s lipgloss.Style) Option {
	return func(e *Engine) { e.style = s }
}

// WithLogger sets the logger for absorbed pattern mismatches.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an overlay engine. The default label style is a
// link-like underlined foreground.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		style:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true),
		logger:  slog.Default(),
		enabled: make(map[string]*binding),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enabled reports whether rendering is enabled for the buffer.
func (e *Engine) Enabled(buf *buffer.Buffer) bool {
	_, ok := e.enabled[buf.Name()]
	return ok
}

// Enable turns on link rendering for buf: an immediate scan plus rescan
// hooks on every edit and save.
func (e *Engine) Enable(buf *buffer.Buffer) {
	if e.Enabled(buf) {
		return
	}
	b := &binding{buf: buf}
	b.changeSub = buf.OnChange(func(buffer.Change) { e.Rescan(buf) })
	b.saveSub = buf.OnSave(func() { e.Rescan(buf) })
	e.enabled[buf.Name()] = b
	e.Rescan(buf)
}

// Disable clears every overlay this engine owns in buf and removes its
// rescan hooks. Listeners installed by other features are untouched.
func (e *Engine) Disable(buf *buffer.Buffer) {
	b, ok := e.enabled[buf.Name()]
	if !ok {
		return
	}
	buf.Unsubscribe(b.changeSub)
	buf.Unsubscribe(b.saveSub)
	delete(e.enabled, buf.Name())
}

// Rescan drops all overlays for buf and rebuilds them from a full-text
// scan. Every match starts out rendered.
func (e *Engine) Rescan(buf *buffer.Buffer) {
	b, ok := e.enabled[buf.Name()]
	if !ok {
		return
	}
	links := entry.ScanLinks(buf.Text())
	b.overlays = make([]*Overlay, len(links))
	for i, l := range links {
		b.overlays[i] = &Overlay{Start: l.Start, End: l.End, Label: l.Label, State: Rendered}
	}
}

// Overlays returns a snapshot of the overlays for buf, in buffer order.
func (e *Engine) Overlays(buf *buffer.Buffer) []Overlay {
	b, ok := e.enabled[buf.Name()]
	if !ok {
		return nil
	}
	out := make([]Overlay, len(b.overlays))
	for i, o := range b.overlays {
		out[i] = *o
	}
	return out
}

// CursorEnter reveals the raw link syntax of every overlay whose range
// contains pos, so the user can edit it in place.
func (e *Engine) CursorEnter(buf *buffer.Buffer, pos int) {
	b, ok := e.enabled[buf.Name()]
	if !ok {
		return
	}
	for _, o := range b.overlays {
		if o.contains(pos) {
			o.State = Raw
		}
	}
}

// CursorExit re-renders every overlay that contained oldPos. The label is
// re-derived by matching the link pattern at the overlay's start; if the
// user edited the text out of link shape, the overlay stays un-rendered
// rather than showing a stale label.
func (e *Engine) CursorExit(buf *buffer.Buffer, oldPos int) {
	b, ok := e.enabled[buf.Name()]
	if !ok {
		return
	}
	for _, o := range b.overlays {
		if !o.contains(oldPos) {
			continue
		}
		link, ok := entry.MatchLinkAt(buf.Text(), o.Start)
		if !ok {
			e.logger.Debug("overlay left raw",
				"buffer", buf.Name(), "error", errors.NewPatternMismatch(o.Start))
			continue
		}
		o.Label = link.Label
		o.End = link.End
		o.State = Rendered
	}
}

// CursorMoved applies the exit/enter transitions for a cursor move from
// oldPos to newPos.
func (e *Engine) CursorMoved(buf *buffer.Buffer, oldPos, newPos int) {
	e.CursorExit(buf, oldPos)
	e.CursorEnter(buf, newPos)
}

// RenderText returns the display form of buf: rendered overlays are
// replaced by their styled [label], raw overlays show the underlying link
// syntax untouched.
func (e *Engine) RenderText(buf *buffer.Buffer) string {
	text := buf.Text()
	b, ok := e.enabled[buf.Name()]
	if !ok {
		return text
	}

	var sb strings.Builder
	pos := 0
	for _, o := range b.overlays {
		if o.State != Rendered || o.Start < pos || o.End > len(text) {
			continue
		}
		sb.WriteString(text[pos:o.Start])
		sb.WriteString(e.style.Render("[" + o.Label + "]"))
		pos = o.End
	}
	sb.WriteString(text[pos:])
	return sb.String()
}
