package ops

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/snitch-dev/snitch/internal/buffer"
	"github.com/snitch-dev/snitch/internal/errors"
	"github.com/snitch-dev/snitch/internal/overlay"
)

// RenderInput contains parameters for the Render operation. Cursor is a
// byte offset; when >= 0 the overlay under it is shown raw, matching what an
// editor displays while the cursor sits on a link.
type RenderInput struct {
	File   string
	Color  bool
	Cursor int
}

// RenderOutput contains the result of the Render operation.
type RenderOutput struct {
	File  string `json:"file"`
	Text  string `json:"text"`
	Links int    `json:"links"`
}

// Render returns the file's text with recognized links collapsed to their
// labels, the way the overlay engine presents them in a buffer.
func Render(in RenderInput) (*RenderOutput, error) {
	if in.File == "" {
		return nil, errors.NewInvalidRequest("file is required")
	}
	buf, err := buffer.Open(in.File)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	opts := []overlay.Option{}
	if !in.Color {
		opts = append(opts, overlay.WithStyle(lipgloss.NewStyle()))
	}
	engine := overlay.NewEngine(opts...)
	engine.Enable(buf)
	if in.Cursor >= 0 {
		engine.CursorEnter(buf, in.Cursor)
	}

	return &RenderOutput{
		File:  in.File,
		Text:  engine.RenderText(buf),
		Links: len(engine.Overlays(buf)),
	}, nil
}
