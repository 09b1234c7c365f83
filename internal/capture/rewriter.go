package capture

import (
	"github.com/snitch-dev/snitch/internal/buffer"
	"github.com/snitch-dev/snitch/internal/errors"
)

// Rewrite replaces the marker-delimited region of buf with the text built
// by render from the region's current literal contents. Marker positions
// are resolved immediately before the splice so that edits made while the
// capture was pending cannot cause unrelated text to be overwritten.
// Returns the literal text that was replaced.
func Rewrite(buf *buffer.Buffer, start, end *buffer.Marker, render func(literal string) string) (string, error) {
	s, ok := start.Offset()
	if !ok {
		return "", staleErr(buf)
	}
	e, ok := end.Offset()
	if !ok {
		return "", staleErr(buf)
	}

	literal, err := buf.Slice(s, e)
	if err != nil {
		return "", err
	}
	if err := buf.Replace(s, e, render(literal)); err != nil {
		return "", err
	}
	return literal, nil
}

func staleErr(buf *buffer.Buffer) error {
	return errors.NewStaleMarker(buf.Name())
}
