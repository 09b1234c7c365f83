package buffer

// Marker is a live position in a buffer. It shifts with edits so that a
// region captured before an edit still delimits the same text afterwards.
type Marker struct {
	buf     *Buffer
	off     int
	advance bool    // move past text inserted exactly at the marker
	pair    *Marker // region end this marker must not pass, or nil
	dropped bool
}

// NewMarker creates a marker at off. A marker with advance=true moves past
// text inserted exactly at its position; use it for region starts so the
// region keeps covering its original text. Region ends use advance=false so
// an insertion at the end does not grow the region.
func (b *Buffer) NewMarker(off int, advance bool) *Marker {
	if off < 0 {
		off = 0
	}
	if off > len(b.text) {
		off = len(b.text)
	}
	m := &Marker{buf: b, off: off, advance: advance}
	b.markers = append(b.markers, m)
	return m
}

// NewRegion creates a linked start/end marker pair over [start, end). The
// pair holds the start <= end ordering under every edit sequence: when the
// region collapses and a later insertion at the collapse point would carry
// the start marker past the end marker, the start is pinned back. Prefer
// this over two independent NewMarker calls for region boundaries.
func (b *Buffer) NewRegion(start, end int) (*Marker, *Marker) {
	s := b.NewMarker(start, true)
	e := b.NewMarker(end, false)
	if s.off > e.off {
		s.off = e.off
	}
	s.pair = e
	return s, e
}

// Offset returns the marker's current position. ok is false once the
// marker's buffer has been closed or the marker dropped.
func (m *Marker) Offset() (int, bool) {
	if m.dropped || m.buf == nil || m.buf.closed {
		return 0, false
	}
	return m.off, true
}

// Drop detaches the marker from its buffer.
func (m *Marker) Drop() {
	m.dropped = true
	if m.buf == nil {
		return
	}
	for i, other := range m.buf.markers {
		if other == m {
			m.buf.markers = append(m.buf.markers[:i], m.buf.markers[i+1:]...)
			break
		}
	}
	for _, other := range m.buf.markers {
		if other.pair == m {
			other.pair = nil
		}
	}
	m.buf = nil
}

func (m *Marker) adjustInsert(off, n int) {
	if off < m.off || (off == m.off && m.advance) {
		m.off += n
	}
}

// pinToPair restores start <= end ordering after an edit has adjusted every
// marker. A collapsed region (start == end) whose start marker advanced past
// the stationary end marker is pinned back to it. Must run only after the
// whole adjustment pass, never per marker, so it compares settled offsets.
func (m *Marker) pinToPair() {
	if m.pair != nil && m.off > m.pair.off {
		m.off = m.pair.off
	}
}

func (m *Marker) adjustDelete(start, end int) {
	switch {
	case m.off <= start:
		// before the deletion, untouched
	case m.off <= end:
		// inside the deleted span: clamp to its start
		m.off = start
	default:
		m.off -= end - start
	}
}
