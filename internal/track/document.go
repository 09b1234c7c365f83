// Package track implements the per-project tracking document: a markdown
// file whose level-1 headings are capture destinations and whose level-2
// headings are entries. An entry carries a contiguous block of
// ":key: value" property lines directly under its heading, followed by the
// free-text body.
package track

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/snitch-dev/snitch/internal/entry"
	snitcherr "github.com/snitch-dev/snitch/internal/errors"
)

// propPattern matches one property line, e.g. ":seq: 3".
var propPattern = regexp.MustCompile(`^:([A-Za-z][A-Za-z0-9_-]*):[ \t]*(.*)$`)

// Handle addresses one entry in a document by destination heading and entry
// title. Handles stay valid across document edits; offsets are re-resolved
// on every operation.
type Handle struct {
	Heading string
	Title   string
}

// Document is an in-memory tracking document bound to a file path.
type Document struct {
	path string
	text string
}

// Open reads the tracking document at path. A missing file yields an empty
// document that Save will create.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Document{path: path}, nil
		}
		return nil, fmt.Errorf("open tracking document: %w", err)
	}
	return &Document{path: path, text: string(data)}, nil
}

// Parse wraps raw text in a Document without a backing file. Used by tests
// and by callers that manage persistence themselves.
func Parse(text string) *Document {
	return &Document{text: text}
}

// Path returns the backing file path, empty for parsed documents.
func (d *Document) Path() string { return d.path }

// Text returns the current document text.
func (d *Document) Text() string { return d.text }

// Save writes the document back to its path.
func (d *Document) Save() error {
	if d.path == "" {
		return snitcherr.NewInvalidRequest("document has no backing file")
	}
	if err := os.WriteFile(d.path, []byte(d.text), 0644); err != nil {
		return snitcherr.NewInternal(err)
	}
	return nil
}

// FindOrCreateHeading ensures a level-1 destination heading exists and an
// entry titled title exists under it, creating either as needed. Returns a
// handle addressing the entry.
func (d *Document) FindOrCreateHeading(heading, title string) Handle {
	h := Handle{Heading: heading, Title: title}
	if _, ok := d.resolve(h); ok {
		return h
	}

	_, regionEnd, ok := d.destination(heading)
	if !ok {
		if d.text != "" && !strings.HasSuffix(d.text, "\n") {
			d.text += "\n"
		}
		if d.text != "" {
			d.text += "\n"
		}
		d.text += "# " + heading + "\n"
		_, regionEnd, _ = d.destination(heading)
	}

	// File the new entry at the end of the destination region, after any
	// entries already under it. The heading must start its own line.
	at := regionEnd
	block := "## " + title + "\n"
	if at > 0 && d.text[at-1] != '\n' {
		block = "\n" + block
	}
	d.text = d.text[:at] + block + d.text[at:]
	return h
}

// GetProperty returns the value of key in the entry's property block.
func (d *Document) GetProperty(h Handle, key string) (string, bool) {
	sec, ok := d.resolve(h)
	if !ok {
		return "", false
	}
	for _, p := range d.propLines(sec) {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

// SetProperty sets key to value in the entry's property block, replacing an
// existing line for key or appending one to the block.
func (d *Document) SetProperty(h Handle, key, value string) error {
	sec, ok := d.resolve(h)
	if !ok {
		return snitcherr.NewNotFound(h.Heading + " / " + h.Title)
	}

	line := ":" + key + ": " + value + "\n"
	props := d.propLines(sec)
	for _, p := range props {
		if p.key == key {
			d.text = d.text[:p.start] + line + d.text[p.end:]
			return nil
		}
	}

	at := sec.ContentStart
	if len(props) > 0 {
		at = props[len(props)-1].end
	}
	d.text = d.text[:at] + line + d.text[at:]
	return nil
}

// SetBody replaces the entry's body (everything after the property block).
func (d *Document) SetBody(h Handle, body string) error {
	sec, ok := d.resolve(h)
	if !ok {
		return snitcherr.NewNotFound(h.Heading + " / " + h.Title)
	}

	start := sec.ContentStart
	if props := d.propLines(sec); len(props) > 0 {
		start = props[len(props)-1].end
	}

	replacement := "\n"
	if body = strings.TrimSpace(body); body != "" {
		replacement = "\n" + body + "\n\n"
	}
	d.text = d.text[:start] + replacement + d.text[sec.ContentEnd:]
	return nil
}

// Entries returns every level-2 entry in the document, in order, with
// decoded id/seq properties. A missing or non-numeric seq decodes to 0.
func (d *Document) Entries() []entry.Entry {
	var out []entry.Entry
	heading := ""
	for _, sec := range ParseSections(d.text) {
		switch sec.Level {
		case 1:
			heading = sec.Title
		case 2:
			e := entry.Entry{Title: sec.Title, Heading: heading}
			props := d.propLines(sec)
			bodyStart := sec.ContentStart
			for _, p := range props {
				switch p.key {
				case entry.PropID:
					e.ID = p.value
				case entry.PropSeq:
					if n, err := strconv.Atoi(strings.TrimSpace(p.value)); err == nil {
						e.Seq = n
					}
				}
				bodyStart = p.end
			}
			e.Body = strings.TrimSpace(d.text[bodyStart:sec.ContentEnd])
			out = append(out, e)
		}
	}
	return out
}

// NextSequenceNumber returns 1 + max over all entries carrying a numeric
// seq property, or 1 when there are none. Entries with a missing or
// non-numeric seq are ignored rather than failing the scan.
func (d *Document) NextSequenceNumber() int {
	max := 0
	for _, sec := range ParseSections(d.text) {
		if sec.Level != 2 {
			continue
		}
		for _, p := range d.propLines(sec) {
			if p.key != entry.PropSeq {
				continue
			}
			if n, err := strconv.Atoi(strings.TrimSpace(p.value)); err == nil && n > max {
				max = n
			}
		}
	}
	return max + 1
}

// destination finds the level-1 section named heading. regionEnd is the
// byte offset where the destination's region ends: the next level-1 heading
// or EOF, so it spans the entries filed under the destination.
func (d *Document) destination(heading string) (sec Section, regionEnd int, ok bool) {
	sections := ParseSections(d.text)
	for i, s := range sections {
		if s.Level != 1 || s.Title != heading {
			continue
		}
		regionEnd = len(d.text)
		for _, later := range sections[i+1:] {
			if later.Level == 1 {
				regionEnd = later.HeaderStart
				break
			}
		}
		return s, regionEnd, true
	}
	return Section{}, 0, false
}

// resolve finds the level-2 entry addressed by h.
func (d *Document) resolve(h Handle) (Section, bool) {
	heading := ""
	for _, sec := range ParseSections(d.text) {
		switch sec.Level {
		case 1:
			heading = sec.Title
		case 2:
			if heading == h.Heading && sec.Title == h.Title {
				return sec, true
			}
		}
	}
	return Section{}, false
}

type propLine struct {
	key   string
	value string
	start int // byte offset of the line
	end   int // byte offset past the trailing newline
}

// propLines scans the contiguous property block at the top of an entry
// section. The block ends at the first line that is not a property.
func (d *Document) propLines(sec Section) []propLine {
	var props []propLine
	pos := sec.ContentStart
	for pos < sec.ContentEnd {
		lineEnd := strings.IndexByte(d.text[pos:sec.ContentEnd], '\n')
		var next int
		var line string
		if lineEnd < 0 {
			line = d.text[pos:sec.ContentEnd]
			next = sec.ContentEnd
		} else {
			line = d.text[pos : pos+lineEnd]
			next = pos + lineEnd + 1
		}

		m := propPattern.FindStringSubmatch(line)
		if m == nil {
			break
		}
		props = append(props, propLine{key: m[1], value: m[2], start: pos, end: next})
		pos = next
	}
	return props
}
