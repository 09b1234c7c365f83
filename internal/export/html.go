package export

import (
	"bytes"
	"io"

	"github.com/yuin/goldmark"

	"github.com/snitch-dev/snitch/internal/entry"
)

// HTMLExporter exports entries as an HTML fragment by rendering the
// markdown digest through goldmark.
type HTMLExporter struct{}

// Export writes the entries to w.
func (e *HTMLExporter) Export(entries []entry.Entry, w io.Writer) error {
	var md bytes.Buffer
	if err := (&MarkdownExporter{}).Export(entries, &md); err != nil {
		return err
	}

	var html bytes.Buffer
	if err := goldmark.Convert(md.Bytes(), &html); err != nil {
		return err
	}

	_, err := io.Copy(w, &html)
	return err
}

// Extension returns the file extension for this format.
func (e *HTMLExporter) Extension() string {
	return "html"
}
