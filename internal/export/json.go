package export

import (
	"encoding/json"
	"io"

	"github.com/snitch-dev/snitch/internal/entry"
)

// JSONExporter exports entries as an indented JSON array.
type JSONExporter struct{}

// Export writes the entries to w.
func (e *JSONExporter) Export(entries []entry.Entry, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// Extension returns the file extension for this format.
func (e *JSONExporter) Extension() string {
	return "json"
}
