package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/snitch-dev/snitch/internal/entry"
)

// YAMLExporter exports entries in YAML format.
type YAMLExporter struct{}

// Export writes the entries to w.
func (e *YAMLExporter) Export(entries []entry.Entry, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(entries)
}

// Extension returns the file extension for this format.
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
