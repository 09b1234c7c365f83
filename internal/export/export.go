// Package export renders tracking-document entries in machine- and
// human-readable formats.
package export

import (
	"fmt"
	"io"

	"github.com/snitch-dev/snitch/internal/entry"
)

// Exporter defines the interface for all export formats.
type Exporter interface {
	Export(entries []entry.Entry, w io.Writer) error
	Extension() string
}

// NewExporter creates an exporter for format.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "html":
		return &HTMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, yaml, md, html)", format)
	}
}
