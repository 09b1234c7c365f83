package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/snitch-dev/snitch/internal/entry"
)

// MarkdownExporter exports entries as a standalone markdown digest, grouped
// by destination heading.
type MarkdownExporter struct{}

// Export writes the entries to w.
func (e *MarkdownExporter) Export(entries []entry.Entry, w io.Writer) error {
	var sb strings.Builder
	heading := ""
	for _, en := range entries {
		if en.Heading != heading {
			heading = en.Heading
			fmt.Fprintf(&sb, "# %s\n\n", heading)
		}
		fmt.Fprintf(&sb, "## #%d %s\n\n", en.Seq, en.Title)
		if en.ID != "" {
			fmt.Fprintf(&sb, "- id: `%s`\n", en.ID)
		}
		if en.Body != "" {
			fmt.Fprintf(&sb, "\n%s\n", en.Body)
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// Extension returns the file extension for this format.
func (e *MarkdownExporter) Extension() string {
	return "md"
}
