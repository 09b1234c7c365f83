package ops

import (
	"github.com/snitch-dev/snitch/internal/config"
	"github.com/snitch-dev/snitch/internal/entry"
)

// EntriesInput contains parameters for the Entries operation. Path is any
// path inside the project; Heading optionally restricts the result to one
// capture destination.
type EntriesInput struct {
	Path    string
	Heading string
}

// EntriesOutput contains the result of the Entries operation.
type EntriesOutput struct {
	ProjectRoot  string        `json:"project_root"`
	TrackingFile string        `json:"tracking_file"`
	Entries      []entry.Entry `json:"entries"`
	Count        int           `json:"count"`
}

// Entries lists the entries recorded in the project's tracking document.
func Entries(cfg *config.Config, in EntriesInput) (*EntriesOutput, error) {
	root, doc, err := openProject(cfg, in.Path)
	if err != nil {
		return nil, err
	}

	all := doc.Entries()
	entries := all
	if in.Heading != "" {
		entries = entries[:0:0]
		for _, e := range all {
			if e.Heading == in.Heading {
				entries = append(entries, e)
			}
		}
	}
	if entries == nil {
		entries = []entry.Entry{}
	}

	return &EntriesOutput{
		ProjectRoot:  root,
		TrackingFile: doc.Path(),
		Entries:      entries,
		Count:        len(entries),
	}, nil
}
