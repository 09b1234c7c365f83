package ops

import (
	"os"
	"path/filepath"

	"github.com/snitch-dev/snitch/internal/config"
	"github.com/snitch-dev/snitch/internal/errors"
	"github.com/snitch-dev/snitch/internal/export"
)

// ExportInput contains parameters for the Export operation. Out may be
// empty, in which case the output path is derived from the tracking file and
// the format's extension.
type ExportInput struct {
	Path    string
	Heading string
	Format  string
	Out     string
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	ProjectRoot string `json:"project_root"`
	OutputFile  string `json:"output_file"`
	Format      string `json:"format"`
	Count       int    `json:"count"`
}

// Export writes the project's entries to a file in the requested format.
func Export(cfg *config.Config, in ExportInput) (*ExportOutput, error) {
	exporter, err := export.NewExporter(in.Format)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	listing, err := Entries(cfg, EntriesInput{Path: in.Path, Heading: in.Heading})
	if err != nil {
		return nil, err
	}

	ext := "." + exporter.Extension()
	out := in.Out
	if out == "" {
		base := listing.TrackingFile
		out = base[:len(base)-len(filepath.Ext(base))] + ext
	}
	if filepath.Ext(out) != ext {
		return nil, errors.NewInvalidRequest("output path must have " + ext + " extension")
	}
	if out == listing.TrackingFile {
		return nil, errors.NewInvalidRequest("output path would overwrite the tracking file; pass an explicit output path")
	}

	f, err := openFileNoFollow(out, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		if _, ok := err.(*errors.SnitchError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(err)
	}
	defer f.Close()

	if err := exporter.Export(listing.Entries, f); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := f.Close(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return &ExportOutput{
		ProjectRoot: listing.ProjectRoot,
		OutputFile:  out,
		Format:      in.Format,
		Count:       listing.Count,
	}, nil
}
