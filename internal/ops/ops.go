// Package ops implements the operations shared by the CLI and MCP
// surfaces. Each operation takes an Input struct, runs the pipeline against
// the project's tracking document, and returns an Output struct both
// surfaces can serialize.
package ops

import (
	"path/filepath"

	"github.com/snitch-dev/snitch/internal/config"
	"github.com/snitch-dev/snitch/internal/errors"
	"github.com/snitch-dev/snitch/internal/project"
	"github.com/snitch-dev/snitch/internal/track"
)

// trackingPath returns the tracking document path for a project root.
func trackingPath(root string, cfg *config.Config) string {
	return filepath.Join(root, cfg.TrackingFile)
}

// openProject resolves the project containing path and opens its tracking
// document.
func openProject(cfg *config.Config, path string) (string, *track.Document, error) {
	if path == "" {
		return "", nil, errors.NewInvalidRequest("path is required")
	}
	resolver := project.Resolver{SubmoduleRoots: cfg.SubmoduleRoots}
	root, err := resolver.Resolve(path)
	if err != nil {
		return "", nil, err
	}
	doc, err := track.Open(trackingPath(root, cfg))
	if err != nil {
		return "", nil, errors.NewInternal(err)
	}
	return root, doc, nil
}
