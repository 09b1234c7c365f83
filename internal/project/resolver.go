package project

import (
	"os"
	"path/filepath"

	"github.com/snitch-dev/snitch/internal/errors"
)

// Resolver locates the project root for a source file. The root is the
// nearest ancestor directory carrying a version-control or snitch marker.
type Resolver struct {
	// SubmoduleRoots treats a .git gitlink file (how git records a
	// submodule checkout) as a project root of its own. When false the walk
	// continues upward to the superproject.
	SubmoduleRoots bool
}

// Resolve walks upward from path (a file or directory) and returns the
// project root. Fails with NOT_IN_PROJECT when the walk reaches the
// filesystem root without finding a marker.
func (r Resolver) Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.NewInternal(err)
	}

	dir := abs
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	for {
		if r.isRoot(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.NewNotInProject(path)
		}
		dir = parent
	}
}

// isRoot reports whether dir carries a project marker.
func (r Resolver) isRoot(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, ".snitch")); err == nil {
		return true
	}

	info, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil {
		return false
	}
	if info.IsDir() {
		return true
	}
	// A .git file is a submodule gitlink; it only counts as a root when
	// submodules are configured as independent projects.
	return r.SubmoduleRoots
}
