//go:build windows

package ops

import (
	"os"

	"github.com/snitch-dev/snitch/internal/errors"
)

// openFileNoFollow opens a file for writing, rejecting symlinks on the final
// path component. Windows has no O_NOFOLLOW, so we Lstat first; the small
// TOCTOU window is accepted on this platform.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	if fi, err := os.Lstat(path); err == nil && fi.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInvalidRequest("cannot write to symlink")
	}
	return os.OpenFile(path, flag, perm)
}
