package fs

import (
	"os"
	"path/filepath"

	"github.com/jonpalmisc/limoncello/internal/core/domain"
	"github.com/jonpalmisc/limoncello/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactDir = (*Outputs)(nil)

// Outputs manages the artifact directory.
type Outputs struct{}

// NewOutputs creates a new Outputs.
func NewOutputs() *Outputs {
	return &Outputs{}
}

// Prepare creates the output directory below root if it does not exist.
func (o *Outputs) Prepare(root, dir string) error {
	path := resolve(root, dir)
	if err := os.MkdirAll(path, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputDirFailed.Error()), "path", path)
	}
	return nil
}

// Clean removes the output directory and everything in it. It reports
// whether there was anything to remove.
func (o *Outputs) Clean(root, dir string) (bool, error) {
	path := resolve(root, dir)
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "path", path)
	}

	if err := os.RemoveAll(path); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "path", path)
	}
	return true, nil
}

func resolve(root, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}
