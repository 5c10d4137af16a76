package engine

import (
	"errors"
	"os"

	"github.com/pankaj-dahiya-devops/flightctl/internal/models"
)

// tempCA is a uniquely named file holding a decoded certificate authority
// bundle. The file is closed once written; Release deletes it.
type tempCA struct {
	path string
}

func newTempCA(dir string, data []byte) (*tempCA, error) {
	f, err := os.CreateTemp(dir, "flightctl-ca-*.crt")
	if err != nil {
		return nil, models.NewResourceError("create", dir, err)
	}
	t := &tempCA{path: f.Name()}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return nil, errors.Join(models.NewResourceError("write", t.path, err), t.Release())
	}
	if err := f.Close(); err != nil {
		return nil, errors.Join(models.NewResourceError("close", t.path, err), t.Release())
	}
	return t, nil
}

// Path returns the filesystem path of the bundle.
func (t *tempCA) Path() string {
	return t.path
}

// Release removes the file. Releasing twice is not an error.
func (t *tempCA) Release() error {
	if err := os.Remove(t.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return models.NewResourceError("remove", t.path, err)
	}
	return nil
}
