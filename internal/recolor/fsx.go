package recolor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// PathError names the operation and path that failed.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// IsNotExist reports whether err is a missing file or directory.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// writeFileAtomic writes data to dir/name through a temp file in the same dir.
// dir must already exist.
func writeFileAtomic(fs afero.Fs, dir, name string, data []byte) error {
	dst := filepath.Join(dir, name)

	tmp, err := afero.TempFile(fs, dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = fs.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := fs.Chmod(tmpName, 0o644); err != nil {
		return err
	}

	return fs.Rename(tmpName, dst)
}

func ensureDir(fs afero.Fs, dir string, create bool) error {
	fi, err := fs.Stat(dir)
	switch {
	case err == nil && fi.IsDir():
		return nil
	case err == nil:
		return &PathError{Op: "open dst", Path: dir, Err: fmt.Errorf("not a directory")}
	case IsNotExist(err) && create:
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return &PathError{Op: "mkdir", Path: dir, Err: err}
		}
		return nil
	default:
		return &PathError{Op: "open dst", Path: dir, Err: err}
	}
}
