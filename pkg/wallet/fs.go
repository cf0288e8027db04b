package wallet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const tempFilePattern = ".wallet-*.tmp"

// writeFileAtomic replaces the file at path in one step. On the local disk
// symlinks are followed, so a linked wallet is updated in place.
func writeFileAtomic(fsys afero.Fs, path string, data []byte, perm fs.FileMode) error {
	if _, ok := fsys.(*afero.OsFs); ok {
		target, err := resolveSymlinks(path)
		if err != nil {
			return err
		}
		return replaceFile(target, data, perm)
	}
	return replaceFileFs(fsys, path, data, perm)
}

// resolveSymlinks returns the file a path points at. A path that does not
// exist yet is returned unchanged.
func resolveSymlinks(path string) (string, error) {
	target, err := filepath.EvalSymlinks(path)
	if errors.Is(err, fs.ErrNotExist) {
		if _, lerr := os.Lstat(path); lerr == nil {
			// Dangling link: write where it points
			dest, rerr := os.Readlink(path)
			if rerr != nil {
				return "", rerr
			}
			if !filepath.IsAbs(dest) {
				dest = filepath.Join(filepath.Dir(path), dest)
			}
			return dest, nil
		}
		return path, nil
	}
	return target, err
}

// replaceFileFs writes data to a temporary file next to path and renames it
// over the target.
func replaceFileFs(fsys afero.Fs, path string, data []byte, perm fs.FileMode) error {
	tmp, err := afero.TempFile(fsys, filepath.Dir(path), tempFilePattern)
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			fsys.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := fsys.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := fsys.Rename(tmpPath, path); err != nil {
		return err
	}
	committed = true
	return nil
}

// isFile reports whether path exists and is a regular file.
func isFile(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
