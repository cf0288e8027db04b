//go:build windows

package wallet

import (
	"io/fs"

	"github.com/spf13/afero"
)

// renameio does not support Windows.
func replaceFile(path string, data []byte, perm fs.FileMode) error {
	return replaceFileFs(afero.NewOsFs(), path, data, perm)
}
