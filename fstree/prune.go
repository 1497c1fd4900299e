package fstree

import (
	"github.com/go-git/go-billy/v5"
)

// Prune removes dir if its subtree contains no files, working bottom-up so
// that a directory holding nothing but other empty directories is removed
// along with them. It reports whether dir itself was removed. dir must name
// an existing directory.
//
// The first filesystem error aborts the prune and is returned; directories
// already removed by then stay removed.
func Prune(fs billy.Filesystem, dir string) (bool, error) {
	infos, err := fs.ReadDir(dir)
	if err != nil {
		return false, err
	}

	empty := true
	for _, fi := range infos {
		if !fi.IsDir() {
			empty = false
			continue
		}

		removed, err := Prune(fs, fs.Join(dir, fi.Name()))
		if err != nil {
			return false, err
		}

		if !removed {
			empty = false
		}
	}

	if !empty {
		return false, nil
	}

	if err := fs.Remove(dir); err != nil {
		return false, err
	}

	return true, nil
}
