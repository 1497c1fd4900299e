package fstree

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
)

// Walk enumerates the tree rooted at root as a flat pre-order sequence: every
// directory entry is emitted before any of its descendants, and a descendant's
// Path always begins with its ancestor's Path followed by "/". Siblings are
// visited in name order. The root itself is excluded from the result.
//
// Walk fails if root does not exist or is not a directory.
func Walk(fs billy.Filesystem, root string) ([]Entry, error) {
	fi, err := fs.Stat(root)
	if err != nil {
		return nil, err
	}

	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %q", ErrNotDirectory, root)
	}

	var entries []Entry
	if err := walk(fs, root, "", &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func walk(fs billy.Filesystem, root, rel string, out *[]Entry) error {
	dir := root
	if rel != "" {
		dir = fs.Join(root, filepath.FromSlash(rel))
	}

	infos, err := fs.ReadDir(dir)
	if err != nil {
		return err
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name() < infos[j].Name()
	})

	for _, fi := range infos {
		childRel := path.Join(rel, fi.Name())
		*out = append(*out, Entry{Path: childRel, IsDir: fi.IsDir()})

		if fi.IsDir() {
			if err := walk(fs, root, childRel, out); err != nil {
				return err
			}
		}
	}

	return nil
}
