// Package fstree enumerates and prunes directory trees on a billy filesystem.
//
// A tree is identified by its root directory. Every object below the root is
// addressed by its slash-separated relative path, which is the key used to
// match objects across different trees.
package fstree

import (
	"errors"
)

// ErrNotDirectory is returned when a tree root exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Entry is a single filesystem object discovered under a tree root.
type Entry struct {
	// Path is the slash-separated path of the object relative to the walked
	// root. The root itself is never an Entry, so Path is never empty.
	Path string

	// IsDir reports whether the object is a directory.
	IsDir bool
}
