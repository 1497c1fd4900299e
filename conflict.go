package dirmerge

import (
	"bytes"
	"fmt"
)

// ConflictReason explains why a path could not be reconciled automatically.
type ConflictReason int8

const (
	// ContentMismatch marks a file present in both trees with differing
	// content.
	ContentMismatch ConflictReason = iota

	// KindMismatch marks a path that is a file in one tree and a directory
	// in the other.
	KindMismatch
)

func (r ConflictReason) String() string {
	switch r {
	case ContentMismatch:
		return "content mismatch"
	case KindMismatch:
		return "kind mismatch"
	default:
		panic(fmt.Sprintf("unsupported reason: %d", r))
	}
}

// Conflict is a path present in both trees that cannot be reconciled
// automatically. Both sides are left untouched for manual resolution.
type Conflict struct {
	// Path is the path, relative to both roots, at which the trees
	// disagree.
	Path string

	// Reason is why the path could not be reconciled.
	Reason ConflictReason
}

func (c Conflict) String() string {
	return fmt.Sprintf("<Reason: %s, Path: %s>", c.Reason, c.Path)
}

// Conflicts lists the conflicts found by a merge run, in the order their
// to-merge entries were visited.
type Conflicts []Conflict

// Paths returns the relative paths of all conflicts, preserving order.
func (c Conflicts) Paths() []string {
	paths := make([]string, len(c))
	for i, conflict := range c {
		paths[i] = conflict.Path
	}

	return paths
}

func (c Conflicts) String() string {
	var buffer bytes.Buffer
	buffer.WriteString("[")
	comma := ""
	for _, v := range c {
		buffer.WriteString(comma)
		buffer.WriteString(v.String())
		comma = ", "
	}
	buffer.WriteString("]")

	return buffer.String()
}
