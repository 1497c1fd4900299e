package dirmerge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"github.com/dirmerge/dirmerge/digest"
	"github.com/dirmerge/dirmerge/fstree"
	"github.com/dirmerge/dirmerge/utils/ioutil"
	"github.com/dirmerge/dirmerge/utils/sync"
)

var (
	// ErrSamePath is returned when the target and to-merge roots resolve to
	// the same directory.
	ErrSamePath = errors.New("target and to-merge are the same path")

	// ErrNestedPath is returned when one of the roots is an ancestor of the
	// other.
	ErrNestedPath = errors.New("target and to-merge are nested paths")
)

// MergeFolders merges the tree rooted at toMergePath into the tree rooted at
// targetPath on the host filesystem. Both paths are resolved to their
// canonical absolute form first. See MergeContext for the merge semantics.
func MergeFolders(targetPath, toMergePath string) (Conflicts, error) {
	target, err := canonical(targetPath)
	if err != nil {
		return nil, err
	}

	toMerge, err := canonical(toMergePath)
	if err != nil {
		return nil, err
	}

	return Merge(target, toMerge, nil)
}

// Merge calls MergeContext with the background context.
func Merge(targetPath, toMergePath string, o *MergeOptions) (Conflicts, error) {
	return MergeContext(context.Background(), targetPath, toMergePath, o)
}

// MergeContext reconciles the tree rooted at toMergePath into the tree rooted
// at targetPath:
//
//   - objects that exist only under toMergePath are moved, wholesale, to the
//     same relative path under targetPath;
//   - files that exist under both roots with identical content are removed
//     from the to-merge tree, the target copy being authoritative;
//   - files that exist under both roots with differing content, and paths
//     that are a file on one side and a directory on the other, are reported
//     as Conflicts and left untouched on both sides;
//   - directories present on both sides merge structurally, entry by entry;
//   - finally, every to-merge directory whose subtree no longer contains any
//     file is removed, the to-merge root included.
//
// Conflicts are reported in the order their to-merge entries were visited.
//
// The merge is not transactional: on error, or when ctx is canceled between
// steps, mutations already performed stand. Neither tree may be modified by
// others while MergeContext runs.
func MergeContext(ctx context.Context, targetPath, toMergePath string, o *MergeOptions) (Conflicts, error) {
	if o == nil {
		o = &MergeOptions{}
	}

	if err := o.Validate(); err != nil {
		return nil, err
	}

	target := filepath.Clean(targetPath)
	toMerge := filepath.Clean(toMergePath)
	if err := validateRoots(target, toMerge); err != nil {
		return nil, err
	}

	log := o.Logger
	if o.DryRun {
		log = log.With(zap.Bool("dry_run", true))
	}

	m := &merger{
		fs:      o.Filesystem,
		log:     log,
		dryRun:  o.DryRun,
		target:  target,
		toMerge: toMerge,
	}

	return m.run(ctx)
}

// canonical resolves path to an absolute path with symlinks evaluated, so
// that the same-path and nested-path checks cannot be defeated by two
// spellings of the same directory.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(abs)
}

// validateRoots rejects root pairs no merge can operate on.
func validateRoots(target, toMerge string) error {
	if target == toMerge {
		return fmt.Errorf("%w: %q", ErrSamePath, target)
	}

	if isWithin(target, toMerge) || isWithin(toMerge, target) {
		return fmt.Errorf("%w: %q and %q", ErrNestedPath, target, toMerge)
	}

	return nil
}

// isWithin reports whether child is located anywhere below parent. The check
// is segment-aware: "/a/bc" is not within "/a/b".
func isWithin(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}

	rel = filepath.ToSlash(rel)
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, "../")
}

// merger carries the state of a single merge run.
type merger struct {
	fs      billy.Filesystem
	log     *zap.Logger
	dryRun  bool
	target  string
	toMerge string

	index     map[string]fstree.Entry
	conflicts Conflicts

	relocated    int
	deduplicated int
}

func (m *merger) run(ctx context.Context) (Conflicts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := m.walkBoth()
	if err != nil {
		return nil, err
	}

	for i := 0; i < len(entries); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e := entries[i]
		counterpart, ok := m.index[e.Path]
		switch {
		case !ok:
			// net-new: the whole subtree moves as one, so its
			// descendants must not be processed on their own
			if e.IsDir {
				i = m.skip(entries, i)
			}

			if err := m.relocate(e); err != nil {
				return nil, err
			}
		case e.IsDir && counterpart.IsDir:
			// both directories: their children merge on later
			// iterations
		case !e.IsDir && !counterpart.IsDir:
			if err := m.deduplicate(e); err != nil {
				return nil, err
			}
		default:
			// a mismatched directory's children can never land under
			// the target-side file
			m.conflict(e, KindMismatch)
			if e.IsDir {
				i = m.skip(entries, i)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !m.dryRun {
		if _, err := fstree.Prune(m.fs, m.toMerge); err != nil {
			return nil, fmt.Errorf("pruning to-merge tree: %w", err)
		}
	}

	m.log.Info("merge complete",
		zap.Int("relocated", m.relocated),
		zap.Int("deduplicated", m.deduplicated),
		zap.Int("conflicts", len(m.conflicts)),
	)

	return m.conflicts, nil
}

// walkBoth enumerates both trees concurrently, builds the target index and
// returns the to-merge entries in traversal order.
func (m *merger) walkBoth() ([]fstree.Entry, error) {
	type walked struct {
		entries []fstree.Entry
		err     error
	}

	ch := make(chan walked, 1)
	go func() {
		entries, err := fstree.Walk(m.fs, m.toMerge)
		ch <- walked{entries, err}
	}()

	targetEntries, err := fstree.Walk(m.fs, m.target)
	res := <-ch

	if err != nil {
		return nil, fmt.Errorf("walking target tree: %w", err)
	}

	if res.err != nil {
		return nil, fmt.Errorf("walking to-merge tree: %w", res.err)
	}

	m.index = make(map[string]fstree.Entry, len(targetEntries))
	for _, e := range targetEntries {
		m.index[e.Path] = e
	}

	return res.entries, nil
}

// relocate moves a net-new file or whole subtree to the same relative path
// under the target root.
func (m *merger) relocate(e fstree.Entry) error {
	if !m.dryRun {
		if err := m.move(m.toMergeAbs(e.Path), m.targetAbs(e.Path)); err != nil {
			return fmt.Errorf("relocating %q: %w", e.Path, err)
		}
	}

	m.relocated++
	m.log.Debug("relocated", zap.String("path", e.Path), zap.Bool("dir", e.IsDir))
	return nil
}

// deduplicate resolves a path holding a file in both trees: identical content
// makes the to-merge copy redundant, differing content is a conflict.
func (m *merger) deduplicate(e fstree.Entry) error {
	same, err := digest.SameContent(m.fs, m.toMergeAbs(e.Path), m.targetAbs(e.Path))
	if err != nil {
		return err
	}

	if !same {
		m.conflict(e, ContentMismatch)
		return nil
	}

	if !m.dryRun {
		if err := m.fs.Remove(m.toMergeAbs(e.Path)); err != nil {
			return fmt.Errorf("removing duplicate %q: %w", e.Path, err)
		}
	}

	m.deduplicated++
	m.log.Debug("removed duplicate", zap.String("path", e.Path))
	return nil
}

func (m *merger) conflict(e fstree.Entry, reason ConflictReason) {
	m.conflicts = append(m.conflicts, Conflict{Path: e.Path, Reason: reason})
	m.log.Debug("conflict", zap.String("path", e.Path), zap.Stringer("reason", reason))
}

func (m *merger) targetAbs(rel string) string {
	return m.fs.Join(m.target, filepath.FromSlash(rel))
}

func (m *merger) toMergeAbs(rel string) string {
	return m.fs.Join(m.toMerge, filepath.FromSlash(rel))
}

// skip advances past the descendants of entries[i], which are covered by the
// disposition of entries[i] itself.
func (m *merger) skip(entries []fstree.Entry, i int) int {
	last := skipSubtree(entries, i)
	if last > i {
		m.log.Debug("skipped subtree",
			zap.String("path", entries[i].Path), zap.Int("entries", last-i))
	}

	return last
}

// skipSubtree returns the index of the last entry belonging to the subtree
// rooted at entries[i]. Walk guarantees that the descendants of an entry
// follow it contiguously, each with the ancestor's path plus "/" as prefix.
func skipSubtree(entries []fstree.Entry, i int) int {
	prefix := entries[i].Path + "/"
	for i+1 < len(entries) && strings.HasPrefix(entries[i+1].Path, prefix) {
		i++
	}

	return i
}

// move relocates src to dst with a single rename when both sit on the same
// device, falling back to a recursive copy plus delete when the rename fails
// with a cross-device error.
func (m *merger) move(src, dst string) error {
	err := m.fs.Rename(src, dst)
	if err == nil || !isCrossDevice(err) {
		return err
	}

	m.log.Debug("cross-device rename, copying instead",
		zap.String("from", src), zap.String("to", dst))

	if err := m.copyTree(src, dst); err != nil {
		return err
	}

	return util.RemoveAll(m.fs, src)
}

// copyTree copies the file or directory at src to dst, preserving content
// and permission bits.
func (m *merger) copyTree(src, dst string) error {
	fi, err := m.fs.Stat(src)
	if err != nil {
		return err
	}

	if !fi.IsDir() {
		return m.copyFile(src, dst, fi.Mode())
	}

	if err := m.fs.MkdirAll(dst, fi.Mode().Perm()); err != nil {
		return err
	}

	children, err := m.fs.ReadDir(src)
	if err != nil {
		return err
	}

	for _, child := range children {
		from := m.fs.Join(src, child.Name())
		to := m.fs.Join(dst, child.Name())
		if err := m.copyTree(from, to); err != nil {
			return err
		}
	}

	return nil
}

func (m *merger) copyFile(src, dst string, mode os.FileMode) (err error) {
	from, err := m.fs.Open(src)
	if err != nil {
		return err
	}
	defer ioutil.CheckClose(from, &err)

	to, err := m.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	defer ioutil.CheckClose(to, &err)

	buf := sync.GetByteSlice()
	defer sync.PutByteSlice(buf)

	_, err = io.CopyBuffer(to, from, *buf)
	return err
}
