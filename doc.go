// Package dirmerge reconciles two directory trees into one.
//
// A merge moves every object that exists only under the to-merge root to the
// same relative path under the target root, discards to-merge files whose
// target counterpart already holds identical content, and reports every path
// the two trees genuinely disagree on as a Conflict, leaving those files in
// place for manual resolution. Afterwards the to-merge tree is stripped of
// directories that no longer contain files anywhere below them; when no
// conflict is left, the to-merge root itself disappears.
//
// All filesystem access goes through billy.Filesystem, so the trees can live
// on the host filesystem or in memory.
package dirmerge
