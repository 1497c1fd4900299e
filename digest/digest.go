// Package digest computes and compares SHA-256 content digests of files on a
// billy filesystem.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/go-git/go-billy/v5"

	"github.com/dirmerge/dirmerge/utils/ioutil"
	"github.com/dirmerge/dirmerge/utils/sync"
)

// Size is the length of a Digest in bytes.
const Size = sha256.Size

// Digest is the fixed-length fingerprint of a file's byte content. Two files
// with equal digests are considered to hold the same content.
type Digest [Size]byte

// String returns the hexadecimal representation of d.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Equal reports whether two digests match in every byte.
func (d Digest) Equal(other Digest) bool {
	return d == other
}

// File computes the digest of the file at path. The content is streamed
// through the hash, so arbitrarily large files are never held in memory at
// once.
func File(fs billy.Filesystem, path string) (d Digest, err error) {
	f, err := fs.Open(path)
	if err != nil {
		return d, err
	}
	defer ioutil.CheckClose(f, &err)

	h := sha256.New()
	buf := sync.GetByteSlice()
	defer sync.PutByteSlice(buf)

	if _, err = io.CopyBuffer(h, f, *buf); err != nil {
		return d, err
	}

	copy(d[:], h.Sum(nil))
	return d, nil
}

// SameContent reports whether the files at a and b hold identical content, by
// computing and comparing their digests. The two computations run
// concurrently, since they read disjoint files. A read failure on either side
// fails the comparison; it is never reported as a mismatch.
func SameContent(fs billy.Filesystem, a, b string) (bool, error) {
	type result struct {
		d   Digest
		err error
	}

	ch := make(chan result, 1)
	go func() {
		d, err := File(fs, a)
		ch <- result{d, err}
	}()

	db, errB := File(fs, b)
	ra := <-ch

	if ra.err != nil {
		return false, ra.err
	}

	if errB != nil {
		return false, errB
	}

	return ra.d.Equal(db), nil
}
