package sync

import (
	"sync"
)

var byteSlice = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 16*1024)
		return &b
	},
}

// GetByteSlice returns a *[]byte that is managed by a sync.Pool.
// The initial slice length will be 16384 (16kb).
//
// After use, the *[]byte should be put back into the sync.Pool
// by calling PutByteSlice.
func GetByteSlice() *[]byte {
	buf := byteSlice.Get().(*[]byte)
	return buf
}

// PutByteSlice puts buf back into its sync.Pool.
func PutByteSlice(buf *[]byte) {
	byteSlice.Put(buf)
}
