package pool

import (
	"bytes"
	"sync"
)

// maxRetainedCapacity caps the capacity of buffers returned to the pool.
// Bodies that grew past it are dropped instead of pinned in memory.
const maxRetainedCapacity = 8 * 1024 * 1024

var buffers = sync.Pool{
	New: func() any {
		return &bytes.Buffer{}
	},
}

// GetBuffer returns an empty buffer from the pool.
// The caller must return it with PutBuffer when done.
func GetBuffer() *bytes.Buffer {
	return buffers.Get().(*bytes.Buffer)
}

// PutBuffer resets buf and returns it to the pool.
// The buffer must not be used after this call.
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxRetainedCapacity {
		return
	}
	buf.Reset()
	buffers.Put(buf)
}
