package handler

import (
	"bytes"
	"sync"
)

const (
	// Most game snapshots encode to well under 1KB
	pooledBufferSize = 1024
	// Buffers grown past this by a large rules response are left to the GC
	maxPooledBufferSize = 64 << 10
)

var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, pooledBufferSize))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBufferSize {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
