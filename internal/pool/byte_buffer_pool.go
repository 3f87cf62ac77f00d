// Package pool provides pooled byte buffers for the writer's page
// accumulation and page framing, avoiding an allocation per page during
// writes. The readers allocate their page buffers directly.
package pool

import (
	"io"
	"sync"
)

// Default and max buffer sizes are sized around the reference page budget
// (65,536 bytes uncompressed, spec §4.3) rather than arbitrary constants:
// a page buffer rarely needs to hold more than a couple of budgets' worth
// even after an oversize feature forces a dedicated page.
const (
	PageBufferDefaultSize  = 1024 * 64       // 64KiB, the reference page budget
	PageBufferMaxThreshold = 1024 * 1024 * 4 // 4MiB, generous headroom for oversize features
)

// ByteBuffer is a growable byte slice wrapper meant for sync.Pool reuse.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer while retaining its backing array.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of bytes currently buffered.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// MustWrite appends data, growing the buffer as needed.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Write implements io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo implements io.WriterTo.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool pools ByteBuffers, discarding ones that grew past maxThreshold
// so a single oversize page doesn't permanently bloat the pool.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose buffers start at defaultSize.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}
	bb.Reset()
	bbp.pool.Put(bb)
}

var pageBufferPool = NewByteBufferPool(PageBufferDefaultSize, PageBufferMaxThreshold)

// GetPageBuffer retrieves a ByteBuffer from the default page-sized pool.
func GetPageBuffer() *ByteBuffer {
	return pageBufferPool.Get()
}

// PutPageBuffer returns a ByteBuffer to the default page-sized pool.
func PutPageBuffer(bb *ByteBuffer) {
	pageBufferPool.Put(bb)
}
