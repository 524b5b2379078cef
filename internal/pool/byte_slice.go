// Package pool holds the scratch buffers used while decoding input.
package pool

import "sync"

const defaultCapacity = 64

// ByteSlicePool hands out zero-length byte slices. It is safe for
// concurrent use.
type ByteSlicePool struct {
	pool sync.Pool
}

var byteSlicePool = &ByteSlicePool{
	pool: sync.Pool{
		New: func() any {
			return make([]byte, 0, defaultCapacity)
		},
	},
}

// ByteSlice returns the shared pool.
func ByteSlice() *ByteSlicePool {
	return byteSlicePool
}

// Get returns an empty slice with at least the default capacity.
func (p *ByteSlicePool) Get() []byte {
	return p.GetCapacity(defaultCapacity)
}

// GetCapacity returns an empty slice with at least n bytes of capacity.
func (p *ByteSlicePool) GetCapacity(n int) []byte {
	b := p.pool.Get().([]byte)
	if cap(b) < n {
		p.pool.Put(b[:0]) //nolint:staticcheck
		return make([]byte, 0, n)
	}
	return b[:0]
}

// Put returns b to the pool.
func (p *ByteSlicePool) Put(b []byte) {
	p.pool.Put(b[:0]) //nolint:staticcheck
}
