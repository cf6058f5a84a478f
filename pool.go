package textbuf

import (
	"math/bits"
	"sync"
	"sync/atomic"
)

// Pool hands out backing blocks for Buffers. Implementations must be safe
// for concurrent use; each block is owned by exactly one Buffer between
// Rent and Return.
type Pool interface {
	// Rent returns a block with len >= minimum.
	Rent(minimum int) []byte
	// Return gives a block back. The caller must not touch it afterwards.
	Return(block []byte)
}

const (
	minBucketShift = 10 // 1 KiB
	maxBucketShift = 24 // 16 MiB
	bucketCount    = maxBucketShift - minBucketShift + 1
)

// PoolStats is a snapshot of BucketPool counters.
type PoolStats struct {
	Rented   int64
	Returned int64
	// Misses counts rents that had to allocate a fresh block.
	Misses int64
}

// Outstanding is the number of blocks rented and not yet returned.
func (s PoolStats) Outstanding() int64 {
	return s.Rented - s.Returned
}

// BucketPool is a Pool with one sync.Pool per power-of-two size class.
// Requests above 16 MiB are allocated directly and dropped on Return to
// keep peak memory down.
type BucketPool struct {
	buckets [bucketCount]sync.Pool

	rented   atomic.Int64
	returned atomic.Int64
	misses   atomic.Int64
}

// DefaultPool backs every Buffer created without WithPool.
var DefaultPool = NewBucketPool()

// NewBucketPool returns an empty BucketPool.
func NewBucketPool() *BucketPool {
	return &BucketPool{}
}

// bucketFor returns the size class index for n, or -1 if n is too large to pool.
func bucketFor(n int) int {
	if n <= 1<<minBucketShift {
		return 0
	}
	shift := bits.Len(uint(n - 1))
	if shift > maxBucketShift {
		return -1
	}
	return shift - minBucketShift
}

func (p *BucketPool) Rent(minimum int) []byte {
	p.rented.Add(1)
	idx := bucketFor(minimum)
	if idx < 0 {
		p.misses.Add(1)
		return make([]byte, minimum)
	}
	if v := p.buckets[idx].Get(); v != nil {
		return *(v.(*[]byte))
	}
	p.misses.Add(1)
	return make([]byte, 1<<(idx+minBucketShift))
}

func (p *BucketPool) Return(block []byte) {
	if block == nil {
		return
	}
	p.returned.Add(1)
	size := cap(block)
	// Only exact size classes go back; anything else would break the
	// len >= minimum promise of Rent for its bucket.
	if size&(size-1) != 0 {
		return
	}
	idx := bucketFor(size)
	if idx < 0 || 1<<(idx+minBucketShift) != size {
		return
	}
	block = block[:size]
	p.buckets[idx].Put(&block)
}

// Stats returns the current counters.
func (p *BucketPool) Stats() PoolStats {
	return PoolStats{
		Rented:   p.rented.Load(),
		Returned: p.returned.Load(),
		Misses:   p.misses.Load(),
	}
}
