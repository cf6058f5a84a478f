package textbuf

import (
	"fmt"
	"io"
	"unicode/utf8"
)

const (
	// MinimumCapacity is the smallest block a Buffer ever holds.
	MinimumCapacity = 1024
	// MaximumCapacity is the largest block a Buffer may grow to.
	MaximumCapacity = 0x3FFFFFDF
)

// Buffer is a growable byte buffer whose backing block is rented from a
// Pool. A Buffer has a single owner and is not safe for concurrent use.
// Call Free (or StringAndFree) exactly once when done; the Buffer must not
// be used afterwards.
type Buffer struct {
	storage []byte
	length  int
	pool    Pool
}

// Option configures a Buffer created by New.
type Option func(*options)

type options struct {
	pool     Pool
	capacity int
}

// WithPool makes the Buffer rent its blocks from p instead of DefaultPool.
func WithPool(p Pool) Option {
	return func(o *options) {
		if p != nil {
			o.pool = p
		}
	}
}

// WithCapacity sets the initial capacity. Values are clamped to
// [MinimumCapacity, MaximumCapacity].
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// New returns an empty Buffer holding a block of at least MinimumCapacity bytes.
func New(opts ...Option) *Buffer {
	o := options{pool: DefaultPool, capacity: MinimumCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	b := &Buffer{pool: o.pool}
	b.storage = b.rent(clampCapacity(o.capacity))
	return b
}

func clampCapacity(n int) int {
	return min(max(n, MinimumCapacity), MaximumCapacity)
}

func (b *Buffer) rent(n int) []byte {
	block := b.pool.Rent(n)
	if len(block) > MaximumCapacity {
		block = block[:MaximumCapacity]
	}
	return block
}

// ensure makes room for n more bytes after the written region.
func (b *Buffer) ensure(n int) {
	if n > len(b.storage)-b.length {
		if n > MaximumCapacity-b.length {
			panic(ErrCapacityExceeded)
		}
		b.grow(b.length + n)
	}
}

// grow replaces the block with one that holds at least needed bytes. The
// new block is rented and filled before the old one is returned, so a
// failed rent leaves the Buffer intact.
func (b *Buffer) grow(needed int) {
	if b.pool == nil {
		panic(ErrFreed)
	}
	if needed > MaximumCapacity {
		panic(ErrCapacityExceeded)
	}
	block := b.rent(clampCapacity(max(needed, len(b.storage)*2)))
	copy(block, b.storage[:b.length])
	old := b.storage
	b.storage = block
	if old != nil {
		b.pool.Return(old)
	}
}

func panicRange(op string, index, n, length int) {
	panic(fmt.Sprintf("textbuf: %s index out of range [%d:%d] with length %d", op, index, index+n, length))
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int {
	return b.length
}

// SetLen sets the written length, clamped to [0, Cap()]. Shrinking does not
// erase anything; the dropped bytes just become unreachable.
func (b *Buffer) SetLen(n int) {
	b.length = min(max(n, 0), len(b.storage))
}

// Cap returns the size of the backing block.
func (b *Buffer) Cap() int {
	return len(b.storage)
}

// Written returns the written region. It aliases the buffer and is only
// valid until the next mutation.
func (b *Buffer) Written() []byte {
	return b.storage[:b.length:b.length]
}

// Bytes is an alias for Written.
func (b *Buffer) Bytes() []byte {
	return b.Written()
}

// Available returns the scratch region after the written bytes. Its
// content is undefined until written.
func (b *Buffer) Available() []byte {
	return b.storage[b.length:]
}

// Grow makes sure at least n bytes are available without another grow.
func (b *Buffer) Grow(n int) {
	if n < 0 {
		panic("textbuf: negative count")
	}
	b.ensure(n)
}

// Allocate extends the written region by n bytes and returns them for the
// caller to fill.
func (b *Buffer) Allocate(n int) []byte {
	if n < 0 {
		panic("textbuf: negative count")
	}
	if n == 0 {
		return b.storage[b.length:b.length:b.length]
	}
	b.ensure(n)
	s := b.storage[b.length : b.length+n : b.length+n]
	b.length += n
	return s
}

// AllocateAt opens an n byte hole at index, shifting [index, Len()) right,
// and returns the hole for the caller to fill.
func (b *Buffer) AllocateAt(index, n int) []byte {
	if index < 0 || index > b.length {
		panicRange("allocate", index, n, b.length)
	}
	if n < 0 {
		panic("textbuf: negative count")
	}
	if n == 0 {
		return b.storage[index:index:index]
	}
	b.ensure(n)
	copy(b.storage[index+n:], b.storage[index:b.length])
	b.length += n
	return b.storage[index : index+n : index+n]
}

// Insert writes s at index.
func (b *Buffer) Insert(index int, s string) {
	copy(b.AllocateAt(index, len(s)), s)
}

// Remove deletes n bytes starting at index.
func (b *Buffer) Remove(index, n int) {
	if index < 0 || n < 0 || index > b.length || n > b.length-index {
		panicRange("remove", index, n, b.length)
	}
	copy(b.storage[index:], b.storage[index+n:b.length])
	b.length -= n
}

// RemoveAt deletes the byte at index.
func (b *Buffer) RemoveAt(index int) {
	b.Remove(index, 1)
}

func (b *Buffer) Write(p []byte) (int, error) {
	copy(b.Allocate(len(p)), p)
	return len(p), nil
}

func (b *Buffer) WriteString(s string) (int, error) {
	copy(b.Allocate(len(s)), s)
	return len(s), nil
}

func (b *Buffer) WriteByte(c byte) error {
	b.ensure(1)
	b.storage[b.length] = c
	b.length++
	return nil
}

func (b *Buffer) WriteRune(r rune) (int, error) {
	if uint32(r) < utf8.RuneSelf {
		b.WriteByte(byte(r))
		return 1, nil
	}
	b.ensure(utf8.UTFMax)
	n := utf8.EncodeRune(b.storage[b.length:], r)
	b.length += n
	return n, nil
}

// WriteTo writes the written region to w and empties the buffer.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.storage[:b.length])
	b.length = 0
	return int64(n), err
}

// ReadFrom appends everything r yields until io.EOF.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for {
		if b.length == len(b.storage) {
			b.ensure(1)
		}
		n, err := r.Read(b.storage[b.length:])
		if n < 0 || n > len(b.storage)-b.length {
			panicRange("read", b.length, n, len(b.storage))
		}
		b.length += n
		total += int64(n)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

func (b *Buffer) WritePosInt(i int) {
	b.WritePosIntWidth(i, 0)
}

// WritePosIntWidth writes non-negative integer i to the buffer, padded on the left
// by zeroes to the given width. Use a width of 0 to omit padding.
func (b *Buffer) WritePosIntWidth(i, width int) {
	if i < 0 {
		panic("negative int")
	}
	b.ensure(max(width, 20))
	n := putDecimal(b.storage[b.length:], uint64(i), width)
	b.length += n
}

// Reset empties the buffer but keeps its block.
func (b *Buffer) Reset() {
	b.length = 0
}

func (b *Buffer) String() string {
	return string(b.storage[:b.length])
}

// StringAndFree returns the content and frees the buffer.
func (b *Buffer) StringAndFree() string {
	defer b.Free()
	return b.String()
}

// Free returns the block to the pool. Calling Free twice is a no-op.
func (b *Buffer) Free() {
	if b.storage != nil && b.pool != nil {
		b.pool.Return(b.storage)
	}
	b.storage = nil
	b.length = 0
	b.pool = nil
}

// adopt takes over other's block and content, returning the displaced
// block to the pool. other is left freed.
func (b *Buffer) adopt(other *Buffer) {
	old := b.storage
	b.storage, b.length = other.storage, other.length
	other.storage, other.length, other.pool = nil, 0, nil
	if old != nil {
		b.pool.Return(old)
	}
}
