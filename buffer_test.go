package textbuf

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferWrites(t *testing.T) {
	b := New()
	defer b.Free()
	b.WriteString("hello")
	b.WriteByte(',')
	b.Write([]byte(" world"))
	b.WritePosIntWidth(17, 4)

	got := b.String()
	want := "hello, world0017"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBufferWriteRune(t *testing.T) {
	b := New()
	defer b.Free()
	for _, r := range "añ€😀" {
		b.WriteRune(r)
	}
	assert.Equal(t, "añ€😀", b.String())
	assert.Equal(t, len("añ€😀"), b.Len())
}

func TestNewCapacity(t *testing.T) {
	p := NewBucketPool()
	for _, test := range []struct {
		name string
		opts []Option
		want int
	}{
		{name: "default", want: MinimumCapacity},
		{name: "below minimum", opts: []Option{WithCapacity(10)}, want: MinimumCapacity},
		{name: "negative", opts: []Option{WithCapacity(-5)}, want: MinimumCapacity},
		{name: "rounded to size class", opts: []Option{WithCapacity(3000)}, want: 4096},
	} {
		t.Run(test.name, func(t *testing.T) {
			b := New(append(test.opts, WithPool(p))...)
			defer b.Free()
			assert.Equal(t, test.want, b.Cap())
			assert.Equal(t, 0, b.Len())
		})
	}
	assert.Zero(t, p.Stats().Outstanding())
}

func TestBufferGrowth(t *testing.T) {
	p := NewBucketPool()
	b := New(WithPool(p))
	defer b.Free()

	var want strings.Builder
	chunk := strings.Repeat("abcdefg", 31)
	for i := 0; i < 200; i++ {
		b.WriteString(chunk)
		want.WriteString(chunk)
		require.LessOrEqual(t, b.Len(), b.Cap())
		require.GreaterOrEqual(t, b.Cap(), MinimumCapacity)
		require.LessOrEqual(t, b.Cap(), MaximumCapacity)
	}
	assert.Equal(t, want.String(), b.String())
	// Old blocks went back as the buffer grew; only the live one is out.
	assert.Equal(t, int64(1), p.Stats().Outstanding())
}

func TestGrowDoublesCapacity(t *testing.T) {
	b := New(WithPool(NewBucketPool()))
	defer b.Free()
	b.WriteString(strings.Repeat("x", MinimumCapacity))
	b.WriteByte('y')
	assert.Equal(t, 2*MinimumCapacity, b.Cap())
	assert.Equal(t, MinimumCapacity+1, b.Len())
}

func TestGrowReservesSpace(t *testing.T) {
	b := New(WithPool(NewBucketPool()))
	defer b.Free()
	b.WriteString("abc")
	b.Grow(5000)
	assert.GreaterOrEqual(t, len(b.Available()), 5000)
	assert.Equal(t, "abc", b.String())
	assert.Panics(t, func() { b.Grow(-1) })
}

func TestAllocate(t *testing.T) {
	b := New(WithPool(NewBucketPool()))
	defer b.Free()
	b.WriteString("ab")

	span := b.Allocate(3)
	require.Len(t, span, 3)
	copy(span, "cde")
	assert.Equal(t, "abcde", b.String())

	assert.Empty(t, b.Allocate(0))
	assert.Equal(t, 5, b.Len())

	// The returned span cannot be appended into the rest of the block.
	span = b.Allocate(1)
	span[0] = 'f'
	span = append(span, 'z')
	span[0] = 'g'
	assert.Equal(t, "abcdef", b.String())
	assert.Equal(t, 6, b.Len())
}

func TestAllocateAt(t *testing.T) {
	for _, test := range []struct {
		name  string
		start string
		index int
		fill  string
		want  string
	}{
		{name: "front", start: "world", index: 0, fill: "hello ", want: "hello world"},
		{name: "middle", start: "held", index: 2, fill: "llo wor", want: "hello world"},
		{name: "end", start: "hello", index: 5, fill: " world", want: "hello world"},
		{name: "empty", start: "hello", index: 3, fill: "", want: "hello"},
	} {
		t.Run(test.name, func(t *testing.T) {
			b := New()
			defer b.Free()
			b.WriteString(test.start)
			copy(b.AllocateAt(test.index, len(test.fill)), test.fill)
			assert.Equal(t, test.want, b.String())
		})
	}
}

func TestAllocateAtGrows(t *testing.T) {
	b := New(WithPool(NewBucketPool()))
	defer b.Free()
	tail := strings.Repeat("t", MinimumCapacity-2)
	b.WriteString("h" + tail)
	b.Insert(1, strings.Repeat("m", 100))
	assert.Equal(t, "h"+strings.Repeat("m", 100)+tail, b.String())
}

func TestRemove(t *testing.T) {
	b := New()
	defer b.Free()
	b.WriteString("hello, cruel world")
	b.Remove(5, 7)
	assert.Equal(t, "hello world", b.String())
	b.RemoveAt(0)
	assert.Equal(t, "ello world", b.String())
	b.Remove(b.Len(), 0)
	assert.Equal(t, "ello world", b.String())
	b.Remove(4, b.Len()-4)
	assert.Equal(t, "ello", b.String())
}

func TestBoundsFaults(t *testing.T) {
	b := New()
	defer b.Free()
	b.WriteString("hello")

	for name, fn := range map[string]func(){
		"allocate negative":    func() { b.Allocate(-1) },
		"allocate at negative": func() { b.AllocateAt(-1, 1) },
		"allocate at past end": func() { b.AllocateAt(6, 1) },
		"allocate at count":    func() { b.AllocateAt(0, -1) },
		"remove past end":      func() { b.Remove(3, 3) },
		"remove negative":      func() { b.Remove(-1, 1) },
		"remove count":         func() { b.Remove(0, -1) },
		"remove at end":        func() { b.RemoveAt(5) },
		"negative int":         func() { b.WritePosInt(-1) },
	} {
		assert.Panics(t, fn, name)
	}
	assert.Equal(t, "hello", b.String())
}

func TestCapacityExceeded(t *testing.T) {
	b := New(WithPool(NewBucketPool()))
	defer b.Free()
	b.WriteString("x")
	assert.PanicsWithValue(t, ErrCapacityExceeded, func() {
		b.Allocate(MaximumCapacity)
	})
	assert.Equal(t, "x", b.String())
}

func TestSetLen(t *testing.T) {
	b := New()
	defer b.Free()
	b.WriteString("hello world")
	b.SetLen(5)
	assert.Equal(t, "hello", b.String())
	b.SetLen(-3)
	assert.Equal(t, 0, b.Len())
	b.SetLen(b.Cap() + 10)
	assert.Equal(t, b.Cap(), b.Len())
}

func TestWrittenAliases(t *testing.T) {
	b := New()
	defer b.Free()
	b.WriteString("abc")
	w := b.Written()
	w[0] = 'x'
	assert.Equal(t, "xbc", b.String())
	assert.Equal(t, 3, cap(w))
	assert.Equal(t, w, b.Bytes())
}

func TestWriteTo(t *testing.T) {
	b := New()
	defer b.Free()
	b.WriteString("drained")
	var out bytes.Buffer
	n, err := b.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, "drained", out.String())
	assert.Equal(t, 0, b.Len())
}

func TestWritePosInt(t *testing.T) {
	for _, test := range []struct {
		i, width int
		want     string
	}{
		{0, 0, "0"},
		{7, 0, "7"},
		{7, 3, "007"},
		{12345, 2, "12345"},
		{math.MaxInt32, 0, "2147483647"},
	} {
		b := New()
		b.WritePosIntWidth(test.i, test.width)
		assert.Equal(t, test.want, b.StringAndFree())
	}
}

func TestFree(t *testing.T) {
	p := NewBucketPool()
	b := New(WithPool(p))
	b.WriteString("content")
	assert.Equal(t, "content", b.StringAndFree())
	assert.Zero(t, p.Stats().Outstanding())

	// Freeing twice is harmless, but writing after free is not.
	b.Free()
	assert.Zero(t, p.Stats().Outstanding())
	assert.PanicsWithValue(t, ErrFreed, func() { b.WriteString("again") })
}

func TestReset(t *testing.T) {
	b := New()
	defer b.Free()
	b.WriteString("abc")
	c := b.Cap()
	b.Reset()
	assert.Equal(t, "", b.String())
	assert.Equal(t, c, b.Cap())
}

func BenchmarkWriteString(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf := New()
		for j := 0; j < 64; j++ {
			buf.WriteString("the quick brown fox ")
		}
		buf.Free()
	}
}

func TestReadFrom(t *testing.T) {
	p := NewBucketPool()
	b := New(WithPool(p))
	defer b.Free()
	b.WriteString(">")

	src := strings.Repeat("0123456789", 500)
	n, err := b.ReadFrom(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, int64(len(src)), n)
	assert.Equal(t, ">"+src, b.String())
}

// exhaustedPool rents from BucketPool until fail is set, then panics.
type exhaustedPool struct {
	*BucketPool
	fail bool
}

func (p *exhaustedPool) Rent(minimum int) []byte {
	if p.fail {
		panic("out of memory")
	}
	return p.BucketPool.Rent(minimum)
}

func TestGrowFailureKeepsBuffer(t *testing.T) {
	p := &exhaustedPool{BucketPool: NewBucketPool()}
	b := New(WithPool(p))
	b.WriteString("keep")
	p.fail = true

	assert.PanicsWithValue(t, "out of memory", func() { b.Allocate(4096) })
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, MinimumCapacity, b.Cap())
	assert.Equal(t, "keep", b.String())
	assert.Equal(t, int64(1), p.Stats().Outstanding())

	p.fail = false
	b.WriteString("!")
	assert.Equal(t, "keep!", b.String())
	b.Free()
	assert.Zero(t, p.Stats().Outstanding())
}
