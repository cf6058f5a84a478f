package textbuf

import (
	"iter"
	"unicode"
	"unicode/utf8"
	"unsafe"
)

// SplitOptions controls how Split treats each entry.
type SplitOptions uint8

const (
	// RemoveEmptyEntries drops entries that are empty (after trimming).
	RemoveEmptyEntries SplitOptions = 1 << iota
	// TrimEntries trims leading and trailing white space from each entry.
	TrimEntries

	SplitNone SplitOptions = 0
)

// Range is a half-open byte range [Start, End) into the split source.
type Range struct {
	Start, End int
}

func (r Range) Len() int {
	return r.End - r.Start
}

// SplitEnumerable describes a split. It is a value and can be enumerated
// any number of times; each enumeration gets a fresh SplitEnumerator.
type SplitEnumerable struct {
	source string
	sep    string
	opts   SplitOptions
	cmp    Comparer
}

// Split splits source around each ordinal occurrence of sep. An empty sep
// never matches, so source comes back as a single entry. An empty source
// yields one empty entry unless RemoveEmptyEntries is set.
func Split(source, sep string, opts SplitOptions) SplitEnumerable {
	return SplitWith(source, sep, opts, Ordinal)
}

// SplitWith is Split using cmp to find separators.
func SplitWith(source, sep string, opts SplitOptions, cmp Comparer) SplitEnumerable {
	if cmp == nil {
		cmp = Ordinal
	}
	return SplitEnumerable{source: source, sep: sep, opts: opts, cmp: cmp}
}

// Enumerator returns a cursor positioned before the first entry.
func (s SplitEnumerable) Enumerator() SplitEnumerator {
	return SplitEnumerator{source: s.source, sep: s.sep, opts: s.opts, cmp: s.cmp}
}

// All yields each entry with its range in the source.
func (s SplitEnumerable) All() iter.Seq2[Range, string] {
	return func(yield func(Range, string) bool) {
		e := s.Enumerator()
		for e.Next() {
			if !yield(e.Range(), e.Current()) {
				return
			}
		}
	}
}

// Count returns the number of entries.
func (s SplitEnumerable) Count() int {
	n := 0
	for e := s.Enumerator(); e.Next(); {
		n++
	}
	return n
}

// Collect returns the entries as a slice.
func (s SplitEnumerable) Collect() []string {
	var out []string
	for e := s.Enumerator(); e.Next(); {
		out = append(out, e.Current())
	}
	return out
}

// SplitEnumerator walks the entries of a split without allocating. The
// zero value is exhausted.
type SplitEnumerator struct {
	source  string
	sep     string
	opts    SplitOptions
	cmp     Comparer
	pos     int
	done    bool
	current Range
}

// Next advances to the next entry and reports whether there is one.
func (e *SplitEnumerator) Next() bool {
	if e.cmp == nil {
		return false
	}
	for !e.done {
		start, end := e.pos, len(e.source)
		if i, j := e.find(); i >= 0 {
			end = e.pos + i
			e.pos += j
		} else {
			// The last entry is still emitted; the cursor only reports
			// exhaustion on the following call.
			e.pos = len(e.source)
			e.done = true
		}
		if e.opts&TrimEntries != 0 {
			start, end = trimSpace(e.source, start, end)
		}
		if start == end && e.opts&RemoveEmptyEntries != 0 {
			continue
		}
		e.current = Range{Start: start, End: end}
		return true
	}
	e.current = Range{}
	return false
}

func (e *SplitEnumerator) find() (int, int) {
	if e.sep == "" {
		return -1, -1
	}
	i, j := e.cmp.Index(e.source[e.pos:], e.sep)
	if i < 0 || j <= 0 {
		return -1, -1
	}
	return i, j
}

// Current returns the entry found by the last call to Next.
func (e *SplitEnumerator) Current() string {
	return e.source[e.current.Start:e.current.End]
}

// Range returns the source range of the current entry.
func (e *SplitEnumerator) Range() Range {
	return e.current
}

func trimSpace(s string, start, end int) (int, int) {
	for start < end {
		r, size := utf8.DecodeRuneInString(s[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for start < end {
		r, size := utf8.DecodeLastRuneInString(s[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	return start, end
}

// viewOf returns p as a string without copying. The string must not be
// used after p is modified.
func viewOf(p []byte) string {
	return unsafe.String(unsafe.SliceData(p), len(p))
}

// Split splits the written content. The entries alias the buffer and are
// only valid until the next mutation.
func (b *Buffer) Split(sep string, opts SplitOptions) SplitEnumerable {
	return Split(viewOf(b.Written()), sep, opts)
}

// SplitWith is Split using cmp to find separators.
func (b *Buffer) SplitWith(sep string, opts SplitOptions, cmp Comparer) SplitEnumerable {
	return SplitWith(viewOf(b.Written()), sep, opts, cmp)
}
