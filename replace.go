package textbuf

import "strings"

// ReplaceString replaces every ordinal occurrence of old with repl and
// returns the number of replacements.
func (b *Buffer) ReplaceString(old, repl string) (int, error) {
	return b.ReplaceN(old, repl, Ordinal, -1)
}

// Replace replaces every match of old found by cmp with repl.
func (b *Buffer) Replace(old, repl string, cmp Comparer) (int, error) {
	return b.ReplaceN(old, repl, cmp, -1)
}

// ReplaceN replaces at most n matches of old (all of them when n < 0).
// Scanning resumes after each replacement, so overlapping matches and
// matches created by the replacement itself are not revisited.
func (b *Buffer) ReplaceN(old, repl string, cmp Comparer, n int) (int, error) {
	if old == "" {
		return 0, ErrEmptyOldValue
	}
	if b.pool == nil {
		panic(ErrFreed)
	}
	if cmp == nil {
		cmp = Ordinal
	}
	if n == 0 || b.length == 0 {
		return 0, nil
	}
	// Fixed-width matches can be rewritten inside the current block.
	if _, ok := cmp.(ordinal); ok {
		switch {
		case len(repl) == len(old):
			return b.replaceInPlace(old, repl, n), nil
		case len(repl) < len(old):
			return b.replaceShrink(old, repl, n), nil
		}
	}
	return b.replaceCopy(old, repl, cmp, n), nil
}

func (b *Buffer) replaceInPlace(old, repl string, n int) int {
	count, pos := 0, 0
	for count != n {
		i := strings.Index(viewOf(b.storage[pos:b.length]), old)
		if i < 0 {
			break
		}
		pos += i
		pos += copy(b.storage[pos:], repl)
		count++
	}
	return count
}

// replaceShrink compacts in a single pass. write never passes read, so the
// bytes still to be scanned are never overwritten.
func (b *Buffer) replaceShrink(old, repl string, n int) int {
	count, read, write := 0, 0, 0
	for count != n {
		i := strings.Index(viewOf(b.storage[read:b.length]), old)
		if i < 0 {
			break
		}
		write += copy(b.storage[write:], b.storage[read:read+i])
		write += copy(b.storage[write:], repl)
		read += i + len(old)
		count++
	}
	if count == 0 {
		return 0
	}
	write += copy(b.storage[write:], b.storage[read:b.length])
	b.SetLen(write)
	return count
}

// replaceCopy builds the result in a second Buffer from the same pool and
// swaps it in. It handles growth and matches whose length differs from old.
func (b *Buffer) replaceCopy(old, repl string, cmp Comparer, n int) int {
	src := viewOf(b.storage[:b.length])
	i, j := cmp.Index(src, old)
	if i < 0 {
		return 0
	}

	tmp := New(WithPool(b.pool), WithCapacity(b.length+len(repl)))
	defer tmp.Free()

	count, pos := 0, 0
	for {
		tmp.WriteString(src[pos:i])
		tmp.WriteString(repl)
		pos = j
		count++
		if count == n {
			break
		}
		i, j = cmp.Index(src[pos:], old)
		if i < 0 || j <= 0 {
			break
		}
		i, j = i+pos, j+pos
	}
	tmp.WriteString(src[pos:])
	b.adopt(tmp)
	return count
}
