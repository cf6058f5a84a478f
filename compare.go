package textbuf

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/search"
)

// Comparer locates a substring. Index returns the byte range [start, end)
// of the first match of substr in s, or -1, -1. The match may be longer or
// shorter than substr for comparers that fold case or apply collation. An
// empty substr never matches.
type Comparer interface {
	Index(s, substr string) (start, end int)
}

var (
	// Ordinal compares bytes exactly.
	Ordinal Comparer = ordinal{}
	// OrdinalIgnoreCase compares runes under simple Unicode case folding.
	OrdinalIgnoreCase Comparer = ordinalIgnoreCase{}
	// InvariantCulture matches with the root collation.
	InvariantCulture = Culture(language.Und)
	// InvariantCultureIgnoreCase matches with the root collation, ignoring case.
	InvariantCultureIgnoreCase = CultureIgnoreCase(language.Und)
)

type ordinal struct{}

func (ordinal) Index(s, substr string) (int, int) {
	if substr == "" {
		return -1, -1
	}
	i := strings.Index(s, substr)
	if i < 0 {
		return -1, -1
	}
	return i, i + len(substr)
}

type ordinalIgnoreCase struct{}

func (ordinalIgnoreCase) Index(s, substr string) (int, int) {
	if substr == "" {
		return -1, -1
	}
	for i := 0; i < len(s); {
		if n, ok := foldPrefix(s[i:], substr); ok {
			return i, i + n
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1, -1
}

// foldPrefix reports whether s starts with prefix under case folding and
// how many bytes of s the match covers.
func foldPrefix(s, prefix string) (int, bool) {
	i, j := 0, 0
	for j < len(prefix) {
		if i >= len(s) {
			return 0, false
		}
		r1, n1 := utf8.DecodeRuneInString(s[i:])
		r2, n2 := utf8.DecodeRuneInString(prefix[j:])
		if r1 != r2 && !equalFoldRune(r1, r2) {
			return 0, false
		}
		i += n1
		j += n2
	}
	return i, true
}

func equalFoldRune(a, b rune) bool {
	if a < utf8.RuneSelf && b < utf8.RuneSelf {
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		return a == b
	}
	// Walk the fold orbit of a looking for b.
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

type cultureComparer struct {
	m *search.Matcher
}

// Culture returns a collation-aware Comparer for tag. Options such as
// search.IgnoreCase or search.IgnoreDiacritics loosen the match.
func Culture(tag language.Tag, opts ...search.Option) Comparer {
	return &cultureComparer{m: search.New(tag, opts...)}
}

// CultureIgnoreCase is Culture(tag, search.IgnoreCase).
func CultureIgnoreCase(tag language.Tag) Comparer {
	return Culture(tag, search.IgnoreCase)
}

func (c *cultureComparer) Index(s, substr string) (int, int) {
	if substr == "" || s == "" {
		return -1, -1
	}
	start, end := c.m.IndexString(s, substr)
	if start < 0 || end <= start {
		return -1, -1
	}
	return start, end
}
