package textbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestComparers(t *testing.T) {
	type match struct{ start, end int }
	for _, test := range []struct {
		name   string
		cmp    Comparer
		s, sub string
		want   match
	}{
		{"ordinal", Ordinal, "abcabc", "ca", match{2, 4}},
		{"ordinal case", Ordinal, "ABC", "b", match{-1, -1}},
		{"ordinal empty", Ordinal, "abc", "", match{-1, -1}},
		{"ordinal miss", Ordinal, "abc", "abcd", match{-1, -1}},
		{"ignore case ascii", OrdinalIgnoreCase, "xxHeLLo", "hello", match{2, 7}},
		{"ignore case empty", OrdinalIgnoreCase, "abc", "", match{-1, -1}},
		{"ignore case multibyte", OrdinalIgnoreCase, "ÀÉÎ", "éî", match{2, 6}},
		{"ignore case kelvin", OrdinalIgnoreCase, "5\u212a", "k", match{1, 4}},
		{"ignore case short text", OrdinalIgnoreCase, "ab", "abc", match{-1, -1}},
		{"culture empty source", InvariantCulture, "", "a", match{-1, -1}},
		{"culture ignore case", InvariantCultureIgnoreCase, "say TH now", "th", match{4, 6}},
		{"culture", Culture(language.English), "abc", "b", match{1, 2}},
	} {
		t.Run(test.name, func(t *testing.T) {
			start, end := test.cmp.Index(test.s, test.sub)
			assert.Equal(t, test.want, match{start, end})
		})
	}
}

func TestEqualFoldRune(t *testing.T) {
	assert.True(t, equalFoldRune('a', 'A'))
	assert.True(t, equalFoldRune('Z', 'z'))
	assert.True(t, equalFoldRune('σ', 'Σ'))
	assert.True(t, equalFoldRune('ς', 'Σ'))
	assert.True(t, equalFoldRune('k', '\u212a'))
	assert.False(t, equalFoldRune('a', 'b'))
	assert.False(t, equalFoldRune('@', '`'))
}
