package textbuf

import (
	"errors"
	"strconv"
	"unicode/utf8"
)

// Errors raised or returned by buffer, template and replace operations.
var (
	// ErrCapacityExceeded is the panic value used when a Buffer would have to
	// grow past MaximumCapacity.
	ErrCapacityExceeded = errors.New("textbuf: capacity exceeded")

	// ErrFreed is the panic value used when a Buffer is written after Free.
	ErrFreed = errors.New("textbuf: buffer used after free")

	// ErrEmptyOldValue is returned by Replace when the value to replace is empty.
	ErrEmptyOldValue = errors.New("textbuf: old value cannot be empty")

	// ErrInvalidFormat is returned when a value does not understand its format string.
	ErrInvalidFormat = errors.New("invalid format string")

	ErrMissingOpenBrace      = errors.New("missing opening brace")
	ErrExpectedIndex         = errors.New("expected argument index")
	ErrAlignmentNotSupported = errors.New("alignment not supported")
	ErrNestedHole            = errors.New("format string cannot contain a hole")
	ErrUnexpectedCharacter   = errors.New("unexpected character")
	ErrArgumentIndex         = errors.New("argument does not exist")
	ErrUnclosedHole          = errors.New("unexpected end of template")
)

// excerptRadius is how many bytes of template are kept on each side of a fault.
const excerptRadius = 16

// FormatError describes a fault in a composite format template.
type FormatError struct {
	// Pos is the byte offset in the template where the fault was detected.
	Pos int
	// Excerpt is the part of the template surrounding Pos.
	Excerpt string
	// Err is one of the template sentinel errors, or the error returned by a
	// value that rejected its format string.
	Err error

	offset int
}

// newFormatError clips the excerpt to whole runes, so it may be a few bytes
// shorter than the radius on either side.
func newFormatError(template string, pos int, err error) *FormatError {
	start := max(pos-excerptRadius, 0)
	end := min(pos+excerptRadius, len(template))
	start = min(start, end)
	for start < end && start < pos && !utf8.RuneStart(template[start]) {
		start++
	}
	for end > start && end < len(template) && !utf8.RuneStart(template[end]) {
		end--
	}
	return &FormatError{
		Pos:     pos,
		Excerpt: template[start:end],
		Err:     err,
		offset:  min(pos-start, end-start),
	}
}

func (e *FormatError) Error() string {
	b := New()
	defer b.Free()
	b.WriteString("textbuf: ")
	b.WriteString(e.Err.Error())
	b.WriteString(" at position ")
	b.WritePosInt(e.Pos)
	b.WriteString(": ")
	b.WriteString(strconv.Quote(e.Excerpt))
	return b.String()
}

// Offset returns the position of the fault within Excerpt.
func (e *FormatError) Offset() int {
	return min(e.offset, len(e.Excerpt))
}

// Unwrap returns the underlying sentinel.
func (e *FormatError) Unwrap() error {
	return e.Err
}
