package textbuf

import (
	"errors"
	"strings"
)

// indexLimit bounds the index accumulator against absurdly long digit runs.
const indexLimit = 1_000_000

// Format appends template with its holes replaced by args, using the
// Invariant locale. See FormatLocale.
func (b *Buffer) Format(template string, args ...any) error {
	return b.FormatLocale(Invariant, template, args...)
}

// FormatLocale appends template with each {index} or {index:format} hole
// replaced by args[index]. Literal braces are written doubled. Alignment
// ({index,width}) is not supported. Faults are returned as *FormatError;
// anything written before the fault stays in the buffer.
func (b *Buffer) FormatLocale(loc *Locale, template string, args ...any) error {
	pos := 0
	for {
		next := strings.IndexAny(template[pos:], "{}")
		if next < 0 {
			b.WriteString(template[pos:])
			return nil
		}
		b.WriteString(template[pos : pos+next])
		pos += next

		brace := template[pos]
		if pos+1 < len(template) && template[pos+1] == brace {
			b.WriteByte(brace)
			pos += 2
			continue
		}
		if brace == '}' {
			return newFormatError(template, pos, ErrMissingOpenBrace)
		}

		hole := pos
		pos++
		if pos == len(template) {
			return newFormatError(template, pos, ErrUnclosedHole)
		}
		if !isDigit(template[pos]) {
			return newFormatError(template, pos, ErrExpectedIndex)
		}
		index := 0
		for ; pos < len(template) && isDigit(template[pos]); pos++ {
			if index < indexLimit {
				index = index*10 + int(template[pos]-'0')
			}
		}
		for pos < len(template) && template[pos] == ' ' {
			pos++
		}
		if pos == len(template) {
			return newFormatError(template, pos, ErrUnclosedHole)
		}

		var format string
		switch template[pos] {
		case '}':
			pos++
		case ':':
			var err error
			format, pos, err = scanItemFormat(template, pos+1)
			if err != nil {
				return newFormatError(template, pos, err)
			}
		case ',':
			return newFormatError(template, pos, ErrAlignmentNotSupported)
		default:
			return newFormatError(template, pos, ErrUnexpectedCharacter)
		}

		if index >= len(args) {
			return newFormatError(template, hole, ErrArgumentIndex)
		}
		if err := b.WriteArg(ArgOf(args[index]), format, loc); err != nil {
			var fe *FormatError
			if errors.As(err, &fe) {
				return err
			}
			return newFormatError(template, hole, err)
		}
	}
}

// scanItemFormat reads a format region starting at pos up to its closing
// brace. It returns the format, the position after the closing brace, or
// the position of the fault. "}}" inside the region is a literal brace.
func scanItemFormat(template string, pos int) (string, int, error) {
	start := pos
	var escaped []byte
	for pos < len(template) {
		switch template[pos] {
		case '{':
			return "", pos, ErrNestedHole
		case '}':
			if pos+1 < len(template) && template[pos+1] == '}' {
				escaped = append(escaped, template[start:pos+1]...)
				pos += 2
				start = pos
				continue
			}
			if escaped == nil {
				return template[start:pos], pos + 1, nil
			}
			return string(append(escaped, template[start:pos]...)), pos + 1, nil
		}
		pos++
	}
	return "", pos, ErrUnclosedHole
}

// Format renders template into a pooled Buffer and returns the result.
func Format(template string, args ...any) (string, error) {
	return FormatLocale(Invariant, template, args...)
}

// FormatLocale is Format with an explicit locale.
func FormatLocale(loc *Locale, template string, args ...any) (string, error) {
	b := New()
	defer b.Free()
	if err := b.FormatLocale(loc, template, args...); err != nil {
		return "", err
	}
	return b.String(), nil
}
