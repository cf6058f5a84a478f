package textbuf

import (
	"fmt"
	"strconv"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// numericFormat is a parsed standard numeric format such as "X8" or "F".
type numericFormat struct {
	kind byte
	// prec is the number after the letter, or -1 when absent.
	prec int
}

const maxPrecision = 999

func parseNumericFormat(format string) (numericFormat, error) {
	if format == "" {
		return numericFormat{kind: 'G', prec: -1}, nil
	}
	f := numericFormat{kind: format[0], prec: -1}
	if !isLetter(f.kind) {
		return f, invalidFormat(format)
	}
	if len(format) > 1 {
		f.prec = 0
		for i := 1; i < len(format); i++ {
			c := format[i]
			if !isDigit(c) {
				return f, invalidFormat(format)
			}
			f.prec = f.prec*10 + int(c-'0')
			if f.prec > maxPrecision {
				return f, invalidFormat(format)
			}
		}
	}
	return f, nil
}

func (f numericFormat) isLocalized() bool {
	switch f.kind {
	case 'N', 'n', 'P', 'p':
		return true
	}
	return false
}

func (f numericFormat) precOr(def int) int {
	if f.prec < 0 {
		return def
	}
	return f.prec
}

func invalidFormat(format string) error {
	return fmt.Errorf("%w %q", ErrInvalidFormat, format)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// putDecimal writes v into dst, left padded with zeroes to width, and
// returns the number of bytes written. dst must hold max(width, 20) bytes.
func putDecimal(dst []byte, v uint64, width int) int {
	// Assemble decimal in reverse order.
	var bb [20]byte
	bp := len(bb) - 1
	for v >= 10 {
		q := v / 10
		bb[bp] = byte('0' + v - q*10)
		bp--
		v = q
	}
	bb[bp] = byte('0' + v)
	digits := bb[bp:]
	n := 0
	for ; n < width-len(digits); n++ {
		dst[n] = '0'
	}
	return n + copy(dst[n:], digits)
}

func appendZeros(dst []byte, n int) []byte {
	for ; n > 0; n-- {
		dst = append(dst, '0')
	}
	return dst
}

// appendPadded appends v in base, left padded with zeroes to width.
func appendPadded(dst []byte, v uint64, base, width int, upper bool) []byte {
	var scratch [64]byte
	digits := strconv.AppendUint(scratch[:0], v, base)
	if upper {
		for i, c := range digits {
			if 'a' <= c && c <= 'f' {
				digits[i] = c - 'a' + 'A'
			}
		}
	}
	dst = appendZeros(dst, width-len(digits))
	return append(dst, digits...)
}

// appendInteger renders v according to a standard numeric format. X and B
// print the two's complement of negative values at the width of T.
func appendInteger[T constraints.Integer](dst []byte, v T, f numericFormat) ([]byte, error) {
	neg := v < 0
	mag := uint64(v)
	if neg {
		mag = uint64(^int64(v)) + 1
	}
	switch f.kind {
	case 'G', 'g', 'D', 'd':
		if neg {
			dst = append(dst, '-')
		}
		width := f.prec
		if f.kind == 'G' || f.kind == 'g' {
			width = 0
		}
		return appendPadded(dst, mag, 10, width, false), nil
	case 'X', 'x', 'B', 'b':
		bits := int(unsafe.Sizeof(v)) * 8
		u := uint64(v)
		if bits < 64 {
			u &= 1<<bits - 1
		}
		base := 16
		if f.kind == 'B' || f.kind == 'b' {
			base = 2
		}
		return appendPadded(dst, u, base, f.prec, f.kind == 'X'), nil
	case 'F', 'f':
		if neg {
			dst = append(dst, '-')
		}
		dst = strconv.AppendUint(dst, mag, 10)
		if prec := f.precOr(2); prec > 0 {
			dst = append(dst, '.')
			dst = appendZeros(dst, prec)
		}
		return dst, nil
	case 'E', 'e':
		return strconv.AppendFloat(dst, float64(v), f.kind, f.precOr(6), 64), nil
	}
	return dst, fmt.Errorf("%w %q", ErrInvalidFormat, string(f.kind))
}

func appendFloat(dst []byte, v float64, bitSize int, f numericFormat) ([]byte, error) {
	switch f.kind {
	case 'G', 'g':
		return strconv.AppendFloat(dst, v, f.kind, f.prec, bitSize), nil
	case 'F', 'f':
		return strconv.AppendFloat(dst, v, 'f', f.precOr(2), bitSize), nil
	case 'E', 'e':
		return strconv.AppendFloat(dst, v, f.kind, f.precOr(6), bitSize), nil
	}
	return dst, fmt.Errorf("%w %q", ErrInvalidFormat, string(f.kind))
}
