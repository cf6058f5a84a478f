package textbuf

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/bytebufferpool"
	"golang.org/x/exp/constraints"
)

// SpanFormattable is implemented by values that can render themselves
// directly into a byte span without an intermediate string.
type SpanFormattable interface {
	// TryFormat writes the value into dst and returns the number of bytes
	// written. When dst is too small it returns io.ErrShortBuffer and the
	// caller retries with a larger span; any other error is final.
	TryFormat(dst []byte, format string, loc *Locale) (int, error)
}

// TextFormattable is the fallback capability for values that only know
// how to produce a string for a format.
type TextFormattable interface {
	FormatText(format string, loc *Locale) (string, error)
}

// WriteFormatted appends v rendered with format. Values implementing
// SpanFormattable, and the built-in numeric, bool, string, time and
// duration kinds, are written straight into the available space, growing
// until they fit. Everything else, and any value given a "%" verb as its
// format, is rendered to a scratch buffer first: TextFormattable, then the
// "%" verb through fmt (which honors fmt.Formatter), then error,
// fmt.Stringer and finally fmt.Fprint.
func (b *Buffer) WriteFormatted(v any, format string, loc *Locale) error {
	if strings.HasPrefix(format, "%") {
		if _, ok := v.(SpanFormattable); !ok && v != nil {
			return b.writeText(v, format, loc)
		}
	}
	switch v := v.(type) {
	case nil:
		return nil
	case SpanFormattable:
		return b.writeSpan(v, format, loc)
	case string:
		b.WriteString(v)
		return nil
	case []byte:
		b.Write(v)
		return nil
	case int:
		return writeInteger(b, v, format, loc)
	case int8:
		return writeInteger(b, v, format, loc)
	case int16:
		return writeInteger(b, v, format, loc)
	case int32:
		return writeInteger(b, v, format, loc)
	case int64:
		return writeInteger(b, v, format, loc)
	case uint:
		return writeInteger(b, v, format, loc)
	case uint8:
		return writeInteger(b, v, format, loc)
	case uint16:
		return writeInteger(b, v, format, loc)
	case uint32:
		return writeInteger(b, v, format, loc)
	case uint64:
		return writeInteger(b, v, format, loc)
	case float64:
		return writeFloat(b, v, 64, format, loc)
	case float32:
		return writeFloat(b, float64(v), 32, format, loc)
	case bool:
		return b.writeSpan(boolValue(v), format, loc)
	case time.Time:
		return b.writeSpan(timeValue(v), format, loc)
	case time.Duration:
		return b.writeSpan(durationValue(v), format, loc)
	}
	return b.writeText(v, format, loc)
}

// writeSpan runs the TryFormat loop, growing by at least one byte each
// time the value reports a short buffer.
func (b *Buffer) writeSpan(v SpanFormattable, format string, loc *Locale) error {
	for {
		n, err := v.TryFormat(b.Available(), format, loc)
		if err == nil {
			if n < 0 || n > len(b.storage)-b.length {
				panicRange("format", b.length, n, len(b.storage))
			}
			b.length += n
			return nil
		}
		if !errors.Is(err, io.ErrShortBuffer) {
			return err
		}
		b.grow(len(b.storage) + 1)
	}
}

func (b *Buffer) writeText(v any, format string, loc *Locale) error {
	if tf, ok := v.(TextFormattable); ok {
		s, err := tf.FormatText(format, loc)
		if err != nil {
			return err
		}
		b.WriteString(s)
		return nil
	}

	scratch := bytebufferpool.Get()
	defer bytebufferpool.Put(scratch)

	switch x := v.(type) {
	case error:
		if strings.HasPrefix(format, "%") {
			fmt.Fprintf(scratch, format, x)
		} else {
			scratch.WriteString(x.Error())
		}
	case fmt.Stringer:
		if strings.HasPrefix(format, "%") {
			fmt.Fprintf(scratch, format, x)
		} else {
			scratch.WriteString(x.String())
		}
	default:
		if strings.HasPrefix(format, "%") {
			fmt.Fprintf(scratch, format, v)
		} else {
			fmt.Fprint(scratch, v)
		}
	}
	b.Write(scratch.B)
	return nil
}

// writeLocalized renders culture-sensitive numeric formats, which have no
// span fast path.
func (b *Buffer) writeLocalized(v any, f numericFormat, defaultScale int, loc *Locale) error {
	scratch := bytebufferpool.Get()
	defer bytebufferpool.Put(scratch)
	if err := loc.fprintNumber(scratch, f.kind, v, f.precOr(defaultScale)); err != nil {
		return err
	}
	b.Write(scratch.B)
	return nil
}

func writeInteger[T constraints.Integer](b *Buffer, v T, format string, loc *Locale) error {
	f, err := parseNumericFormat(format)
	if err != nil {
		return err
	}
	if f.isLocalized() {
		scale := 0
		if f.kind == 'P' || f.kind == 'p' {
			scale = 2
		}
		return b.writeLocalized(v, f, scale, loc)
	}
	return b.writeSpan(integerValue[T]{v: v, f: f}, format, loc)
}

func writeFloat(b *Buffer, v float64, bitSize int, format string, loc *Locale) error {
	f, err := parseNumericFormat(format)
	if err != nil {
		return err
	}
	if f.isLocalized() {
		return b.writeLocalized(v, f, 2, loc)
	}
	return b.writeSpan(floatValue{v: v, bitSize: bitSize, f: f}, format, loc)
}

// copyOut moves a rendering from stack scratch into dst.
func copyOut(dst, rendered []byte) (int, error) {
	if len(rendered) > len(dst) {
		return 0, io.ErrShortBuffer
	}
	return copy(dst, rendered), nil
}

type integerValue[T constraints.Integer] struct {
	v T
	f numericFormat
}

func (x integerValue[T]) TryFormat(dst []byte, _ string, _ *Locale) (int, error) {
	var scratch [72]byte
	out, err := appendInteger(scratch[:0], x.v, x.f)
	if err != nil {
		return 0, err
	}
	return copyOut(dst, out)
}

type floatValue struct {
	v       float64
	bitSize int
	f       numericFormat
}

func (x floatValue) TryFormat(dst []byte, _ string, _ *Locale) (int, error) {
	var scratch [72]byte
	out, err := appendFloat(scratch[:0], x.v, x.bitSize, x.f)
	if err != nil {
		return 0, err
	}
	return copyOut(dst, out)
}

type boolValue bool

func (x boolValue) TryFormat(dst []byte, _ string, _ *Locale) (int, error) {
	var scratch [5]byte
	return copyOut(dst, strconv.AppendBool(scratch[:0], bool(x)))
}

// timeValue takes a Go reference layout as its format; empty means RFC 3339.
type timeValue time.Time

func (x timeValue) TryFormat(dst []byte, format string, _ *Locale) (int, error) {
	if format == "" {
		format = time.RFC3339
	}
	var scratch [64]byte
	return copyOut(dst, time.Time(x).AppendFormat(scratch[:0], format))
}

// durationValue takes a unit as its format: "h", "m" or "s" print the
// duration as a decimal count of that unit, "ms", "us" and "ns" as a whole
// count. Empty means time.Duration.String.
type durationValue time.Duration

func (x durationValue) TryFormat(dst []byte, format string, _ *Locale) (int, error) {
	d := time.Duration(x)
	var scratch [32]byte
	out := scratch[:0]
	switch format {
	case "":
		out = append(out, d.String()...)
	case "h":
		out = strconv.AppendFloat(out, d.Hours(), 'f', -1, 64)
	case "m":
		out = strconv.AppendFloat(out, d.Minutes(), 'f', -1, 64)
	case "s":
		out = strconv.AppendFloat(out, d.Seconds(), 'f', -1, 64)
	case "ms":
		out = strconv.AppendInt(out, d.Milliseconds(), 10)
	case "us":
		out = strconv.AppendInt(out, d.Microseconds(), 10)
	case "ns":
		out = strconv.AppendInt(out, d.Nanoseconds(), 10)
	default:
		return 0, invalidFormat(format)
	}
	return copyOut(dst, out)
}
