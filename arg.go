package textbuf

import "iter"

// Kind identifies what an Arg holds.
type Kind uint8

const (
	// KindText is literal text copied as is.
	KindText Kind = iota + 1
	// KindValue is a value rendered through WriteFormatted.
	KindValue
	// KindWriter is a function that writes into the Buffer itself.
	KindWriter
	// KindSequence is a list of Args joined by the hole's format string.
	KindSequence
)

// Arg is one renderable template argument. The zero Arg renders nothing.
type Arg struct {
	kind   Kind
	text   string
	value  any
	writer func(*Buffer) error
	items  []Arg
}

// Kind reports which variant a holds.
func (a Arg) Kind() Kind {
	return a.kind
}

func Text(s string) Arg {
	return Arg{kind: KindText, text: s}
}

func Value(v any) Arg {
	return Arg{kind: KindValue, value: v}
}

// Writer wraps a function that renders straight into the target Buffer.
func Writer(fn func(b *Buffer) error) Arg {
	return Arg{kind: KindWriter, writer: fn}
}

// Template is a Writer that formats a nested template into the target
// Buffer, so templates compose without intermediate strings.
func Template(template string, args ...any) Arg {
	return Writer(func(b *Buffer) error {
		return b.Format(template, args...)
	})
}

func Sequence(items ...Arg) Arg {
	return Arg{kind: KindSequence, items: items}
}

// SequenceOf lifts every element of items with ArgOf.
func SequenceOf[T any](items []T) Arg {
	args := make([]Arg, len(items))
	for i := range items {
		args[i] = ArgOf(items[i])
	}
	return Sequence(args...)
}

// SequenceFrom collects seq into a sequence Arg.
func SequenceFrom[T any](seq iter.Seq[T]) Arg {
	var args []Arg
	for item := range seq {
		args = append(args, ArgOf(item))
	}
	return Sequence(args...)
}

// ArgOf lifts a plain template argument into an Arg: strings become Text,
// writer functions become Writer, and anything else is a Value. Slices of
// Arg, string, any, int, int64, uint64, float64 and bool, and iter.Seq of
// any or string, become sequences. Other slice types render as a single
// value; wrap them with SequenceOf to join their elements.
func ArgOf(v any) Arg {
	switch v := v.(type) {
	case Arg:
		return v
	case string:
		return Text(v)
	case func(*Buffer) error:
		return Writer(v)
	case []Arg:
		return Sequence(v...)
	case []string:
		return SequenceOf(v)
	case []any:
		return SequenceOf(v)
	case []int:
		return SequenceOf(v)
	case []int64:
		return SequenceOf(v)
	case []uint64:
		return SequenceOf(v)
	case []float64:
		return SequenceOf(v)
	case []bool:
		return SequenceOf(v)
	case iter.Seq[any]:
		return SequenceFrom(v)
	case iter.Seq[string]:
		return SequenceFrom(v)
	}
	return Value(v)
}

// defaultDelimiter joins sequence items when the hole has no format.
const defaultDelimiter = ","

// WriteArg renders a with format. For sequences the format is the
// delimiter between items, which are themselves rendered without one.
func (b *Buffer) WriteArg(a Arg, format string, loc *Locale) error {
	switch a.kind {
	case KindText:
		b.WriteString(a.text)
	case KindValue:
		return b.WriteFormatted(a.value, format, loc)
	case KindWriter:
		return a.writer(b)
	case KindSequence:
		if format == "" {
			format = defaultDelimiter
		}
		for i, item := range a.items {
			if i > 0 {
				b.WriteString(format)
			}
			if err := b.WriteArg(item, "", loc); err != nil {
				return err
			}
		}
	}
	return nil
}
