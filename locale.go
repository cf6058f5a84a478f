package textbuf

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale carries the culture used by culture-sensitive formats such as
// N and P. A nil *Locale behaves like Invariant.
type Locale struct {
	tag     language.Tag
	printer *message.Printer
}

// Invariant formats numbers with the root locale rules.
var Invariant = NewLocale(language.Und)

// NewLocale returns a Locale for tag.
func NewLocale(tag language.Tag) *Locale {
	return &Locale{
		tag:     tag,
		printer: message.NewPrinter(tag),
	}
}

// ParseLocale parses a BCP 47 tag such as "de-CH".
func ParseLocale(s string) (*Locale, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return nil, err
	}
	return NewLocale(tag), nil
}

// Tag returns the language tag.
func (l *Locale) Tag() language.Tag {
	if l == nil {
		return language.Und
	}
	return l.tag
}

func (l *Locale) String() string {
	return l.Tag().String()
}

func (l *Locale) fprintNumber(w io.Writer, kind byte, v any, scale int) error {
	if l == nil {
		l = Invariant
	}
	var f number.Formatter
	switch kind {
	case 'N', 'n':
		f = number.Decimal(v, number.Scale(scale))
	default:
		f = number.Percent(v, number.Scale(scale))
	}
	_, err := l.printer.Fprint(w, f)
	return err
}
