package console

import (
	"context"
	"encoding"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/gesquive/textbuf"
)

var fprintStd = color.New().FprintFunc()
var fprintDebug = color.New(color.FgBlue).FprintFunc()
var fprintInfo = color.New().FprintFunc()
var fprintWarn = color.New(color.FgYellow).FprintFunc()
var fprintError = color.New(color.FgRed).FprintFunc()
var fprintAttr = color.New(color.Faint).FprintFunc()
var fprintAttrError = color.New(color.FgRed).Add(color.Faint).FprintFunc()
var fprintHighlight = color.New(color.FgHiRed, color.Underline).FprintFunc()

// HandlerOptions mirrors [slog.HandlerOptions] with a few terminal settings.
type HandlerOptions struct {
	// AddSource adds the file:line of the log call.
	AddSource bool

	// Level is the minimum level logged. Defaults to slog.LevelInfo.
	Level slog.Leveler

	// ReplaceAttr rewrites each non-group attribute, built-ins included,
	// before it is written. Returning the zero Attr drops it.
	ReplaceAttr func(groups []string, a slog.Attr) slog.Attr

	// Time format (Default: time.DateTime)
	TimeFormat string

	// Disable color (Default: false)
	NoColor bool
}

var defaultLevel = slog.LevelInfo
var defaultTimeFormat = time.DateTime

// Handler is a slog.Handler producing one colored line per record:
//
//	2000-01-02 03:04:05 INFO  message key=value
//
// Lines are assembled in a pooled textbuf.Buffer.
type Handler struct {
	mu *sync.Mutex
	w  io.Writer

	attrsPrefix string
	groupPrefix string
	groups      []string

	addSource   bool
	level       slog.Leveler
	replaceAttr func([]string, slog.Attr) slog.Attr
	timeFormat  string
}

// NewHandler returns a Handler writing to w. A nil opts uses the defaults.
func NewHandler(w io.Writer, opts *HandlerOptions) *Handler {
	if opts == nil {
		opts = &HandlerOptions{}
	}
	h := &Handler{
		mu:          &sync.Mutex{},
		w:           w,
		addSource:   opts.AddSource,
		level:       defaultLevel,
		replaceAttr: opts.ReplaceAttr,
		timeFormat:  defaultTimeFormat,
	}
	if opts.Level != nil {
		h.level = opts.Level
	}
	if opts.TimeFormat != "" {
		h.timeFormat = opts.TimeFormat
	}
	if opts.NoColor {
		color.NoColor = true
	}
	return h
}

func (h *Handler) clone() *Handler {
	h2 := *h
	h2.groups = h.groups[:len(h.groups):len(h.groups)]
	return &h2
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	buf := textbuf.New()
	defer buf.Free()

	rep := h.replaceAttr

	if !r.Time.IsZero() {
		if rep == nil {
			buf.WriteFormatted(r.Time, h.timeFormat, nil)
			buf.WriteByte(' ')
		} else {
			h.appendAttr(buf, slog.Time(slog.TimeKey, r.Time.Round(0)), h.groupPrefix, nil)
		}
	}

	if rep == nil {
		h.appendLevel(buf, r.Level)
		buf.WriteByte(' ')
	} else {
		h.appendAttr(buf, slog.Any(slog.LevelKey, r.Level), h.groupPrefix, nil)
	}

	if h.addSource {
		if src := sourceOf(r.PC); src != nil {
			if rep == nil {
				h.appendSource(buf, src)
				buf.WriteByte(' ')
			} else {
				h.appendAttr(buf, slog.Any(slog.SourceKey, src), h.groupPrefix, nil)
			}
		}
	}

	if rep == nil {
		buf.WriteString(r.Message)
		buf.WriteByte(' ')
	} else {
		h.appendAttr(buf, slog.String(slog.MessageKey, r.Message), h.groupPrefix, nil)
	}

	buf.WriteString(h.attrsPrefix)
	r.Attrs(func(attr slog.Attr) bool {
		h.appendAttr(buf, attr, h.groupPrefix, h.groups)
		return true
	})

	trimTrailingSpace(buf)
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := buf.WriteTo(h.w)
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := h.clone()
	buf := textbuf.New()
	defer buf.Free()
	buf.WriteString(h.attrsPrefix)
	for _, attr := range attrs {
		h2.appendAttr(buf, attr, h2.groupPrefix, h2.groups)
	}
	h2.attrsPrefix = buf.String()
	return h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.groupPrefix += name + "."
	h2.groups = append(h2.groups, name)
	return h2
}

func sourceOf(pc uintptr) *slog.Source {
	if pc == 0 {
		return nil
	}
	f, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if f.File == "" {
		return nil
	}
	return &slog.Source{Function: f.Function, File: f.File, Line: f.Line}
}

func trimTrailingSpace(buf *textbuf.Buffer) {
	n := buf.Len()
	for n > 0 && buf.Written()[n-1] == ' ' {
		n--
	}
	buf.SetLen(n)
}

func (h *Handler) appendLevel(buf *textbuf.Buffer, level slog.Level) {
	switch level {
	case slog.LevelDebug:
		fprintDebug(buf, level.String())
	case slog.LevelInfo:
		fprintInfo(buf, level.String(), " ")
	case slog.LevelWarn:
		fprintWarn(buf, level.String(), " ")
	case slog.LevelError:
		fprintError(buf, level.String())
	default:
		buf.WriteString(level.String())
	}
}

func (h *Handler) appendAttr(buf *textbuf.Buffer, attr slog.Attr, groupsPrefix string, groups []string) {
	attr.Value = attr.Value.Resolve()
	if h.replaceAttr != nil && attr.Value.Kind() != slog.KindGroup {
		attr = h.replaceAttr(groups, attr)
		attr.Value = attr.Value.Resolve()
	}
	if attr.Key == "" && attr.Value.Any() == nil {
		return
	}

	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			groupsPrefix += attr.Key + "."
			groups = append(groups, attr.Key)
		}
		for _, groupAttr := range attr.Value.Group() {
			h.appendAttr(buf, groupAttr, groupsPrefix, groups)
		}
		return
	}

	switch strings.ToLower(attr.Key) {
	case slog.TimeKey:
		buf.WriteFormatted(attr.Value.Time(), h.timeFormat, nil)
	case slog.LevelKey:
		if level, ok := attr.Value.Any().(slog.Level); ok {
			h.appendLevel(buf, level)
		} else {
			buf.WriteString(attr.Value.String())
		}
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok {
			h.appendSource(buf, src)
		}
	case slog.MessageKey:
		buf.WriteString(attr.Value.String())
	default:
		if err, ok := attr.Value.Any().(error); ok {
			h.appendError(buf, err, attr.Key, groupsPrefix)
		} else {
			h.appendKey(buf, attr.Key, groupsPrefix)
			h.appendValue(buf, attr.Value)
		}
	}
	buf.WriteByte(' ')
}

func (h *Handler) appendKey(buf *textbuf.Buffer, key, groups string) {
	if key == "" {
		fprintAttr(buf, `""`)
	} else {
		appendAutoQuote(buf, fprintAttr, groups+key)
	}
	fprintAttr(buf, "=")
}

func (h *Handler) appendValue(buf *textbuf.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		fprintStd(buf, strconv.Quote(v.String()))
	case slog.KindInt64:
		buf.WriteFormatted(v.Int64(), "", nil)
	case slog.KindUint64:
		buf.WriteFormatted(v.Uint64(), "", nil)
	case slog.KindFloat64:
		buf.WriteFormatted(v.Float64(), "", nil)
	case slog.KindBool:
		buf.WriteFormatted(v.Bool(), "", nil)
	case slog.KindDuration:
		fprintStd(buf, strconv.Quote(v.Duration().String()))
	case slog.KindTime:
		fprintStd(buf, strconv.Quote(v.Time().String()))
	case slog.KindAny:
		switch cv := v.Any().(type) {
		case slog.Level:
			h.appendLevel(buf, cv)
		case encoding.TextMarshaler:
			if data, err := cv.MarshalText(); err == nil {
				fprintStd(buf, strconv.Quote(string(data)))
			}
		case *slog.Source:
			h.appendSource(buf, cv)
		case []byte:
			fprintStd(buf, strconv.Quote(string(cv)))
		default:
			t := reflect.TypeOf(cv)
			if t != nil && t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
				fprintStd(buf, strconv.Quote(string(reflect.ValueOf(cv).Bytes())))
			} else {
				buf.WriteByte('"')
				buf.WriteFormatted(cv, "", nil)
				buf.WriteByte('"')
			}
		}
	}
}

// appendError writes key="message". A template fault also gets an excerpt
// attribute with the offending character highlighted.
func (h *Handler) appendError(buf *textbuf.Buffer, err error, attrKey, groupsPrefix string) {
	appendAutoQuote(buf, fprintAttrError, groupsPrefix+attrKey)
	fprintAttrError(buf, "=")
	fprintStd(buf, strconv.Quote(err.Error()))

	var fe *textbuf.FormatError
	if !errors.As(err, &fe) {
		return
	}
	buf.WriteByte(' ')
	appendAutoQuote(buf, fprintAttrError, groupsPrefix+attrKey+".excerpt")
	fprintAttrError(buf, "=")

	ex, off := fe.Excerpt, fe.Offset()
	buf.WriteByte('"')
	buf.WriteString(quoteBody(ex[:off]))
	if off < len(ex) {
		_, size := utf8.DecodeRuneInString(ex[off:])
		fprintHighlight(buf, quoteBody(ex[off:off+size]))
		buf.WriteString(quoteBody(ex[off+size:]))
	}
	buf.WriteByte('"')
}

func (h *Handler) appendSource(buf *textbuf.Buffer, src *slog.Source) {
	dir, file := filepath.Split(src.File)
	fprintAttr(buf, filepath.Join(filepath.Base(dir), file), ":", strconv.Itoa(src.Line))
}

type fprintFunc func(w io.Writer, a ...interface{})

// quoteBody is strconv.Quote without the surrounding quotes.
func quoteBody(s string) string {
	q := strconv.Quote(s)
	return q[1 : len(q)-1]
}

// appendAutoQuote quotes s only if it has spaces, quotes, '=' or
// unprintable characters.
func appendAutoQuote(buf *textbuf.Buffer, fprint fprintFunc, s string) {
	if needsQuotes(s) {
		fprint(buf, strconv.Quote(s))
	} else {
		fprint(buf, s)
	}
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if unicode.IsSpace(r) || r == '"' || r == '=' || !unicode.IsPrint(r) {
			return true
		}
	}
	return false
}

// ParseLevel accepts debug, info, warn or error (any case).
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}
