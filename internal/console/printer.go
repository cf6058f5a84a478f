package console

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/gesquive/textbuf"
	"github.com/mattn/go-colorable"
)

// SprintfYellow creates a yellow formatted string
var SprintfYellow = color.New(color.FgHiYellow).SprintfFunc()

// SprintfBlue creates a blue formatted string
var SprintfBlue = color.New(color.FgHiBlue).SprintfFunc()

// SprintfRed creates a red formatted string
var SprintfRed = color.New(color.FgHiRed).SprintfFunc()

var fprintCaret = color.New(color.FgHiRed, color.Bold).FprintFunc()

// Print levels go in order: Debug, Info, Warn, Error, Fatal
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// LevelOf maps a slog level onto the nearest print level.
func LevelOf(l slog.Level) Level {
	switch {
	case l < slog.LevelInfo:
		return LevelDebug
	case l < slog.LevelWarn:
		return LevelInfo
	case l < slog.LevelError:
		return LevelWarn
	}
	return LevelError
}

// Printer writes leveled, colored messages. Debug, info and warn go to the
// output writer; error and fatal go to the error writer.
type Printer struct {
	mu    sync.Mutex
	level Level
	out   io.Writer
	err   io.Writer
	exit  func(int)
}

// NewPrinter returns a Printer at LevelInfo writing to colorable stdout and stderr.
func NewPrinter() *Printer {
	return &Printer{
		level: LevelInfo,
		out:   colorable.NewColorableStdout(),
		err:   colorable.NewColorableStderr(),
		exit:  os.Exit,
	}
}

// SetPrintLevel allows you to set the level to print, by default LevelInfo is set
func (p *Printer) SetPrintLevel(level Level) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

// SetOutputWriter allows you to set the output writer for debug, info, and warn messages
func (p *Printer) SetOutputWriter(w io.Writer) {
	p.mu.Lock()
	p.out = w
	p.mu.Unlock()
}

// SetErrorWriter allows you to set the output writer for error and fatal messages
func (p *Printer) SetErrorWriter(w io.Writer) {
	p.mu.Lock()
	p.err = w
	p.mu.Unlock()
}

// SetColor sets the color status. True for color, False for no color
func SetColor(colorOn bool) {
	color.NoColor = !colorOn
}

// Debug prints a formatted debug level message with a newline appended
func (p *Printer) Debug(format string, a ...interface{}) {
	p.print(LevelDebug, SprintfBlue(format, a...), true)
}

// Info prints a formatted info level message with a newline appended
func (p *Printer) Info(format string, a ...interface{}) {
	p.print(LevelInfo, fmt.Sprintf(format, a...), true)
}

// Warn prints a formatted warning level message with a newline appended
func (p *Printer) Warn(format string, a ...interface{}) {
	p.print(LevelWarn, SprintfYellow(format, a...), true)
}

// Error prints a formatted error level message with a newline appended
func (p *Printer) Error(format string, a ...interface{}) {
	p.print(LevelError, SprintfRed(format, a...), true)
}

// Fatal prints a formatted fatal level message with a newline appended and exits with status 1
func (p *Printer) Fatal(format string, a ...interface{}) {
	p.print(LevelFatal, SprintfRed(format, a...), true)
	p.exit(1)
}

// Debugf prints a formatted debug level message
func (p *Printer) Debugf(format string, a ...interface{}) {
	p.print(LevelDebug, SprintfBlue(format, a...), false)
}

// Infof prints a formatted info level message
func (p *Printer) Infof(format string, a ...interface{}) {
	p.print(LevelInfo, fmt.Sprintf(format, a...), false)
}

// Warnf prints a formatted warning level message
func (p *Printer) Warnf(format string, a ...interface{}) {
	p.print(LevelWarn, SprintfYellow(format, a...), false)
}

// Errorf prints a formatted error level message
func (p *Printer) Errorf(format string, a ...interface{}) {
	p.print(LevelError, SprintfRed(format, a...), false)
}

// Debugln prints a debug level message with a newline appended
func (p *Printer) Debugln(a ...interface{}) {
	p.print(LevelDebug, SprintfBlue("%s", fmt.Sprintln(a...)), false)
}

// Infoln prints an info level message with a newline appended
func (p *Printer) Infoln(a ...interface{}) {
	p.print(LevelInfo, fmt.Sprintln(a...), false)
}

// Warnln prints a warning level message with a newline appended
func (p *Printer) Warnln(a ...interface{}) {
	p.print(LevelWarn, SprintfYellow("%s", fmt.Sprintln(a...)), false)
}

// Errorln prints an error level message with a newline appended
func (p *Printer) Errorln(a ...interface{}) {
	p.print(LevelError, SprintfRed("%s", fmt.Sprintln(a...)), false)
}

// Failure prints err at error level. Template faults also get the excerpt
// with a caret under the offending character.
func (p *Printer) Failure(err error) {
	if err == nil {
		return
	}
	p.print(LevelError, SprintfRed("%s", err.Error()), true)

	var fe *textbuf.FormatError
	if !errors.As(err, &fe) {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if LevelError < p.level {
		return
	}
	b := textbuf.New()
	defer b.Free()
	b.WriteString("  ")
	b.WriteString(fe.Excerpt)
	b.WriteString("\n  ")
	for i := utf8.RuneCountInString(fe.Excerpt[:fe.Offset()]); i > 0; i-- {
		b.WriteByte(' ')
	}
	fprintCaret(b, "^")
	b.WriteByte('\n')
	b.WriteTo(p.err)
}

func (p *Printer) print(level Level, message string, newline bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if level < p.level {
		return
	}
	w := p.out
	if level >= LevelError {
		w = p.err
	}
	b := textbuf.New()
	defer b.Free()
	b.WriteString(message)
	if newline {
		b.WriteByte('\n')
	}
	b.WriteTo(w)
}
