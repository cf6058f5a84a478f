package console

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gesquive/textbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrinter(level Level) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	stdOut := new(bytes.Buffer)
	stdErr := new(bytes.Buffer)
	p := NewPrinter()
	p.SetPrintLevel(level)
	p.SetOutputWriter(stdOut)
	p.SetErrorWriter(stdErr)
	return p, stdOut, stdErr
}

func TestColorPrint(t *testing.T) {
	p, _, stdErr := newTestPrinter(LevelError)
	SetColor(true)
	defer SetColor(false)

	p.Error("error")

	assert.NotEqual(t, "error\n", stdErr.String(), "Error is incorrect")
	assert.True(t, strings.Contains(stdErr.String(), "error"), "Error is not found in output")
	assert.True(t, len(stdErr.String()) > 6, "Error length is incorrect")
}

func TestPrintLevels(t *testing.T) {
	SetColor(false)
	for _, test := range []struct {
		level   Level
		wantOut string
		wantErr string
	}{
		{LevelDebug, "debug\ninfo\nwarn\n", "error\n"},
		{LevelInfo, "info\nwarn\n", "error\n"},
		{LevelWarn, "warn\n", "error\n"},
		{LevelError, "", "error\n"},
		{LevelFatal, "", ""},
	} {
		p, stdOut, stdErr := newTestPrinter(test.level)
		p.Debug("debug")
		p.Info("info")
		p.Warn("warn")
		p.Error("error")

		assert.Equal(t, test.wantOut, stdOut.String(), "Output is incorrect at level %d", test.level)
		assert.Equal(t, test.wantErr, stdErr.String(), "Error is incorrect at level %d", test.level)
	}
}

func TestFatalExits(t *testing.T) {
	SetColor(false)
	p, _, stdErr := newTestPrinter(LevelInfo)
	code := -1
	p.exit = func(c int) { code = c }

	p.Fatal("fatal %d", 7)
	assert.Equal(t, 1, code)
	assert.Equal(t, "fatal 7\n", stdErr.String())
}

func TestPrintfVariants(t *testing.T) {
	SetColor(false)
	p, stdOut, stdErr := newTestPrinter(LevelDebug)

	p.Debugf("debug ")
	p.Infof("info ")
	p.Warnf("warn ")
	p.Errorf("error")

	assert.Equal(t, "debug info warn ", stdOut.String(), "Output is incorrect")
	assert.Equal(t, "error", stdErr.String(), "Error is incorrect")
}

func TestPrintlnVariants(t *testing.T) {
	SetColor(false)
	p, stdOut, stdErr := newTestPrinter(LevelDebug)

	p.Debugln("debug")
	p.Infoln("info", 2)
	p.Warnln("warn")
	p.Errorln("error")

	assert.Equal(t, "debug\ninfo 2\nwarn\n", stdOut.String(), "Output is incorrect")
	assert.Equal(t, "error\n", stdErr.String(), "Error is incorrect")
}

func TestFailure(t *testing.T) {
	SetColor(false)
	p, stdOut, stdErr := newTestPrinter(LevelInfo)

	_, err := textbuf.Format("total: {0,5}", 3)
	require.Error(t, err)
	p.Failure(fmt.Errorf("format: %w", err))

	lines := strings.Split(stdErr.String(), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "format: "+err.Error(), lines[0])
	assert.Equal(t, "  total: {0,5}", lines[1])
	assert.Equal(t, strings.Repeat(" ", 2+9)+"^", lines[2])
	assert.Empty(t, stdOut.String())
}

func TestFailurePlainError(t *testing.T) {
	SetColor(false)
	p, _, stdErr := newTestPrinter(LevelInfo)
	p.Failure(errors.New("plain"))
	p.Failure(nil)
	assert.Equal(t, "plain\n", stdErr.String())
}

func TestLevelOf(t *testing.T) {
	assert.Equal(t, LevelDebug, LevelOf(-8))
	assert.Equal(t, LevelDebug, LevelOf(-4))
	assert.Equal(t, LevelInfo, LevelOf(0))
	assert.Equal(t, LevelWarn, LevelOf(4))
	assert.Equal(t, LevelError, LevelOf(8))
	assert.Equal(t, LevelError, LevelOf(12))
}
