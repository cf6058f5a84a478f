package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/gesquive/textbuf"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newSplitCmd(a *app) *cobra.Command {
	var (
		sep         string
		trim        bool
		removeEmpty bool
	)
	splitCmd := &cobra.Command{
		Use:   "split [TEXT]",
		Short: "Split text around a separator",
		Long: `Split TEXT, or stdin when TEXT is absent, around each match of the
separator and print every entry with its byte range. Escapes such as \n,
\r\n and \t are understood in --sep.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts textbuf.SplitOptions
			if trim {
				opts |= textbuf.TrimEntries
			}
			if removeEmpty {
				opts |= textbuf.RemoveEmptyEntries
			}
			return a.runSplit(args, unescape(sep), opts)
		},
	}
	splitCmd.Flags().StringVar(&sep, "sep", ",", "separator")
	splitCmd.Flags().BoolVar(&trim, "trim", false, "trim white space around entries")
	splitCmd.Flags().BoolVar(&removeEmpty, "remove-empty", false, "drop empty entries")
	return splitCmd
}

func (a *app) runSplit(args []string, sep string, opts textbuf.SplitOptions) error {
	b, err := a.source(args)
	if err != nil {
		return err
	}
	defer b.Free()

	line := textbuf.New()
	defer line.Free()
	count := 0
	for r, s := range b.SplitWith(sep, opts, a.cfg.Comparer()).All() {
		line.Reset()
		if err := line.Format("{0}..{1}\t{2:%q}", r.Start, r.End, textbuf.Value(s)); err != nil {
			return err
		}
		a.printer.Info("%s", line.String())
		count++
	}
	a.logger.Debug("split", "separator", sep, "entries", count)
	return nil
}

// source loads the single TEXT argument, or stdin without one.
func (a *app) source(args []string) (*textbuf.Buffer, error) {
	b := textbuf.New()
	if len(args) > 0 {
		b.WriteString(args[0])
		return b, nil
	}
	if f, ok := a.in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		b.Free()
		return nil, errors.New("no TEXT given and stdin is a terminal")
	}
	if _, err := b.ReadFrom(a.in); err != nil {
		b.Free()
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return b, nil
}

func unescape(s string) string {
	if u, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return u
	}
	return s
}
