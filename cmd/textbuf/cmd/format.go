package cmd

import (
	"fmt"
	"strconv"

	"github.com/gesquive/textbuf"
	"github.com/spf13/cobra"
)

func newFormatCmd(a *app) *cobra.Command {
	var list bool
	formatCmd := &cobra.Command{
		Use:   "format TEMPLATE [ARG...]",
		Short: "Render a {index[:format]} template",
		Long: `Render a composite template. Holes are written {index} or {index:format};
braces are escaped by doubling them. Arguments that parse as integers or
floats are passed as numbers, so numeric formats such as X8, D4, F2, E3,
N or P apply to them.`,
		Example: `  textbuf format "{0} and {1:X}" 5 255
  textbuf --locale en format "{0:N2}" 1234567
  textbuf format --list "[{0: | }]" a b c`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFormat(args[0], args[1:], list)
		},
	}
	formatCmd.Flags().BoolVar(&list, "list", false, "pass all arguments as one sequence in {0}")
	return formatCmd
}

func (a *app) runFormat(template string, raw []string, list bool) error {
	args := make([]any, len(raw))
	for i, s := range raw {
		args[i] = parseArg(s)
	}
	if list {
		args = []any{textbuf.SequenceOf(args)}
	}

	b := textbuf.New()
	defer b.Free()
	if err := b.FormatLocale(a.cfg.locale, template, args...); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	a.logger.Debug("formatted", "template", template, "args", len(args), "bytes", b.Len())
	a.printer.Info("%s", b.String())
	return nil
}

// parseArg turns a command line argument into an int64, a float64 or text.
func parseArg(s string) any {
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
