package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newReplaceCmd(a *app) *cobra.Command {
	var (
		old   string
		repl  string
		limit int
	)
	replaceCmd := &cobra.Command{
		Use:   "replace --old OLD --new NEW [TEXT]",
		Short: "Replace every match of OLD with NEW",
		Long: `Replace matches of OLD in TEXT, or stdin when TEXT is absent, and print
the result. Matching follows --comparison.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReplace(args, unescape(old), unescape(repl), limit)
		},
	}
	replaceCmd.Flags().StringVar(&old, "old", "", "text to replace (required)")
	replaceCmd.Flags().StringVar(&repl, "new", "", "replacement text")
	replaceCmd.Flags().IntVarP(&limit, "count", "n", -1, "replace at most this many matches (-1 for all)")
	replaceCmd.MarkFlagRequired("old")
	return replaceCmd
}

func (a *app) runReplace(args []string, old, repl string, limit int) error {
	b, err := a.source(args)
	if err != nil {
		return err
	}
	defer b.Free()

	n, err := b.ReplaceN(old, repl, a.cfg.Comparer(), limit)
	if err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	a.logger.Debug("replaced", "count", n, "comparison", a.cfg.Comparison)

	if !strings.HasSuffix(b.String(), "\n") {
		b.WriteByte('\n')
	}
	a.printer.Infof("%s", b.String())
	return nil
}
