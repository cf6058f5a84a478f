package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/gesquive/textbuf/internal/console"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	configFile string
	cfg        *Config
	printer    *console.Printer
	logger     *slog.Logger
	in         io.Reader
	errOut     io.Writer
}

// newRootCmd builds the command tree. Nil writers fall back to the
// colorable terminal streams, a nil reader to stdin.
func newRootCmd(out, errOut io.Writer, in io.Reader) (*cobra.Command, *app) {
	a := &app{printer: console.NewPrinter(), in: in, errOut: errOut}
	if out != nil {
		a.printer.SetOutputWriter(out)
	}
	if errOut != nil {
		a.printer.SetErrorWriter(errOut)
	} else {
		a.errOut = colorable.NewColorableStderr()
	}
	if in == nil {
		a.in = os.Stdin
	}

	rootCmd := &cobra.Command{
		Use:           "textbuf",
		Short:         "Format, split and replace text with pooled buffers",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (yaml, toml or json)")
	flags.String("locale", "und", "BCP 47 locale for N/P formats and culture comparisons")
	flags.String("comparison", "ordinal", "ordinal, ordinal-ignore-case, culture, culture-ignore-case, invariant or invariant-ignore-case")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.Bool("no-color", false, "disable colored output")

	rootCmd.AddCommand(newFormatCmd(a), newSplitCmd(a), newReplaceCmd(a))
	return rootCmd, a
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := LoadConfig(viper.New(), cmd.Flags(), a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.NoColor {
		console.SetColor(false)
	}
	a.printer.SetPrintLevel(min(console.LevelOf(cfg.level), console.LevelInfo))
	a.logger = slog.New(console.NewHandler(a.errOut, &console.HandlerOptions{
		Level:   cfg.level,
		NoColor: cfg.NoColor,
	}))
	a.logger.Debug("config loaded",
		"locale", cfg.Locale,
		"comparison", cfg.Comparison,
		"config", a.configFile)
	return nil
}

// Execute runs the command line and exits with status 1 on failure.
func Execute() {
	rootCmd, a := newRootCmd(nil, nil, nil)
	if err := rootCmd.Execute(); err != nil {
		a.printer.Failure(err)
		os.Exit(1)
	}
}
