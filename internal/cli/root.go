package cli

import (
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vk/varcar/internal/app"
	"github.com/vk/varcar/internal/report"
	"github.com/vk/varcar/internal/source"
)

// Version is set at build time.
var Version = "dev"

// runState is shared by the commands of one tree.
type runState struct {
	app     *app.App
	started bool

	logFormat string
	logLevel  string
	rules     []string
}

func newRootCommand(outW, errW io.Writer) (*cobra.Command, *runState) {
	state := &runState{}

	root := &cobra.Command{
		Use:   "varcar",
		Short: "Validate and repair design-token alias chains",
		Long: `varcar validates the alias chains of a design-token variables export,
repairs white placeholders and external references with palette colors, and
reports on the document.

Documents, palettes and outputs may be local paths or s3://bucket/key URIs.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Cobra checks required flags after this hook; check them here so
			// they are reported as usage errors.
			if err := cmd.ValidateRequiredFlags(); err != nil {
				return usageError(err)
			}
			cfg, err := app.NewConfig(app.Config{
				LogFormat:  state.logFormat,
				LogLevel:   state.logLevel,
				RulesPaths: state.rules,
				S3:         source.S3ConfigFromEnv(),
			})
			if err != nil {
				return usageError(err)
			}
			state.app = app.NewApp(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg)
			state.started = true
			state.app.Logger().Debug("CLI parameter validation complete.", "command", cmd.Name())
			return nil
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&state.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&state.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringArrayVar(&state.rules, "rules", nil, "Rules file or directory of .hcl files merged over the built-in rules (repeatable).")

	root.AddCommand(
		newValidateCommand(state),
		newRepairCommand(state),
		newTraceCommand(state),
		newReportCommand(state),
		newConvertCommand(state),
		newInspectCommand(state),
		newHistoryCommand(state),
	)
	return root, state
}

// formatFlag registers --format on cmd and returns the parser for it.
func formatFlag(cmd *cobra.Command) func() (report.Format, error) {
	var value string
	cmd.Flags().StringVarP(&value, "format", "f", "text", "Output format. Options: 'text', 'json' or 'yaml'.")
	return func() (report.Format, error) {
		f, err := report.ParseFormat(value)
		if err != nil {
			return "", usageError(err)
		}
		return f, nil
	}
}

// terminalWidth returns $COLUMNS when set to a positive number.
func terminalWidth() int {
	w, err := strconv.Atoi(os.Getenv("COLUMNS"))
	if err != nil || w <= 0 {
		return 0
	}
	return w
}
