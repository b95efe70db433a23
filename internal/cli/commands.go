package cli

import (
	"github.com/spf13/cobra"

	"github.com/vk/varcar/internal/app"
)

func newValidateCommand(state *runState) *cobra.Command {
	var opts app.ValidateOptions
	var watch bool

	cmd := &cobra.Command{
		Use:   "validate DOCUMENT",
		Short: "Check every alias chain of the selected collections",
		Args:  cobra.ExactArgs(1),
	}
	format := formatFlag(cmd)
	f := cmd.Flags()
	f.StringArrayVarP(&opts.Collections, "collection", "c", nil, "Collection to validate (repeatable). Defaults to the rules' list.")
	f.BoolVar(&opts.AllModes, "all-modes", false, "Check every mode instead of the first one.")
	f.StringVar(&opts.HistoryPath, "record", "", "Record the run into this history database and report regressions.")
	f.BoolVar(&watch, "watch", false, "Revalidate whenever the document changes.")
	f.BoolVar(&opts.NoFail, "no-fail", false, "Exit 0 even when problems are found.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var err error
		if opts.Format, err = format(); err != nil {
			return err
		}
		opts.Document = args[0]
		if watch {
			return state.app.Watch(cmd.Context(), opts)
		}
		return state.app.Validate(cmd.Context(), opts)
	}
	return cmd
}

func newRepairCommand(state *runState) *cobra.Command {
	var opts app.RepairOptions

	cmd := &cobra.Command{
		Use:   "repair DOCUMENT",
		Short: "Replace white placeholders and external references with palette colors",
		Args:  cobra.ExactArgs(1),
	}
	format := formatFlag(cmd)
	f := cmd.Flags()
	f.StringVarP(&opts.Palette, "palette", "p", "", "Palette document mapping families to OKLCH steps.")
	f.StringVarP(&opts.Output, "out", "o", "", "Where to write the repaired document. Defaults to DOCUMENT.")
	f.BoolVar(&opts.Backup, "backup", false, "Copy DOCUMENT to <name>_backup_<timestamp>.json before writing.")
	f.BoolVar(&opts.DryRun, "dry-run", false, "Report what would change without writing.")
	f.BoolVar(&opts.SkipWhite, "skip-white", false, "Leave white placeholders alone.")
	f.BoolVar(&opts.SkipExternal, "skip-external", false, "Leave external references alone.")
	_ = cmd.MarkFlagRequired("palette")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var err error
		if opts.Format, err = format(); err != nil {
			return err
		}
		opts.Document = args[0]
		return state.app.Repair(cmd.Context(), opts)
	}
	return cmd
}

func newTraceCommand(state *runState) *cobra.Command {
	var opts app.TraceOptions

	cmd := &cobra.Command{
		Use:   "trace DOCUMENT NAME_OR_ID",
		Short: "Show every hop of a variable's alias chain per mode",
		Args:  cobra.ExactArgs(2),
	}
	format := formatFlag(cmd)
	f := cmd.Flags()
	f.StringVarP(&opts.Collection, "collection", "c", "", "Collection to look the name up in.")
	f.StringVarP(&opts.Mode, "mode", "m", "", "Only trace this mode id or name.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var err error
		if opts.Format, err = format(); err != nil {
			return err
		}
		opts.Document, opts.Variable = args[0], args[1]
		return state.app.Trace(cmd.Context(), opts)
	}
	return cmd
}

func newReportCommand(state *runState) *cobra.Command {
	var opts app.ReportOptions

	cmd := &cobra.Command{
		Use:   "report DOCUMENT",
		Short: "Write a Markdown report of the document",
		Args:  cobra.ExactArgs(1),
	}
	f := cmd.Flags()
	f.StringVarP(&opts.Palette, "palette", "p", "", "Palette document for swatches and closest steps.")
	f.StringVarP(&opts.Output, "out", "o", "", "Write the report here instead of stdout.")
	f.BoolVar(&opts.Render, "render", false, "Render the Markdown for the terminal.")
	f.IntVar(&opts.Width, "width", 0, "Wrap width for --render. Defaults to $COLUMNS or 100.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts.Document = args[0]
		if opts.Width == 0 {
			opts.Width = terminalWidth()
		}
		return state.app.Report(cmd.Context(), opts)
	}
	return cmd
}

func newConvertCommand(state *runState) *cobra.Command {
	var paletteURI string

	cmd := &cobra.Command{
		Use:   "convert OKLCH...",
		Short: "Convert OKLCH colors to sRGB",
		Example: `  varcar convert "oklch(50% 0.1 180)"
  varcar convert --palette palette.json "oklch(30% 0.1 270)"`,
		Args: cobra.MinimumNArgs(1),
	}
	format := formatFlag(cmd)
	cmd.Flags().StringVarP(&paletteURI, "palette", "p", "", "Also print the closest step of this palette.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		f, err := format()
		if err != nil {
			return err
		}
		return state.app.Convert(cmd.Context(), args, paletteURI, f)
	}
	return cmd
}

func newInspectCommand(state *runState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect DOCUMENT",
		Short: "Print collection and color-family statistics",
		Args:  cobra.ExactArgs(1),
	}
	format := formatFlag(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		f, err := format()
		if err != nil {
			return err
		}
		return state.app.Inspect(cmd.Context(), args[0], f)
	}
	return cmd
}

func newHistoryCommand(state *runState) *cobra.Command {
	var opts app.HistoryOptions

	cmd := &cobra.Command{
		Use:   "history DATABASE",
		Short: "List recorded validation runs and flag regressions",
		Args:  cobra.ExactArgs(1),
	}
	format := formatFlag(cmd)
	f := cmd.Flags()
	f.IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of runs to list. 0 lists all.")
	f.StringVar(&opts.Document, "document", "", "Only list runs of this document.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var err error
		if opts.Format, err = format(); err != nil {
			return err
		}
		opts.Path = args[0]
		return state.app.History(cmd.Context(), opts)
	}
	return cmd
}
