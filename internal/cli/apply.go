package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yaklabco/refit/internal/logging"
	"github.com/yaklabco/refit/pkg/config"
	"github.com/yaklabco/refit/pkg/document"
	"github.com/yaklabco/refit/pkg/reporter"
	"github.com/yaklabco/refit/pkg/runner"
)

// errNoTargets is returned when neither --at nor --select is given.
var errNoTargets = errors.New("no target position; use --at or --select")

type applyFlags struct {
	at        []string
	selection string
	provider  string
	options   map[string]string
	format    string
	flavor    string
	noContext bool
	compact   bool
}

func newApplyCommand() *cobra.Command {
	var cfg config.Config
	flags := &applyFlags{}

	cmd := &cobra.Command{
		Use:   "apply <file>...",
		Short: "Apply a refactoring at a position",
		Long:  applyLongDescription,
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args, &cfg, flags)
		},
	}

	addApplyFlags(cmd, &cfg, flags)

	return cmd
}

const applyLongDescription = `Apply a refactoring to one or more files.

Each --at position is a target in every file. Without --provider the first
enabled provider that accepts the position is used, in priority order.
Targets of one file are applied in order, each against the file as left by
the previous one. Files are processed in parallel.

Positions are 1-based LINE:COLUMN pairs; columns count characters.

Examples:
  refit apply main.go --at 12:5                      # first provider that applies
  refit apply main.go --at 12:5 --provider wrap-in-if
  refit apply README.md --at 3:1 --provider insert-heading-before --option level=3
  refit apply main.go --select 10:2-14:3 --provider wrap-in-if
  refit apply main.go --at 12:5 --dry-run --format diff`

func runApply(cmd *cobra.Command, args []string, cfg *config.Config, flags *applyFlags) error {
	logger := logging.Default()

	if cmd.Flags().Changed("format") {
		cfg.Output = config.OutputFormat(flags.format)
	}
	if cmd.Flags().Changed("flavor") {
		cfg.Flavor = config.Flavor(flags.flavor)
	}

	targets, err := buildTargets(args, flags)
	if err != nil {
		return withExitCode(ExitInvalidUsage, err)
	}

	tc, err := newToolchain(cmd, cfg)
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(tc.cfg.Output))
	if err != nil {
		return withExitCode(ExitInvalidUsage, err)
	}

	logger.Debug("starting run",
		logging.FieldTargets, len(targets),
		logging.FieldWorkingDir, tc.workDir,
		logging.FieldJobs, tc.cfg.Jobs,
	)

	ctx := logging.WithLogger(commandContext(cmd), logger)
	result, err := tc.runner.Run(ctx, targets, runner.Options{
		Jobs:   tc.cfg.Jobs,
		Config: tc.cfg,
	})
	if err != nil {
		return withExitCode(ExitInternalError, err)
	}

	logger.Debug("run finished",
		logging.FieldApplied, result.Stats.Applied,
		logging.FieldFailed, result.Stats.Failed,
		logging.FieldModified, result.Stats.FilesModified,
		logging.FieldDuration, result.Duration,
	)
	logOutcomes(ctx, result)

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		Compact:     flags.compact,
		WorkingDir:  tc.workDir,
	})
	if err != nil {
		return withExitCode(ExitInvalidUsage, err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("report results: %w", err))
	}

	return resultError(result)
}

// logOutcomes writes one debug line per target.
func logOutcomes(ctx context.Context, result *runner.Result) {
	for _, file := range result.Files {
		logger := logging.FromContext(logging.With(ctx, logging.FieldPath, file.Path))
		if file.Error != nil {
			logger.Debug("file failed", logging.FieldError, file.Error)
			continue
		}
		for _, target := range file.Targets {
			switch {
			case target.Error != nil:
				logger.Debug("target failed",
					logging.FieldPosition, target.Target.At,
					logging.FieldProvider, target.Target.Provider,
					logging.FieldError, target.Error,
				)
			case target.Applied():
				logger.Debug("target applied",
					logging.FieldPosition, target.Target.At,
					logging.FieldProvider, target.Outcome.Provider,
					logging.FieldActions, target.Outcome.Actions,
					logging.FieldEdits, len(target.Outcome.Edits),
					logging.FieldVersion, target.Outcome.Version,
					logging.FieldSelection, target.Outcome.Selection,
				)
			default:
				logger.Debug("target declined",
					logging.FieldPosition, target.Target.At,
					logging.FieldDeclined, true,
				)
			}
		}
	}
}

// buildTargets expands files and positions into runner targets: every
// --at position in every file, then the --select range.
func buildTargets(paths []string, flags *applyFlags) ([]runner.Target, error) {
	if len(flags.at) == 0 && flags.selection == "" {
		return nil, errNoTargets
	}

	options, err := parseOptions(flags.options)
	if err != nil {
		return nil, err
	}

	positions := make([]document.Position, 0, len(flags.at))
	for _, s := range flags.at {
		pos, err := document.ParsePosition(s)
		if err != nil {
			return nil, fmt.Errorf("--at: %w", err)
		}
		positions = append(positions, pos)
	}

	var selStart, selEnd document.Position
	if flags.selection != "" {
		selStart, selEnd, err = document.ParseRange(flags.selection)
		if err != nil {
			return nil, fmt.Errorf("--select: %w", err)
		}
	}

	var targets []runner.Target
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		for _, pos := range positions {
			targets = append(targets, runner.Target{
				Path:     abs,
				At:       pos,
				Provider: flags.provider,
				Options:  options,
			})
		}
		if flags.selection != "" {
			end := selEnd
			targets = append(targets, runner.Target{
				Path:     abs,
				At:       selStart,
				End:      &end,
				Provider: flags.provider,
				Options:  options,
			})
		}
	}
	return targets, nil
}

// parseOptions converts key=value flags to provider options. Values that
// look like integers or booleans are converted.
func parseOptions(raw map[string]string) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	opts := make(map[string]any, len(raw))
	for key, value := range raw {
		if key == "" {
			return nil, fmt.Errorf("--option: empty key in %q", "="+value)
		}
		opts[key] = optionValue(value)
	}
	return opts, nil
}

func optionValue(value string) any {
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}

func addApplyFlags(cmd *cobra.Command, cfg *config.Config, flags *applyFlags) {
	cmd.Flags().StringArrayVar(&flags.at, "at", nil, "caret position LINE:COLUMN (repeatable)")
	cmd.Flags().StringVar(&flags.selection, "select", "", "selection LINE:COLUMN-LINE:COLUMN")
	cmd.Flags().StringVarP(&flags.provider, "provider", "p", "", "provider ID (default: first that applies)")
	cmd.Flags().StringToStringVarP(&flags.options, "option", "o", nil, "provider option key=value (repeatable)")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "compute changes without writing files")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json, diff")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "gfm", "Markdown flavor: commonmark, gfm")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide the line the caret landed on")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
}
