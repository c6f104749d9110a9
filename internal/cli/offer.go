package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/refit/internal/ui/pretty"
	"github.com/yaklabco/refit/pkg/config"
	"github.com/yaklabco/refit/pkg/document"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/runner"
)

type offerFlags struct {
	at        string
	selection string
	format    string
}

// offerEntry is the JSON form of an offered provider.
type offerEntry struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Icon     string `json:"icon"`
	Priority int    `json:"priority"`
}

func newOfferCommand() *cobra.Command {
	flags := &offerFlags{}

	cmd := &cobra.Command{
		Use:   "offer <file>",
		Short: "List the refactorings available at a position",
		Long: `List the enabled providers that accept a position, in the order
"refit apply" would try them. The file is never modified.

Examples:
  refit offer main.go --at 12:5
  refit offer main.go --select 10:2-14:3
  refit offer README.md --at 1:1 --format json`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOffer(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.at, "at", "", "caret position LINE:COLUMN")
	cmd.Flags().StringVar(&flags.selection, "select", "", "selection LINE:COLUMN-LINE:COLUMN")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text or json")

	return cmd
}

func runOffer(cmd *cobra.Command, path string, flags *offerFlags) error {
	if flags.format != "text" && flags.format != "json" {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("invalid format %q: must be text or json", flags.format))
	}

	target, err := offerTarget(path, flags)
	if err != nil {
		return withExitCode(ExitInvalidUsage, err)
	}

	tc, err := newToolchain(cmd, &config.Config{})
	if err != nil {
		return err
	}

	offered, err := tc.runner.Offer(commandContext(cmd), target, runner.Options{Config: tc.cfg})
	if err != nil {
		return withExitCode(errorCode(err), err)
	}

	out := cmd.OutOrStdout()
	if flags.format == "json" {
		return writeOffers(out, tc.catalog, offered)
	}

	if len(offered) == 0 {
		if _, err := fmt.Fprintln(out, "No refactorings available"); err != nil {
			return withExitCode(ExitIOError, err)
		}
		return nil
	}

	colorMode, _ := cmd.Flags().GetString("color")
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))
	table := pretty.NewTableFormatter(styles, pretty.TerminalWidth(out))
	if _, err := io.WriteString(out, table.FormatProviders(providerRows(tc.catalog, tc.cfg, offered))); err != nil {
		return withExitCode(ExitIOError, err)
	}
	return nil
}

func offerTarget(path string, flags *offerFlags) (runner.Target, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return runner.Target{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	target := runner.Target{Path: abs}

	switch {
	case flags.selection != "":
		start, end, err := document.ParseRange(flags.selection)
		if err != nil {
			return runner.Target{}, fmt.Errorf("--select: %w", err)
		}
		target.At, target.End = start, &end
	case flags.at != "":
		pos, err := document.ParsePosition(flags.at)
		if err != nil {
			return runner.Target{}, fmt.Errorf("--at: %w", err)
		}
		target.At = pos
	default:
		return runner.Target{}, errNoTargets
	}
	return target, nil
}

func writeOffers(w io.Writer, catalog *refactor.Catalog, offered []refactor.Provider) error {
	entries := make([]offerEntry, 0, len(offered))
	for _, p := range offered {
		priority, _ := catalog.Priority(p.ID())
		entries = append(entries, offerEntry{
			ID:       p.ID(),
			Title:    p.Title(),
			Icon:     p.IconID(),
			Priority: priority,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(entries); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("encode offers: %w", err))
	}
	return nil
}
