package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/refit/internal/ui/pretty"
	"github.com/yaklabco/refit/pkg/config"
	"github.com/yaklabco/refit/pkg/refactor"
)

const formatJSON = "json"

// providerInfo represents a provider in JSON output.
type providerInfo struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Icon      string   `json:"icon"`
	Languages []string `json:"languages"`
	Priority  int      `json:"priority"`
	Enabled   bool     `json:"enabled"`
}

func newProvidersCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List available refactoring providers",
		Long: `List every registered provider with its languages, effective priority
and whether the configuration enables it. Providers are listed in the order
"refit apply" tries them.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			tc, err := newToolchain(cmd, &config.Config{})
			if err != nil {
				return err
			}
			providers := tc.catalog.Providers()
			out := cmd.OutOrStdout()

			if format == formatJSON {
				return outputProvidersJSON(out, tc.catalog, tc.cfg, providers)
			}

			colorMode, _ := cmd.Flags().GetString("color")
			styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))
			table := pretty.NewTableFormatter(styles, pretty.TerminalWidth(out))
			if _, err := io.WriteString(out, table.FormatProviders(providerRows(tc.catalog, tc.cfg, providers))); err != nil {
				return withExitCode(ExitIOError, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

// providerRows describes providers for the table formatter.
func providerRows(catalog *refactor.Catalog, cfg *config.Config, providers []refactor.Provider) []pretty.ProviderRow {
	rows := make([]pretty.ProviderRow, 0, len(providers))
	for _, p := range providers {
		priority, _ := catalog.Priority(p.ID())
		rows = append(rows, pretty.ProviderRow{
			ID:        p.ID(),
			Title:     p.Title(),
			Languages: p.Languages(),
			Priority:  priority,
			Enabled:   cfg.ProviderEnabled(p.ID()),
		})
	}
	return rows
}

// outputProvidersJSON writes providers as a JSON array.
func outputProvidersJSON(w io.Writer, catalog *refactor.Catalog, cfg *config.Config, providers []refactor.Provider) error {
	infos := make([]providerInfo, 0, len(providers))
	for _, row := range providerRows(catalog, cfg, providers) {
		p, _ := catalog.Get(row.ID)
		infos = append(infos, providerInfo{
			ID:        row.ID,
			Title:     row.Title,
			Icon:      p.IconID(),
			Languages: row.Languages,
			Priority:  row.Priority,
			Enabled:   row.Enabled,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("encoding providers: %w", err))
	}
	return nil
}
