package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/refit/internal/configloader"
	"github.com/yaklabco/refit/internal/logging"
	"github.com/yaklabco/refit/pkg/config"
	"github.com/yaklabco/refit/pkg/refactor"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force   bool
	minimal bool
	output  string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new refit configuration file",
		Long: `Create a new .refit.yml configuration file in the current directory.
The file lists every registered provider so it can be disabled, reordered
or given default options.

Examples:
  refit init                       Create .refit.yml with all providers
  refit init --minimal             Create .refit.yml without the provider list
  refit init --output custom.yml   Write to a custom file path`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags, refactor.DefaultCatalog)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.minimal, "minimal", false, "omit the provider list")
	cmd.Flags().StringVar(&flags.output, "output", configloader.ProjectConfigName, "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags, catalog *refactor.Catalog) error {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")
	if configloader.IsInteractive() {
		logger = logging.NewInteractive("info")
	}

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("resolve path: %w", err))
	}

	var opts config.TemplateOptions
	if !flags.minimal {
		for _, p := range catalog.Providers() {
			priority, _ := catalog.Priority(p.ID())
			opts.Providers = append(opts.Providers, config.ProviderInfo{
				ID:        p.ID(),
				Title:     p.Title(),
				Priority:  priority,
				Languages: p.Languages(),
			})
		}
	}

	if err := configloader.WriteConfig(absPath, config.GenerateTemplate(opts), flags.force); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return withExitCode(ExitInvalidUsage,
				fmt.Errorf("file %q already exists; use --force to overwrite", flags.output))
		}
		return withExitCode(ExitIOError, err)
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	if !flags.minimal {
		logger.Info("listed providers", "count", len(opts.Providers))
	}
	logger.Info("run 'refit providers' to see the effective provider order")

	return nil
}
