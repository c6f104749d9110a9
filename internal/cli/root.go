// Package cli provides the Cobra command structure for refit.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/refit/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root refit command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "refit",
		Short: "Apply structural refactorings to Go and Markdown files",
		Long: `refit applies refactorings at a caret position or selection.

A refactoring is planned by a provider as edits against the syntax tree.
refit compiles the plan to text edits, reindents inserted code to match its
surroundings and projects the caret into the result. Edits are checked for
conflicts and committed atomically; a file that changed meanwhile is never
overwritten.`,
		Version: info.Version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withExitCode(ExitInvalidUsage, err)
	})

	// Add subcommands.
	rootCmd.AddCommand(newApplyCommand())
	rootCmd.AddCommand(newOfferCommand())
	rootCmd.AddCommand(newProvidersCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newMCPCommand(info))
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// usageArgs marks argument validation errors as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return withExitCode(ExitInvalidUsage, validate(cmd, args))
	}
}
