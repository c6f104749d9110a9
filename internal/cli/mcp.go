package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/refit/internal/logging"
	"github.com/yaklabco/refit/internal/mcpserver"
	"github.com/yaklabco/refit/pkg/config"
)

func newMCPCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve refactorings to MCP clients over stdio",
		Long: `Start a Model Context Protocol server on stdin and stdout.

The server offers two tools:
  list_refactorings   providers that apply at a position
  apply_refactoring   apply a provider and return the outcome and diff

Relative paths are resolved against the directory the server starts in.
Logs go to stderr.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			tc, err := newToolchain(cmd, &config.Config{})
			if err != nil {
				return err
			}

			level := "info"
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				level = "debug"
			}

			srv := mcpserver.New(mcpserver.Options{
				Runner:     tc.runner,
				Catalog:    tc.catalog,
				Config:     tc.cfg,
				WorkingDir: tc.workDir,
				Version:    info.Version,
				Logger:     logging.NewWithWriter(cmd.ErrOrStderr(), level),
			})
			if err := srv.ServeStdio(); err != nil {
				return withExitCode(ExitIOError, err)
			}
			return nil
		},
	}
}
