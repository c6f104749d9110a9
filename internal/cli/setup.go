package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/refit/internal/configloader"
	"github.com/yaklabco/refit/internal/logging"
	"github.com/yaklabco/refit/pkg/config"
	"github.com/yaklabco/refit/pkg/format"
	"github.com/yaklabco/refit/pkg/parser"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/runner"
)

// toolchain bundles everything a command needs to refactor files.
type toolchain struct {
	cfg     *config.Config
	workDir string
	catalog *refactor.Catalog
	runner  *runner.Runner
}

// commandContext returns the command's context, or a background context.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the layered configuration with cliCfg on top.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", withExitCode(ExitInvalidUsage, fmt.Errorf("get config flag: %w", err))
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", withExitCode(ExitIOError, fmt.Errorf("get working directory: %w", err))
	}

	loaded, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", withExitCode(ExitConfigError, fmt.Errorf("load configuration: %w", err))
	}

	for _, warning := range loaded.Warnings {
		logger.Warn(warning)
	}
	if len(loaded.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldConfigFile, loaded.LoadedFrom)
	}
	logger.Debug("configuration resolved",
		logging.FieldFlavor, loaded.Config.Flavor,
		logging.FieldDryRun, loaded.Config.DryRun,
		logging.FieldJobs, loaded.Config.Jobs,
	)

	return loaded.Config, workDir, nil
}

// newToolchain loads the configuration and builds the engine around the
// default catalog.
func newToolchain(cmd *cobra.Command, cliCfg *config.Config) (*toolchain, error) {
	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return nil, err
	}
	return buildToolchain(cfg, workDir, refactor.DefaultCatalog), nil
}

// buildToolchain wires parser, formatter, engine and runner for cfg.
// Configured priorities are applied to catalog.
func buildToolchain(cfg *config.Config, workDir string, catalog *refactor.Catalog) *toolchain {
	for id, pc := range cfg.Providers {
		if pc.Priority != nil {
			catalog.SetPriority(id, *pc.Priority)
		}
	}

	engine := refactor.NewEngine(
		refactor.WithFormatter(format.NewIndenter(cfg.FormatOptions())),
		refactor.WithJobs(cfg.Jobs),
	)
	return &toolchain{
		cfg:     cfg,
		workDir: workDir,
		catalog: catalog,
		runner:  runner.New(engine, parser.NewDefault(string(cfg.Flavor)), catalog),
	}
}
