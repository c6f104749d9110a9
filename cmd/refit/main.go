// Package main is the entry point for the refit CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/refit/internal/cli"
	"github.com/yaklabco/refit/internal/logging"

	// Register the built-in providers via init().
	_ "github.com/yaklabco/refit/pkg/providers/golang"
	_ "github.com/yaklabco/refit/pkg/providers/markdown"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		// Outcomes were already reported; these only pick the exit code.
		if !errors.Is(err, cli.ErrNothingApplied) && !errors.Is(err, cli.ErrTargetsFailed) {
			logging.Default().Error("command failed", logging.FieldError, err)
		}
		return cli.ExitCode(err)
	}

	return cli.ExitSuccess
}
