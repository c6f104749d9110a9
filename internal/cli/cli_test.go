package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/refit/internal/cli"
	"github.com/yaklabco/refit/pkg/document"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "test", Commit: "test", Date: "test"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)
	assert.Equal(t, "refit", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"apply", "offer", "providers", "init", "mcp", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestApplyCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	apply, _, err := cmd.Find([]string{"apply"})
	require.NoError(t, err)

	for _, name := range []string{
		"at", "select", "provider", "option", "dry-run", "format",
		"flavor", "jobs", "no-backups", "no-context", "compact",
	} {
		assert.NotNil(t, apply.Flags().Lookup(name), "flag %q", name)
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag %q", name)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2024-01-01"})
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "1.2.3")
	assert.Contains(t, out.String(), "abc123")
}

func TestHelpListsFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"apply", "--help"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())
	help := out.String()
	assert.Contains(t, help, "Usage:")
	assert.Contains(t, help, "refit apply <file>...")
	assert.Contains(t, help, "-p, --provider string")
	assert.Contains(t, help, "--format string")
	assert.Contains(t, help, "(default text)")
	assert.Contains(t, help, "Global Flags:")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cli.ExitSuccess, cli.ExitCode(nil))
	assert.Equal(t, cli.ExitInternalError, cli.ExitCode(errors.New("boom")))
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(errors.New(`unknown command "x" for "refit"`)))
}

func resultWith(targets ...runner.TargetOutcome) *runner.Result {
	result := &runner.Result{Files: []runner.FileOutcome{{Path: "a.go", Targets: targets}}}
	for _, t := range targets {
		result.Stats.Targets++
		switch {
		case t.Error != nil:
			result.Stats.Failed++
		case t.Applied():
			result.Stats.Applied++
		default:
			result.Stats.Declined++
		}
	}
	return result
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	applied := runner.TargetOutcome{Outcome: &refactor.Outcome{Provider: "p"}}
	declined := runner.TargetOutcome{Outcome: &refactor.Outcome{Declined: true}}
	failed := func(err error) runner.TargetOutcome {
		return runner.TargetOutcome{Error: fmt.Errorf("a.go: %w", err)}
	}

	tests := []struct {
		name   string
		result *runner.Result
		want   int
	}{
		{name: "nil", result: nil, want: cli.ExitSuccess},
		{name: "applied", result: resultWith(applied), want: cli.ExitSuccess},
		{name: "some declined", result: resultWith(applied, declined), want: cli.ExitSuccess},
		{name: "all declined", result: resultWith(declined, declined), want: cli.ExitDeclined},
		{name: "unknown provider", result: resultWith(failed(refactor.ErrUnknownProvider)), want: cli.ExitInvalidUsage},
		{name: "disabled provider", result: resultWith(failed(runner.ErrProviderDisabled)), want: cli.ExitInvalidUsage},
		{name: "bad position", result: resultWith(failed(document.ErrPosition)), want: cli.ExitInvalidUsage},
		{
			name:   "missing file",
			result: resultWith(failed(&fs.PathError{Op: "open", Path: "a.go", Err: fs.ErrNotExist})),
			want:   cli.ExitIOError,
		},
		{name: "stale", result: resultWith(failed(refactor.ErrStaleSnapshot)), want: cli.ExitStale},
		{name: "engine failure", result: resultWith(failed(refactor.ErrInvalidAction)), want: cli.ExitInternalError},
		{
			name:   "lowest failure wins",
			result: resultWith(failed(refactor.ErrStaleSnapshot), failed(refactor.ErrProvider), applied),
			want:   cli.ExitInternalError,
		},
		{
			name:   "failure beats decline",
			result: resultWith(declined, failed(refactor.ErrStaleSnapshot)),
			want:   cli.ExitStale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCodeFromResult(tt.result))
		})
	}
}
