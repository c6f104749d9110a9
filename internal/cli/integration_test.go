package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/refit/internal/cli"
	_ "github.com/yaklabco/refit/pkg/providers/golang"
	_ "github.com/yaklabco/refit/pkg/providers/markdown"
	"github.com/yaklabco/refit/pkg/reporter"
)

const goFunc = `package main

func f(a, b int) bool {
	x := a + 1
	y := b * 2
	return x < y
}
`

const goFuncWithoutY = `package main

func f(a, b int) bool {
	x := a + 1
	return x < y
}
`

// execute runs the root command with a minimal explicit config.
func execute(t *testing.T, configYAML string, args ...string) (string, string, error) {
	t.Helper()

	cfgFile := filepath.Join(t.TempDir(), "refit.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(configYAML), 0o644))

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", cfgFile}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestIntegration_Apply(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "main.go", goFunc)

	stdout, _, err := execute(t, "flavor: gfm\n",
		"apply", path, "--at", "5:2", "--provider", "delete-statement")
	require.NoError(t, err)

	assert.Equal(t, goFuncWithoutY, readFile(t, path))
	assert.Contains(t, stdout, "applied")
	assert.Contains(t, stdout, "delete-statement")
	assert.Contains(t, stdout, "1 applied in 1 file, 1 modified")
}

func TestIntegration_ApplyFirstAcceptingProvider(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "README.md", "# Title\n\nText\n")

	stdout, _, err := execute(t, "flavor: gfm\n", "apply", path, "--at", "1:3")
	require.NoError(t, err)

	assert.Equal(t, "## Heading\n\n# Title\n\nText\n", readFile(t, path))
	assert.Contains(t, stdout, "insert-heading-before")
}

func TestIntegration_ApplyOptions(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "README.md", "Text\n")

	_, _, err := execute(t, "flavor: gfm\n",
		"apply", path, "--at", "1:1", "--provider", "insert-heading-before",
		"--option", "level=3", "--option", "text=Override")
	require.NoError(t, err)

	assert.Equal(t, "### Override\n\nText\n", readFile(t, path))
}

func TestIntegration_ApplyConfiguredOptions(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "README.md", "Text\n")
	cfg := `providers:
  insert-heading-before:
    options:
      level: 4
      text: Configured
`

	_, _, err := execute(t, cfg, "apply", path, "--at", "1:1", "--provider", "insert-heading-before")
	require.NoError(t, err)

	assert.Equal(t, "#### Configured\n\nText\n", readFile(t, path))
}

func TestIntegration_ApplyManyTargets(t *testing.T) {
	t.Parallel()

	first := writeFile(t, "a.go", goFunc)
	second := writeFile(t, "b.go", goFunc)

	// Positions refer to the files as they are before the run.
	_, _, err := execute(t, "",
		"apply", first, second, "--at", "4:2", "--at", "5:2", "--provider", "delete-statement", "--jobs", "2")
	require.NoError(t, err)

	want := "package main\n\nfunc f(a, b int) bool {\n\treturn x < y\n}\n"
	assert.Equal(t, want, readFile(t, first))
	assert.Equal(t, want, readFile(t, second))
}

func TestIntegration_DryRunDiff(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "main.go", goFunc)

	stdout, _, err := execute(t, "",
		"apply", path, "--at", "5:2", "--provider", "delete-statement", "--dry-run", "--format", "diff")
	require.NoError(t, err)

	assert.Equal(t, goFunc, readFile(t, path), "dry run must not write")
	assert.Contains(t, stdout, "diff --git")
	assert.Contains(t, stdout, "-\ty := b * 2\n")
	assert.Contains(t, stdout, "1 file changed, 1 deletion(-)")
}

func TestIntegration_JSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "main.go", goFunc)

	stdout, _, err := execute(t, "",
		"apply", path, "--at", "5:2", "--provider", "delete-statement", "--format", "json")
	require.NoError(t, err)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &output))
	require.Len(t, output.Files, 1)
	file := output.Files[0]
	assert.True(t, file.Modified)
	assert.True(t, file.Written)
	require.Len(t, file.Targets, 1)
	assert.Equal(t, "applied", file.Targets[0].Status)
	assert.Equal(t, "delete-statement", file.Targets[0].Provider)
	assert.Equal(t, 1, output.Summary.Applied)
}

func TestIntegration_TableFormat(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "main.go", goFunc)

	stdout, _, err := execute(t, "jobs: 1\n",
		"apply", path, "--at", "5:2", "--provider", "delete-statement", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, stdout, "PROVIDER")
	assert.Contains(t, stdout, "1 applied")
}

func TestIntegration_ExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   string
		args     func(path string) []string
		want     int
		sentinel error
	}{
		{
			name:     "declined",
			args:     func(p string) []string { return []string{"apply", p, "--at", "1:1", "--provider", "wrap-in-if"} },
			want:     cli.ExitDeclined,
			sentinel: cli.ErrNothingApplied,
		},
		{
			name:     "unknown provider",
			args:     func(p string) []string { return []string{"apply", p, "--at", "4:2", "--provider", "nope"} },
			want:     cli.ExitInvalidUsage,
			sentinel: cli.ErrTargetsFailed,
		},
		{
			name:   "disabled provider",
			config: "providers:\n  delete-statement:\n    enabled: false\n",
			args: func(p string) []string {
				return []string{"apply", p, "--at", "4:2", "--provider", "delete-statement"}
			},
			want:     cli.ExitInvalidUsage,
			sentinel: cli.ErrTargetsFailed,
		},
		{
			name:     "position out of range",
			args:     func(p string) []string { return []string{"apply", p, "--at", "90:1"} },
			want:     cli.ExitInvalidUsage,
			sentinel: cli.ErrTargetsFailed,
		},
		{
			name: "missing file",
			args: func(p string) []string {
				return []string{"apply", filepath.Join(filepath.Dir(p), "gone.go"), "--at", "1:1"}
			},
			want:     cli.ExitIOError,
			sentinel: cli.ErrTargetsFailed,
		},
		{
			name: "no position",
			args: func(p string) []string { return []string{"apply", p} },
			want: cli.ExitInvalidUsage,
		},
		{
			name: "malformed position",
			args: func(p string) []string { return []string{"apply", p, "--at", "five"} },
			want: cli.ExitInvalidUsage,
		},
		{
			name: "malformed selection",
			args: func(p string) []string { return []string{"apply", p, "--select", "4:2"} },
			want: cli.ExitInvalidUsage,
		},
		{
			name: "no files",
			args: func(string) []string { return []string{"apply", "--at", "1:1"} },
			want: cli.ExitInvalidUsage,
		},
		{
			name: "unknown flag",
			args: func(p string) []string { return []string{"apply", p, "--fix"} },
			want: cli.ExitInvalidUsage,
		},
		{
			name: "unknown format",
			args: func(p string) []string { return []string{"apply", p, "--at", "4:2", "--format", "sarif"} },
			want: cli.ExitConfigError,
		},
		{
			name:   "invalid config",
			config: "flavor: klingon\n",
			args:   func(p string) []string { return []string{"apply", p, "--at", "4:2"} },
			want:   cli.ExitConfigError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, "main.go", goFunc)
			_, _, err := execute(t, tt.config, tt.args(path)...)
			require.Error(t, err)
			assert.Equal(t, tt.want, cli.ExitCode(err), "error: %v", err)
			if tt.sentinel != nil {
				assert.True(t, errors.Is(err, tt.sentinel), "error: %v", err)
			}
			assert.Equal(t, goFunc, readFile(t, path))
		})
	}
}

func TestIntegration_Offer(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "README.md", "# Title\n\nText\n")

	stdout, _, err := execute(t, "", "offer", path, "--at", "1:3")
	require.NoError(t, err)
	assert.Contains(t, stdout, "insert-heading-before")
	assert.Contains(t, stdout, "remove-block")
	assert.NotContains(t, stdout, "delete-statement")

	stdout, _, err = execute(t, "", "offer", path, "--at", "1:3", "--format", "json")
	require.NoError(t, err)

	var entries []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	require.NotEmpty(t, entries)
	assert.Equal(t, "insert-heading-before", entries[0].ID)

	assert.Equal(t, "# Title\n\nText\n", readFile(t, path))
}

func TestIntegration_OfferErrors(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "README.md", "# Title\n")

	_, _, err := execute(t, "", "offer", path)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	_, _, err = execute(t, "", "offer", path, "--at", "7:1")
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	_, _, err = execute(t, "", "offer", path+".missing", "--at", "1:1")
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(err))

	_, _, err = execute(t, "", "offer", path, "--at", "1:1", "--format", "table")
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestIntegration_Providers(t *testing.T) {
	t.Parallel()

	cfg := "providers:\n  remove-block:\n    enabled: false\n"

	stdout, _, err := execute(t, cfg, "providers")
	require.NoError(t, err)
	assert.Contains(t, stdout, "PRIORITY")
	assert.Contains(t, stdout, "wrap-in-if")
	assert.Contains(t, stdout, "remove-block")

	stdout, _, err = execute(t, cfg, "providers", "--format", "json")
	require.NoError(t, err)

	var infos []struct {
		ID        string   `json:"id"`
		Languages []string `json:"languages"`
		Enabled   bool     `json:"enabled"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))

	enabled := make(map[string]bool, len(infos))
	for _, info := range infos {
		enabled[info.ID] = info.Enabled
		assert.NotEmpty(t, info.Languages, info.ID)
	}
	assert.False(t, enabled["remove-block"])
	assert.True(t, enabled["wrap-in-if"])
	assert.True(t, enabled["insert-heading-before"])
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), ".refit.yml")

	_, _, err := execute(t, "", "init", "--output", out)
	require.NoError(t, err)

	content := readFile(t, out)
	assert.Contains(t, content, "flavor: gfm")
	assert.Contains(t, content, "providers:")
	assert.Contains(t, content, "  wrap-in-if:")
	assert.Contains(t, content, "  insert-heading-before:")

	_, _, err = execute(t, "", "init", "--output", out)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
	assert.Contains(t, err.Error(), "--force")

	_, _, err = execute(t, "", "init", "--output", out, "--force", "--minimal")
	require.NoError(t, err)
	assert.NotContains(t, readFile(t, out), "  wrap-in-if:\n    enabled")

	// The generated file is a valid configuration.
	path := writeFile(t, "main.go", goFunc)
	_, _, err = execute(t, readFile(t, out), "apply", path, "--at", "5:2", "--provider", "delete-statement")
	require.NoError(t, err)
	assert.False(t, strings.Contains(readFile(t, path), "y := b * 2"))
}
