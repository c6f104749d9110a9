package fix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/refit/pkg/fix"
)

func TestGenerateDiff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		original  string
		modified  string
		wantNil   bool
		additions int
		deletions int
		hunks     int
	}{
		{name: "both empty", wantNil: true},
		{name: "identical", original: "a\nb\n", modified: "a\nb\n", wantNil: true},
		{name: "single change", original: "a\nb\nc\n", modified: "a\nx\nc\n", additions: 1, deletions: 1, hunks: 1},
		{name: "insert line", original: "a\nc\n", modified: "a\nb\nc\n", additions: 1, hunks: 1},
		{name: "delete line", original: "a\nb\nc\n", modified: "a\nc\n", deletions: 1, hunks: 1},
		{
			name:      "distant changes split hunks",
			original:  "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n",
			modified:  "X\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\nY\n",
			additions: 2,
			deletions: 2,
			hunks:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diff := fix.GenerateDiff("doc.go", []byte(tt.original), []byte(tt.modified))
			if tt.wantNil {
				assert.Nil(t, diff)
				assert.False(t, diff.HasChanges())
				return
			}

			require.NotNil(t, diff)
			assert.True(t, diff.HasChanges())
			assert.Equal(t, tt.additions, diff.Additions)
			assert.Equal(t, tt.deletions, diff.Deletions)
			assert.Len(t, diff.Hunks, tt.hunks)

			for _, hunk := range diff.Hunks {
				var ctx, add, rem int
				for _, line := range hunk.Lines {
					switch line.Kind {
					case fix.DiffLineContext:
						ctx++
					case fix.DiffLineAdd:
						add++
					case fix.DiffLineRemove:
						rem++
					}
				}
				assert.Equal(t, hunk.OriginalCount, ctx+rem)
				assert.Equal(t, hunk.ModifiedCount, ctx+add)
			}
		})
	}
}

func TestDiff_String(t *testing.T) {
	t.Parallel()

	diff := fix.GenerateDiff("/src/doc.go", []byte("a\nb\n"), []byte("a\nc\n"))
	require.NotNil(t, diff)

	want := "--- a/src/doc.go\n+++ b/src/doc.go\n@@ -1,2 +1,2 @@\n a\n-b\n+c\n"
	assert.Equal(t, want, diff.String())
	assert.Equal(t, "diff --git a/src/doc.go b/src/doc.go\n"+want, diff.FullString())
}

func TestUnified(t *testing.T) {
	t.Parallel()

	out, err := fix.Unified("doc.md", "a\nb\n", "a\nc\n")
	require.NoError(t, err)
	assert.Contains(t, out, "--- a/doc.md")
	assert.Contains(t, out, "+++ b/doc.md")
	assert.Contains(t, out, "-b\n")
	assert.Contains(t, out, "+c\n")

	out, err = fix.Unified("doc.md", "same\n", "same\n")
	require.NoError(t, err)
	assert.Empty(t, out)
}
