package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/refit/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates file with default mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "new.txt")
		require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("hello"), 0))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(got))
	})

	t.Run("overwrites and leaves no temp files", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "old")
		require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("new"), 0o600))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(got))

		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nope", "file.txt")
		require.Error(t, fsutil.WriteAtomic(ctx, path, []byte("x"), 0))
	})
}

func TestReplace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unchanged file is replaced", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "a\n")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		next, err := fsutil.Replace(ctx, info, []byte("b\n"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), next.Size)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "b\n", string(got))

		modified, err := fsutil.CheckModified(ctx, next)
		require.NoError(t, err)
		assert.False(t, modified)
	})

	t.Run("external change is not overwritten", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "a\n")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte("edited elsewhere\n"), 0o600))

		_, err = fsutil.Replace(ctx, info, []byte("b\n"))
		require.ErrorIs(t, err, fsutil.ErrModified)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "edited elsewhere\n", string(got))
	})
}

func FuzzWriteAtomic(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("hello\nworld\n"))
	f.Add([]byte("\x00\x01\x02"))

	f.Fuzz(func(t *testing.T, content []byte) {
		path := filepath.Join(t.TempDir(), "fuzz.txt")
		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, content, 0))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})
}
