package fsutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is used for new files when no mode is known.
const DefaultFileMode os.FileMode = 0o644

// WriteAtomic replaces path with content through a temp file in the same
// directory and a rename. A failed write leaves path untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	done := false
	defer func() {
		if !done {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode.Perm()); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	done = true
	return nil
}

// Replace writes content over the file described by info, provided the
// file is unchanged since info was taken. It returns the state of the new
// file. An external change yields ErrModified and nothing is written.
func Replace(ctx context.Context, info *FileInfo, content []byte) (*FileInfo, error) {
	modified, err := CheckModified(ctx, info)
	if err != nil {
		return nil, err
	}
	if modified {
		return nil, fmt.Errorf("%w: %s", ErrModified, info.Path)
	}

	if err := WriteAtomic(ctx, info.Path, content, info.Mode); err != nil {
		return nil, err
	}

	stat, err := os.Stat(info.Path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", info.Path, err)
	}
	return infoFor(info.Path, stat, content), nil
}
