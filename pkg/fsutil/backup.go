package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// BackupMode selects where backups go.
type BackupMode string

const (
	// BackupModeSidecar keeps the backup next to the file, with BackupSuffix.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeNone disables backups.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is appended to sidecar backups.
const BackupSuffix = ".refit.bak"

// BackupConfig controls backups.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// DefaultBackupConfig has backups off.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{Mode: BackupModeSidecar}
}

// Active reports whether the config produces backups.
func (c BackupConfig) Active() bool {
	return c.Enabled && c.Mode != BackupModeNone
}

// BackupPath returns where the backup of path lives, or "" for
// BackupModeNone. Unknown modes behave like BackupModeSidecar.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// CreateBackup copies path to its backup location. An existing backup is
// never overwritten, so the first backup keeps the content from before any
// refactoring. It reports whether a backup was written.
func CreateBackup(ctx context.Context, path string, cfg BackupConfig) (bool, error) {
	if !cfg.Active() {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}

	backup := BackupPath(path, cfg.Mode)
	if _, err := os.Stat(backup); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat backup: %w", err)
	}

	content, info, err := ReadFile(ctx, path)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read original for backup: %w", err)
	}

	if err := WriteAtomic(ctx, backup, content, info.Mode); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}

// RestoreBackup copies the backup of path back over it. It reports whether
// a backup existed.
func RestoreBackup(ctx context.Context, path string, mode BackupMode) (bool, error) {
	backup := BackupPath(path, mode)
	if backup == "" {
		return false, nil
	}

	content, info, err := ReadFile(ctx, backup)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read backup: %w", err)
	}

	if err := WriteAtomic(ctx, path, content, info.Mode); err != nil {
		return false, fmt.Errorf("restore from backup: %w", err)
	}
	return true, nil
}

// RemoveBackup deletes the backup of path. It reports whether one existed.
func RemoveBackup(path string, mode BackupMode) (bool, error) {
	backup := BackupPath(path, mode)
	if backup == "" {
		return false, nil
	}

	err := os.Remove(backup)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove backup: %w", err)
	}
	return true, nil
}

// BackupExists reports whether path has a backup.
func BackupExists(path string, mode BackupMode) bool {
	backup := BackupPath(path, mode)
	if backup == "" {
		return false
	}
	_, err := os.Stat(backup)
	return err == nil
}
