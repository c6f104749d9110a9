package document

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yaklabco/refit/pkg/fix"
	"github.com/yaklabco/refit/pkg/fsutil"
	"github.com/yaklabco/refit/pkg/refactor"
)

// FileOptions controls how a File writes committed changes.
type FileOptions struct {
	// DryRun keeps changes in memory and never touches the disk.
	DryRun bool

	// Backup configures the sidecar backup taken before the first write.
	Backup fsutil.BackupConfig
}

// File is a Buffer backed by a file on disk. Every commit is written
// through atomically, after checking that nobody else changed the file.
type File struct {
	*Buffer

	opts     FileOptions
	original string

	mu   sync.Mutex
	info *fsutil.FileInfo
}

// OpenFile reads path into a new File.
func OpenFile(ctx context.Context, path string, opts FileOptions) (*File, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return &File{
		Buffer:   NewBuffer(path, string(content)),
		opts:     opts,
		original: string(content),
		info:     info,
	}, nil
}

// Path returns the file path.
func (f *File) Path() string { return f.uri }

// Original returns the content the file had when it was opened.
func (f *File) Original() string { return f.original }

// Changed reports whether any commit changed the content.
func (f *File) Changed() bool { return f.Content() != f.original }

// Commit writes the edited content to disk and commits it to the buffer
// as one step: the buffer stays locked from the version check until the
// new text is visible, so a racing Replace sees either both or neither.
// A file changed on disk since it was read yields refactor.ErrStaleSnapshot.
func (f *File) Commit(ctx context.Context, base int64, edits []fix.TextEdit) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.opts.DryRun {
		return f.Buffer.Commit(ctx, base, edits)
	}

	return f.commit(ctx, base, edits, func(next []byte) error {
		return f.write(ctx, next)
	})
}

// write replaces the file with next after checking it was not changed by
// anyone else. f.mu must be held.
func (f *File) write(ctx context.Context, next []byte) error {
	modified, err := fsutil.CheckModified(ctx, f.info)
	if err != nil {
		return err
	}
	if modified {
		return fmt.Errorf("%w: %s changed on disk", refactor.ErrStaleSnapshot, f.uri)
	}
	if _, err := fsutil.CreateBackup(ctx, f.uri, f.opts.Backup); err != nil {
		return err
	}

	info, err := fsutil.Replace(ctx, f.info, next)
	if errors.Is(err, fsutil.ErrModified) {
		return fmt.Errorf("%w: %w", refactor.ErrStaleSnapshot, err)
	}
	if err != nil {
		return err
	}
	f.info = info
	return nil
}

// Diff compares the original content with the current one.
func (f *File) Diff() *fix.Diff {
	return fix.GenerateDiff(f.uri, []byte(f.original), []byte(f.Content()))
}

var _ refactor.Document = (*File)(nil)
