package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FileStore keeps the recipe blob in a local text file.
// Replace writes a sibling temp file and renames it over the original, so
// readers see either the old or the new content.
type FileStore struct {
	path   string
	mode   os.FileMode
	logger *zap.Logger

	mu       sync.Mutex
	lastSeen fileStamp
}

type fileStamp struct {
	size    int64
	modTime time.Time
}

// NewFileStore creates a file-backed store. The file is created lazily.
func NewFileStore(path string, mode os.FileMode, logger *zap.Logger) *FileStore {
	if mode == 0 {
		mode = 0o644
	}
	return &FileStore{
		path:   path,
		mode:   mode,
		logger: logger.Named("recipe-file"),
	}
}

// Path returns the file location
func (s *FileStore) Path() string {
	return s.path
}

// Read returns the file content. A missing file reads as empty.
func (s *FileStore) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return data, nil
}

// Append adds data to the end of the file, creating it when missing
func (s *FileStore) Append(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, s.mode)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	s.remember()
	return nil
}

// Replace atomically overwrites the file
func (s *FileStore) Replace(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, s.mode); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("rename over %s: %w", s.path, err)
	}
	s.remember()
	return nil
}

// Describe names the backend
func (s *FileStore) Describe() string {
	return "file:" + s.path
}

// ChangedExternally reports whether the file differs from what this store
// last wrote
func (s *FileStore) ChangedExternally() bool {
	current, ok := stat(s.path)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		return s.lastSeen != (fileStamp{})
	}
	changed := current != s.lastSeen
	s.lastSeen = current
	return changed
}

func (s *FileStore) remember() {
	stamp, ok := stat(s.path)
	if !ok {
		return
	}
	s.mu.Lock()
	s.lastSeen = stamp
	s.mu.Unlock()
}

func stat(path string) (fileStamp, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, false
	}
	return fileStamp{size: info.Size(), modTime: info.ModTime()}, true
}
