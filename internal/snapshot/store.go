package snapshot

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/system"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = stderrors.New("no saved snapshot")

// Store saves and loads snapshots.
type Store interface {
	Save(ctx context.Context, s Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
	Close() error
}

// FileStore keeps the latest snapshot in one JSON file.
type FileStore struct {
	path string
	fs   system.FileSystem
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store writing to path. A nil fsys uses the OS.
func NewFileStore(path string, fsys system.FileSystem) *FileStore {
	if fsys == nil {
		fsys = system.DefaultFS()
	}
	return &FileStore{path: path, fs: fsys}
}

// Path returns the snapshot file location.
func (f *FileStore) Path() string { return f.path }

// Save replaces the snapshot file atomically.
func (f *FileStore) Save(_ context.Context, s Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return errors.PersistenceFailed("save", err)
	}
	if err := system.WriteFileAtomic(f.fs, f.path, data, 0644); err != nil {
		return errors.PersistenceFailed("save", err)
	}
	return nil
}

// Load reads the snapshot file.
func (f *FileStore) Load(_ context.Context) (Snapshot, error) {
	data, err := f.fs.ReadFile(f.path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return Snapshot{}, errors.PersistenceFailed("load", fmt.Errorf("%s: %w", f.path, ErrNotFound))
		}
		return Snapshot{}, errors.PersistenceFailed("load", err)
	}
	s, err := Decode(data)
	if err != nil {
		return Snapshot{}, errors.PersistenceFailed("load", err)
	}
	return s, nil
}

// Close is a no-op.
func (f *FileStore) Close() error { return nil }
