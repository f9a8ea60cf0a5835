package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"

	apierrors "salesdash/internal/errors"
)

// fileKey identifies a particular version of the file on disk
type fileKey struct {
	path    string
	size    int64
	modTime int64
}

// Store memoizes the cleaned dataset per file version. It re-reads the
// file only when size or modification time change, and collapses
// concurrent loads of the same version into one read.
type Store struct {
	loader *Loader
	logger *slog.Logger

	group singleflight.Group

	mu     sync.RWMutex
	key    fileKey
	cached *Dataset
}

// NewStore creates a store backed by the given loader
func NewStore(loader *Loader, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{loader: loader, logger: logger}
}

// Get returns the cleaned dataset for path, reading the file only when
// its on-disk version differs from the cached one.
func (s *Store) Get(ctx context.Context, path string) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, apierrors.DataUnavailableError(path, err)
	}

	key := fileKey{path: path, size: info.Size(), modTime: info.ModTime().UnixNano()}

	s.mu.RLock()
	if s.cached != nil && s.key == key {
		ds := s.cached
		s.mu.RUnlock()
		return ds, nil
	}
	s.mu.RUnlock()

	flightKey := fmt.Sprintf("%s|%d|%d", key.path, key.size, key.modTime)
	v, err, shared := s.group.Do(flightKey, func() (interface{}, error) {
		ds, err := s.loader.Load(ctx, path)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.key = key
		s.cached = ds
		s.mu.Unlock()

		return ds, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		s.logger.DebugContext(ctx, "dataset load shared between callers",
			slog.String("path", path))
	}

	return v.(*Dataset), nil
}

// Invalidate drops the cached dataset, forcing the next Get to re-read
// the file.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.key = fileKey{}
	s.mu.Unlock()
}
