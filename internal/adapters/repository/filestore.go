package repository

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/respiview/respiview/internal/domain/model"
	"github.com/respiview/respiview/pkg/logger"
)

// FileStore persists the game history as a single JSON array file. Every
// mutation rewrites the whole file, matching the read-full/overwrite-full
// contract of the browser-local store it replaces.
type FileStore struct {
	path string
	mem  *MemStore
	log  logger.Logger
}

// NewFileStore opens or creates the store at path. A malformed file is
// logged and treated as an empty store rather than an error.
func NewFileStore(ctx context.Context, path string, opts ...FileOption) (*FileStore, error) {
	s := &FileStore{path: path, mem: NewMemStore()}
	for _, opt := range opts {
		opt(s)
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First run; nothing to load.
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	default:
		if _, importErr := s.mem.Import(ctx, string(data)); importErr != nil {
			if s.log != nil {
				s.log.Warn(ctx, "game store file is malformed; starting empty",
					logger.String("path", path),
					logger.Error(importErr),
				)
			}
		}
	}
	return s, nil
}

func (s *FileStore) persist(ctx context.Context) error {
	data, err := s.mem.Export(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := os.WriteFile(s.path, []byte(data), 0o600); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// All returns every stored record in insertion order.
func (s *FileStore) All(ctx context.Context) ([]model.GameRecord, error) {
	return s.mem.All(ctx)
}

// Get returns the record with the given id.
func (s *FileStore) Get(ctx context.Context, id string) (model.GameRecord, error) {
	return s.mem.Get(ctx, id)
}

// Save upserts a record and rewrites the file.
func (s *FileStore) Save(ctx context.Context, rec model.GameRecord) error {
	if err := s.mem.Save(ctx, rec); err != nil {
		return err
	}
	return s.persist(ctx)
}

// Delete removes a record and rewrites the file.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := s.mem.Delete(ctx, id); err != nil {
		return err
	}
	return s.persist(ctx)
}

// Clear removes every record and rewrites the file.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := s.mem.Clear(ctx); err != nil {
		return err
	}
	return s.persist(ctx)
}

// Export renders the full store as a JSON array string.
func (s *FileStore) Export(ctx context.Context) (string, error) {
	return s.mem.Export(ctx)
}

// Import replaces the store contents and rewrites the file.
func (s *FileStore) Import(ctx context.Context, data string) (int, error) {
	n, err := s.mem.Import(ctx, data)
	if err != nil {
		return 0, err
	}
	if err := s.persist(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

// Count returns the number of stored records.
func (s *FileStore) Count(ctx context.Context) int {
	return s.mem.Count(ctx)
}
