package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/respiview/respiview/internal/domain/model"
	"github.com/respiview/respiview/pkg/metrics"
)

// MemStore is the in-memory Store implementation. It keeps insertion order so
// exports are stable, and overwrites in place on id collisions.
type MemStore struct {
	mu    sync.RWMutex
	byID  map[string]model.GameRecord
	order []string
}

// NewMemStore creates an empty in-memory game store.
func NewMemStore() *MemStore {
	return &MemStore{byID: make(map[string]model.GameRecord)}
}

// All returns every stored record in insertion order.
func (s *MemStore) All(_ context.Context) ([]model.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.GameRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

// Get returns the record with the given id.
func (s *MemStore) Get(_ context.Context, id string) (model.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	if !ok {
		return model.GameRecord{}, ErrNotFound
	}
	return rec, nil
}

// Save upserts a record by its natural key.
func (s *MemStore) Save(_ context.Context, rec model.GameRecord) error {
	if rec.ID == "" {
		rec = rec.WithDerivedID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[rec.ID]; !exists {
		s.order = append(s.order, rec.ID)
	}
	s.byID[rec.ID] = rec
	metrics.RecordStoreSave()
	metrics.UpdateGamesStored(len(s.byID))
	return nil
}

// Delete removes the record with the given id.
func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	metrics.RecordStoreDelete()
	metrics.UpdateGamesStored(len(s.byID))
	return nil
}

// Clear removes every stored record.
func (s *MemStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]model.GameRecord)
	s.order = nil
	metrics.UpdateGamesStored(0)
	return nil
}

// Export renders the full store as a JSON array string.
func (s *MemStore) Export(ctx context.Context) (string, error) {
	recs, err := s.All(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return "", fmt.Errorf("marshal game store: %w", err)
	}
	return string(data), nil
}

// Import replaces the store contents from a JSON array string.
func (s *MemStore) Import(_ context.Context, data string) (int, error) {
	recs, err := decodeImport(data)
	if err != nil {
		metrics.RecordStoreImportError()
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]model.GameRecord, len(recs))
	s.order = s.order[:0]
	for _, rec := range recs {
		if rec.ID == "" {
			rec = rec.WithDerivedID()
		}
		if _, exists := s.byID[rec.ID]; !exists {
			s.order = append(s.order, rec.ID)
		}
		s.byID[rec.ID] = rec
	}
	metrics.UpdateGamesStored(len(s.byID))
	return len(s.byID), nil
}

// Count returns the number of stored records.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// decodeImport validates that data is a JSON array of game records.
func decodeImport(data string) ([]model.GameRecord, error) {
	var probe json.RawMessage
	if err := json.Unmarshal([]byte(data), &probe); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}
	trimmed := firstNonSpace(probe)
	if trimmed != '[' {
		return nil, fmt.Errorf("%w: top-level value must be an array", ErrInvalidImport)
	}
	var recs []model.GameRecord
	if err := json.Unmarshal([]byte(data), &recs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}
	return recs, nil
}

func firstNonSpace(raw []byte) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b
		}
	}
	return 0
}
