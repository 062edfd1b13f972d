package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// WarningStore owns the userId → WarningRecord mapping. Every mutation
// rewrites the whole mapping through the backend before returning.
// The mutex only keeps the map memory-safe; concurrent warnings still race
// on the rewrite and the last writer wins.
type WarningStore struct {
	backend Backend
	records map[string]*models.WarningRecord
	mu      sync.RWMutex
}

// OpenWarningStore loads the mapping from backend. A store the backend
// reports as ErrStoreUnreadable starts empty and is recreated immediately.
// Any other load error is returned, so existing records are never overwritten.
func OpenWarningStore(ctx context.Context, backend Backend) (*WarningStore, error) {
	s := &WarningStore{backend: backend}

	records, err := backend.Load(ctx)
	if err != nil && !errors.Is(err, ErrStoreUnreadable) {
		return nil, fmt.Errorf("loading warning store (%s): %w", backend.Name(), err)
	}
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo leer el almacén de advertencias (%s): %v. Se recreará vacío.", backend.Name(), err), "WarningStore")
		records = make(map[string]*models.WarningRecord)
		if err := backend.Save(ctx, records); err != nil {
			return nil, fmt.Errorf("recreating warning store: %w", err)
		}
	}
	if records == nil {
		records = make(map[string]*models.WarningRecord)
	}

	s.records = records
	logger.System(fmt.Sprintf("Almacén de advertencias cargado (%s): %d usuarios", backend.Name(), len(records)), "WarningStore")
	return s, nil
}

// Get returns a copy of a user's record
func (s *WarningStore) Get(userID string) (models.WarningRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userID]
	if !ok {
		return models.WarningRecord{UserID: userID}, false
	}
	return rec.Clone(), true
}

// Count returns a user's accumulated warning count, zero if unknown
func (s *WarningStore) Count(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.records[userID]; ok {
		return rec.Count
	}
	return 0
}

// Len returns the number of users with a record
func (s *WarningStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// UserIDs returns the known user ids in sorted order
func (s *WarningStore) UserIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AddWarning appends entry to the user's history, adds entry.Count to the
// total and persists the whole store. It returns the count before the
// mutation and a copy of the updated record. When persisting fails the
// in-memory mapping is rolled back.
func (s *WarningStore) AddWarning(ctx context.Context, userID string, entry models.WarningEntry) (int, models.WarningRecord, error) {
	if entry.Count < 1 {
		return 0, models.WarningRecord{}, fmt.Errorf("warning count must be positive, got %d", entry.Count)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, existed := s.records[userID]
	if !existed {
		rec = &models.WarningRecord{UserID: userID, History: []models.WarningEntry{}}
		s.records[userID] = rec
	}

	before := rec.Count
	rec.History = append(rec.History, entry)
	rec.Count += entry.Count

	if err := s.backend.Save(ctx, s.records); err != nil {
		rec.History = rec.History[:len(rec.History)-1]
		rec.Count = before
		if !existed {
			delete(s.records, userID)
		}
		return before, models.WarningRecord{}, err
	}

	return before, rec.Clone(), nil
}

// Reload replaces the in-memory mapping with what the backend holds
func (s *WarningStore) Reload(ctx context.Context) error {
	records, err := s.backend.Load(ctx)
	if err != nil {
		return err
	}
	if records == nil {
		records = make(map[string]*models.WarningRecord)
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return nil
}
