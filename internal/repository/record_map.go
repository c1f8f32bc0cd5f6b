package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"goban_rules/internal/domain/game"
	errs "goban_rules/internal/errors"
)

// RecordMapStorage keeps the current record and the archive in memory. It
// serves local runs without redis or mongo.
type RecordMapStorage struct {
	mu        sync.RWMutex
	current   *game.Record
	archived  map[string]game.Record
	pageLimit int
}

func NewRecordMapStorage(pageLimit int) *RecordMapStorage {
	return &RecordMapStorage{archived: make(map[string]game.Record), pageLimit: pageLimitOrDefault(pageLimit)}
}

func (s *RecordMapStorage) SaveRecord(_ context.Context, rec game.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &rec
	return nil
}

func (s *RecordMapStorage) LoadRecord(context.Context) (game.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return game.Record{}, errs.ErrRecordNotFound
	}
	return *s.current, nil
}

func (s *RecordMapStorage) DeleteRecord(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	return nil
}

func (s *RecordMapStorage) ArchiveRecord(_ context.Context, rec game.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archived[rec.ID] = rec
	return nil
}

func (s *RecordMapStorage) GetArchivedRecord(_ context.Context, id string) (game.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, found := s.archived[id]
	if !found {
		return game.Record{}, errs.ErrRecordNotFound
	}
	return rec, nil
}

func (s *RecordMapStorage) ListArchived(_ context.Context, pageNum int) ([]game.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]game.Record, 0, len(s.archived))
	for _, rec := range s.archived {
		all = append(all, rec)
	}
	sort.Slice(all, func(i, j int) bool { return endedAt(all[i]).After(endedAt(all[j])) })

	from, size := pageWindow(pageNum, s.pageLimit)
	if from >= len(all) {
		return []game.Record{}, nil
	}
	return all[from:min(from+size, len(all))], nil
}

func endedAt(rec game.Record) time.Time {
	if rec.EndedAt == nil {
		return rec.CreatedAt
	}
	return *rec.EndedAt
}
