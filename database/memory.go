package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/sri-maddineni/college-shortlister/model"
)

// DriverMemory keeps records in process memory only
const DriverMemory = "memory"

// MemoryStore is a Storage that lives in memory. It backs demos and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records []model.Record
	clock   insertClock
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init() error        { return nil }
func (s *MemoryStore) Close() error       { return nil }
func (s *MemoryStore) HealthCheck() error { return nil }

func (s *MemoryStore) ListRecords(ctx context.Context) ([]model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := model.Snapshot(s.records)
	if out == nil {
		out = []model.Record{}
	}
	return out, nil
}

func (s *MemoryStore) GetRecord(ctx context.Context, id string) (*model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return nil, ErrRecordNotFound
	}
	r := s.records[i].Clone()
	return &r, nil
}

func (s *MemoryStore) CreateRecord(ctx context.Context, record *model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(record.ID) >= 0 {
		return fmt.Errorf("record %s already exists", record.ID)
	}
	record.CreatedAt = s.clock.next()
	record.UpdatedAt = record.CreatedAt
	s.records = append(s.records, record.Clone())
	return nil
}

func (s *MemoryStore) UpdateRecord(ctx context.Context, record *model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(record.ID)
	if i < 0 {
		return ErrRecordNotFound
	}
	record.CreatedAt = s.records[i].CreatedAt
	record.UpdatedAt = s.clock.next()
	s.records[i] = record.Clone()
	return nil
}

func (s *MemoryStore) DeleteRecord(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return ErrRecordNotFound
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	return nil
}

func (s *MemoryStore) index(id string) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
