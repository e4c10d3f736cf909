package reset

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/MrEthical07/mediaguard/permission"
)

// MemoryRepository is an in-process [Repository] for tests and demos.
type MemoryRepository struct {
	mu      sync.Mutex
	seq     int
	records map[string]*Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]*Record)}
}

func (m *MemoryRepository) FindActiveByResource(_ context.Context, resourceID string, userType permission.Role, now time.Time) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Active && r.ResourceID == resourceID && r.UserType == userType && r.ExpiresAt.After(now) {
			c := *r
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) FindActiveByToken(_ context.Context, token string, now time.Time) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Active && r.Token == token && r.ExpiresAt.After(now) {
			c := *r
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) Insert(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		m.seq++
		rec.ID = "rst-" + strconv.Itoa(m.seq)
	}
	c := *rec
	m.records[rec.ID] = &c
	return nil
}

func (m *MemoryRepository) Deactivate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return ErrNotFound
	}
	r.Active = false
	return nil
}

// Get returns a copy of the record with id.
func (m *MemoryRepository) Get(id string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return Record{}, false
	}
	return *r, true
}
