package rank

import (
	"context"
	"sync"
)

// MemoryStore is an in-process [Store] for tests and demos.
type MemoryStore struct {
	mu        sync.Mutex
	positions map[string]int
	writes    int
}

func NewMemoryStore(positions map[string]int) *MemoryStore {
	m := &MemoryStore{positions: make(map[string]int, len(positions))}
	for id, p := range positions {
		m.positions[id] = p
	}
	return m
}

func (m *MemoryStore) Position(_ context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.positions[id]
	if !ok {
		return 0, ErrRankNotFound
	}
	return p, nil
}

func (m *MemoryStore) ShiftRange(_ context.Context, lo, hi, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	for id, p := range m.positions {
		if p >= lo && p <= hi {
			m.positions[id] = p + delta
		}
	}
	return nil
}

func (m *MemoryStore) SetPosition(_ context.Context, id string, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.positions[id]; !ok {
		return ErrRankNotFound
	}
	m.writes++
	m.positions[id] = position
	return nil
}

// PositionBounds returns the lowest and highest occupied positions.
func (m *MemoryStore) PositionBounds(_ context.Context) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.positions) == 0 {
		return 0, 0, ErrRankNotFound
	}
	first := true
	var lo, hi int
	for _, p := range m.positions {
		if first || p < lo {
			lo = p
		}
		if first || p > hi {
			hi = p
		}
		first = false
	}
	return lo, hi, nil
}

// Snapshot returns a copy of all positions.
func (m *MemoryStore) Snapshot() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.positions))
	for id, p := range m.positions {
		out[id] = p
	}
	return out
}

// Writes returns the number of write calls received.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
