package repository

import (
	"context"
	"sync"
	"time"
)

// Memory is the default, in-process Repository implementation: the
// reference backend for tests and for hosts that don't need durability
// across restarts.
type Memory struct {
	mu    sync.RWMutex
	specs map[string]Specification
	cases map[string]Case
	marks map[string]map[string]Marking // caseID -> placeURI -> marking
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		specs: make(map[string]Specification),
		cases: make(map[string]Case),
		marks: make(map[string]map[string]Marking),
	}
}

func (m *Memory) SaveSpecification(_ context.Context, spec Specification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	spec.UpdatedAt = time.Now()
	m.specs[spec.URI] = spec
	return nil
}

func (m *Memory) GetSpecification(_ context.Context, uri string) (Specification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.specs[uri]
	if !ok {
		return Specification{}, ErrNotFound
	}
	return s, nil
}

func (m *Memory) ListSpecifications(_ context.Context) ([]Specification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Specification, 0, len(m.specs))
	for _, s := range m.specs {
		out = append(out, s)
	}
	return out, nil
}

func (m *Memory) DeleteSpecification(_ context.Context, uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.specs, uri)
	return nil
}

func (m *Memory) SaveCase(_ context.Context, c Case) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.UpdatedAt = time.Now()
	m.cases[c.ID] = c
	return nil
}

func (m *Memory) GetCase(_ context.Context, id string) (Case, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cases[id]
	if !ok {
		return Case{}, ErrNotFound
	}
	return c, nil
}

func (m *Memory) ListCases(_ context.Context, filter CaseFilter) ([]Case, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Case, 0, len(m.cases))
	for _, c := range m.cases {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *Memory) DeleteCase(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cases, id)
	delete(m.marks, id)
	return nil
}

func (m *Memory) SaveMarking(_ context.Context, marking Marking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	marking.UpdatedAt = time.Now()
	bucket, ok := m.marks[marking.CaseID]
	if !ok {
		bucket = make(map[string]Marking)
		m.marks[marking.CaseID] = bucket
	}
	bucket[marking.PlaceURI] = marking
	return nil
}

func (m *Memory) GetMarking(_ context.Context, caseID, placeURI string) (Marking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bucket, ok := m.marks[caseID]
	if !ok {
		return Marking{}, ErrNotFound
	}
	marking, ok := bucket[placeURI]
	if !ok {
		return Marking{}, ErrNotFound
	}
	return marking, nil
}

func (m *Memory) ListMarkings(_ context.Context, caseID string) ([]Marking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bucket := m.marks[caseID]
	out := make([]Marking, 0, len(bucket))
	for _, marking := range bucket {
		out = append(out, marking)
	}
	return out, nil
}

func (m *Memory) DeleteMarking(_ context.Context, caseID, placeURI string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bucket, ok := m.marks[caseID]; ok {
		delete(bucket, placeURI)
	}
	return nil
}

func (m *Memory) Close() error { return nil }

var _ Repository = (*Memory)(nil)
