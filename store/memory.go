package store

import (
	"sync"

	"github.com/seanchatmangpt/kgcl/rdf"
)

// Memory is the default, in-process Store implementation: a map-backed set
// of quads guarded by a single RWMutex.
type Memory struct {
	mu    sync.RWMutex
	quads map[rdf.Quad]struct{}
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{quads: make(map[rdf.Quad]struct{})}
}

func (m *Memory) Match(pattern Pattern) []rdf.Quad {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []rdf.Quad
	for q := range m.quads {
		if pattern.Matches(q) {
			out = append(out, q)
		}
	}
	return out
}

func (m *Memory) Contains(q rdf.Quad) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.quads[q]
	return ok
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.quads)
}

func (m *Memory) All() []rdf.Quad {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]rdf.Quad, 0, len(m.quads))
	for q := range m.quads {
		out = append(out, q)
	}
	return out
}

func (m *Memory) Add(quads []rdf.Quad) UpdateSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	var added int
	for _, q := range quads {
		if _, ok := m.quads[q]; !ok {
			m.quads[q] = struct{}{}
			added++
		}
	}
	return UpdateSummary{Added: added}
}

func (m *Memory) Remove(quads []rdf.Quad) UpdateSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int
	for _, q := range quads {
		if _, ok := m.quads[q]; ok {
			delete(m.quads, q)
			removed++
		}
	}
	return UpdateSummary{Removed: removed}
}

func (m *Memory) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := make(map[rdf.Quad]struct{}, len(m.quads))
	for q := range m.quads {
		cp[q] = struct{}{}
	}
	return Snapshot{quads: cp}
}

func (m *Memory) Restore(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(map[rdf.Quad]struct{}, len(s.quads))
	for q := range s.quads {
		cp[q] = struct{}{}
	}
	m.quads = cp
}

func (m *Memory) Close() error { return nil }

// Fork returns an independent in-memory copy of m, used by the verb
// executor to run a template's UPDATE against scratch state without
// mutating the live store.
func (m *Memory) Fork() Store {
	fork := NewMemory()
	fork.Restore(m.Snapshot())
	return fork
}

// ForkMemory is a typed convenience for callers that specifically need a
// *Memory (rather than the Store interface) to pass to store.Update.
func (m *Memory) ForkMemory() *Memory {
	fork := NewMemory()
	fork.Restore(m.Snapshot())
	return fork
}
