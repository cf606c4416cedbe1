// Package hook implements the ordered PRE/POST hook registry (C4) the
// transaction kernel consults on every apply, grounded on the mutex-guarded
// map-of-state pattern used by this codebase's operation-tracking manager.
package hook

import (
	"sort"
	"sync"

	"github.com/seanchatmangpt/kgcl/chain"
	"github.com/seanchatmangpt/kgcl/delta"
	"github.com/seanchatmangpt/kgcl/store"
)

// Handler is invoked by the kernel with a read-only store view, the
// proposed delta, and the transaction context. Returning false from a PRE
// handler vetoes the transaction; a POST handler's return value is ignored.
type Handler func(view store.View, d delta.QuadDelta, ctx delta.TransactionContext) bool

// Hook is a single registered knowledge hook (§3 KnowledgeHook).
type Hook struct {
	ID          string
	Mode        delta.Phase
	Priority    int32
	Fingerprint string
	Handler     Handler
	Enabled     bool

	insertedAt int
}

// Registry holds the PRE and POST hook lists, each kept sorted by
// (priority desc, insertion order asc).
type Registry struct {
	mu      sync.RWMutex
	hooks   map[string]*Hook
	counter int
}

// NewRegistry returns an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{hooks: make(map[string]*Hook)}
}

// Register adds a hook, failing with ErrDuplicateHook if hook.ID already
// exists.
func (r *Registry) Register(h Hook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.hooks[h.ID]; exists {
		return delta.ErrDuplicateHook
	}
	h.insertedAt = r.counter
	r.counter++
	stored := h
	r.hooks[h.ID] = &stored
	return nil
}

// Unregister removes a hook by id. A missing id is a no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.hooks, id)
}

// SetEnabled toggles a hook's enabled flag. A missing id is a no-op.
func (r *Registry) SetEnabled(id string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.hooks[id]; ok {
		h.Enabled = enabled
	}
}

// Snapshot is a cheap, ordered clone of the registry used by the kernel
// during apply, so concurrent registration never reorders an in-flight
// transaction's hook sequence.
type Snapshot struct {
	Pre  []Hook
	Post []Hook
}

func ordered(hooks []*Hook) []Hook {
	out := make([]Hook, len(hooks))
	for i, h := range hooks {
		out[i] = *h
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].insertedAt < out[j].insertedAt
	})
	return out
}

// Snapshot returns the current enabled PRE and POST hooks in execution
// order.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pre, post []*Hook
	for _, h := range r.hooks {
		if !h.Enabled {
			continue
		}
		switch h.Mode {
		case delta.PhasePre:
			pre = append(pre, h)
		case delta.PhasePost:
			post = append(post, h)
		}
	}
	return Snapshot{Pre: ordered(pre), Post: ordered(post)}
}

// Descriptors returns a chain.HookDescriptor for every registered hook
// (enabled or not), the input to logic_hash computation.
func (r *Registry) Descriptors() []chain.HookDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]chain.HookDescriptor, 0, len(r.hooks))
	for _, h := range r.hooks {
		out = append(out, chain.HookDescriptor{
			ID:          h.ID,
			Mode:        h.Mode,
			Priority:    h.Priority,
			Fingerprint: h.Fingerprint,
			Enabled:     h.Enabled,
		})
	}
	return out
}

// LogicHash computes logic_hash over the registry's current state.
func (r *Registry) LogicHash() [32]byte {
	return chain.LogicHash(r.Descriptors())
}
