// Package store implements the triple store facade (C1): a set of quads
// with a pattern-match query surface, atomic update, and snapshot/restore
// for the kernel's rollback path. The in-memory implementation is the
// default; an optional Cayley/bbolt-backed implementation persists the
// graph across restarts.
package store

import "github.com/seanchatmangpt/kgcl/rdf"

// Pattern is a quad match with nil fields acting as wildcards. It is the
// substitute for string-interpolated SPARQL: callers bind pre-resolved RDF
// terms, never raw strings.
type Pattern struct {
	Subject   *rdf.Term
	Predicate *rdf.Term
	Object    *rdf.Term
	Graph     *rdf.Term
}

// Matches reports whether q satisfies the pattern.
func (p Pattern) Matches(q rdf.Quad) bool {
	if p.Subject != nil && *p.Subject != q.Subject {
		return false
	}
	if p.Predicate != nil && *p.Predicate != q.Predicate {
		return false
	}
	if p.Object != nil && *p.Object != q.Object {
		return false
	}
	if p.Graph != nil && *p.Graph != q.Graph {
		return false
	}
	return true
}

// UpdateSummary reports how many quads an Add/Remove call actually changed,
// deduplicated against quads already present/absent.
type UpdateSummary struct {
	Added   int
	Removed int
}

// Snapshot is an opaque point-in-time copy of a store's contents, returned
// by Store.Snapshot and consumed by Store.Restore. Its zero value is not a
// valid snapshot.
type Snapshot struct {
	quads map[rdf.Quad]struct{}
}

// View is the read-only subset of Store handed to hook handlers: a hook may
// inspect the store but never mutate it directly.
type View interface {
	// Match returns every quad satisfying pattern. Side-effect-free.
	Match(pattern Pattern) []rdf.Quad
	// Contains reports whether q is currently in the store.
	Contains(q rdf.Quad) bool
	// Len returns the current quad count.
	Len() int
	// All returns every quad in the store. Side-effect-free.
	All() []rdf.Quad
}

// Store is the C1 contract: a mutable set of quads queried by pattern and
// mutated atomically per call.
type Store interface {
	View
	// Add inserts quads, deduplicating against existing content. Atomic.
	Add(quads []rdf.Quad) UpdateSummary
	// Remove deletes quads, ignoring quads not present. Atomic.
	Remove(quads []rdf.Quad) UpdateSummary
	// Snapshot captures the current contents for later Restore.
	Snapshot() Snapshot
	// Restore replaces the store's contents with a prior snapshot.
	Restore(Snapshot)
	// Fork returns an independent in-memory copy for dry-run execution
	// (the verb executor's scratch target); mutating the fork never
	// touches the original.
	Fork() Store
	// Close releases any backing resources (no-op for the in-memory store).
	Close() error
}
