package store

import (
	"fmt"
	"sync"

	"github.com/cayleygraph/cayley"
	"github.com/cayleygraph/cayley/graph"
	_ "github.com/cayleygraph/cayley/graph/kv/bolt"
	"github.com/cayleygraph/quad"

	"github.com/seanchatmangpt/kgcl/rdf"
)

// Cayley is a Store implementation backed by an embedded bbolt-based Cayley
// quad store, so ChainState and ontology data survive process restarts.
// Queries still go through the in-process Pattern matcher (QuadsAllIterator
// plus a filter pass) rather than a Cayley path query, since C1's contract
// is pattern-match, not graph traversal. The shape validator and template
// store also read through the View interface, not *cayley.Handle.
type Cayley struct {
	mu    sync.RWMutex
	store *cayley.Handle
	path  string
}

// OpenCayley opens (creating if necessary) a bolt-backed Cayley quad store
// at path.
func OpenCayley(path string) (*Cayley, error) {
	if err := graph.InitQuadStore("bolt", path, nil); err != nil && err != graph.ErrDatabaseExists {
		return nil, fmt.Errorf("init quad store at %s: %w", path, err)
	}
	h, err := cayley.NewGraph("bolt", path, nil)
	if err != nil {
		return nil, fmt.Errorf("open quad store at %s: %w", path, err)
	}
	return &Cayley{store: h, path: path}, nil
}

// Handle exposes the underlying *cayley.Handle for native graph-path
// traversal. No package in this module calls it.
func (c *Cayley) Handle() *cayley.Handle {
	return c.store
}

func toCayleyQuad(q rdf.Quad) quad.Quad {
	graphValue := quad.IRI("kgcl:default")
	if !q.Graph.IsZero() {
		graphValue = termToValue(q.Graph)
	}
	return quad.Quad{
		Subject:   termToValue(q.Subject),
		Predicate: termToValue(q.Predicate),
		Object:    termToValue(q.Object),
		Label:     graphValue,
	}
}

func termToValue(t rdf.Term) quad.Value {
	switch t.Kind {
	case rdf.KindIRI:
		return quad.IRI(t.Value)
	case rdf.KindBlank:
		return quad.BNode(t.Value)
	case rdf.KindLiteral:
		if t.Lang != "" {
			return quad.LangString{Value: quad.String(t.Value), Lang: t.Lang}
		}
		if t.Datatype != "" {
			return quad.TypedString{Value: quad.String(t.Value), Type: quad.IRI(t.Datatype)}
		}
		return quad.String(t.Value)
	default:
		return quad.String(t.Value)
	}
}

func valueToTerm(v quad.Value) rdf.Term {
	switch val := v.(type) {
	case quad.IRI:
		return rdf.IRI(string(val))
	case quad.BNode:
		return rdf.Blank(string(val))
	case quad.LangString:
		return rdf.LangLiteral(string(val.Value), val.Lang)
	case quad.TypedString:
		return rdf.Literal(string(val.Value), string(val.Type))
	case quad.String:
		return rdf.Literal(string(val), "")
	default:
		return rdf.Literal(fmt.Sprint(v), "")
	}
}

func fromCayleyQuad(q quad.Quad) rdf.Quad {
	graphTerm := rdf.Term{}
	if q.Label != nil {
		graphTerm = valueToTerm(q.Label)
	}
	return rdf.Quad{
		Triple: rdf.Triple{
			Subject:   valueToTerm(q.Subject),
			Predicate: valueToTerm(q.Predicate),
			Object:    valueToTerm(q.Object),
		},
		Graph: graphTerm,
	}
}

func (c *Cayley) All() []rdf.Quad {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []rdf.Quad
	it := c.store.QuadsAllIterator()
	defer it.Close()
	for it.Next(nil) {
		out = append(out, fromCayleyQuad(c.store.Quad(it.Result())))
	}
	return out
}

func (c *Cayley) Match(pattern Pattern) []rdf.Quad {
	var out []rdf.Quad
	for _, q := range c.All() {
		if pattern.Matches(q) {
			out = append(out, q)
		}
	}
	return out
}

func (c *Cayley) Contains(q rdf.Quad) bool {
	for _, existing := range c.All() {
		if existing.Equal(q) {
			return true
		}
	}
	return false
}

func (c *Cayley) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int(c.store.QuadsAllIterator().Size().Size)
}

func (c *Cayley) Add(quads []rdf.Quad) UpdateSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	var added int
	delta := make([]quad.Delta, 0, len(quads))
	for _, q := range quads {
		if c.containsLocked(q) {
			continue
		}
		delta = append(delta, quad.Delta{Quad: toCayleyQuad(q), Action: quad.Add})
		added++
	}
	if len(delta) > 0 {
		_ = c.store.ApplyDeltas(delta, graph.IgnoreOpts{IgnoreDup: true, IgnoreMissing: true})
	}
	return UpdateSummary{Added: added}
}

func (c *Cayley) Remove(quads []rdf.Quad) UpdateSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed int
	delta := make([]quad.Delta, 0, len(quads))
	for _, q := range quads {
		if !c.containsLocked(q) {
			continue
		}
		delta = append(delta, quad.Delta{Quad: toCayleyQuad(q), Action: quad.Delete})
		removed++
	}
	if len(delta) > 0 {
		_ = c.store.ApplyDeltas(delta, graph.IgnoreOpts{IgnoreDup: true, IgnoreMissing: true})
	}
	return UpdateSummary{Removed: removed}
}

func (c *Cayley) containsLocked(q rdf.Quad) bool {
	it := c.store.QuadsAllIterator()
	defer it.Close()
	for it.Next(nil) {
		if fromCayleyQuad(c.store.Quad(it.Result())).Equal(q) {
			return true
		}
	}
	return false
}

// Snapshot captures the full quad set; for a persistent store this is a
// last-resort rollback path (the kernel prefers small deltas, so this stays
// cheap in practice given the K=64 batch ceiling).
func (c *Cayley) Snapshot() Snapshot {
	all := c.All()
	m := make(map[rdf.Quad]struct{}, len(all))
	for _, q := range all {
		m[q] = struct{}{}
	}
	return Snapshot{quads: m}
}

func (c *Cayley) Restore(s Snapshot) {
	current := c.All()
	c.Remove(current)
	restored := make([]rdf.Quad, 0, len(s.quads))
	for q := range s.quads {
		restored = append(restored, q)
	}
	c.Add(restored)
}

// Fork copies the current contents into a scratch in-memory store, used by
// the verb executor for dry-run template execution; forking a persistent
// store never touches disk.
func (c *Cayley) Fork() Store {
	fork := NewMemory()
	fork.Add(c.All())
	return fork
}

func (c *Cayley) Close() error {
	return c.store.Close()
}
