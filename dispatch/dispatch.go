// Package dispatch implements the ontology-driven dispatcher (C12): a
// pattern IRI to (verb, template) map reloaded wholesale from the ontology
// graph, grounded on this codebase's mutex-guarded map registry. There is
// no host-language switch over pattern identity; adding a pattern is a
// data change, not a code change.
package dispatch

import (
	"fmt"
	"sync"

	"github.com/seanchatmangpt/kgcl/rdf"
	"github.com/seanchatmangpt/kgcl/store"
	"github.com/seanchatmangpt/kgcl/verb"
)

// dispatchQuery is the dispatcher's entire logic (§4.12): a single SPARQL
// query binding every pattern to its verb and template. The `;` predicate
// list shorthand isn't part of this engine's minimal triple-pattern
// grammar, so it is spelled out as two statements sharing ?pattern.
const dispatchQuery = `SELECT ?pattern ?verb ?template WHERE {
	?pattern kgc:verb ?verb .
	?pattern kgc:template ?template .
}`

// Binding is the resolved (verb, template) pair for a pattern IRI.
type Binding struct {
	PatternURI string
	Verb       verb.Config
}

// Table is a pure map lookup from pattern IRI to its verb binding,
// rebuilt wholesale on Reload rather than mutated incrementally.
type Table struct {
	mu       sync.RWMutex
	bindings map[string]Binding
}

// NewTable returns a dispatch table already populated from view via Reload.
func NewTable(view store.View) *Table {
	t := &Table{bindings: make(map[string]Binding)}
	t.Reload(view)
	return t
}

// Reload replaces the table's contents from scratch by scanning view for
// every subject carrying both kgc:verb and kgc:template, so a pattern
// registered, changed, or removed in the ontology takes effect on the next
// reload without any code deploy.
func (t *Table) Reload(view store.View) {
	result, err := store.Query(view, dispatchQuery, nil)
	if err != nil {
		return
	}

	next := make(map[string]Binding, len(result.Rows))
	for _, row := range result.Rows {
		pattern, ok := row["pattern"]
		if !ok {
			continue
		}
		v, ok := row["verb"]
		if !ok {
			continue
		}
		tmpl, ok := row["template"]
		if !ok {
			continue
		}
		next[pattern.Value] = Binding{
			PatternURI: pattern.Value,
			Verb: verb.Config{
				VerbURI:              v.Value,
				ExecutionTemplateURI: tmpl.Value,
				Parameters:           map[string]rdf.Term{},
			},
		}
	}

	t.mu.Lock()
	t.bindings = next
	t.mu.Unlock()
}

// Resolve looks up the verb binding for a pattern IRI. It never branches on
// the pattern's identity beyond this single map lookup.
func (t *Table) Resolve(patternURI string) (Binding, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	b, ok := t.bindings[patternURI]
	if !ok {
		return Binding{}, fmt.Errorf("dispatch: no verb bound for pattern %s", patternURI)
	}
	return b, nil
}

// Patterns returns every pattern IRI currently bound, for introspection.
func (t *Table) Patterns() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.bindings))
	for p := range t.bindings {
		out = append(out, p)
	}
	return out
}
