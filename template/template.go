// Package template implements the template store (C6): an index of
// ExecutionTemplate resources read from the ontology graph, keyed by IRI.
// Grounded on this codebase's SPARQLEndpoint/SearchQuery pattern of holding
// a query template alongside its content location.
package template

import (
	"sync"

	"github.com/seanchatmangpt/kgcl/rdf"
	"github.com/seanchatmangpt/kgcl/store"
)

// Template is a single ExecutionTemplate resource: a SPARQL string and a
// semantic version, both RDF-resident per §6.3.
type Template struct {
	URI     string
	Version string
	Sparql  string
}

// Store indexes templates by IRI for O(1) lookup. The index is built by
// scanning a store.View and is invalidated (rebuilt) whenever the caller
// observes the ontology graph changed underneath it.
type Store struct {
	mu        sync.RWMutex
	templates map[string]Template
}

// NewStore builds a template store by scanning view for ExecutionTemplate
// resources.
func NewStore(view store.View) *Store {
	s := &Store{templates: make(map[string]Template)}
	s.Reload(view)
	return s
}

// Reload rescans view and replaces the index, the only way templates are
// ever added or removed (invariant 7: template immutability outside of an
// ordinary transaction against the ontology graph).
func (s *Store) Reload(view store.View) {
	typeTerm := rdf.IRI(rdf.TypeExecutionTemplate)
	predType := rdf.IRI(rdf.PredRDFType)
	typed := view.Match(store.Pattern{Predicate: &predType, Object: &typeTerm})

	next := make(map[string]Template, len(typed))
	for _, q := range typed {
		uri := q.Subject.Value
		t := Template{URI: uri}

		predVersion := rdf.IRI(rdf.PredTemplateVersion)
		subj := q.Subject
		for _, v := range view.Match(store.Pattern{Subject: &subj, Predicate: &predVersion}) {
			t.Version = v.Object.Value
		}
		predSparql := rdf.IRI(rdf.PredSparqlTemplate)
		for _, v := range view.Match(store.Pattern{Subject: &subj, Predicate: &predSparql}) {
			t.Sparql = v.Object.Value
		}
		next[uri] = t
	}

	s.mu.Lock()
	s.templates = next
	s.mu.Unlock()
}

// Get retrieves a template by IRI, O(1).
func (s *Store) Get(uri string) (Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[uri]
	return t, ok
}
