// Package repository implements the pluggable persistence contract (C14):
// specifications (RDF documents), cases/work-items (RDF sub-graphs), and
// markings (tokens), each as CRUD plus list-by-filter. Implementations
// must be linearizable with respect to a single engine instance;
// distributed consistency is out of scope.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/seanchatmangpt/kgcl/rdf"
)

// ErrNotFound is returned when a Get by id finds nothing.
var ErrNotFound = errors.New("repository: not found")

// Specification is a stored ontology document: the RDF quads defining
// verbs, templates, shapes, and dispatch bindings for one named
// specification.
type Specification struct {
	URI       string
	Quads     []rdf.Quad
	UpdatedAt time.Time
}

// Case is a stored workflow case: the RDF sub-graph asserting its current
// state, plus a coarse status for filtering.
type Case struct {
	ID        string
	Quads     []rdf.Quad
	Status    string
	UpdatedAt time.Time
}

// Marking is a single token count at a place, scoped to a case.
type Marking struct {
	CaseID    string
	PlaceURI  string
	Tokens    int
	UpdatedAt time.Time
}

// CaseFilter narrows ListCases to cases matching a non-empty status.
// An empty Status matches every case.
type CaseFilter struct {
	Status string
}

// Repository is the C14 contract: CRUD plus list-by-filter over
// specifications, cases, and markings.
type Repository interface {
	SaveSpecification(ctx context.Context, spec Specification) error
	GetSpecification(ctx context.Context, uri string) (Specification, error)
	ListSpecifications(ctx context.Context) ([]Specification, error)
	DeleteSpecification(ctx context.Context, uri string) error

	SaveCase(ctx context.Context, c Case) error
	GetCase(ctx context.Context, id string) (Case, error)
	ListCases(ctx context.Context, filter CaseFilter) ([]Case, error)
	DeleteCase(ctx context.Context, id string) error

	SaveMarking(ctx context.Context, m Marking) error
	GetMarking(ctx context.Context, caseID, placeURI string) (Marking, error)
	ListMarkings(ctx context.Context, caseID string) ([]Marking, error)
	DeleteMarking(ctx context.Context, caseID, placeURI string) error

	Close() error
}
