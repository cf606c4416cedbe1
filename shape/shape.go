// Package shape implements the shape validator (C10): cardinality
// constraints over focus nodes selected by a SPARQL-like pattern, evaluated
// against the data graph to yield a conformance report.
package shape

import (
	"fmt"

	"github.com/seanchatmangpt/kgcl/rdf"
	"github.com/seanchatmangpt/kgcl/store"
)

// Tag distinguishes precondition shapes from postcondition shapes (§4.10).
type Tag string

const (
	TagPre  Tag = "@pre"
	TagPost Tag = "@post"
)

// Shape is a single cardinality constraint: every node bound to ?focus by
// FocusSelector must have between MinCount and MaxCount (0 = unbounded)
// triples matching (focus, Property, *).
type Shape struct {
	ID            string
	Tag           Tag
	FocusSelector string // a `WHERE { ... }` block binding ?focus
	Property      rdf.Term
	MinCount      int
	MaxCount      int
}

// Violation describes a single focus node's failure to conform.
type Violation struct {
	FocusNode rdf.Term
	ShapeID   string
	Message   string
}

// Report is the outcome of validating a shape set.
type Report struct {
	Conforms   bool
	Violations []Violation
}

// Validate evaluates shapes against view and returns a conformance report.
func Validate(view store.View, shapes []Shape) Report {
	var violations []Violation
	for _, s := range shapes {
		result, err := store.Query(view, s.FocusSelector, nil)
		if err != nil {
			violations = append(violations, Violation{ShapeID: s.ID, Message: fmt.Sprintf("focus selector error: %v", err)})
			continue
		}
		for _, row := range result.Rows {
			focus, ok := row["focus"]
			if !ok {
				continue
			}
			violations = append(violations, checkCardinality(view, s, focus)...)
		}
	}
	return Report{Conforms: len(violations) == 0, Violations: violations}
}

func checkCardinality(view store.View, s Shape, focus rdf.Term) []Violation {
	property := s.Property
	count := len(view.Match(store.Pattern{Subject: &focus, Predicate: &property}))

	var out []Violation
	if count < s.MinCount {
		out = append(out, Violation{
			FocusNode: focus, ShapeID: s.ID,
			Message: fmt.Sprintf("%s: expected at least %d values for %s, found %d", s.Tag, s.MinCount, s.Property.Value, count),
		})
	}
	if s.MaxCount > 0 && count > s.MaxCount {
		out = append(out, Violation{
			FocusNode: focus, ShapeID: s.ID,
			Message: fmt.Sprintf("%s: expected at most %d values for %s, found %d", s.Tag, s.MaxCount, s.Property.Value, count),
		})
	}
	return out
}

// Filter returns the subset of shapes carrying the given tag.
func Filter(shapes []Shape, tag Tag) []Shape {
	var out []Shape
	for _, s := range shapes {
		if s.Tag == tag {
			out = append(out, s)
		}
	}
	return out
}
