package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seanchatmangpt/kgcl/rdf"
)

func TestPattern_Matches_AllWildcards(t *testing.T) {
	p := Pattern{}
	assert.True(t, p.Matches(q("urn:s1")))
}

func TestPattern_Matches_SubjectFilter(t *testing.T) {
	subject := rdf.IRI("urn:s1")
	p := Pattern{Subject: &subject}

	assert.True(t, p.Matches(q("urn:s1")))
	assert.False(t, p.Matches(q("urn:s2")))
}

func TestPattern_Matches_CombinedFilters(t *testing.T) {
	subject := rdf.IRI("urn:s1")
	predicate := rdf.IRI("urn:p")
	p := Pattern{Subject: &subject, Predicate: &predicate}

	assert.True(t, p.Matches(q("urn:s1")))

	otherPredicate := rdf.IRI("urn:other")
	p.Predicate = &otherPredicate
	assert.False(t, p.Matches(q("urn:s1")))
}

func TestPattern_Matches_GraphFilter(t *testing.T) {
	graph := rdf.IRI("urn:g1")
	p := Pattern{Graph: &graph}

	inGraph := rdf.NewQuadIn(rdf.IRI("urn:s"), rdf.IRI("urn:p"), rdf.IRI("urn:o"), rdf.IRI("urn:g1"))
	defaultGraph := rdf.NewQuad(rdf.IRI("urn:s"), rdf.IRI("urn:p"), rdf.IRI("urn:o"))

	assert.True(t, p.Matches(inGraph))
	assert.False(t, p.Matches(defaultGraph))
}
