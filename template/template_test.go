package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanchatmangpt/kgcl/rdf"
	"github.com/seanchatmangpt/kgcl/store"
)

func templateQuads(uri, version, sparql string) []rdf.Quad {
	s := rdf.IRI(uri)
	return []rdf.Quad{
		rdf.NewQuad(s, rdf.IRI(rdf.PredRDFType), rdf.IRI(rdf.TypeExecutionTemplate)),
		rdf.NewQuad(s, rdf.IRI(rdf.PredTemplateVersion), rdf.Literal(version, "")),
		rdf.NewQuad(s, rdf.IRI(rdf.PredSparqlTemplate), rdf.Literal(sparql, "")),
	}
}

func TestNewStore_IndexesExecutionTemplates(t *testing.T) {
	m := store.NewMemory()
	m.Add(templateQuads("urn:tmpl1", "1.0.0", "INSERT { ?subject urn:tagged \"x\" . } WHERE { }"))

	s := NewStore(m)

	tmpl, ok := s.Get("urn:tmpl1")
	require.True(t, ok)
	assert.Equal(t, "1.0.0", tmpl.Version)
	assert.Contains(t, tmpl.Sparql, "INSERT")
}

func TestStore_Get_MissingTemplate(t *testing.T) {
	m := store.NewMemory()
	s := NewStore(m)

	_, ok := s.Get("urn:does-not-exist")

	assert.False(t, ok)
}

func TestStore_Reload_PicksUpNewTemplates(t *testing.T) {
	m := store.NewMemory()
	s := NewStore(m)

	_, ok := s.Get("urn:tmpl2")
	require.False(t, ok)

	m.Add(templateQuads("urn:tmpl2", "2.0.0", "INSERT { } WHERE { }"))
	s.Reload(m)

	tmpl, ok := s.Get("urn:tmpl2")
	require.True(t, ok)
	assert.Equal(t, "2.0.0", tmpl.Version)
}

func TestStore_Reload_DropsRemovedTemplates(t *testing.T) {
	m := store.NewMemory()
	quads := templateQuads("urn:tmpl1", "1.0.0", "INSERT { } WHERE { }")
	m.Add(quads)
	s := NewStore(m)

	m.Remove(quads)
	s.Reload(m)

	_, ok := s.Get("urn:tmpl1")
	assert.False(t, ok)
}

func TestNewStore_IgnoresNonTemplateResources(t *testing.T) {
	m := store.NewMemory()
	m.Add([]rdf.Quad{rdf.NewQuad(rdf.IRI("urn:other"), rdf.IRI(rdf.PredRDFType), rdf.IRI("urn:SomethingElse"))})

	s := NewStore(m)

	_, ok := s.Get("urn:other")
	assert.False(t, ok)
}
