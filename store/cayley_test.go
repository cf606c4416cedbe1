package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanchatmangpt/kgcl/rdf"
)

func openTestCayley(t *testing.T) *Cayley {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kgcl-test.db")
	c, err := OpenCayley(path)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCayley_AddAndMatch(t *testing.T) {
	c := openTestCayley(t)

	c.Add([]rdf.Quad{q("urn:s1")})

	subject := rdf.IRI("urn:s1")
	matches := c.Match(Pattern{Subject: &subject})

	require.Len(t, matches, 1)
	assert.True(t, matches[0].Equal(q("urn:s1")))
}

func TestCayley_AddDeduplicates(t *testing.T) {
	c := openTestCayley(t)

	c.Add([]rdf.Quad{q("urn:s1")})
	summary := c.Add([]rdf.Quad{q("urn:s1")})

	assert.Equal(t, 0, summary.Added)
	assert.Equal(t, 1, c.Len())
}

func TestCayley_Remove(t *testing.T) {
	c := openTestCayley(t)
	c.Add([]rdf.Quad{q("urn:s1")})

	summary := c.Remove([]rdf.Quad{q("urn:s1")})

	assert.Equal(t, 1, summary.Removed)
	assert.Equal(t, 0, c.Len())
}

func TestCayley_SnapshotRestore(t *testing.T) {
	c := openTestCayley(t)
	c.Add([]rdf.Quad{q("urn:s1")})
	snap := c.Snapshot()

	c.Add([]rdf.Quad{q("urn:s2")})
	require.Equal(t, 2, c.Len())

	c.Restore(snap)
	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Contains(q("urn:s1")))
}

func TestCayley_Fork_ReturnsIndependentMemoryStore(t *testing.T) {
	c := openTestCayley(t)
	c.Add([]rdf.Quad{q("urn:s1")})

	fork := c.Fork()
	fork.Add([]rdf.Quad{q("urn:s2")})

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, fork.Len())
}

var _ Store = (*Cayley)(nil)
