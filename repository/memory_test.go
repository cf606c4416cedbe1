package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SaveAndGetSpecification(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SaveSpecification(ctx, Specification{URI: "urn:spec1"}))

	got, err := m.GetSpecification(ctx, "urn:spec1")
	require.NoError(t, err)
	assert.Equal(t, "urn:spec1", got.URI)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestMemory_GetSpecification_NotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.GetSpecification(context.Background(), "urn:missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemory_ListSpecifications(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SaveSpecification(ctx, Specification{URI: "urn:a"}))
	require.NoError(t, m.SaveSpecification(ctx, Specification{URI: "urn:b"}))

	specs, err := m.ListSpecifications(ctx)
	require.NoError(t, err)
	assert.Len(t, specs, 2)
}

func TestMemory_DeleteSpecification(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SaveSpecification(ctx, Specification{URI: "urn:a"}))

	require.NoError(t, m.DeleteSpecification(ctx, "urn:a"))

	_, err := m.GetSpecification(ctx, "urn:a")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemory_ListCases_FiltersByStatus(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SaveCase(ctx, Case{ID: "c1", Status: "open"}))
	require.NoError(t, m.SaveCase(ctx, Case{ID: "c2", Status: "closed"}))

	open, err := m.ListCases(ctx, CaseFilter{Status: "open"})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "c1", open[0].ID)

	all, err := m.ListCases(ctx, CaseFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemory_DeleteCase_AlsoDropsMarkings(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SaveCase(ctx, Case{ID: "c1"}))
	require.NoError(t, m.SaveMarking(ctx, Marking{CaseID: "c1", PlaceURI: "urn:place1", Tokens: 3}))

	require.NoError(t, m.DeleteCase(ctx, "c1"))

	_, err := m.GetCase(ctx, "c1")
	assert.True(t, errors.Is(err, ErrNotFound))

	marks, err := m.ListMarkings(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, marks)
}

func TestMemory_Marking_SaveGetListDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SaveMarking(ctx, Marking{CaseID: "c1", PlaceURI: "urn:place1", Tokens: 2}))
	require.NoError(t, m.SaveMarking(ctx, Marking{CaseID: "c1", PlaceURI: "urn:place2", Tokens: 5}))

	got, err := m.GetMarking(ctx, "c1", "urn:place1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Tokens)

	all, err := m.ListMarkings(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, m.DeleteMarking(ctx, "c1", "urn:place1"))
	_, err = m.GetMarking(ctx, "c1", "urn:place1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemory_Close_IsNoop(t *testing.T) {
	m := NewMemory()
	assert.NoError(t, m.Close())
}
