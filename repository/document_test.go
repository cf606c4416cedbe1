package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDocument(t *testing.T) *Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kgcl-repo-test.db")
	d, err := OpenDocument(path)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestDocument_SaveAndGetSpecification(t *testing.T) {
	d := openTestDocument(t)
	ctx := context.Background()

	require.NoError(t, d.SaveSpecification(ctx, Specification{URI: "urn:spec1"}))

	got, err := d.GetSpecification(ctx, "urn:spec1")
	require.NoError(t, err)
	assert.Equal(t, "urn:spec1", got.URI)
}

func TestDocument_GetSpecification_NotFound(t *testing.T) {
	d := openTestDocument(t)
	_, err := d.GetSpecification(context.Background(), "urn:missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDocument_ListCases_FiltersByStatus(t *testing.T) {
	d := openTestDocument(t)
	ctx := context.Background()
	require.NoError(t, d.SaveCase(ctx, Case{ID: "c1", Status: "open"}))
	require.NoError(t, d.SaveCase(ctx, Case{ID: "c2", Status: "closed"}))

	open, err := d.ListCases(ctx, CaseFilter{Status: "open"})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "c1", open[0].ID)
}

func TestDocument_Marking_SaveGetDelete(t *testing.T) {
	d := openTestDocument(t)
	ctx := context.Background()
	require.NoError(t, d.SaveMarking(ctx, Marking{CaseID: "c1", PlaceURI: "urn:place1", Tokens: 4}))

	got, err := d.GetMarking(ctx, "c1", "urn:place1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Tokens)

	marks, err := d.ListMarkings(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, marks, 1)

	require.NoError(t, d.DeleteMarking(ctx, "c1", "urn:place1"))
	_, err = d.GetMarking(ctx, "c1", "urn:place1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDocument_DeleteSpecification(t *testing.T) {
	d := openTestDocument(t)
	ctx := context.Background()
	require.NoError(t, d.SaveSpecification(ctx, Specification{URI: "urn:a"}))

	require.NoError(t, d.DeleteSpecification(ctx, "urn:a"))

	_, err := d.GetSpecification(ctx, "urn:a")
	assert.True(t, errors.Is(err, ErrNotFound))
}
