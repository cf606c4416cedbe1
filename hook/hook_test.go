package hook

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanchatmangpt/kgcl/delta"
	"github.com/seanchatmangpt/kgcl/store"
)

func alwaysAllow(view store.View, d delta.QuadDelta, ctx delta.TransactionContext) bool {
	return true
}

func TestRegistry_Register_RejectsDuplicateID(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Hook{ID: "h1", Handler: alwaysAllow, Enabled: true}))

	err := r.Register(Hook{ID: "h1", Handler: alwaysAllow, Enabled: true})

	require.Error(t, err)
	assert.True(t, errors.Is(err, delta.ErrDuplicateHook))
}

func TestRegistry_Unregister_RemovesHook(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Hook{ID: "h1", Mode: delta.PhasePre, Handler: alwaysAllow, Enabled: true}))

	r.Unregister("h1")

	snap := r.Snapshot()
	assert.Empty(t, snap.Pre)
}

func TestRegistry_Unregister_MissingIDIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Unregister("does-not-exist")
}

func TestRegistry_SetEnabled_ExcludesFromSnapshot(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Hook{ID: "h1", Mode: delta.PhasePre, Handler: alwaysAllow, Enabled: true}))

	r.SetEnabled("h1", false)

	snap := r.Snapshot()
	assert.Empty(t, snap.Pre)

	r.SetEnabled("h1", true)
	snap = r.Snapshot()
	assert.Len(t, snap.Pre, 1)
}

func TestRegistry_Snapshot_OrdersByPriorityDescThenInsertion(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Hook{ID: "low", Mode: delta.PhasePre, Priority: 1, Handler: alwaysAllow, Enabled: true}))
	require.NoError(t, r.Register(Hook{ID: "high", Mode: delta.PhasePre, Priority: 10, Handler: alwaysAllow, Enabled: true}))
	require.NoError(t, r.Register(Hook{ID: "mid-first", Mode: delta.PhasePre, Priority: 5, Handler: alwaysAllow, Enabled: true}))
	require.NoError(t, r.Register(Hook{ID: "mid-second", Mode: delta.PhasePre, Priority: 5, Handler: alwaysAllow, Enabled: true}))

	snap := r.Snapshot()

	require.Len(t, snap.Pre, 4)
	assert.Equal(t, "high", snap.Pre[0].ID)
	assert.Equal(t, "mid-first", snap.Pre[1].ID)
	assert.Equal(t, "mid-second", snap.Pre[2].ID)
	assert.Equal(t, "low", snap.Pre[3].ID)
}

func TestRegistry_Snapshot_SplitsPreAndPost(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Hook{ID: "pre1", Mode: delta.PhasePre, Handler: alwaysAllow, Enabled: true}))
	require.NoError(t, r.Register(Hook{ID: "post1", Mode: delta.PhasePost, Handler: alwaysAllow, Enabled: true}))

	snap := r.Snapshot()

	assert.Len(t, snap.Pre, 1)
	assert.Len(t, snap.Post, 1)
}

func TestRegistry_Descriptors_IncludesDisabled(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Hook{ID: "h1", Handler: alwaysAllow, Enabled: false}))

	descriptors := r.Descriptors()

	require.Len(t, descriptors, 1)
	assert.False(t, descriptors[0].Enabled)
}

func TestRegistry_LogicHash_ChangesOnEnableToggle(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Hook{ID: "h1", Fingerprint: "f1", Handler: alwaysAllow, Enabled: true}))

	before := r.LogicHash()
	r.SetEnabled("h1", false)
	after := r.LogicHash()

	assert.NotEqual(t, before, after)
}
