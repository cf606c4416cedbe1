package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seanchatmangpt/kgcl/delta"
	"github.com/seanchatmangpt/kgcl/rdf"
)

func TestLogicHash_IgnoresDisabledDescriptors(t *testing.T) {
	enabledOnly := LogicHash([]HookDescriptor{
		{ID: "a", Fingerprint: "f1", Enabled: true},
	})
	withDisabled := LogicHash([]HookDescriptor{
		{ID: "a", Fingerprint: "f1", Enabled: true},
		{ID: "b", Fingerprint: "f2", Enabled: false},
	})

	assert.Equal(t, enabledOnly, withDisabled)
}

func TestLogicHash_OrderIndependent(t *testing.T) {
	a := []HookDescriptor{
		{ID: "a", Priority: 1, Fingerprint: "f1", Enabled: true},
		{ID: "b", Priority: 2, Fingerprint: "f2", Enabled: true},
	}
	b := []HookDescriptor{
		{ID: "b", Priority: 2, Fingerprint: "f2", Enabled: true},
		{ID: "a", Priority: 1, Fingerprint: "f1", Enabled: true},
	}

	assert.Equal(t, LogicHash(a), LogicHash(b))
}

func TestLogicHash_SensitiveToFingerprint(t *testing.T) {
	h1 := LogicHash([]HookDescriptor{{ID: "a", Fingerprint: "f1", Enabled: true}})
	h2 := LogicHash([]HookDescriptor{{ID: "a", Fingerprint: "f2", Enabled: true}})

	assert.NotEqual(t, h1, h2)
}

func TestLogicHash_EmptyIsStable(t *testing.T) {
	assert.Equal(t, LogicHash(nil), LogicHash([]HookDescriptor{}))
}

func TestGenesis_UsesGenesisHash(t *testing.T) {
	s := Genesis(nil)

	assert.Equal(t, GenesisHash, s.TipHash)
	assert.Equal(t, uint64(0), s.TxCount)
}

func TestState_Advance_IncrementsTxCountAndTip(t *testing.T) {
	s := Genesis(nil)
	additions := []rdf.Quad{rdf.NewQuad(rdf.IRI("urn:s"), rdf.IRI("urn:p"), rdf.IRI("urn:o"))}

	next := s.Advance(additions, nil)

	assert.Equal(t, uint64(1), next.TxCount)
	assert.NotEqual(t, s.TipHash, next.TipHash)
	assert.Equal(t, s.LogicHash, next.LogicHash, "Advance must not change LogicHash")
}

func TestState_Advance_Deterministic(t *testing.T) {
	s := Genesis(nil)
	additions := []rdf.Quad{rdf.NewQuad(rdf.IRI("urn:s"), rdf.IRI("urn:p"), rdf.IRI("urn:o"))}

	n1 := s.Advance(additions, nil)
	n2 := s.Advance(additions, nil)

	assert.Equal(t, n1.TipHash, n2.TipHash)
}

func TestState_WithLogicHash_LeavesOtherFieldsAlone(t *testing.T) {
	s := Genesis(nil)
	newHash := rdf.Hash([]byte("new"))

	updated := s.WithLogicHash(newHash)

	assert.Equal(t, newHash, updated.LogicHash)
	assert.Equal(t, s.TipHash, updated.TipHash)
	assert.Equal(t, s.TxCount, updated.TxCount)
}

func TestHookDescriptor_ModeStringIsUsedInHash(t *testing.T) {
	pre := LogicHash([]HookDescriptor{{ID: "a", Mode: delta.PhasePre, Fingerprint: "f", Enabled: true}})
	post := LogicHash([]HookDescriptor{{ID: "a", Mode: delta.PhasePost, Fingerprint: "f", Enabled: true}})

	assert.NotEqual(t, pre, post)
}
