package queuepolicy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanchatmangpt/kgcl/rdf"
	"github.com/seanchatmangpt/kgcl/store"
)

func seedEligible(t *testing.T, workItem rdf.Term, participants ...string) store.Store {
	t.Helper()
	s := store.NewMemory()
	pred := rdf.KGC("eligibleFor")
	var quads []rdf.Quad
	for _, p := range participants {
		quads = append(quads, rdf.Quad{Triple: rdf.Triple{Subject: workItem, Predicate: pred, Object: rdf.IRI(p)}})
	}
	s.Add(quads)
	return s
}

func TestEligible_OrderedAndDeduped(t *testing.T) {
	item := rdf.IRI("kgc:item1")
	s := seedEligible(t, item, "kgc:carol", "kgc:alice", "kgc:bob", "kgc:alice")

	got := Eligible(s, item)

	require.Len(t, got, 3)
	assert.Equal(t, []Participant{{URI: "kgc:alice"}, {URI: "kgc:bob"}, {URI: "kgc:carol"}}, got)
}

func TestEligible_NoneAsserted(t *testing.T) {
	item := rdf.IRI("kgc:item1")
	s := store.NewMemory()

	assert.Empty(t, Eligible(s, item))
}

func TestDistribute_OfferAll(t *testing.T) {
	item := rdf.IRI("kgc:item1")
	eligible := []Participant{{URI: "a"}, {URI: "b"}, {URI: "c"}}

	got := Distribute(OfferAll, item, eligible, nil, nil, 0)

	assert.Equal(t, []string{"a", "b", "c"}, got.Participants)
	assert.Equal(t, item.Value, got.WorkItemURI)
}

func TestDistribute_Direct(t *testing.T) {
	item := rdf.IRI("kgc:item1")
	eligible := []Participant{{URI: "a"}, {URI: "b"}}

	got := Distribute(Direct, item, eligible, nil, nil, 0)

	assert.Equal(t, []string{"a"}, got.Participants)
}

func TestDistribute_RoundRobin_AdvancesAcrossCalls(t *testing.T) {
	item := rdf.IRI("kgc:item1")
	eligible := []Participant{{URI: "a"}, {URI: "b"}, {URI: "c"}}
	rr := NewRoundRobinState()

	first := Distribute(RoundRobin, item, eligible, rr, nil, 0)
	second := Distribute(RoundRobin, item, eligible, rr, nil, 0)
	third := Distribute(RoundRobin, item, eligible, rr, nil, 0)
	fourth := Distribute(RoundRobin, item, eligible, rr, nil, 0)

	assert.Equal(t, []string{"a"}, first.Participants)
	assert.Equal(t, []string{"b"}, second.Participants)
	assert.Equal(t, []string{"c"}, third.Participants)
	assert.Equal(t, []string{"a"}, fourth.Participants, "wraps back to the first participant")
}

func TestDistribute_RoundRobin_IndependentPerWorkItem(t *testing.T) {
	eligible := []Participant{{URI: "a"}, {URI: "b"}}
	rr := NewRoundRobinState()

	item1 := rdf.IRI("kgc:item1")
	item2 := rdf.IRI("kgc:item2")

	got1 := Distribute(RoundRobin, item1, eligible, rr, nil, 0)
	got2 := Distribute(RoundRobin, item2, eligible, rr, nil, 0)

	assert.Equal(t, []string{"a"}, got1.Participants)
	assert.Equal(t, []string{"a"}, got2.Participants, "each work item's round-robin counter starts fresh")
}

func TestDistribute_ShortestQueue_PicksLowestDepth(t *testing.T) {
	item := rdf.IRI("kgc:item1")
	eligible := []Participant{{URI: "a"}, {URI: "b"}, {URI: "c"}}
	depths := map[string]int{"a": 5, "b": 1, "c": 3}
	depth := func(uri string) int { return depths[uri] }

	got := Distribute(ShortestQueue, item, eligible, nil, depth, 0)

	assert.Equal(t, []string{"b"}, got.Participants)
}

func TestDistribute_ShortestQueue_NilDepthTreatsAllAsZero(t *testing.T) {
	item := rdf.IRI("kgc:item1")
	eligible := []Participant{{URI: "a"}, {URI: "b"}}

	got := Distribute(ShortestQueue, item, eligible, nil, nil, 0)

	assert.Equal(t, []string{"a"}, got.Participants, "first eligible wins ties")
}

func TestDistribute_Random_UsesSuppliedIndex(t *testing.T) {
	item := rdf.IRI("kgc:item1")
	eligible := []Participant{{URI: "a"}, {URI: "b"}, {URI: "c"}}

	got := Distribute(Random, item, eligible, nil, nil, 1)

	assert.Equal(t, []string{"b"}, got.Participants)
}

func TestDistribute_Random_NegativeIndexWraps(t *testing.T) {
	item := rdf.IRI("kgc:item1")
	eligible := []Participant{{URI: "a"}, {URI: "b"}, {URI: "c"}}

	got := Distribute(Random, item, eligible, nil, nil, -1)

	assert.Equal(t, []string{"c"}, got.Participants)
}

func TestDistribute_NoEligibleParticipants(t *testing.T) {
	item := rdf.IRI("kgc:item1")

	got := Distribute(OfferAll, item, nil, nil, nil, 0)

	assert.Empty(t, got.Participants)
	assert.Equal(t, item.Value, got.WorkItemURI)
}
