package rdf

import (
	"reflect"
	"testing"
)

func TestCanonicalSort_OrdersLexicographically(t *testing.T) {
	q1 := NewQuad(IRI("urn:b"), IRI("urn:p"), IRI("urn:o"))
	q2 := NewQuad(IRI("urn:a"), IRI("urn:p"), IRI("urn:o"))

	sorted := CanonicalSort([]Quad{q1, q2})

	if !reflect.DeepEqual(sorted, []Quad{q2, q1}) {
		t.Errorf("CanonicalSort did not order lexicographically: %v", sorted)
	}
}

func TestCanonicalSort_DoesNotMutateInput(t *testing.T) {
	q1 := NewQuad(IRI("urn:b"), IRI("urn:p"), IRI("urn:o"))
	q2 := NewQuad(IRI("urn:a"), IRI("urn:p"), IRI("urn:o"))
	input := []Quad{q1, q2}

	CanonicalSort(input)

	if input[0] != q1 || input[1] != q2 {
		t.Error("CanonicalSort must not mutate its input slice")
	}
}

func TestCanonicalBytes_Deterministic(t *testing.T) {
	adds := []Quad{NewQuad(IRI("urn:s"), IRI("urn:p"), IRI("urn:o"))}
	rems := []Quad{NewQuad(IRI("urn:s2"), IRI("urn:p"), IRI("urn:o2"))}

	b1 := CanonicalBytes(adds, rems)
	b2 := CanonicalBytes(adds, rems)

	if string(b1) != string(b2) {
		t.Error("CanonicalBytes must be deterministic for the same input")
	}
}

func TestCanonicalBytes_OrderIndependent(t *testing.T) {
	q1 := NewQuad(IRI("urn:a"), IRI("urn:p"), IRI("urn:o"))
	q2 := NewQuad(IRI("urn:b"), IRI("urn:p"), IRI("urn:o"))

	b1 := CanonicalBytes([]Quad{q1, q2}, nil)
	b2 := CanonicalBytes([]Quad{q2, q1}, nil)

	if string(b1) != string(b2) {
		t.Error("CanonicalBytes must be independent of input ordering")
	}
}

func TestHash_Deterministic(t *testing.T) {
	data := []byte("hello")
	if Hash(data) != Hash(data) {
		t.Error("Hash must be deterministic")
	}
}

func TestChainNext_DependsOnPrevAndContent(t *testing.T) {
	var genesis Hash256
	adds := []Quad{NewQuad(IRI("urn:s"), IRI("urn:p"), IRI("urn:o"))}

	h1 := ChainNext(genesis, adds, nil)
	h2 := ChainNext(h1, adds, nil)

	if h1 == h2 {
		t.Error("chaining the same delta against different prev hashes must differ")
	}
	if h1 == genesis {
		t.Error("ChainNext must not return the zero hash for non-empty content")
	}
}

func TestChainNext_Deterministic(t *testing.T) {
	var genesis Hash256
	adds := []Quad{NewQuad(IRI("urn:s"), IRI("urn:p"), IRI("urn:o"))}

	h1 := ChainNext(genesis, adds, nil)
	h2 := ChainNext(genesis, adds, nil)

	if h1 != h2 {
		t.Error("ChainNext must be deterministic for identical input")
	}
}
