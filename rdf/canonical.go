package rdf

import (
	"crypto/sha256"
	"sort"
)

// Separator is the byte placed between canonicalized quads when hashing a
// batch, and between the additions block and the removals block.
const Separator = 0x1E

// Hash256 is a 256-bit digest, the unit the chain and logic hash deal in.
type Hash256 [32]byte

// CanonicalSort returns a copy of quads sorted lexicographically by their
// N-Quads string form, the ordering required before hashing a batch.
func CanonicalSort(quads []Quad) []Quad {
	out := make([]Quad, len(quads))
	copy(out, quads)
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// CanonicalBytes serializes additions then removals, each internally sorted,
// each quad separated by 0x1E, with a 0x1E boundary between the two blocks.
// This is the byte sequence chained into tip_hash.
func CanonicalBytes(additions, removals []Quad) []byte {
	adds := CanonicalSort(additions)
	rems := CanonicalSort(removals)

	var buf []byte
	for i, q := range adds {
		if i > 0 {
			buf = append(buf, Separator)
		}
		buf = append(buf, q.String()...)
	}
	buf = append(buf, Separator)
	for i, q := range rems {
		if i > 0 {
			buf = append(buf, Separator)
		}
		buf = append(buf, q.String()...)
	}
	return buf
}

// Hash computes the 256-bit digest H(data) using the configured hash
// function (SHA-256, per §4.3).
func Hash(data []byte) Hash256 {
	return sha256.Sum256(data)
}

// ChainNext computes tip_hash_{n+1} = H(prev || 0x1E || canonical(additions, removals)).
func ChainNext(prev Hash256, additions, removals []Quad) Hash256 {
	payload := append(append([]byte{}, prev[:]...), Separator)
	payload = append(payload, CanonicalBytes(additions, removals)...)
	return Hash(payload)
}
