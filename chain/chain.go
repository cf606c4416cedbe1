// Package chain tracks the running cryptographic chain tip and the stable
// digest over the currently-enabled hook set, grounded on the mutex-guarded
// running-state pattern used elsewhere in this codebase for long-lived
// service state.
package chain

import (
	"sort"

	"github.com/seanchatmangpt/kgcl/delta"
	"github.com/seanchatmangpt/kgcl/rdf"
)

// GenesisHash is the fixed 32-byte constant every ChainState starts from.
var GenesisHash = rdf.Hash([]byte("kgcl:genesis"))

// HookDescriptor is the subset of a registered hook's identity that feeds
// logic_hash. Hook fingerprints are caller-supplied strings, never a code
// pointer, per the design notes on handler identity across rebuilds.
type HookDescriptor struct {
	ID          string
	Mode        delta.Phase
	Priority    int32
	Fingerprint string
	Enabled     bool
}

// LogicHash computes a stable digest over the enabled subset of descriptors,
// ordered by (priority desc, id asc). The hook registry breaks priority ties
// by insertion order when it orders execution; here ties break by id, so the
// digest does not depend on registration order.
func LogicHash(descriptors []HookDescriptor) rdf.Hash256 {
	enabled := make([]HookDescriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if d.Enabled {
			enabled = append(enabled, d)
		}
	}
	sort.Slice(enabled, func(i, j int) bool {
		if enabled[i].Priority != enabled[j].Priority {
			return enabled[i].Priority > enabled[j].Priority
		}
		return enabled[i].ID < enabled[j].ID
	})

	var buf []byte
	for i, d := range enabled {
		if i > 0 {
			buf = append(buf, rdf.Separator)
		}
		buf = append(buf, d.ID...)
		buf = append(buf, rdf.Separator)
		buf = append(buf, d.Mode.String()...)
		buf = append(buf, rdf.Separator)
		buf = append(buf, int32ToBytes(d.Priority)...)
		buf = append(buf, rdf.Separator)
		buf = append(buf, d.Fingerprint...)
	}
	return rdf.Hash(buf)
}

func int32ToBytes(v int32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// State is the running {tip_hash, logic_hash, tx_count} triple (§3
// ChainState). It carries no mutex of its own: the kernel owns the single
// critical section that reads and advances it.
type State struct {
	TipHash   rdf.Hash256
	LogicHash rdf.Hash256
	TxCount   uint64
}

// Genesis returns the initial chain state for a fresh engine.
func Genesis(descriptors []HookDescriptor) State {
	return State{
		TipHash:   GenesisHash,
		LogicHash: LogicHash(descriptors),
		TxCount:   0,
	}
}

// Advance returns the next chain state after committing additions/removals.
func (s State) Advance(additions, removals []rdf.Quad) State {
	return State{
		TipHash:   rdf.ChainNext(s.TipHash, additions, removals),
		LogicHash: s.LogicHash,
		TxCount:   s.TxCount + 1,
	}
}

// WithLogicHash returns a copy of s with an updated logic hash, used after a
// hook registry mutation that does not itself advance the tip.
func (s State) WithLogicHash(h rdf.Hash256) State {
	s.LogicHash = h
	return s
}
