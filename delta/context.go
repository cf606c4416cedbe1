package delta

import (
	"time"

	"github.com/google/uuid"
	"github.com/seanchatmangpt/kgcl/rdf"
)

// TransactionContext is the immutable envelope threaded through a single
// apply call: identity, actor, timestamp, and the chain tip it was proposed
// against.
type TransactionContext struct {
	TxID      uuid.UUID
	Actor     string
	Timestamp int64 // monotonic nanoseconds, time.Now().UnixNano()
	PrevHash  rdf.Hash256
	Extra     map[string]any
}

// NewContext builds a TransactionContext for a fresh apply call.
func NewContext(actor string, prevHash rdf.Hash256, extra map[string]any) TransactionContext {
	if extra == nil {
		extra = map[string]any{}
	}
	return TransactionContext{
		TxID:      uuid.New(),
		Actor:     actor,
		Timestamp: time.Now().UnixNano(),
		PrevHash:  prevHash,
		Extra:     extra,
	}
}

// Phase identifies which half of a hook registry a hook belongs to.
type Phase uint8

const (
	PhasePre Phase = iota
	PhasePost
)

func (p Phase) String() string {
	if p == PhasePre {
		return "PRE"
	}
	return "POST"
}

// HookResult is the outcome of invoking a single hook during an apply.
type HookResult struct {
	HookID     string
	Phase      Phase
	Success    bool
	DurationNs int64
	VetoReason string // non-empty only when Phase == PhasePre && !Success
}

// Receipt is the immutable outcome of exactly one apply call.
type Receipt struct {
	TxID        uuid.UUID
	Committed   bool
	MerkleRoot  rdf.Hash256
	LogicHash   rdf.Hash256
	HookResults []HookResult
	DurationNs  int64
	Error       string
}
