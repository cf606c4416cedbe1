// Package delta defines the immutable value types that flow through the
// transaction kernel: mutation intents, transaction context, and receipts.
package delta

import (
	"fmt"

	"github.com/seanchatmangpt/kgcl/rdf"
)

// ChatmanConstant is the fixed batch ceiling K referenced throughout the
// design notes (§6.2). It is the default; Kernel/Engine configuration may
// override it per §6.5.
const ChatmanConstant = 64

// QuadDelta is an immutable mutation intent: an ordered set of additions and
// an ordered set of removals, together bounded by a batch ceiling.
type QuadDelta struct {
	Additions []rdf.Quad
	Removals  []rdf.Quad
}

// New builds a QuadDelta, rejecting it at construction if it exceeds
// ceiling. Pass 0 to use ChatmanConstant.
func New(additions, removals []rdf.Quad, ceiling int) (QuadDelta, error) {
	if ceiling <= 0 {
		ceiling = ChatmanConstant
	}
	if len(additions)+len(removals) > ceiling {
		return QuadDelta{}, fmt.Errorf("%w: %d additions + %d removals exceeds ceiling %d",
			ErrTopologyViolation, len(additions), len(removals), ceiling)
	}
	out := QuadDelta{
		Additions: append([]rdf.Quad{}, additions...),
		Removals:  append([]rdf.Quad{}, removals...),
	}
	return out, nil
}

// Empty reports whether the delta carries no mutations.
func (d QuadDelta) Empty() bool {
	return len(d.Additions) == 0 && len(d.Removals) == 0
}

// Size is the total quad count across both sides of the delta.
func (d QuadDelta) Size() int {
	return len(d.Additions) + len(d.Removals)
}
