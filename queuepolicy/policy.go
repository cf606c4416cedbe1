// Package queuepolicy implements the resource/queue policy (C16): pure
// functions deciding which participants are eligible for a work item and
// how eligible participants are assigned, plus publishers that carry the
// resulting assignment onto an external queue. No hidden state backs the
// eligibility or distribution decision itself.
package queuepolicy

import (
	"sort"

	"github.com/seanchatmangpt/kgcl/rdf"
	"github.com/seanchatmangpt/kgcl/store"
)

// Strategy names the distribution algorithms §4.16 enumerates.
type Strategy string

const (
	OfferAll     Strategy = "offer-all"
	RoundRobin   Strategy = "round-robin"
	ShortestQueue Strategy = "shortest-queue"
	Random       Strategy = "random"
	Direct       Strategy = "direct"
)

// Participant is a candidate resource a work item can be assigned to.
type Participant struct {
	URI string
}

// Assignment is the distribution outcome: the work item's chosen
// participant(s) under the given strategy. OfferAll yields every eligible
// participant; every other strategy yields exactly one.
type Assignment struct {
	WorkItemURI  string
	Participants []string
}

// Eligible returns every participant entitled to a work item, per the
// `kgc:eligibleFor` relation asserted in the data graph (workItem,
// kgc:eligibleFor, participant). Order is deterministic (lexicographic by
// participant URI), since the distribution strategies below depend on a
// stable input order.
func Eligible(view store.View, workItem rdf.Term) []Participant {
	pred := rdf.KGC("eligibleFor")
	matches := view.Match(store.Pattern{Subject: &workItem, Predicate: &pred})

	out := make([]Participant, 0, len(matches))
	for _, q := range matches {
		out = append(out, Participant{URI: q.Object.Value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

// roundRobinState tracks each work item's next offset, since round-robin
// is the one strategy with memory: successive calls for the same item (as
// participants decline in turn) must advance past the last offer.
type roundRobinState struct {
	next map[string]int
}

// NewRoundRobinState returns fresh round-robin counters, scoped to one
// engine instance.
func NewRoundRobinState() *roundRobinState {
	return &roundRobinState{next: make(map[string]int)}
}

// queueDepth looks up a participant's current queue depth for the
// shortest-queue strategy. nil is a valid depth source (callers not using
// shortest-queue never need one).
type queueDepth func(participantURI string) int

// Distribute assigns a work item to participant(s) from eligible under
// strategy. randomIndex selects the Random strategy's pick (callers
// supply it rather than this package calling math/rand directly, keeping
// the function pure and its randomness source explicit and testable).
// rr is consulted only for RoundRobin; depth only for ShortestQueue.
func Distribute(strategy Strategy, workItem rdf.Term, eligible []Participant, rr *roundRobinState, depth queueDepth, randomIndex int) Assignment {
	out := Assignment{WorkItemURI: workItem.Value}
	if len(eligible) == 0 {
		return out
	}

	switch strategy {
	case OfferAll:
		for _, p := range eligible {
			out.Participants = append(out.Participants, p.URI)
		}
	case Direct:
		out.Participants = []string{eligible[0].URI}
	case RoundRobin:
		idx := 0
		if rr != nil {
			idx = rr.next[workItem.Value] % len(eligible)
			rr.next[workItem.Value] = idx + 1
		}
		out.Participants = []string{eligible[idx].URI}
	case ShortestQueue:
		best := eligible[0]
		bestDepth := depthOf(depth, best.URI)
		for _, p := range eligible[1:] {
			d := depthOf(depth, p.URI)
			if d < bestDepth {
				best, bestDepth = p, d
			}
		}
		out.Participants = []string{best.URI}
	case Random:
		idx := randomIndex % len(eligible)
		if idx < 0 {
			idx += len(eligible)
		}
		out.Participants = []string{eligible[idx].URI}
	default:
		out.Participants = []string{eligible[0].URI}
	}
	return out
}

func depthOf(depth queueDepth, participantURI string) int {
	if depth == nil {
		return 0
	}
	return depth(participantURI)
}
