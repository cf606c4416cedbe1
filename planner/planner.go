// Package planner implements the mutation planner (C9): translating
// reasoner recommendations into one or more size-bounded, deterministically
// merged QuadDeltas.
package planner

import (
	"sort"
	"strconv"

	"github.com/seanchatmangpt/kgcl/delta"
	"github.com/seanchatmangpt/kgcl/rdf"
	"github.com/seanchatmangpt/kgcl/store"
	"github.com/seanchatmangpt/kgcl/verb"
)

// Planner groups recommendation triples by subject, resolves each
// subject's verb binding from the ontology, and merges the resulting
// per-subject deltas deterministically.
type Planner struct {
	executor *verb.Executor
	ceiling  int
}

// New builds a planner over a verb executor, splitting merged deltas at
// ceiling (0 uses the default Chatman constant).
func New(executor *verb.Executor, ceiling int) *Planner {
	if ceiling <= 0 {
		ceiling = delta.ChatmanConstant
	}
	return &Planner{executor: executor, ceiling: ceiling}
}

type recommendation struct {
	subject  rdf.Term
	priority int
}

func recommendations(scratch store.View) []recommendation {
	pred := rdf.IRI(rdf.PredShouldFire)
	fired := scratch.Match(store.Pattern{Predicate: &pred})

	out := make([]recommendation, 0, len(fired))
	for _, q := range fired {
		if q.Object.Value != "true" {
			continue
		}
		out = append(out, recommendation{subject: q.Subject, priority: priorityOf(scratch, q.Subject)})
	}
	return out
}

func priorityOf(view store.View, subject rdf.Term) int {
	pred := rdf.IRI(rdf.PredPriority)
	s := subject
	for _, q := range view.Match(store.Pattern{Subject: &s, Predicate: &pred}) {
		if n, err := strconv.Atoi(q.Object.Value); err == nil {
			return n
		}
	}
	return 0
}

func verbConfigFor(ontology store.View, subject rdf.Term) (verb.Config, bool) {
	predVerb := rdf.IRI(rdf.PredVerb)
	s := subject
	verbMatches := ontology.Match(store.Pattern{Subject: &s, Predicate: &predVerb})
	if len(verbMatches) == 0 {
		return verb.Config{}, false
	}
	predTemplate := rdf.IRI(rdf.PredTemplate)
	templateMatches := ontology.Match(store.Pattern{Subject: &s, Predicate: &predTemplate})
	if len(templateMatches) == 0 {
		return verb.Config{}, false
	}
	return verb.Config{
		VerbURI:              verbMatches[0].Object.Value,
		ExecutionTemplateURI: templateMatches[0].Object.Value,
		Parameters:           map[string]rdf.Term{},
	}, true
}

// Plan groups scratch's recommendation triples by subject, invokes the verb
// executor per group using live as the base graph, and returns one or more
// deterministically merged, size-bounded QuadDeltas. Groups run in priority
// order and the higher-priority group wins a conflicting (subject,
// predicate) claim, but the returned deltas are not ordered by priority:
// merged removals keep group order, merged additions are sorted by their
// N-Quads form, and splitAtCeiling places removals before additions.
func (p *Planner) Plan(scratch store.View, live store.Store, ctx delta.TransactionContext) ([]delta.QuadDelta, error) {
	recs := recommendations(scratch)
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].priority != recs[j].priority {
			return recs[i].priority > recs[j].priority
		}
		return recs[i].subject.Value < recs[j].subject.Value
	})

	type claimed struct {
		quad     rdf.Quad
		priority int
	}
	claims := map[[2]rdf.Term]claimed{} // key: (subject, predicate)
	var mergedAdditions []rdf.Quad
	removalSeen := map[rdf.Quad]struct{}{}
	var mergedRemovals []rdf.Quad

	for _, rec := range recs {
		cfg, ok := verbConfigFor(live, rec.subject)
		if !ok {
			continue
		}
		d, err := p.executor.Execute(cfg, rec.subject, live, ctx)
		if err != nil {
			continue // a single group's verb failure doesn't abort planning; it simply contributes nothing
		}
		for _, q := range d.Additions {
			key := [2]rdf.Term{q.Subject, q.Predicate}
			if existing, ok := claims[key]; ok {
				if existing.priority >= rec.priority {
					continue // a higher- or equal-priority group already claimed this (subject, predicate)
				}
			}
			claims[key] = claimed{quad: q, priority: rec.priority}
		}
		for _, q := range d.Removals {
			if _, ok := removalSeen[q]; !ok {
				removalSeen[q] = struct{}{}
				mergedRemovals = append(mergedRemovals, q)
			}
		}
	}

	mergedAdditions = make([]rdf.Quad, 0, len(claims))
	for _, c := range claims {
		mergedAdditions = append(mergedAdditions, c.quad)
	}
	sort.Slice(mergedAdditions, func(i, j int) bool { return mergedAdditions[i].String() < mergedAdditions[j].String() })

	return splitAtCeiling(mergedAdditions, mergedRemovals, p.ceiling)
}

// splitAtCeiling packs removals then additions into successive deltas, each
// at most ceiling quads, so an oversized merged plan becomes a sequence of
// sub-ticks instead of a single rejected delta.
func splitAtCeiling(additions, removals []rdf.Quad, ceiling int) ([]delta.QuadDelta, error) {
	if len(additions)+len(removals) == 0 {
		return nil, nil
	}

	var deltas []delta.QuadDelta
	for len(additions) > 0 || len(removals) > 0 {
		budget := ceiling
		var addBatch, remBatch []rdf.Quad

		take := min(budget, len(removals))
		remBatch, removals = removals[:take], removals[take:]
		budget -= take

		take = min(budget, len(additions))
		addBatch, additions = additions[:take], additions[take:]

		d, err := delta.New(addBatch, remBatch, ceiling)
		if err != nil {
			return nil, err
		}
		deltas = append(deltas, d)
	}
	return deltas, nil
}
