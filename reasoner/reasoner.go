// Package reasoner implements the reasoner adapter (C8): feed state and a
// fixed rule set to a forward chainer and collect monotonic recommendation
// triples. The default implementation evaluates each rule's condition
// in-process via CEL; a subprocess variant delegates to an external
// reasoner binary for rule sets expressed in a foreign syntax.
package reasoner

import (
	"context"
	"fmt"
	"time"

	"github.com/seanchatmangpt/kgcl/rdf"
	"github.com/seanchatmangpt/kgcl/store"
)

// TripleTemplate is a produced-triple template: each slot is either a bound
// term or a reference to a variable bound while evaluating When.
type TripleTemplate struct {
	Subject, Predicate, Object string
}

// Rule is a construction-time (condition, produced triple) pair. When is a
// CEL expression evaluated once per candidate subject binding; Produces is
// substituted with the same bindings when When evaluates true.
type Rule struct {
	ID       string
	When     string
	Produces TripleTemplate
}

// Reasoner is the C8 contract.
type Reasoner interface {
	// Reason returns newly inferred triples only; it must never retract.
	Reason(ctx context.Context, view store.View, rules []Rule, timeout time.Duration) ([]rdf.Quad, error)
}

// knownPredicates gates which inferred predicates the kernel admits,
// per §4.8's "sanitize parsed output" requirement.
var knownPredicates = map[string]bool{
	rdf.PredShouldFire:        true,
	rdf.PredRecommendedAction: true,
	rdf.PredPriority:          true,
}

// RegisterPredicate allows a host to admit additional recommendation
// predicates beyond the builtin shouldFire/recommendedAction/priority set.
func RegisterPredicate(iri string) {
	knownPredicates[iri] = true
}

func sanitize(quads []rdf.Quad) []rdf.Quad {
	out := make([]rdf.Quad, 0, len(quads))
	for _, q := range quads {
		if knownPredicates[q.Predicate.Value] {
			out = append(out, q)
		}
	}
	return out
}

func resolveTemplate(tpl TripleTemplate, bindings store.Bindings) (rdf.Quad, error) {
	prefixes := store.DefaultPrefixes()
	s, err := resolveSlot(tpl.Subject, bindings, prefixes)
	if err != nil {
		return rdf.Quad{}, err
	}
	p, err := resolveSlot(tpl.Predicate, bindings, prefixes)
	if err != nil {
		return rdf.Quad{}, err
	}
	o, err := resolveSlot(tpl.Object, bindings, prefixes)
	if err != nil {
		return rdf.Quad{}, err
	}
	return rdf.NewQuad(s, p, o), nil
}

func resolveSlot(tok string, bindings store.Bindings, prefixes map[string]string) (rdf.Term, error) {
	variable, term, err := store.ParseTerm(tok, prefixes)
	if err != nil {
		return rdf.Term{}, err
	}
	if variable == "" {
		return term, nil
	}
	bound, ok := bindings[variable]
	if !ok {
		return rdf.Term{}, fmt.Errorf("%w: unbound variable %q in rule production", rdf.ErrUnknownPrefix, variable)
	}
	return bound, nil
}
