package reasoner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/seanchatmangpt/kgcl/rdf"
	"github.com/seanchatmangpt/kgcl/store"
)

// InProcess is the default Reasoner: a monotonic forward chainer that
// evaluates each rule's CEL condition against every subject present in the
// graph and, where true, contributes the rule's produced triple. It is a
// pure function of (view, rules): running it twice over the same input
// yields byte-identical output (testable property 11).
type InProcess struct {
	env *cel.Env
}

// NewInProcess builds the CEL environment shared across rule evaluations.
func NewInProcess() (*InProcess, error) {
	env, err := cel.NewEnv(
		cel.Variable("subject", cel.StringType),
		cel.Variable("props", cel.MapType(cel.StringType, cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("build cel environment: %w", err)
	}
	return &InProcess{env: env}, nil
}

// Reason implements Reasoner.
func (r *InProcess) Reason(ctx context.Context, view store.View, rules []Rule, timeout time.Duration) ([]rdf.Quad, error) {
	deadline := time.Now().Add(timeout)

	subjects := distinctSubjects(view)
	var out []rdf.Quad
	for _, rule := range rules {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: rule %s exceeded timeout %s", rdf.ErrReasonerFailure, rule.ID, timeout)
		}
		prg, err := r.compile(rule.When)
		if err != nil {
			return nil, fmt.Errorf("%w: compiling rule %s: %v", rdf.ErrReasonerFailure, rule.ID, err)
		}
		for _, subject := range subjects {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", rdf.ErrReasonerFailure, ctx.Err())
			default:
			}

			props := propsOf(view, subject)
			val, _, err := prg.Eval(map[string]any{"subject": subject.Value, "props": props})
			if err != nil {
				continue // a rule that fails to evaluate for this subject simply doesn't fire
			}
			fires, ok := val.Value().(bool)
			if !ok || !fires {
				continue
			}
			bindings := store.Bindings{"subject": subject}
			q, err := resolveTemplate(rule.Produces, bindings)
			if err != nil {
				continue
			}
			out = append(out, q)
		}
	}
	return sanitize(dedupe(out)), nil
}

func (r *InProcess) compile(expr string) (cel.Program, error) {
	ast, iss := r.env.Compile(expr)
	if iss.Err() != nil {
		return nil, iss.Err()
	}
	return r.env.Program(ast)
}

func distinctSubjects(view store.View) []rdf.Term {
	seen := map[rdf.Term]struct{}{}
	var out []rdf.Term
	for _, q := range view.All() {
		if _, ok := seen[q.Subject]; !ok {
			seen[q.Subject] = struct{}{}
			out = append(out, q.Subject)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

func propsOf(view store.View, subject rdf.Term) map[string]string {
	props := map[string]string{}
	s := subject
	for _, q := range view.Match(store.Pattern{Subject: &s}) {
		props[localName(q.Predicate.Value)] = q.Object.Value
	}
	return props
}

func localName(iri string) string {
	for i := len(iri) - 1; i >= 0; i-- {
		if iri[i] == '#' || iri[i] == '/' {
			return iri[i+1:]
		}
	}
	return iri
}

func dedupe(quads []rdf.Quad) []rdf.Quad {
	seen := map[rdf.Quad]struct{}{}
	out := make([]rdf.Quad, 0, len(quads))
	for _, q := range quads {
		if _, ok := seen[q]; !ok {
			seen[q] = struct{}{}
			out = append(out, q)
		}
	}
	return out
}
