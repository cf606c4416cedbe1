// Package verb implements the verb executor (C7): given a VerbConfig, bind
// parameters, run the bound template against a forked snapshot, and return
// the resulting mutation as a QuadDelta. No host-language conditional
// decides the mutation's shape — the SPARQL template does.
package verb

import (
	"fmt"
	"time"

	"github.com/seanchatmangpt/kgcl/delta"
	"github.com/seanchatmangpt/kgcl/rdf"
	"github.com/seanchatmangpt/kgcl/store"
	"github.com/seanchatmangpt/kgcl/template"
)

// Config is the §3 VerbConfig value type.
type Config struct {
	VerbURI              string
	ExecutionTemplateURI string
	Parameters           map[string]rdf.Term
	TimeoutMs            uint32
}

// Executor runs verb configs against a template store and a live store
// snapshot.
type Executor struct {
	templates *template.Store
	ceiling   int
}

// New builds a verb executor over templates, rejecting produced deltas
// larger than ceiling (0 uses the default Chatman constant).
func New(templates *template.Store, ceiling int) *Executor {
	if ceiling <= 0 {
		ceiling = delta.ChatmanConstant
	}
	return &Executor{templates: templates, ceiling: ceiling}
}

// Execute binds parameters over subject, runs the resolved template
// against a fork of live, and returns the resulting QuadDelta.
func (e *Executor) Execute(cfg Config, subject rdf.Term, live store.Store, ctx delta.TransactionContext) (delta.QuadDelta, error) {
	tmpl, ok := e.templates.Get(cfg.ExecutionTemplateURI)
	if !ok {
		return delta.QuadDelta{}, fmt.Errorf("%w: template %s not found", rdf.ErrUnknownPrefix, cfg.ExecutionTemplateURI)
	}

	bindings := store.Bindings{"subject": subject}
	for k, v := range cfg.Parameters {
		bindings[k] = v
	}
	for k, v := range ctx.Extra {
		if term, ok := v.(rdf.Term); ok {
			if _, exists := bindings[k]; !exists {
				bindings[k] = term
			}
		}
	}

	fork := live.Fork()
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 50 * time.Millisecond
	}

	type result struct {
		added, removed []rdf.Quad
		err            error
	}
	done := make(chan result, 1)
	go func() {
		added, removed, err := store.Update(fork, tmpl.Sparql, bindings)
		done <- result{added, removed, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return delta.QuadDelta{}, r.err
		}
		return delta.New(r.added, r.removed, e.ceiling)
	case <-time.After(timeout):
		return delta.QuadDelta{}, fmt.Errorf("%w: verb %s timed out after %s", delta.ErrHandlerException, cfg.VerbURI, timeout)
	}
}
