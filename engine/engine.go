// Package engine composes the kernel, tick orchestrator, and dispatch
// table behind the single facade external callers use (§6.1's API
// surface): apply, tick, hook management, and chain introspection.
package engine

import (
	"context"
	"time"

	"github.com/seanchatmangpt/kgcl/delta"
	"github.com/seanchatmangpt/kgcl/dispatch"
	"github.com/seanchatmangpt/kgcl/hook"
	"github.com/seanchatmangpt/kgcl/kernel"
	"github.com/seanchatmangpt/kgcl/planner"
	"github.com/seanchatmangpt/kgcl/reasoner"
	"github.com/seanchatmangpt/kgcl/store"
	"github.com/seanchatmangpt/kgcl/tick"
)

// Engine is the single entry point a host program drives: it owns the
// store, chain state, and hook registry (via the kernel), and composes the
// tick orchestrator and dispatch table on top.
type Engine struct {
	kernel       *kernel.Kernel
	dispatch     *dispatch.Table
	orchestrator *tick.Orchestrator
}

// New builds an engine over an already-constructed kernel, reasoner, and
// planner. The dispatch table is populated from the kernel's store on
// construction and refreshed on every ReloadDispatch call.
func New(k *kernel.Kernel, r reasoner.Reasoner, p *planner.Planner, cfg tick.Config) *Engine {
	return &Engine{
		kernel:       k,
		dispatch:     dispatch.NewTable(k.Store()),
		orchestrator: tick.New(k, r, p, cfg),
	}
}

// Apply runs a single QuadDelta through the kernel's transactional apply
// algorithm, returning exactly one Receipt.
func (e *Engine) Apply(d delta.QuadDelta, actor string) delta.Receipt {
	return e.kernel.Apply(d, actor)
}

// Tick runs one infer-plan-apply-validate cycle.
func (e *Engine) Tick(ctx context.Context) tick.Outcome {
	return e.orchestrator.Tick(ctx)
}

// RegisterHook registers a hook and refreshes logic_hash.
func (e *Engine) RegisterHook(h hook.Hook) error {
	return e.kernel.RegisterHook(h)
}

// UnregisterHook removes a hook and refreshes logic_hash.
func (e *Engine) UnregisterHook(id string) {
	e.kernel.UnregisterHook(id)
}

// SetHookEnabled toggles a hook's enabled flag and refreshes logic_hash.
func (e *Engine) SetHookEnabled(id string, enabled bool) {
	e.kernel.SetHookEnabled(id, enabled)
}

// TipHash returns the current chain tip hash.
func (e *Engine) TipHash() [32]byte { return e.kernel.TipHash() }

// LogicHash returns the current logic hash over the hook registry.
func (e *Engine) LogicHash() [32]byte { return e.kernel.LogicHash() }

// Len returns the current store quad count.
func (e *Engine) Len() int { return e.kernel.Len() }

// Store exposes the read-only store view, for callers that need to query
// the current graph directly (e.g. the CLI's query command).
func (e *Engine) Store() store.View { return e.kernel.Store() }

// ReloadDispatch rebuilds the pattern-to-verb dispatch table from the
// current store contents, so ontology edits (new verbs, new templates)
// take effect without a process restart.
func (e *Engine) ReloadDispatch() { e.dispatch.Reload(e.kernel.Store()) }

// Dispatch exposes the dispatch table for direct pattern resolution.
func (e *Engine) Dispatch() *dispatch.Table { return e.dispatch }

// WithDeadline runs fn with a context carrying the given timeout, a small
// convenience so callers driving Tick from a scheduler don't each
// reimplement context.WithTimeout plumbing.
func WithDeadline(timeout time.Duration, fn func(context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	fn(ctx)
}
