// Package tick implements the tick orchestrator (C11): the 7-step
// infer-plan-apply-validate cycle that drives a workflow case forward one
// step, composing the reasoner, planner, shape validator, and kernel.
package tick

import (
	"context"
	"fmt"
	"time"

	"github.com/seanchatmangpt/kgcl/delta"
	"github.com/seanchatmangpt/kgcl/kernel"
	"github.com/seanchatmangpt/kgcl/planner"
	"github.com/seanchatmangpt/kgcl/reasoner"
	"github.com/seanchatmangpt/kgcl/shape"
)

// Config bundles the shapes and rules a tick orchestrator evaluates on
// every cycle, plus the per-phase timeouts passed down to the reasoner.
type Config struct {
	Shapes        []shape.Shape
	Rules         []reasoner.Rule
	ReasonTimeout time.Duration
	Actor         string
}

// Outcome reports what a single tick did.
type Outcome struct {
	Changed    bool
	DeltaSize  int
	DurationNs int64
	Receipts   []delta.Receipt
	Error      string
}

// Orchestrator runs the 7-step tick cycle over a kernel, reasoner, and
// planner.
type Orchestrator struct {
	kernel   *kernel.Kernel
	reasoner reasoner.Reasoner
	planner  *planner.Planner
	config   Config
}

// New builds a tick orchestrator. A zero ReasonTimeout defaults to 200ms.
func New(k *kernel.Kernel, r reasoner.Reasoner, p *planner.Planner, cfg Config) *Orchestrator {
	if cfg.ReasonTimeout <= 0 {
		cfg.ReasonTimeout = 200 * time.Millisecond
	}
	if cfg.Actor == "" {
		cfg.Actor = "tick"
	}
	return &Orchestrator{kernel: k, reasoner: r, planner: p, config: cfg}
}

// Tick runs one full infer-plan-apply-validate cycle per §4.11:
//
//  1. Begin: capture the chain tip and a store snapshot.
//  2. Pre-validate: @pre shapes against the current store.
//  3. Infer: the reasoner produces recommendation triples into a scratch
//     graph forked from the live store.
//  4. Plan: the planner turns the scratch graph's recommendations into one
//     or more size-bounded deltas.
//  5. Apply: each delta is routed through the kernel in sequence; a PRE
//     veto aborts the tick and rolls the store back to the step-1
//     snapshot.
//  6. Post-validate: @post shapes against the resulting store; a
//     violation rolls back to the step-1 snapshot and aborts.
//  7. Convergence check: if no delta committed, the tick reports
//     Changed=false.
func (o *Orchestrator) Tick(ctx context.Context) Outcome {
	start := time.Now()
	snap := o.kernel.Snapshot()

	preShapes := shape.Filter(o.config.Shapes, shape.TagPre)
	if report := shape.Validate(o.kernel.Store(), preShapes); !report.Conforms {
		return Outcome{
			DurationNs: time.Since(start).Nanoseconds(),
			Error:      fmt.Sprintf("%s: %v", delta.ErrPreconditionViolation, report.Violations),
		}
	}

	scratch := o.kernel.MutableStore().Fork()
	quads, err := o.reasoner.Reason(ctx, o.kernel.Store(), o.config.Rules, o.config.ReasonTimeout)
	if err != nil {
		return Outcome{
			DurationNs: time.Since(start).Nanoseconds(),
			Error:      fmt.Sprintf("%s: %v", delta.ErrReasonerFailure, err),
		}
	}
	scratch.Add(quads)

	txCtx := delta.NewContext(o.config.Actor, o.kernel.TipHash(), nil)
	deltas, err := o.planner.Plan(scratch, o.kernel.MutableStore(), txCtx)
	if err != nil {
		return Outcome{
			DurationNs: time.Since(start).Nanoseconds(),
			Error:      fmt.Sprintf("planning failed: %v", err),
		}
	}
	if len(deltas) == 0 {
		return Outcome{Changed: false, DurationNs: time.Since(start).Nanoseconds()}
	}

	var receipts []delta.Receipt
	var deltaSize int
	for _, d := range deltas {
		receipt := o.kernel.Apply(d, o.config.Actor)
		receipts = append(receipts, receipt)
		if !receipt.Committed {
			o.kernel.Restore(snap)
			return Outcome{
				DeltaSize:  deltaSize,
				DurationNs: time.Since(start).Nanoseconds(),
				Receipts:   receipts,
				Error:      receipt.Error,
			}
		}
		deltaSize += d.Size()
	}

	postShapes := shape.Filter(o.config.Shapes, shape.TagPost)
	if report := shape.Validate(o.kernel.Store(), postShapes); !report.Conforms {
		o.kernel.Restore(snap)
		return Outcome{
			DeltaSize:  deltaSize,
			DurationNs: time.Since(start).Nanoseconds(),
			Receipts:   receipts,
			Error:      fmt.Sprintf("%s: %v", delta.ErrPostconditionViolation, report.Violations),
		}
	}

	return Outcome{
		Changed:    deltaSize > 0,
		DeltaSize:  deltaSize,
		DurationNs: time.Since(start).Nanoseconds(),
		Receipts:   receipts,
	}
}
