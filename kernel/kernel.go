// Package kernel implements the transaction kernel (C5): the single
// critical section that validates, applies, and chains a QuadDelta, and
// always returns exactly one Receipt.
package kernel

import (
	"fmt"
	"sync"
	"time"

	"github.com/seanchatmangpt/kgcl/chain"
	"github.com/seanchatmangpt/kgcl/delta"
	"github.com/seanchatmangpt/kgcl/hook"
	"github.com/seanchatmangpt/kgcl/store"
)

// Config tunes the kernel's enforcement knobs (§6.5).
type Config struct {
	BatchCeiling       int
	HookDefaultTimeout time.Duration
}

// DefaultConfig returns the spec's default configuration.
func DefaultConfig() Config {
	return Config{
		BatchCeiling:       delta.ChatmanConstant,
		HookDefaultTimeout: 50 * time.Millisecond,
	}
}

// Kernel owns the store, chain state, and hook registry, serializing every
// apply through a single mutex per §5.
type Kernel struct {
	mu     sync.Mutex
	store  store.Store
	state  chain.State
	hooks  *hook.Registry
	config Config
}

// New builds a kernel over an existing store and hook registry, with chain
// state initialized at genesis.
func New(s store.Store, hooks *hook.Registry, cfg Config) *Kernel {
	if cfg.BatchCeiling <= 0 {
		cfg = DefaultConfig()
	}
	return &Kernel{
		store:  s,
		hooks:  hooks,
		state:  chain.Genesis(hooks.Descriptors()),
		config: cfg,
	}
}

// TipHash returns the current chain tip.
func (k *Kernel) TipHash() [32]byte {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.state.TipHash
}

// LogicHash returns the current logic hash over the hook registry.
func (k *Kernel) LogicHash() [32]byte {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.state.LogicHash
}

// Len returns the current store quad count.
func (k *Kernel) Len() int {
	return k.store.Len()
}

// Store exposes the read-only store view, e.g. for the tick orchestrator's
// precondition/postcondition checks.
func (k *Kernel) Store() store.View {
	return k.store
}

// MutableStore exposes the underlying Store, for components (the planner,
// via the verb executor) that need to fork it for dry-run template
// execution. Only the kernel's own Apply ever writes through it inside the
// critical section; callers outside the kernel must route mutation through
// Apply.
func (k *Kernel) MutableStore() store.Store {
	return k.store
}

// Snapshot captures the current store contents, for the tick
// orchestrator's rollback path.
func (k *Kernel) Snapshot() store.Snapshot {
	return k.store.Snapshot()
}

// Restore rolls the store back to a prior snapshot, used when a tick's
// postcondition check fails after sub-deltas have already committed.
func (k *Kernel) Restore(s store.Snapshot) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.store.Restore(s)
}

// RegisterHook registers a hook and refreshes logic_hash (invariant 5).
func (k *Kernel) RegisterHook(h hook.Hook) error {
	if err := k.hooks.Register(h); err != nil {
		return err
	}
	k.mu.Lock()
	k.state = k.state.WithLogicHash(k.hooks.LogicHash())
	k.mu.Unlock()
	return nil
}

// UnregisterHook removes a hook and refreshes logic_hash.
func (k *Kernel) UnregisterHook(id string) {
	k.hooks.Unregister(id)
	k.mu.Lock()
	k.state = k.state.WithLogicHash(k.hooks.LogicHash())
	k.mu.Unlock()
}

// SetHookEnabled toggles a hook and refreshes logic_hash.
func (k *Kernel) SetHookEnabled(id string, enabled bool) {
	k.hooks.SetEnabled(id, enabled)
	k.mu.Lock()
	k.state = k.state.WithLogicHash(k.hooks.LogicHash())
	k.mu.Unlock()
}

// Apply runs the 9-step apply algorithm of §4.5 under the kernel's single
// mutex, returning exactly one Receipt.
func (k *Kernel) Apply(d delta.QuadDelta, actor string) delta.Receipt {
	start := time.Now()

	// Step 1: validate delta size. This happens outside the lock; an
	// oversize delta never touches the store or chain.
	if d.Size() > k.config.BatchCeiling {
		return delta.Receipt{
			Committed:  false,
			Error:      fmt.Sprintf("%s: %d quads exceeds ceiling %d", delta.ErrTopologyViolation, d.Size(), k.config.BatchCeiling),
			DurationNs: time.Since(start).Nanoseconds(),
		}
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	// Step 2-3: snapshot store and chain, take the registry snapshot.
	snap := k.store.Snapshot()
	preState := k.state
	regSnap := k.hooks.Snapshot()

	// Step 4: build the transaction context.
	ctx := delta.NewContext(actor, preState.TipHash, nil)

	var results []delta.HookResult

	// Step 5: PRE hooks in order; veto aborts before any mutation.
	for _, h := range regSnap.Pre {
		ok, durNs := k.invoke(h, d, ctx)
		if !ok {
			results = append(results, delta.HookResult{
				HookID: h.ID, Phase: delta.PhasePre, Success: false,
				DurationNs: durNs, VetoReason: h.ID,
			})
			return delta.Receipt{
				TxID:        ctx.TxID,
				Committed:   false,
				MerkleRoot:  preState.TipHash,
				LogicHash:   preState.LogicHash,
				HookResults: results,
				DurationNs:  time.Since(start).Nanoseconds(),
				Error:       fmt.Sprintf("%s: %s", delta.ErrGuardViolation, h.ID),
			}
		}
		results = append(results, delta.HookResult{HookID: h.ID, Phase: delta.PhasePre, Success: true, DurationNs: durNs})
	}

	// Step 6: apply removals then additions atomically.
	k.store.Remove(d.Removals)
	k.store.Add(d.Additions)

	// Step 7: POST hooks; failures are recorded but never roll back.
	for _, h := range regSnap.Post {
		ok, durNs := k.invoke(h, d, ctx)
		results = append(results, delta.HookResult{HookID: h.ID, Phase: delta.PhasePost, Success: ok, DurationNs: durNs})
	}

	// Step 8: advance the chain.
	k.state = k.state.Advance(d.Additions, d.Removals)

	// Step 9: emit the receipt.
	return delta.Receipt{
		TxID:        ctx.TxID,
		Committed:   true,
		MerkleRoot:  k.state.TipHash,
		LogicHash:   k.state.LogicHash,
		HookResults: results,
		DurationNs:  time.Since(start).Nanoseconds(),
	}
}

// invoke runs a single hook's handler, converting a panic into a veto
// (PRE) or a recorded-but-non-vetoing failure (POST), per HandlerException
// propagation rules.
func (k *Kernel) invoke(h hook.Hook, d delta.QuadDelta, ctx delta.TransactionContext) (ok bool, durationNs int64) {
	started := time.Now()
	timeout := k.config.HookDefaultTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().HookDefaultTimeout
	}

	done := make(chan bool, 1)
	go func() {
		defer func() {
			if recover() != nil {
				done <- false
			}
		}()
		done <- h.Handler(k.store, d, ctx)
	}()

	select {
	case result := <-done:
		return result, time.Since(started).Nanoseconds()
	case <-time.After(timeout):
		return false, time.Since(started).Nanoseconds()
	}
}
