package cli

import (
	"fmt"

	"github.com/seanchatmangpt/kgcl/config"
	"github.com/seanchatmangpt/kgcl/engine"
	"github.com/seanchatmangpt/kgcl/hook"
	"github.com/seanchatmangpt/kgcl/kernel"
	"github.com/seanchatmangpt/kgcl/planner"
	"github.com/seanchatmangpt/kgcl/reasoner"
	"github.com/seanchatmangpt/kgcl/shape"
	"github.com/seanchatmangpt/kgcl/store"
	"github.com/seanchatmangpt/kgcl/template"
	"github.com/seanchatmangpt/kgcl/tick"
	"github.com/seanchatmangpt/kgcl/verb"
)

// buildEngine wires a store, reasoner, and planner per cfg and composes
// them behind an engine.Engine, the same way engine.New expects any host
// program to.
func buildEngine(cfg config.KGCLConfig) (*engine.Engine, func() error, error) {
	s, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	hooks := hook.NewRegistry()

	r, err := openReasoner(cfg)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("open reasoner: %w", err)
	}

	templates := template.NewStore(s)
	verbExec := verb.New(templates, cfg.BatchCeiling)
	p := planner.New(verbExec, cfg.BatchCeiling)

	k := kernel.New(s, hooks, kernel.Config{
		BatchCeiling:       cfg.BatchCeiling,
		HookDefaultTimeout: cfg.HookDefaultTimeout,
	})

	tickCfg := tick.Config{
		Shapes:        []shape.Shape{},
		Rules:         []reasoner.Rule{},
		ReasonTimeout: cfg.ReasonerTimeout,
		Actor:         "cli",
	}

	e := engine.New(k, r, p, tickCfg)
	return e, closeStore, nil
}

func openStore(cfg config.KGCLConfig) (store.Store, func() error, error) {
	switch cfg.PersistenceMode {
	case config.PersistenceFile, config.PersistenceSQL:
		c, err := store.OpenCayley(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	default:
		m := store.NewMemory()
		return m, func() error { return nil }, nil
	}
}

func openReasoner(cfg config.KGCLConfig) (reasoner.Reasoner, error) {
	switch cfg.ReasonerMode {
	case config.ReasonerSubprocess:
		return reasoner.NewSubprocess("kgcl-reasoner"), nil
	default:
		return reasoner.NewInProcess()
	}
}
