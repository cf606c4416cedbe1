package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var tickWatch bool
var tickInterval time.Duration

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "run one infer-plan-apply-validate cycle",
	Long: `tick drives the engine's orchestrator through a single
infer-plan-apply-validate cycle and prints the resulting outcome as JSON.
With --watch it repeats on --interval until interrupted.`,
	RunE: runTick,
}

func init() {
	tickCmd.Flags().BoolVar(&tickWatch, "watch", false, "repeat tick on an interval instead of running once")
	tickCmd.Flags().DurationVar(&tickInterval, "interval", 5*time.Second, "interval between ticks when --watch is set")
	RootCmd.AddCommand(tickCmd)
}

func runTick(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := newLogger(cfg)

	e, closeEngine, err := buildEngine(cfg)
	if err != nil {
		logger.WithError(err).Error("failed to build engine")
		os.Exit(ExitInternalFailure)
		return err
	}
	defer closeEngine()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.TickTimeout)
	defer cancel()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if !tickWatch {
		outcome := e.Tick(ctx)
		return enc.Encode(outcome)
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for range ticker.C {
		tctx, tcancel := context.WithTimeout(context.Background(), cfg.TickTimeout)
		outcome := e.Tick(tctx)
		tcancel()
		if err := enc.Encode(outcome); err != nil {
			return err
		}
		if outcome.Changed {
			fmt.Fprintln(os.Stderr, "tick applied changes")
		}
	}
	return nil
}
