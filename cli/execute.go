package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/seanchatmangpt/kgcl/delta"
	"github.com/seanchatmangpt/kgcl/executor"
	"github.com/seanchatmangpt/kgcl/rdf"
)

// execute is the §9 "dedicated driver step": it runs an ExecutorTask
// through the registry outside the kernel and the tick, then — only if
// --apply-subject and --apply-predicate are both set and the task
// succeeded — makes one deliberate, separate engine.Apply call to fold the
// result into the graph. A failed or unbound task never touches the store.
var (
	executeKind      string
	executeBindings  map[string]string
	executeTimeoutMs uint32
	executeApplySubj string
	executeApplyPred string
	executeActor     string
)

var executeCmd = &cobra.Command{
	Use:   "execute",
	Short: "run an automated-task executor outside the kernel and tick",
	Long: `execute dispatches an ExecutorTask to the registered http or
command executor and prints the resulting ExecutorResult as JSON. It never
runs inside the kernel's critical section or a tick cycle: a successful
result is only reflected in the graph when --apply-subject and
--apply-predicate are given, which triggers one explicit, separate
engine.Apply call.`,
	RunE: runExecute,
}

func init() {
	executeCmd.Flags().StringVar(&executeKind, "kind", "", "executor kind: http|command")
	executeCmd.Flags().StringToStringVar(&executeBindings, "bind", nil, "input_bindings key=value, repeatable")
	executeCmd.Flags().Uint32Var(&executeTimeoutMs, "timeout-ms", 5000, "task timeout in milliseconds")
	executeCmd.Flags().StringVar(&executeApplySubj, "apply-subject", "", "subject IRI to attach the task output to")
	executeCmd.Flags().StringVar(&executeApplyPred, "apply-predicate", "", "predicate IRI used with --apply-subject")
	executeCmd.Flags().StringVar(&executeActor, "actor", "executor", "actor recorded on the follow-up apply receipt")
	executeCmd.MarkFlagRequired("kind")
	RootCmd.AddCommand(executeCmd)
}

func runExecute(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := newLogger(cfg)

	task := executor.ExecutorTask{
		TaskID:        uuid.NewString(),
		ExecutorKind:  executeKind,
		InputBindings: executeBindings,
		TimeoutMs:     executeTimeoutMs,
	}

	reg := executor.NewRegistry()
	reg.Register(executor.NewHTTPExecutor())
	reg.Register(executor.NewCommandExecutor())

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(executeTimeoutMs)*time.Millisecond+time.Second)
	defer cancel()

	result, execErr := reg.Execute(ctx, task)
	if execErr != nil {
		logger.WithError(execErr).Error("executor task failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}

	if execErr != nil {
		os.Exit(ExitInternalFailure)
		return nil
	}

	if executeApplySubj == "" || executeApplyPred == "" {
		return nil
	}
	if !result.Success {
		fmt.Fprintln(os.Stderr, "executor task did not succeed; skipping apply")
		return nil
	}

	e, closeEngine, err := buildEngine(cfg)
	if err != nil {
		logger.WithError(err).Error("failed to build engine")
		os.Exit(ExitInternalFailure)
		return err
	}
	defer closeEngine()

	qd, err := delta.New([]rdf.Quad{
		rdf.NewQuad(rdf.IRI(executeApplySubj), rdf.IRI(executeApplyPred), rdf.Literal(result.Output, "")),
	}, nil, cfg.BatchCeiling)
	if err != nil {
		logger.WithError(err).Error("executor result delta rejected")
		os.Exit(ExitValidationError)
		return err
	}

	receipt := e.Apply(qd, executeActor)
	if err := enc.Encode(receipt); err != nil {
		return err
	}
	if !receipt.Committed {
		fmt.Fprintln(os.Stderr, "apply rejected:", receipt.Error)
		os.Exit(ExitHookRejection)
	}
	return nil
}
