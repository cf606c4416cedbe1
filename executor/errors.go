package executor

import "fmt"

// errNoExecutor, errExecutorPanic, and errTaskTimeout are the
// ExecutorFailure conditions (§7): all three are returned to the driver
// step that invoked Registry.Execute and never surface inside a Receipt or
// TickOutcome, since the executor runs outside both the kernel and the
// tick.
var (
	errExecutorPanic = fmt.Errorf("executor: handler panicked")
	errTaskTimeout   = fmt.Errorf("executor: task exceeded its timeout")
)

func errNoExecutor(kind string) error {
	return fmt.Errorf("executor: no executor registered for kind %q", kind)
}
