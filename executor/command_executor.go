package executor

import (
	"context"
	"fmt"
	"os/exec"
)

// CommandExecutor runs ExecutorTasks whose input_bindings carry a "command"
// string, executed via an optional "shell" binding (default /bin/sh).
type CommandExecutor struct {
	DefaultShell string
}

// NewCommandExecutor creates a command executor defaulting to /bin/sh.
func NewCommandExecutor() *CommandExecutor {
	return &CommandExecutor{DefaultShell: "/bin/sh"}
}

// Name returns the executor's identifier.
func (e *CommandExecutor) Name() string { return "command" }

// CanHandle reports whether task targets this executor and carries a
// non-empty command binding.
func (e *CommandExecutor) CanHandle(task ExecutorTask) bool {
	if task.ExecutorKind != "command" {
		return false
	}
	return task.InputBindings["command"] != ""
}

// Execute runs the bound shell command and reports its combined output.
func (e *CommandExecutor) Execute(ctx context.Context, task ExecutorTask) (ExecutorResult, error) {
	command := task.InputBindings["command"]
	if command == "" {
		err := fmt.Errorf("executor: command task %s missing command binding", task.TaskID)
		return ExecutorResult{Success: false, Error: err.Error()}, err
	}

	shell := task.InputBindings["shell"]
	if shell == "" {
		shell = e.DefaultShell
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	output, err := cmd.CombinedOutput()
	if err != nil {
		msg := fmt.Sprintf("command failed: %v: %s", err, string(output))
		return ExecutorResult{Success: false, Output: string(output), Error: msg}, fmt.Errorf("executor: %s", msg)
	}

	return ExecutorResult{Success: true, Output: string(output)}, nil
}
