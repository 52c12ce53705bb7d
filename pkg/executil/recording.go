package executil

import (
	"context"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Dir  string
	Cmd  string
	Args []string
}

// RecordingExecutor captures commands for testing.
// Configure Outputs and Errors maps to control return values.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	// Outputs maps commands to their output. A key of the form
	// "git diff" (command plus first argument) wins over the bare command
	// name "git".
	Outputs map[string][]byte

	// Errors maps commands to their error, keyed like Outputs.
	Errors map[string]error
}

// Run records the command and returns configured output/error.
func (e *RecordingExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return e.record("", cmd, args...)
}

// RunDir records the command with directory and returns configured output/error.
func (e *RecordingExecutor) RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error) {
	return e.record(dir, cmd, args...)
}

func (e *RecordingExecutor) record(dir, cmd string, args ...string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Commands = append(e.Commands, RecordedCommand{
		Dir:  dir,
		Cmd:  cmd,
		Args: args,
	})

	keys := []string{cmd}
	if len(args) > 0 {
		keys = []string{cmd + " " + args[0], cmd}
	}

	return lookup(e.Outputs, keys), lookup(e.Errors, keys)
}

func lookup[T any](m map[string]T, keys []string) T {
	var zero T
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return zero
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
