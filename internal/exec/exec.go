// Package exec provides an abstraction over executing external commands.
package exec

import (
	"context"
)

// Result holds the captured output from a completed command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// RunOptions configures command execution.
type RunOptions struct {
	Name string   // Command name or path (required)
	Args []string // Command arguments
}

// Executor runs external commands.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/executor.go . Executor
type Executor interface {
	// Run executes a command, capturing stdout and stderr.
	// Returns os/exec.ExitError on non-zero exit (use errors.As to extract);
	// Result is still populated in that case. Cancellation of ctx kills the
	// process and surfaces through the returned error.
	Run(ctx context.Context, opts *RunOptions) (*Result, error)

	// LookPath searches for an executable in PATH.
	// Returns the full path if found, or an error if not.
	LookPath(name string) (string, error)
}
