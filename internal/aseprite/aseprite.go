// Package aseprite wraps the Aseprite executable's batch mode. It builds
// argument lists, materializes Lua scripts into temporary files, enforces
// per-invocation timeouts, and maps subprocess outcomes onto a small result
// contract shared by every tool.
package aseprite

import (
	"context"
	"errors"
	"time"
)

// DefaultExecutable is the command name used when no explicit path is
// configured, resolved via the ambient search path.
const DefaultExecutable = "aseprite"

// DefaultTimeout bounds an invocation when the caller does not supply a
// timeout of its own.
const DefaultTimeout = 30 * time.Second

// Sentinel errors for Aseprite invocations. They are always wrapped in a
// *CommandError; match with errors.Is.
var (
	ErrTimeout            = errors.New("command timed out")
	ErrExecutableNotFound = errors.New("aseprite executable not found")
	ErrEmptyScript        = errors.New("script content cannot be empty")
)

// Status classifies the outcome of a completed invocation.
type Status string

const (
	// StatusOK means the process exited zero.
	StatusOK Status = "ok"

	// StatusExitFailure means the process ran to completion but exited
	// non-zero. This is an expected, recoverable outcome: Aseprite reports
	// script-level problems this way.
	StatusExitFailure Status = "exit_failure"
)

// Result holds the outcome of a completed invocation. Output carries stdout
// when the process exited zero and stderr otherwise. A Result is only
// produced when the process actually ran to completion; failures to launch
// or finish surface as a *CommandError instead.
type Result struct {
	Status   Status
	Output   string
	ExitCode int
}

// OK reports whether the invocation exited zero.
func (r *Result) OK() bool {
	return r.Status == StatusOK
}

// CommandError is the escalated failure type for invocations that never
// produced a usable exit status: timeouts, a missing executable, and
// unexpected subprocess faults. Args is the full argument vector that was
// attempted, executable included, when one was built.
type CommandError struct {
	Err  error
	Args []string
}

func (e *CommandError) Error() string {
	return e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Client invokes the Aseprite executable.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/client.go . Client
type Client interface {
	// Run executes Aseprite with the given arguments, bounded by timeout
	// (<= 0 means the configured default). A process that ran to completion
	// yields a Result regardless of exit code. Timeouts, a missing
	// executable, and launch failures yield a *CommandError.
	Run(ctx context.Context, args []string, timeout time.Duration) (*Result, error)

	// RunScript writes body to a uniquely named temporary .lua file and
	// executes it in batch mode. If document is non-empty and exists on
	// disk it is opened before the script runs; a missing document is
	// logged and skipped. The temporary file is removed on every return
	// path. An empty or whitespace-only body yields a *CommandError
	// wrapping ErrEmptyScript without spawning a process.
	RunScript(ctx context.Context, body, document string, timeout time.Duration) (*Result, error)
}
