package aseprite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/exec"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/slogger"
)

// Options configures a Client.
type Options struct {
	// Executable is the Aseprite binary to invoke. May be a bare command
	// name resolved via PATH or an absolute path. Defaults to
	// DefaultExecutable.
	Executable string

	// Timeout bounds an invocation when the caller passes none.
	// Defaults to DefaultTimeout.
	Timeout time.Duration

	// ScriptDir is where temporary Lua scripts are written. Defaults to
	// the system temp directory.
	ScriptDir string

	// Logger receives debug and warning output. Defaults to discarding.
	Logger *slog.Logger
}

// client implements Client using an injected Executor.
type client struct {
	exec      exec.Executor
	path      string
	timeout   time.Duration
	scriptDir string
	logger    *slog.Logger
}

// NewClient creates a Client that runs Aseprite through e.
func NewClient(e exec.Executor, opts *Options) Client {
	if opts == nil {
		opts = &Options{}
	}
	c := &client{
		exec:      e,
		path:      opts.Executable,
		timeout:   opts.Timeout,
		scriptDir: opts.ScriptDir,
		logger:    opts.Logger,
	}
	if c.path == "" {
		c.path = DefaultExecutable
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.logger == nil {
		c.logger = slogger.Discard()
	}
	return c
}

func (c *client) Run(ctx context.Context, args []string, timeout time.Duration) (*Result, error) {
	if timeout <= 0 {
		timeout = c.timeout
	}

	cmd := append([]string{c.path}, args...)
	c.logger.Info("executing command", "cmd", strings.Join(cmd, " "))

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := c.exec.Run(runCtx, &exec.RunOptions{
		Name: c.path,
		Args: args,
	})
	if err != nil {
		// Check the context first: a killed child reports an exit error
		// that would otherwise be mistaken for an ordinary failure.
		if ctxErr := runCtx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return nil, &CommandError{
					Err:  fmt.Errorf("%w after %s", ErrTimeout, timeout),
					Args: cmd,
				}
			}
			return nil, &CommandError{
				Err:  fmt.Errorf("unexpected error running command: %w", ctxErr),
				Args: cmd,
			}
		}

		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			// The process ran and exited non-zero. Recoverable.
			c.logger.Debug("command exited non-zero",
				"exit_code", result.ExitCode, "stderr", string(result.Stderr))
			return &Result{
				Status:   StatusExitFailure,
				Output:   string(result.Stderr),
				ExitCode: result.ExitCode,
			}, nil
		}

		if errors.Is(err, osexec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, &CommandError{
				Err:  fmt.Errorf("%w: %s", ErrExecutableNotFound, c.path),
				Args: cmd,
			}
		}

		return nil, &CommandError{
			Err:  fmt.Errorf("unexpected error running command: %w", err),
			Args: cmd,
		}
	}

	c.logger.Debug("command succeeded", "stdout", string(result.Stdout))
	return &Result{
		Status:   StatusOK,
		Output:   string(result.Stdout),
		ExitCode: result.ExitCode,
	}, nil
}

func (c *client) RunScript(ctx context.Context, body, document string, timeout time.Duration) (*Result, error) {
	if strings.TrimSpace(body) == "" {
		return nil, &CommandError{Err: ErrEmptyScript}
	}

	scriptPath, err := c.writeScript(body)
	if err != nil {
		return nil, &CommandError{Err: err}
	}
	defer func() {
		if err := os.Remove(scriptPath); err != nil {
			c.logger.Warn("failed to clean up temporary script", "path", scriptPath, "error", err)
			return
		}
		c.logger.Debug("cleaned up temporary script", "path", scriptPath)
	}()

	args := []string{"--batch"}
	if document != "" {
		if _, err := os.Stat(document); err == nil {
			args = append(args, document)
			c.logger.Debug("opening document", "path", document)
		} else {
			c.logger.Warn("document not found, running script without it", "path", document)
		}
	}
	args = append(args, "--script", scriptPath)

	return c.Run(ctx, args, timeout)
}

// writeScript materializes body into a uniquely named .lua file and returns
// its path. Unique names keep concurrent invocations from sharing files.
func (c *client) writeScript(body string) (string, error) {
	dir := c.scriptDir
	if dir == "" {
		dir = os.TempDir()
	}

	path := filepath.Join(dir, "aseprite-"+uuid.NewString()+".lua")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		return "", fmt.Errorf("write script file: %w", err)
	}
	return path, nil
}
