package aseprite

import (
	"bytes"
	"context"
	"errors"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/exec"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/exec/mocks"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/slogger"
)

func TestNewClient(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(ctx context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				assert.Equal(t, DefaultExecutable, opts.Name)
				deadline, ok := ctx.Deadline()
				require.True(t, ok, "expected a deadline from the default timeout")
				assert.Greater(t, time.Until(deadline), DefaultTimeout/2)
				return &exec.Result{Stdout: []byte("ok")}, nil
			},
		}

		c := NewClient(mockExec, nil)
		result, err := c.Run(context.Background(), []string{"--version"}, 0)

		require.NoError(t, err)
		assert.True(t, result.OK())
	})

	t.Run("uses configured executable", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(ctx context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				assert.Equal(t, "/opt/aseprite/bin/aseprite", opts.Name)
				return &exec.Result{}, nil
			},
		}

		c := NewClient(mockExec, &Options{Executable: "/opt/aseprite/bin/aseprite"})
		_, err := c.Run(context.Background(), []string{"--version"}, 0)

		require.NoError(t, err)
		assert.Len(t, mockExec.RunCalls(), 1)
	})
}

func TestClient_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ok with stdout on zero exit", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(ctx context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				assert.Equal(t, []string{"--batch", "--version"}, opts.Args)
				return &exec.Result{Stdout: []byte("Aseprite 1.3.7\n")}, nil
			},
		}

		c := NewClient(mockExec, nil)
		result, err := c.Run(ctx, []string{"--batch", "--version"}, 0)

		require.NoError(t, err)
		assert.Equal(t, StatusOK, result.Status)
		assert.Equal(t, "Aseprite 1.3.7\n", result.Output)
		assert.Equal(t, 0, result.ExitCode)
	})

	t.Run("returns exit failure with stderr on non-zero exit", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(ctx context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				return &exec.Result{
					Stderr:   []byte("script error: attempt to index nil\n"),
					ExitCode: 1,
				}, &osexec.ExitError{}
			},
		}

		c := NewClient(mockExec, nil)
		result, err := c.Run(ctx, []string{"--batch", "--script", "x.lua"}, 0)

		require.NoError(t, err, "non-zero exit is a recoverable outcome, not an error")
		assert.Equal(t, StatusExitFailure, result.Status)
		assert.False(t, result.OK())
		assert.Equal(t, "script error: attempt to index nil\n", result.Output)
		assert.Equal(t, 1, result.ExitCode)
	})

	t.Run("escalates timeout with command error", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(ctx context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				<-ctx.Done()
				return &exec.Result{ExitCode: -1}, &osexec.ExitError{}
			},
		}

		c := NewClient(mockExec, nil)
		result, err := c.Run(ctx, []string{"--batch"}, 50*time.Millisecond)

		require.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrTimeout)

		var cmdErr *CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.Equal(t, []string{"aseprite", "--batch"}, cmdErr.Args)
		assert.Contains(t, cmdErr.Error(), "50ms")
	})

	t.Run("escalates missing executable with command error", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(ctx context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				return &exec.Result{ExitCode: -1}, &osexec.Error{Name: "aseprite", Err: osexec.ErrNotFound}
			},
		}

		c := NewClient(mockExec, &Options{Executable: "/nowhere/aseprite"})
		result, err := c.Run(ctx, []string{"--batch"}, 0)

		require.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrExecutableNotFound)
		assert.Contains(t, err.Error(), "/nowhere/aseprite")
	})

	t.Run("escalates unexpected failures with command error", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(ctx context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				return &exec.Result{ExitCode: -1}, errors.New("fork: resource temporarily unavailable")
			},
		}

		c := NewClient(mockExec, nil)
		result, err := c.Run(ctx, []string{"--batch"}, 0)

		require.Error(t, err)
		assert.Nil(t, result)
		assert.NotErrorIs(t, err, ErrTimeout)
		assert.NotErrorIs(t, err, ErrExecutableNotFound)

		var cmdErr *CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.Contains(t, cmdErr.Error(), "unexpected error running command")
		assert.Contains(t, cmdErr.Error(), "fork: resource temporarily unavailable")
	})
}

func TestClient_RunScript(t *testing.T) {
	ctx := context.Background()

	t.Run("materializes script and cleans up after success", func(t *testing.T) {
		scriptDir := t.TempDir()

		var scriptPath, scriptBody string
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(ctx context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				require.Equal(t, "--batch", opts.Args[0])
				require.Equal(t, "--script", opts.Args[1])
				scriptPath = opts.Args[2]

				// The script must exist with the exact body while running.
				content, err := os.ReadFile(scriptPath)
				require.NoError(t, err)
				scriptBody = string(content)

				return &exec.Result{Stdout: []byte("ok")}, nil
			},
		}

		c := NewClient(mockExec, &Options{ScriptDir: scriptDir})
		result, err := c.RunScript(ctx, "local spr = Sprite(32, 32)", "", 0)

		require.NoError(t, err)
		assert.True(t, result.OK())
		assert.Equal(t, "ok", result.Output)
		assert.Equal(t, "local spr = Sprite(32, 32)", scriptBody)

		assert.True(t, strings.HasPrefix(scriptPath, scriptDir))
		assert.True(t, strings.HasSuffix(scriptPath, ".lua"))
		assert.NoFileExists(t, scriptPath, "temporary script should be removed after the run")
	})

	t.Run("opens existing document before the script flag", func(t *testing.T) {
		dir := t.TempDir()
		doc := filepath.Join(dir, "sprite.aseprite")
		require.NoError(t, os.WriteFile(doc, []byte("stub"), 0o600))

		mockExec := &mocks.ExecutorMock{
			RunFunc: func(ctx context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				require.Len(t, opts.Args, 4)
				assert.Equal(t, "--batch", opts.Args[0])
				assert.Equal(t, doc, opts.Args[1])
				assert.Equal(t, "--script", opts.Args[2])
				return &exec.Result{}, nil
			},
		}

		c := NewClient(mockExec, &Options{ScriptDir: t.TempDir()})
		_, err := c.RunScript(ctx, "print('hi')", doc, 0)

		require.NoError(t, err)
	})

	t.Run("skips missing document with a warning", func(t *testing.T) {
		var logBuf bytes.Buffer
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(ctx context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				require.Len(t, opts.Args, 3)
				assert.Equal(t, "--batch", opts.Args[0])
				assert.Equal(t, "--script", opts.Args[1])
				return &exec.Result{}, nil
			},
		}

		c := NewClient(mockExec, &Options{
			ScriptDir: t.TempDir(),
			Logger:    slogger.New(slogger.Config{Output: &logBuf}),
		})
		_, err := c.RunScript(ctx, "print('hi')", "/nowhere/sprite.aseprite", 0)

		require.NoError(t, err)
		assert.Contains(t, logBuf.String(), "document not found")
	})

	t.Run("rejects empty script without spawning a process", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{}
		scriptDir := t.TempDir()

		c := NewClient(mockExec, &Options{ScriptDir: scriptDir})
		for _, body := range []string{"", "   ", "\n\t  \n"} {
			result, err := c.RunScript(ctx, body, "", 0)

			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrEmptyScript)
		}

		assert.Empty(t, mockExec.RunCalls())
		entries, err := os.ReadDir(scriptDir)
		require.NoError(t, err)
		assert.Empty(t, entries, "no script file should be written for an empty body")
	})

	t.Run("cleans up script when the run escalates", func(t *testing.T) {
		scriptDir := t.TempDir()
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(ctx context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				<-ctx.Done()
				return &exec.Result{ExitCode: -1}, &osexec.ExitError{}
			},
		}

		c := NewClient(mockExec, &Options{ScriptDir: scriptDir})
		result, err := c.RunScript(ctx, "while true do end", "", 50*time.Millisecond)

		require.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrTimeout)

		entries, readErr := os.ReadDir(scriptDir)
		require.NoError(t, readErr)
		assert.Empty(t, entries, "temporary script should be removed on the error path")
	})

	t.Run("concurrent runs use distinct script files", func(t *testing.T) {
		const workers = 8
		scriptDir := t.TempDir()

		var mu sync.Mutex
		paths := make(map[string]struct{})

		mockExec := &mocks.ExecutorMock{
			RunFunc: func(ctx context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				path := opts.Args[len(opts.Args)-1]
				content, err := os.ReadFile(path)
				if err != nil {
					return &exec.Result{ExitCode: -1}, err
				}

				mu.Lock()
				paths[path] = struct{}{}
				mu.Unlock()

				// Echo the script body back so each caller can verify
				// its own sentinel survived intact.
				return &exec.Result{Stdout: content}, nil
			},
		}

		c := NewClient(mockExec, &Options{ScriptDir: scriptDir})

		var wg sync.WaitGroup
		errs := make([]error, workers)
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				body := "-- sentinel " + strings.Repeat("x", i+1)
				result, err := c.RunScript(ctx, body, "", 0)
				if err != nil {
					errs[i] = err
					return
				}
				if result.Output != body {
					errs[i] = errors.New("script body mismatch: " + result.Output)
				}
			}()
		}
		wg.Wait()

		for i, err := range errs {
			require.NoError(t, err, "worker %d", i)
		}
		assert.Len(t, paths, workers, "each invocation should get its own script file")

		entries, err := os.ReadDir(scriptDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
