package ffmpeg

import (
	"bytes"
	"context"
	"os/exec"
)

// runFn is the function type for running a tool and capturing output.
type runFn func(ctx context.Context, path string, args []string) (string, error)

// Executor runs media-tool commands with injectable run functions.
type Executor struct {
	runStderr runFn
	runStdout runFn
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRun sets a custom stderr-capturing run function (for testing).
func WithRun(fn runFn) ExecutorOption {
	return func(e *Executor) { e.runStderr = fn }
}

// WithRunStdout sets a custom stdout-capturing run function (for testing).
func WithRunStdout(fn runFn) ExecutorOption {
	return func(e *Executor) { e.runStdout = fn }
}

// NewExecutor creates an Executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		runStderr: defaultRunStderr,
		runStdout: defaultRunStdout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes a tool and captures its stderr output. FFmpeg writes most
// diagnostic output (probe info, progress, codec warnings) to stderr, so the
// stderr text is returned even when the command fails: it often contains the
// data callers want to parse.
func (e *Executor) Run(ctx context.Context, toolPath string, args []string) (string, error) {
	return e.runStderr(ctx, toolPath, args)
}

// RunStdout executes a tool and captures stdout, used for ffprobe and yt-dlp
// queries that print machine-readable values.
func (e *Executor) RunStdout(ctx context.Context, toolPath string, args []string) (string, error) {
	return e.runStdout(ctx, toolPath, args)
}

// defaultRunStderr is the production stderr-capturing implementation.
func defaultRunStderr(ctx context.Context, toolPath string, args []string) (string, error) {
	// #nosec G204 -- toolPath and args are built internally, not from user input
	cmd := exec.CommandContext(ctx, toolPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()

	// Return stderr regardless of error; ffmpeg returns non-zero exit codes
	// for operations that still produced the output being parsed.
	return stderr.String(), err
}

// defaultRunStdout is the production stdout-capturing implementation.
func defaultRunStdout(ctx context.Context, toolPath string, args []string) (string, error) {
	// #nosec G204 -- toolPath and args are built internally, not from user input
	cmd := exec.CommandContext(ctx, toolPath, args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	return stdout.String(), err
}
