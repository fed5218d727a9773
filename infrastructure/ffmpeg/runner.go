package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Result is the outcome of a finished external command
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Diagnostic returns the text a failing tool left behind, stderr first
func (r Result) Diagnostic() string {
	if len(r.Stderr) > 0 {
		return string(r.Stderr)
	}
	return string(r.Stdout)
}

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	// Run executes the command and waits for it. A non-zero exit is reported
	// through Result.ExitCode; the error is for commands that could not run.
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// Run executes a command, capturing stdout and stderr separately
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode >= 0 {
			return res, nil
		}
	}
	if err != nil {
		res.ExitCode = -1
		return res, err
	}

	return res, nil
}
