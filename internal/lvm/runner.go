// Package lvm talks to the LVM command line tools: it lists the snapshots of
// an origin volume and creates and removes snapshots.
package lvm

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// Runner executes an external command. A non-nil error is a *CommandError.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands on the local host.
type ExecRunner struct{}

// NewExecRunner returns the Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run returns the command's stdout. LVM output is forced to the C locale so
// that reports parse the same everywhere.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = append(os.Environ(), "LC_ALL=C")

	if err := cmd.Run(); err != nil {
		cerr := &CommandError{
			Args:     append([]string{name}, args...),
			ExitCode: -1,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cerr.ExitCode = exitErr.ExitCode()
		}
		return stdout.Bytes(), cerr
	}
	return stdout.Bytes(), nil
}
