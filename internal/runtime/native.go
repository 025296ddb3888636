// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// ErrEmptyCommand is returned when a Spec has no command to run.
var ErrEmptyCommand = errors.New("no command to execute")

type (
	// Spec describes one child process.
	Spec struct {
		// Dir is the working directory of the child.
		Dir string
		// Command is argv[0]; it is resolved through PATH.
		Command string
		// Args are passed verbatim, without shell interpretation.
		Args []string
		// Stdout and Stderr override the runtime defaults when set.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Runner starts a process and waits for it to exit.
	Runner interface {
		Run(ctx context.Context, spec Spec) *Result
	}

	// NativeRuntime executes commands on the host, inheriting the
	// environment of the current process.
	NativeRuntime struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewNativeRuntime creates a runtime wired to the process's standard streams.
func NewNativeRuntime() *NativeRuntime {
	return &NativeRuntime{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run starts spec and blocks until the child exits.
func (r *NativeRuntime) Run(ctx context.Context, spec Spec) *Result {
	if spec.Command == "" {
		return NewErrorResult(1, ErrEmptyCommand)
	}

	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = firstWriter(spec.Stdout, r.Stdout)
	cmd.Stderr = firstWriter(spec.Stderr, r.Stderr)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := ExitCode(exitErr.ExitCode())
			// A child killed by a signal reports -1.
			if verr := code.Validate(); verr != nil {
				return NewErrorResult(1, fmt.Errorf("%s did not exit normally (%v): %w", spec.Command, exitErr, verr))
			}
			return NewExitCodeResult(code)
		}
		return NewErrorResult(1, fmt.Errorf("failed to execute %s: %w", spec.Command, err))
	}

	return NewSuccessResult()
}

func firstWriter(ws ...io.Writer) io.Writer {
	for _, w := range ws {
		if w != nil {
			return w
		}
	}
	return io.Discard
}
