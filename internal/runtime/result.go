// SPDX-License-Identifier: MPL-2.0

package runtime

// Result is the outcome of one spawned process.
type Result struct {
	// ExitCode is the child's exit status, or 1 when it never started.
	ExitCode ExitCode
	// Error is set when the process could not be started or waited on.
	Error error
}

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
// Use this for non-zero exits that represent normal process termination
// rather than infrastructure failures.
func NewExitCodeResult(code ExitCode) *Result {
	return &Result{ExitCode: code}
}

// Failed reports whether the process did not run to a zero exit.
func (r *Result) Failed() bool {
	return r == nil || r.Error != nil || !r.ExitCode.IsSuccess()
}
