// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"sync"

	"aperture-cli/internal/runtime"
)

// FakeRunner records every spec it is asked to run and answers with a
// scripted result per working directory. Directories without a script exit 0.
type FakeRunner struct {
	mu      sync.Mutex
	results map[string]*runtime.Result
	calls   []runtime.Spec
}

// NewFakeRunner creates a runner whose children all succeed.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{results: make(map[string]*runtime.Result)}
}

// ExitWith scripts the exit code returned for children started in dir.
func (f *FakeRunner) ExitWith(dir string, code runtime.ExitCode) *FakeRunner {
	return f.Respond(dir, runtime.NewExitCodeResult(code))
}

// Respond scripts the full result returned for children started in dir.
func (f *FakeRunner) Respond(dir string, res *runtime.Result) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[dir] = res
	return f
}

// Run implements runtime.Runner.
func (f *FakeRunner) Run(_ context.Context, spec runtime.Spec) *runtime.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, spec)
	if res, ok := f.results[spec.Dir]; ok {
		return res
	}
	return runtime.NewSuccessResult()
}

// Calls returns a copy of the specs run so far, in order.
func (f *FakeRunner) Calls() []runtime.Spec {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]runtime.Spec, len(f.calls))
	copy(out, f.calls)
	return out
}

// Dirs returns the working directories of the specs run so far, in order.
func (f *FakeRunner) Dirs() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Dir
	}
	return out
}
