// SPDX-License-Identifier: MPL-2.0

package bulk

import (
	"context"
	"errors"
	"slices"
	"testing"

	"aperture-cli/internal/config"
	"aperture-cli/internal/events"
	"aperture-cli/internal/modules"
	"aperture-cli/internal/runtime"
	"aperture-cli/internal/testutil"
)

type stubProvider struct {
	mods  []modules.Module
	err   error
	calls int
}

func (p *stubProvider) List(context.Context, string) ([]modules.Module, error) {
	p.calls++
	return p.mods, p.err
}

func threeModules() []modules.Module {
	return []modules.Module{
		{Name: "one", Dir: "/w/one"},
		{Name: "two", Dir: "/w/two"},
		{Name: "three", Dir: "/w/three"},
	}
}

func dirs(mods []modules.Module) []string {
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		out = append(out, m.Dir)
	}
	return out
}

func recordSpawns(bus *events.Bus) *[]events.Spawn {
	var got []events.Spawn
	events.On(bus, func(ev events.Spawn) { got = append(got, ev) })
	return &got
}

func TestRunContinuesPastFailures(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{mods: threeModules()}
	runner := testutil.NewFakeRunner().ExitWith("/w/two", 1)
	bus := events.NewBus(nil)
	spawns := recordSpawns(bus)

	res, err := New(provider, runner, nil).Run(context.Background(), "/w",
		Options{Command: "echo", Args: []string{"hi"}}, bus)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := dirs(res.Succeeded); !slices.Equal(got, []string{"/w/one", "/w/three"}) {
		t.Errorf("Succeeded = %v", got)
	}
	if got := dirs(res.Failed); !slices.Equal(got, []string{"/w/two"}) {
		t.Errorf("Failed = %v", got)
	}
	if len(res.Skipped) != 0 {
		t.Errorf("Skipped = %v, want none", dirs(res.Skipped))
	}
	if res.ExitCode() != 1 {
		t.Errorf("ExitCode() = %d, want 1", res.ExitCode())
	}

	if len(*spawns) != 3 {
		t.Fatalf("got %d spawn events, want 3", len(*spawns))
	}
	for i, want := range []string{"/w/one", "/w/two", "/w/three"} {
		ev := (*spawns)[i]
		if ev.Dir != want || ev.Command != "echo" || !slices.Equal(ev.Args, []string{"hi"}) {
			t.Errorf("spawn[%d] = %+v, want dir %s echo [hi]", i, ev, want)
		}
	}
	if !slices.Equal(runner.Dirs(), []string{"/w/one", "/w/two", "/w/three"}) {
		t.Errorf("runner dirs = %v", runner.Dirs())
	}
}

func TestRunBailStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{mods: threeModules()}
	runner := testutil.NewFakeRunner().ExitWith("/w/two", 1)
	bus := events.NewBus(nil)
	spawns := recordSpawns(bus)

	res, err := New(provider, runner, nil).Run(context.Background(), "/w",
		Options{Command: "echo", Bail: true}, bus)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := dirs(res.Succeeded); !slices.Equal(got, []string{"/w/one"}) {
		t.Errorf("Succeeded = %v", got)
	}
	if got := dirs(res.Failed); !slices.Equal(got, []string{"/w/two"}) {
		t.Errorf("Failed = %v", got)
	}
	if got := dirs(res.Skipped); !slices.Equal(got, []string{"/w/three"}) {
		t.Errorf("Skipped = %v", got)
	}
	if len(*spawns) != 2 {
		t.Errorf("got %d spawn events, want 2", len(*spawns))
	}
	if slices.Contains(runner.Dirs(), "/w/three") {
		t.Error("module three was started after bail")
	}
}

func TestRunMissingCommand(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{mods: threeModules()}
	runner := testutil.NewFakeRunner()
	bus := events.NewBus(nil)
	spawns := recordSpawns(bus)

	res, err := New(provider, runner, nil).Run(context.Background(), "/w", Options{}, bus)
	if !errors.Is(err, ErrMissingCommand) {
		t.Fatalf("Run() error = %v, want ErrMissingCommand", err)
	}
	if res != nil {
		t.Errorf("Run() result = %+v, want nil", res)
	}
	if provider.calls != 0 {
		t.Errorf("provider queried %d times, want 0", provider.calls)
	}
	if len(*spawns) != 0 || len(runner.Calls()) != 0 {
		t.Error("nothing should be spawned without a command")
	}
}

func TestRunProviderFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("walk failed")
	provider := &stubProvider{err: boom}
	runner := testutil.NewFakeRunner()

	_, err := New(provider, runner, nil).Run(context.Background(), "/w", Options{Command: "ls"}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
	if len(runner.Calls()) != 0 {
		t.Error("no module should run when discovery fails")
	}
}

func TestRunStartFailureCountsAsFailed(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{mods: threeModules()[:1]}
	runner := testutil.NewFakeRunner().
		Respond("/w/one", runtime.NewErrorResult(1, errors.New("executable not found")))

	res, err := New(provider, runner, nil).Run(context.Background(), "/w", Options{Command: "nope"}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := dirs(res.Failed); !slices.Equal(got, []string{"/w/one"}) {
		t.Errorf("Failed = %v", got)
	}
	if res.Errors["/w/one"] == nil {
		t.Error("start failure not recorded in Errors")
	}
}

func TestRunEmptyModuleSet(t *testing.T) {
	t.Parallel()

	res, err := New(&stubProvider{}, testutil.NewFakeRunner(), nil).
		Run(context.Background(), "/w", Options{Command: "ls"}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Attempted() != 0 || res.ExitCode() != 0 {
		t.Errorf("result = %+v, want empty success", res)
	}
}

func TestRunCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := testutil.NewFakeRunner()
	_, err := New(&stubProvider{mods: threeModules()}, runner, nil).Run(ctx, "/w", Options{Command: "ls"}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(runner.Calls()) != 0 {
		t.Error("no module should run after cancellation")
	}
}

func TestRunPartitionsDiscoveredSet(t *testing.T) {
	t.Parallel()

	mods := []modules.Module{
		{Name: "a", Dir: "/w/a"}, {Name: "b", Dir: "/w/b"}, {Name: "c", Dir: "/w/c"},
		{Name: "d", Dir: "/w/d"}, {Name: "e", Dir: "/w/e"},
	}
	for _, bail := range []bool{false, true} {
		runner := testutil.NewFakeRunner().ExitWith("/w/b", 2).ExitWith("/w/d", 3)
		res, err := New(&stubProvider{mods: mods}, runner, nil).
			Run(context.Background(), "/w", Options{Command: "x", Bail: bail}, nil)
		if err != nil {
			t.Fatalf("bail=%v: Run() error = %v", bail, err)
		}

		seen := map[string]int{}
		for _, group := range [][]modules.Module{res.Succeeded, res.Failed, res.Skipped} {
			for _, m := range group {
				seen[m.Dir]++
			}
		}
		for _, m := range mods {
			if seen[m.Dir] != 1 {
				t.Errorf("bail=%v: %s classified %d times", bail, m.Dir, seen[m.Dir])
			}
		}
		if !bail && len(res.Skipped) != 0 {
			t.Errorf("bail=false skipped %v", dirs(res.Skipped))
		}
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Bail = true
	cfg.Bulk = config.BulkConfig{Command: "git", Args: []string{"status"}}

	opts := OptionsFromConfig(cfg)
	if opts.Command != "git" || !slices.Equal(opts.Args, []string{"status"}) || !opts.Bail {
		t.Errorf("OptionsFromConfig() = %+v", opts)
	}
}
