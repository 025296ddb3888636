// SPDX-License-Identifier: MPL-2.0

package expand

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"aperture-cli/internal/config"
	"aperture-cli/internal/modules"
	"aperture-cli/internal/testutil"
)

func TestExpand(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteModule(t, root, "packages/b", testutil.ModuleFixture{Name: "b"})
	testutil.WriteModule(t, root, "packages/a", testutil.ModuleFixture{Name: "a"})
	testutil.WriteModule(t, root, "tools/cli", testutil.ModuleFixture{Name: "cli"})
	testutil.MustMkdirAll(t, filepath.Join(root, "docs"), 0o755)

	cfg := config.DefaultConfig()
	cfg.Sources = []string{"tools/*", "packages/*"}
	cfg.Bail = true
	provider := modules.New(modules.Options{Sources: cfg.Sources}, nil)

	res, err := New(provider, nil).Expand(context.Background(), root, cfg)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}

	want := []string{"tools/cli", "packages/a", "packages/b"}
	if !slices.Equal(res.Sources, want) {
		t.Errorf("Sources = %v, want %v", res.Sources, want)
	}
	if !slices.Equal(cfg.Sources, []string{"tools/*", "packages/*"}) {
		t.Errorf("input config was modified: %v", cfg.Sources)
	}

	loaded, path, err := config.LoadWithPath(context.Background(), config.LoadOptions{
		BaseDir:       root,
		ConfigDirPath: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("LoadWithPath() error = %v", err)
	}
	if path != res.Path {
		t.Errorf("loaded %q, want %q", path, res.Path)
	}
	if !slices.Equal(loaded.Sources, want) || !loaded.Bail {
		t.Errorf("written config = %+v", loaded)
	}
}

func TestExpandDiscoveryError(t *testing.T) {
	t.Parallel()

	_, err := New(modules.New(modules.Options{}, nil), nil).
		Expand(context.Background(), filepath.Join(t.TempDir(), "missing"), config.DefaultConfig())
	var discoveryErr *modules.DiscoveryError
	if !errors.As(err, &discoveryErr) {
		t.Fatalf("Expand() error = %v, want *modules.DiscoveryError", err)
	}
}

func TestExpandQuotesGlobCharacters(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("glob characters are not valid in Windows file names")
	}

	root := t.TempDir()
	star := testutil.WriteModule(t, root, "packages/*", testutil.ModuleFixture{Name: "star"})
	testutil.WriteModule(t, root, "packages/other", testutil.ModuleFixture{Name: "other"})
	bracket := testutil.WriteModule(t, root, "apps/[web]", testutil.ModuleFixture{Name: "web"})

	cfg := config.DefaultConfig()
	cfg.Sources = []string{"packages/\\*", "apps/*"}
	provider := modules.New(modules.Options{Sources: cfg.Sources}, nil)

	res, err := New(provider, nil).Expand(context.Background(), root, cfg)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	want := []string{"packages/\\*", "apps/\\[web]"}
	if !slices.Equal(res.Sources, want) {
		t.Errorf("Sources = %v, want %v", res.Sources, want)
	}

	loaded, _, err := config.LoadWithPath(context.Background(), config.LoadOptions{
		BaseDir:       root,
		ConfigDirPath: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("LoadWithPath() error = %v", err)
	}
	mods, err := modules.New(modules.Options{Sources: loaded.Sources}, nil).List(context.Background(), root)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	got := make([]string, len(mods))
	for i, m := range mods {
		got[i] = m.Dir
	}
	if !slices.Equal(got, []string{star, bracket}) {
		t.Errorf("expanded sources match %v, want %v", got, []string{star, bracket})
	}
}

func TestExpandRefusesEmptySet(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	_, err := New(modules.New(modules.Options{}, nil), nil).Expand(context.Background(), root, config.DefaultConfig())
	if !errors.Is(err, ErrNoModules) {
		t.Fatalf("Expand() error = %v, want ErrNoModules", err)
	}
	if _, statErr := os.Stat(filepath.Join(root, config.ProjectFileName)); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("project file written for an empty module set: %v", statErr)
	}
}
