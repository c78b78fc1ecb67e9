// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sourceup-cli/internal/config"
	"sourceup-cli/internal/issue"
	"sourceup-cli/pkg/recipe"
)

func TestLoadRecipeArg(t *testing.T) {
	t.Parallel()

	t.Run("no args yields builtin recipe", func(t *testing.T) {
		t.Parallel()

		r, err := loadRecipeArg(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Name != "libsodium" || r.Version != "1.0.11" {
			t.Errorf("got %s %s, want libsodium 1.0.11", r.Name, r.Version)
		}
	})

	t.Run("missing file is actionable", func(t *testing.T) {
		t.Parallel()

		_, err := loadRecipeArg([]string{filepath.Join(t.TempDir(), "nope.cue")})
		var ae *issue.ActionableError
		if !errors.As(err, &ae) {
			t.Fatalf("error = %v, want *issue.ActionableError", err)
		}
		if !ae.HasSuggestions() {
			t.Error("expected suggestions on missing-file error")
		}
	})

	t.Run("valid recipe file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "zlib.cue")
		content := `name:    "zlib"
version: "1.3.1"
source: url: "https://zlib.net/zlib-{version}.tar.gz"
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		r, err := loadRecipeArg([]string{path})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Name != "zlib" {
			t.Errorf("Name = %q, want zlib", r.Name)
		}
	})

	t.Run("malformed recipe is actionable", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "broken.cue")
		if err := os.WriteFile(path, []byte(`name: 42`), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := loadRecipeArg([]string{path})
		var ae *issue.ActionableError
		if !errors.As(err, &ae) {
			t.Fatalf("error = %v, want *issue.ActionableError", err)
		}
	})
}

func TestResolveWorkDir(t *testing.T) {
	t.Parallel()

	t.Run("flag wins", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.WorkDir = "/from/config"
		got, err := resolveWorkDir("/from/flag", cfg)
		if err != nil {
			t.Fatal(err)
		}
		if got != "/from/flag" {
			t.Errorf("workdir = %q, want /from/flag", got)
		}
	})

	t.Run("config next", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.WorkDir = "/from/config"
		got, err := resolveWorkDir("", cfg)
		if err != nil {
			t.Fatal(err)
		}
		if got != "/from/config" {
			t.Errorf("workdir = %q, want /from/config", got)
		}
	})

	t.Run("platform default last", func(t *testing.T) {
		t.Parallel()

		got, err := resolveWorkDir("", config.DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		if got == "" {
			t.Error("expected a non-empty default work directory")
		}
	})
}

func TestNewFetchClient(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		c, err := newFetchClient(config.DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		if c == nil {
			t.Fatal("expected a client")
		}
	})

	t.Run("bad timeout", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Network.Timeout = "not-a-duration"
		if _, err := newFetchClient(cfg); err == nil {
			t.Error("expected error for malformed timeout")
		}
	})
}

func TestApplyBuildFlags(t *testing.T) {
	t.Parallel()

	t.Run("recipe prefix kept when flag unset", func(t *testing.T) {
		t.Parallel()

		r := &recipe.Recipe{
			Name:    "pkg",
			Version: "1.0",
			Build:   recipe.Build{Prefix: "/opt/pkg"},
		}
		cmd := newPlanCommand()
		applyBuildFlags(r, cmd, "", 0, false)
		if r.Build.Prefix != "/opt/pkg" {
			t.Errorf("Prefix = %q, want /opt/pkg", r.Build.Prefix)
		}
	})

	t.Run("flag overrides recipe", func(t *testing.T) {
		t.Parallel()

		r := &recipe.Recipe{
			Name:    "pkg",
			Version: "1.0",
			Build:   recipe.Build{Prefix: "/opt/pkg", Jobs: 2},
		}
		cmd := newPlanCommand()
		if err := cmd.Flags().Set("prefix", "/usr/local"); err != nil {
			t.Fatal(err)
		}
		if err := cmd.Flags().Set("jobs", "8"); err != nil {
			t.Fatal(err)
		}
		applyBuildFlags(r, cmd, "/usr/local", 8, true)
		if r.Build.Prefix != "/usr/local" {
			t.Errorf("Prefix = %q, want /usr/local", r.Build.Prefix)
		}
		if r.Build.Jobs != 8 {
			t.Errorf("Jobs = %d, want 8", r.Build.Jobs)
		}
		if !r.Build.SkipInstall {
			t.Error("SkipInstall should be set")
		}
	})
}
