// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"sourceup-cli/internal/issue"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev when no build info", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "dev"
		Commit = "unknown"
		BuildDate = "unknown"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestExitError(t *testing.T) {
	t.Parallel()

	t.Run("message from wrapped error", func(t *testing.T) {
		t.Parallel()

		inner := errors.New("step failed")
		e := &ExitError{Code: 2, Err: inner}
		if e.Error() != "step failed" {
			t.Errorf("Error() = %q, want %q", e.Error(), "step failed")
		}
		if !errors.Is(e, inner) {
			t.Error("errors.Is should find the wrapped error")
		}
	})

	t.Run("message from code alone", func(t *testing.T) {
		t.Parallel()

		e := &ExitError{Code: 77}
		if e.Error() != "exit status 77" {
			t.Errorf("Error() = %q, want %q", e.Error(), "exit status 77")
		}
	})
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()

		got := formatErrorForDisplay(fmt.Errorf("something broke"), false)
		if got != "something broke" {
			t.Errorf("formatErrorForDisplay() = %q", got)
		}
	})

	t.Run("actionable error uses Format", func(t *testing.T) {
		t.Parallel()

		ae := issue.NewErrorContext().
			WithOperation("download archive").
			WithSuggestion("Check your network connection").
			Wrap(errors.New("connection refused")).
			Build()

		got := formatErrorForDisplay(ae, false)
		if got == "" || got == ae.Cause.Error() {
			t.Errorf("expected formatted actionable output, got %q", got)
		}
	})
}

func TestRootHelpExamplesUseDefinedFlags(t *testing.T) {
	t.Parallel()

	for _, line := range strings.Split(rootCmd.Long, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "sourceup" {
			continue
		}
		sub, _, err := rootCmd.Find(fields[1:2])
		if err != nil || sub.Name() != fields[1] {
			continue
		}
		for _, f := range fields[2:] {
			if !strings.HasPrefix(f, "--") {
				continue
			}
			name := strings.TrimPrefix(f, "--")
			if sub.Flags().Lookup(name) == nil && sub.InheritedFlags().Lookup(name) == nil {
				t.Errorf("help example for %q references undefined flag --%s", sub.Name(), name)
			}
		}
	}
}
