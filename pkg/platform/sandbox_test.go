// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"testing"
)

func TestDetectSandboxFrom(t *testing.T) {
	t.Parallel()

	notFound := errors.New("no such file")

	tests := []struct {
		name     string
		env      map[string]string
		flatpak  bool
		expected SandboxType
	}{
		{
			name:     "no sandbox",
			expected: SandboxNone,
		},
		{
			name:     "snap via SNAP_NAME",
			env:      map[string]string{"SNAP_NAME": "sourceup"},
			expected: SandboxSnap,
		},
		{
			name:     "flatpak via info file",
			flatpak:  true,
			expected: SandboxFlatpak,
		},
		{
			name:     "flatpak takes precedence over snap",
			env:      map[string]string{"SNAP_NAME": "sourceup"},
			flatpak:  true,
			expected: SandboxFlatpak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lookupEnv := func(key string) string { return tt.env[key] }
			stat := func(path string) error {
				if tt.flatpak && path == "/.flatpak-info" {
					return nil
				}
				return notFound
			}

			if got := detectSandboxFrom(lookupEnv, stat); got != tt.expected {
				t.Errorf("detectSandboxFrom() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsInSandboxConsistency(t *testing.T) {
	t.Parallel()

	if IsInSandbox() != (DetectSandbox() != SandboxNone) {
		t.Error("IsInSandbox inconsistent with DetectSandbox")
	}
}

func TestDetectSandboxCaching(t *testing.T) {
	t.Parallel()

	first := DetectSandbox()
	second := DetectSandbox()
	if first != second {
		t.Errorf("DetectSandbox should return a stable result: first=%q, second=%q", first, second)
	}
}

func TestSandboxTypeConstants(t *testing.T) {
	t.Parallel()

	types := []SandboxType{SandboxNone, SandboxFlatpak, SandboxSnap}
	seen := make(map[SandboxType]bool)
	for _, st := range types {
		if seen[st] {
			t.Errorf("duplicate SandboxType constant: %q", st)
		}
		seen[st] = true
	}

	if SandboxNone != "" {
		t.Errorf("SandboxNone should be empty string, got %q", SandboxNone)
	}
}
