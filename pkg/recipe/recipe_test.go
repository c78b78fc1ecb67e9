// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"testing"
)

func validRecipe() *Recipe {
	return &Recipe{
		Name:    "libsodium",
		Version: "1.0.11",
		Source: Source{
			URL: "https://download.libsodium.org/libsodium/releases/libsodium-{version}.tar.gz",
		},
	}
}

func TestRecipeValidate_Valid(t *testing.T) {
	t.Parallel()

	if err := validRecipe().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecipeValidate_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Recipe)
	}{
		{"empty name", func(r *Recipe) { r.Name = "" }},
		{"whitespace name", func(r *Recipe) { r.Name = "   " }},
		{"empty version", func(r *Recipe) { r.Version = "" }},
		{"unsupported scheme", func(r *Recipe) { r.Source.URL = "ftp://example.org/pkg.tar.gz" }},
		{"missing host", func(r *Recipe) { r.Source.URL = "https:///pkg.tar.gz" }},
		{"short digest", func(r *Recipe) { r.Source.SHA256 = "abc123" }},
		{"non-hex digest", func(r *Recipe) {
			r.Source.SHA256 = "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"
		}},
		{"negative jobs", func(r *Recipe) { r.Build.Jobs = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := validRecipe()
			tt.mutate(r)

			err := r.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, ErrInvalidRecipe) {
				t.Errorf("error %v does not wrap ErrInvalidRecipe", err)
			}
		})
	}
}

func TestSourceURL_ExpandsVersion(t *testing.T) {
	t.Parallel()

	r := validRecipe()
	want := "https://download.libsodium.org/libsodium/releases/libsodium-1.0.11.tar.gz"
	if got := r.SourceURL(); got != want {
		t.Errorf("SourceURL() = %q, want %q", got, want)
	}
}

func TestArchiveName(t *testing.T) {
	t.Parallel()

	r := validRecipe()
	if got, want := r.ArchiveName(), "libsodium-1.0.11.tar.gz"; got != want {
		t.Errorf("ArchiveName() = %q, want %q", got, want)
	}
}

func TestWorkDirName(t *testing.T) {
	t.Parallel()

	r := validRecipe()
	if got, want := r.WorkDirName(), "libsodium-1.0.11"; got != want {
		t.Errorf("WorkDirName() = %q, want %q", got, want)
	}
}

func TestLibsodiumBuiltin(t *testing.T) {
	t.Parallel()

	r := Libsodium()
	if err := r.Validate(); err != nil {
		t.Fatalf("built-in recipe must validate: %v", err)
	}
	if r.Version != "1.0.11" {
		t.Errorf("Version = %q, want %q", r.Version, "1.0.11")
	}
}
