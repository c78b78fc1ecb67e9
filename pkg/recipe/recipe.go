// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	// versionPlaceholder is the token replaced by the recipe version when
	// expanding the source URL template.
	versionPlaceholder = "{version}"

	// sha256HexLen is the length of a hex-encoded SHA-256 digest.
	sha256HexLen = 64
)

var (
	// ErrInvalidRecipe is the sentinel error wrapped by all recipe validation errors.
	ErrInvalidRecipe = errors.New("invalid recipe")

	// ErrInvalidDigest indicates a malformed SHA-256 digest in a recipe.
	ErrInvalidDigest = errors.New("invalid sha256 digest")
)

type (
	// Recipe describes one source package: identity, where its archive lives,
	// and the build steps that produce an installed copy.
	Recipe struct {
		// Name is the package name, e.g. "libsodium".
		Name string `json:"name"`

		// Version is the exact version to provision, e.g. "1.0.11".
		Version string `json:"version"`

		// Source describes the archive location and integrity data.
		Source Source `json:"source"`

		// Build describes the configure/compile/install sequence.
		Build Build `json:"build"`
	}

	// Source locates the package's source archive.
	Source struct {
		// URL is the download URL. It may contain the "{version}" placeholder,
		// which is expanded with Recipe.Version.
		URL string `json:"url"`

		// SHA256 is the optional hex-encoded digest of the archive. When set,
		// the downloaded archive must match or provisioning fails before
		// extraction.
		SHA256 string `json:"sha256,omitempty"`

		// ChecksumsURL optionally points to a SHA256SUMS-format file from
		// which the archive digest is looked up by filename. Ignored when
		// SHA256 is set directly.
		ChecksumsURL string `json:"checksums_url,omitempty"`
	}

	// Build describes the build step sequence run inside the extracted tree.
	// The zero value yields the standard autotools sequence:
	// ./configure && make && make install.
	Build struct {
		// ConfigureArgs are extra arguments appended to ./configure.
		ConfigureArgs []string `json:"configure_args,omitempty"`

		// Env is extra environment applied to every build step.
		Env map[string]string `json:"env,omitempty"`

		// Jobs is the make parallelism (-j). Zero means no -j flag.
		Jobs int `json:"jobs,omitempty"`

		// Prefix is the install prefix passed as --prefix to configure.
		// Empty means the package's own default (typically /usr/local).
		Prefix string `json:"prefix,omitempty"`

		// SkipInstall stops after the compile step, leaving the built tree in
		// the work directory without touching system paths.
		SkipInstall bool `json:"skip_install,omitempty"`
	}
)

// InvalidRecipeError reports a recipe field that failed validation.
// It wraps ErrInvalidRecipe for errors.Is compatibility.
type InvalidRecipeError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidRecipeError) Error() string {
	return fmt.Sprintf("invalid recipe: %s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrInvalidRecipe for errors.Is classification.
func (e *InvalidRecipeError) Unwrap() error { return ErrInvalidRecipe }

// Validate checks the recipe for structural problems that the CUE schema
// cannot express: URL well-formedness after template expansion and digest
// shape. Returns the first error found.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &InvalidRecipeError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(r.Version) == "" {
		return &InvalidRecipeError{Field: "version", Reason: "must not be empty"}
	}

	resolved := r.SourceURL()
	u, err := url.Parse(resolved)
	if err != nil {
		return &InvalidRecipeError{Field: "source.url", Reason: fmt.Sprintf("not a valid URL: %v", err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &InvalidRecipeError{Field: "source.url", Reason: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return &InvalidRecipeError{Field: "source.url", Reason: "missing host"}
	}

	if r.Source.SHA256 != "" && !isHexDigest(r.Source.SHA256) {
		return &InvalidRecipeError{Field: "source.sha256", Reason: ErrInvalidDigest.Error()}
	}

	if r.Build.Jobs < 0 {
		return &InvalidRecipeError{Field: "build.jobs", Reason: "must not be negative"}
	}

	return nil
}

// SourceURL returns the download URL with the version placeholder expanded.
func (r *Recipe) SourceURL() string {
	return strings.ReplaceAll(r.Source.URL, versionPlaceholder, r.Version)
}

// ArchiveName returns the filename component of the resolved source URL,
// used for checksum lookup and for naming the downloaded file.
func (r *Recipe) ArchiveName() string {
	resolved := r.SourceURL()
	if idx := strings.LastIndex(resolved, "/"); idx >= 0 {
		return resolved[idx+1:]
	}
	return resolved
}

// WorkDirName returns the per-recipe work directory name, e.g.
// "libsodium-1.0.11".
func (r *Recipe) WorkDirName() string {
	return r.Name + "-" + r.Version
}

// isHexDigest reports whether s is a 64-character hex string.
func isHexDigest(s string) bool {
	if len(s) != sha256HexLen {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
