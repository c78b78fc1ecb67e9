// SPDX-License-Identifier: MPL-2.0

// Package manifest records what sourceup has installed. Each successful
// provisioning run writes one TOML manifest file next to the others in the
// manifest directory, so `sourceup list` can report installed packages
// without probing the filesystem under the install prefix.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/semver"
)

// ErrNotFound is returned when no manifest exists for a package.
var ErrNotFound = errors.New("manifest not found")

type (
	// Manifest describes one installed source package.
	Manifest struct {
		Name        string    `toml:"name"`
		Version     string    `toml:"version"`
		SourceURL   string    `toml:"source_url"`
		SHA256      string    `toml:"sha256,omitempty"`
		Prefix      string    `toml:"prefix"`
		Runner      string    `toml:"runner"`
		Steps       []string  `toml:"steps"`
		InstalledAt time.Time `toml:"installed_at"`
	}

	// Store reads and writes manifests under a single directory.
	Store struct {
		dir string
	}
)

// NewStore creates a store rooted at dir. The directory is created on first
// write, not here.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the manifest directory.
func (s *Store) Dir() string { return s.dir }

// fileName returns the manifest file name for a package, one file per
// name/version pair.
func fileName(name, version string) string {
	return fmt.Sprintf("%s-%s.toml", name, version)
}

// Write persists a manifest, replacing any previous manifest for the same
// name and version.
func (s *Store) Write(m *Manifest) error {
	if m.Name == "" || m.Version == "" {
		return fmt.Errorf("manifest needs a name and version")
	}
	if m.InstalledAt.IsZero() {
		m.InstalledAt = time.Now().UTC()
	}

	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest for %s: %w", m.Name, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}

	path := filepath.Join(s.dir, fileName(m.Name, m.Version))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Read loads the manifest for one package version.
func (s *Store) Read(name, version string) (*Manifest, error) {
	path := filepath.Join(s.dir, fileName(name, version))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s %s: %w", name, version, ErrNotFound)
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// List returns every manifest in the store, sorted by name then version.
// Files that are not valid manifests are skipped.
func (s *Store) List() ([]*Manifest, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading manifest directory: %w", err)
	}

	var out []*Manifest
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var m Manifest
		if err := toml.Unmarshal(data, &m); err != nil {
			continue
		}
		if m.Name == "" {
			continue
		}
		out = append(out, &m)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return compareVersions(out[i].Version, out[j].Version) < 0
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// compareVersions orders versions semantically when both parse as semver
// (upstream tarballs rarely carry the "v" prefix, so one is added for the
// comparison), falling back to lexical order otherwise.
func compareVersions(a, b string) int {
	va, vb := "v"+a, "v"+b
	if semver.IsValid(va) && semver.IsValid(vb) {
		return semver.Compare(va, vb)
	}
	return strings.Compare(a, b)
}

// Remove deletes the manifest for one package version. Removing a manifest
// that does not exist is not an error.
func (s *Store) Remove(name, version string) error {
	path := filepath.Join(s.dir, fileName(name, version))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing manifest: %w", err)
	}
	return nil
}
