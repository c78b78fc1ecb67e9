// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"sourceup-cli/pkg/cueutil"
)

//go:embed recipe_schema.cue
var recipeSchema []byte

// Parse decodes and validates a recipe from CUE source. The filename is used
// only in error messages.
func Parse(data []byte, filename string) (*Recipe, error) {
	r, err := cueutil.Decode[Recipe](recipeSchema, data, "#Recipe",
		cueutil.WithFilename(filename),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return nil, err
	}

	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	return r, nil
}

// Load reads and parses a recipe file from disk.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe file: %w", err)
	}
	return Parse(data, filepath.Base(path))
}
