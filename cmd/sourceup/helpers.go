// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"sourceup-cli/internal/config"
	"sourceup-cli/internal/fetch"
	"sourceup-cli/internal/issue"
	"sourceup-cli/internal/manifest"
	"sourceup-cli/pkg/recipe"
)

// loadRecipeArg resolves the optional recipe-file positional argument.
// Without an argument the built-in libsodium recipe is used.
func loadRecipeArg(args []string) (*recipe.Recipe, error) {
	if len(args) == 0 {
		return recipe.Libsodium(), nil
	}

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load recipe").
			WithResource(path).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Run 'sourceup install' without arguments to use the built-in recipe").
			Wrap(fmt.Errorf("%w: %s", errRecipeNotFound, path)).
			BuildError()
	}

	r, err := recipe.Load(path)
	if err != nil {
		if !errors.Is(err, recipe.ErrInvalidRecipe) {
			err = fmt.Errorf("%w: %w", recipe.ErrInvalidRecipe, err)
		}
		return nil, issue.NewErrorContext().
			WithOperation("parse recipe").
			WithResource(path).
			WithSuggestion("Check that the file contains valid CUE syntax").
			WithSuggestion("Verify the recipe fields match the expected schema").
			Wrap(err).
			BuildError()
	}
	return r, nil
}

// newFetchClient builds a download client from the network configuration.
func newFetchClient(cfg *config.Config) (*fetch.Client, error) {
	var opts []fetch.ClientOption

	timeout, err := cfg.Network.ParseTimeout()
	if err != nil {
		return nil, fmt.Errorf("invalid network.timeout: %w", err)
	}
	if timeout > 0 {
		opts = append(opts, fetch.WithTimeout(timeout))
	}
	if cfg.Network.UserAgent != "" {
		opts = append(opts, fetch.WithUserAgent(cfg.Network.UserAgent))
	}

	return fetch.NewClient(opts...), nil
}

// manifestStore opens the default manifest store. A nil store (with a
// warning) is returned when the platform config directory cannot be
// resolved, so provisioning can still proceed without recording.
func manifestStore() *manifest.Store {
	dir, err := config.DefaultManifestDir()
	if err != nil {
		slog.Warn("manifest recording disabled", "error", err)
		return nil
	}
	return manifest.NewStore(dir)
}

// resolveWorkDir picks the archive/extraction directory: flag first, then
// config, then the platform cache default.
func resolveWorkDir(flagValue string, cfg *config.Config) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.WorkDir != "" {
		return cfg.WorkDir.String(), nil
	}
	return config.DefaultWorkDir()
}
