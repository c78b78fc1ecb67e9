// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"

	"sourceup-cli/internal/archive"
	"sourceup-cli/internal/checksum"
	"sourceup-cli/internal/config"
	"sourceup-cli/internal/fetch"
	"sourceup-cli/internal/issue"
	"sourceup-cli/internal/provision"
	"sourceup-cli/pkg/recipe"
)

// errRecipeNotFound marks a recipe path that does not exist on disk, so the
// matching catalog entry can be picked out of the wrapped chain.
var errRecipeNotFound = errors.New("recipe file not found")

// issueIDFor classifies a pipeline failure into its issue catalog entry.
// The second return is false when no entry applies.
func issueIDFor(err error) (issue.Id, bool) {
	var (
		netErr   *fetch.NetworkError
		sumErr   *checksum.MismatchError
		extErr   *archive.ExtractionError
		buildErr *provision.BuildError
	)

	switch {
	case errors.As(err, &buildErr):
		// A step that never started carries the start failure as its cause.
		switch {
		case errors.Is(err, exec.ErrNotFound):
			return issue.ToolchainMissingId, true
		case errors.Is(err, fs.ErrPermission):
			return issue.PermissionDeniedId, true
		}
		return issue.BuildStepFailedId, true
	case errors.As(err, &sumErr):
		return issue.ChecksumMismatchId, true
	case errors.As(err, &extErr):
		if errors.Is(err, archive.ErrUnsafePath) {
			return issue.ArchiveUnsafeId, true
		}
		return issue.ArchiveCorruptId, true
	case errors.As(err, &netErr):
		return issue.DownloadFailedId, true
	case errors.Is(err, errRecipeNotFound):
		return issue.RecipeNotFoundId, true
	case errors.Is(err, recipe.ErrInvalidRecipe):
		return issue.RecipeParseErrorId, true
	case errors.Is(err, fs.ErrPermission):
		return issue.PermissionDeniedId, true
	}
	return 0, false
}

// renderIssueFor prints the catalog help section matching err, if any.
// The styled one-line error is printed by the caller; this adds the
// longer-form guidance below it.
func renderIssueFor(stderr io.Writer, err error) {
	id, ok := issueIDFor(err)
	if !ok {
		return
	}

	catalogEntry := issue.Get(id)
	if catalogEntry == nil {
		return
	}

	rendered, renderErr := catalogEntry.Render(issueStylePath())
	if renderErr != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
		return
	}
	fmt.Fprint(stderr, rendered)
}

// issueStylePath maps the configured color scheme to a glamour style name.
func issueStylePath() string {
	if loadedCfg.UI.ColorScheme == config.ColorSchemeLight {
		return "light"
	}
	return "dark"
}
