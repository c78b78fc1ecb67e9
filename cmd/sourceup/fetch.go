// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"sourceup-cli/internal/checksum"
	"sourceup-cli/internal/fetch"
	"sourceup-cli/pkg/recipe"

	"github.com/spf13/cobra"
)

// newFetchCommand creates the `sourceup fetch` command.
func newFetchCommand() *cobra.Command {
	var workdirFlag string

	cmd := &cobra.Command{
		Use:   "fetch [recipe-file]",
		Short: "Download and verify a package's source archive",
		Long: `Download the package's source archive into the work directory and
verify its checksum, without extracting or building anything. The
archive is kept on disk for a later 'sourceup install' run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRecipeArg(args)
			if err != nil {
				renderIssueFor(cmd.ErrOrStderr(), err)
				return err
			}
			if err := r.Validate(); err != nil {
				return err
			}

			workDir, err := resolveWorkDir(workdirFlag, loadedCfg)
			if err != nil {
				return fmt.Errorf("resolving work directory: %w", err)
			}

			fetcher, err := newFetchClient(loadedCfg)
			if err != nil {
				return err
			}

			dest := filepath.Join(workDir, r.WorkDirName())
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return fmt.Errorf("creating work directory: %w", err)
			}

			archivePath, size, err := fetcher.DownloadToFile(cmd.Context(), r.SourceURL(), dest, r.ArchiveName())
			if err != nil {
				stderr := cmd.ErrOrStderr()
				fmt.Fprintln(stderr, ErrorStyle.Render("✗ ")+formatErrorForDisplay(err, verbose))
				renderIssueFor(stderr, err)
				return &ExitError{Code: 1, Err: err}
			}

			if err := verifyArchive(cmd.Context(), fetcher, r, archivePath); err != nil {
				// Never leave an unverified archive behind.
				_ = os.Remove(archivePath)
				stderr := cmd.ErrOrStderr()
				fmt.Fprintln(stderr, ErrorStyle.Render("✗ ")+formatErrorForDisplay(err, verbose))
				renderIssueFor(stderr, err)
				return &ExitError{Code: 1, Err: err}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Fetched %s %s (%d bytes)\n", SuccessStyle.Render("✓"), r.Name, r.Version, size)
			fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("archive:"), archivePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&workdirFlag, "workdir", "", "directory to download the archive into")

	return cmd
}

// verifyArchive checks the archive digest: an inline recipe digest wins,
// then a SHA256SUMS lookup, otherwise verification is skipped with a warning.
func verifyArchive(ctx context.Context, fetcher *fetch.Client, r *recipe.Recipe, archivePath string) error {
	if r.Source.SHA256 != "" {
		return checksum.VerifyFile(archivePath, r.Source.SHA256)
	}

	if r.Source.ChecksumsURL == "" {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+"recipe has no checksum; skipping verification")
		return nil
	}

	body, err := fetcher.DownloadText(ctx, r.Source.ChecksumsURL)
	if err != nil {
		return fmt.Errorf("fetching checksums: %w", err)
	}
	defer body.Close()

	entries, err := checksum.ParseSums(body)
	if err != nil {
		return fmt.Errorf("parsing checksums: %w", err)
	}

	expected, err := checksum.Find(entries, r.ArchiveName())
	if err != nil {
		return err
	}
	return checksum.VerifyFile(archivePath, expected)
}
