// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"sourceup-cli/internal/archive"
	"sourceup-cli/internal/buildrun"
	"sourceup-cli/internal/checksum"
	"sourceup-cli/internal/fetch"
	"sourceup-cli/internal/manifest"
	"sourceup-cli/pkg/recipe"
)

// Compile-time interface check
var _ Provisioner = (*SourceProvisioner)(nil)

type (
	// Provisioner runs a recipe end to end.
	Provisioner interface {
		// Provision downloads, verifies, extracts, and builds one recipe.
		// The returned Result is non-nil even on failure so callers can
		// inspect the state reached and the failing exit code.
		Provision(ctx context.Context, r *recipe.Recipe) (*Result, error)
	}

	// Result describes how far a provisioning run got.
	Result struct {
		// State is the last state the run completed.
		State State

		// ExitCode is the exit status to propagate: 0 on success, the
		// failing step's code on build failure, 1 for infrastructure
		// failures.
		ExitCode buildrun.ExitCode

		// ArchivePath is where the downloaded archive was written.
		ArchivePath string

		// SourceDir is the extracted source tree root.
		SourceDir string

		// CompletedSteps lists the build steps that finished successfully.
		CompletedSteps []string

		// FailedStep names the build step that failed, if any.
		FailedStep string
	}

	// Options configures a SourceProvisioner. The zero value is usable:
	// downloads go through a default fetch client, steps run natively, and
	// output is attached to the process's stdout/stderr.
	Options struct {
		// WorkDir is the directory archives are downloaded and extracted
		// into. Empty means the process's temp directory.
		WorkDir string

		// Fetcher downloads archives. Nil means fetch.NewClient().
		Fetcher *fetch.Client

		// Runner executes build steps. Nil means the native runner.
		Runner buildrun.Runner

		// Manifests records successful installs. Nil disables recording.
		Manifests *manifest.Store

		// KeepWorkDir preserves the archive and extracted tree after the
		// run instead of cleaning them up.
		KeepWorkDir bool

		// IO is attached to every build step. Zero-value streams fall back
		// to os.Stdout/os.Stderr.
		IO buildrun.IO
	}

	// SourceProvisioner is the standard Provisioner implementation.
	SourceProvisioner struct {
		opts Options
	}
)

// NewSourceProvisioner creates a provisioner, filling in defaults for unset
// options.
func NewSourceProvisioner(opts Options) *SourceProvisioner {
	if opts.WorkDir == "" {
		opts.WorkDir = filepath.Join(os.TempDir(), "sourceup")
	}
	if opts.Fetcher == nil {
		opts.Fetcher = fetch.NewClient()
	}
	if opts.Runner == nil {
		opts.Runner = buildrun.NewNativeRunner()
	}
	if opts.IO.Stdout == nil {
		opts.IO.Stdout = os.Stdout
	}
	if opts.IO.Stderr == nil {
		opts.IO.Stderr = os.Stderr
	}
	return &SourceProvisioner{opts: opts}
}

// Provision walks the recipe through the full pipeline: fetch, verify,
// extract, configure, compile, install. It stops at the first failure and
// reports the state reached; a build step's non-zero exit becomes the
// Result's exit code.
func (p *SourceProvisioner) Provision(ctx context.Context, r *recipe.Recipe) (*Result, error) {
	result := &Result{State: StateStart, ExitCode: 1}

	if err := r.Validate(); err != nil {
		return result, err
	}

	workDir := filepath.Join(p.opts.WorkDir, r.WorkDirName())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return result, fmt.Errorf("creating work directory: %w", err)
	}
	if !p.opts.KeepWorkDir {
		defer func() {
			if rmErr := os.RemoveAll(workDir); rmErr != nil {
				slog.Warn("failed to clean work directory", "dir", workDir, "error", rmErr)
			}
		}()
	}

	// Fetch
	url := r.SourceURL()
	slog.Info("downloading archive", "package", r.Name, "version", r.Version, "url", url)
	archivePath, size, err := p.opts.Fetcher.DownloadToFile(ctx, url, workDir, r.ArchiveName())
	if err != nil {
		return result, err
	}
	result.ArchivePath = archivePath
	slog.Info("download complete", "package", r.Name, "bytes", size)

	// Verify
	if err := p.verify(ctx, r, archivePath); err != nil {
		// A file that fails verification must not survive the run.
		if rmErr := os.Remove(archivePath); rmErr != nil {
			slog.Warn("failed to remove unverified archive", "path", archivePath, "error", rmErr)
		}
		return result, err
	}
	result.State = StateFetched

	// Extract
	slog.Info("extracting archive", "package", r.Name, "archive", filepath.Base(archivePath))
	sourceDir, err := archive.ExtractTar(archivePath, workDir)
	if err != nil {
		return result, err
	}
	result.SourceDir = sourceDir
	result.State = StateExtracted

	// Build
	steps := buildrun.PlanSteps(r)
	for _, step := range steps {
		slog.Info("running build step", "package", r.Name, "step", step.Name, "runner", p.opts.Runner.Name())
		start := time.Now()

		stepResult := p.opts.Runner.Run(ctx, step, sourceDir, r.Build.Env, p.opts.IO)
		if stepResult.Error != nil {
			result.FailedStep = step.Name
			result.ExitCode = stepResult.ExitCode
			return result, &BuildError{Step: step.Name, Code: stepResult.ExitCode, Cause: stepResult.Error}
		}
		if !stepResult.ExitCode.IsSuccess() {
			result.FailedStep = step.Name
			result.ExitCode = stepResult.ExitCode
			return result, &BuildError{Step: step.Name, Code: stepResult.ExitCode}
		}

		result.CompletedSteps = append(result.CompletedSteps, step.Name)
		result.State = stateAfterStep(step.Name)
		slog.Info("build step finished", "package", r.Name, "step", step.Name, "duration", time.Since(start).Round(time.Millisecond))
	}

	result.ExitCode = 0

	if result.State == StateInstalled && p.opts.Manifests != nil {
		if err := p.recordManifest(r, steps); err != nil {
			// The package is installed; a manifest write failure is worth a
			// warning but not a failed run.
			slog.Warn("failed to record install manifest", "package", r.Name, "error", err)
		}
	}

	slog.Info("provisioning complete", "package", r.Name, "version", r.Version, "state", result.State.String())
	return result, nil
}

// verify checks the archive digest. Precedence: an inline sha256 in the
// recipe wins; otherwise a checksums file URL is fetched and searched for
// the archive's entry. With neither, verification is skipped.
func (p *SourceProvisioner) verify(ctx context.Context, r *recipe.Recipe, archivePath string) error {
	expected := r.Source.SHA256

	if expected == "" && r.Source.ChecksumsURL != "" {
		slog.Info("fetching checksums", "package", r.Name, "url", r.Source.ChecksumsURL)
		body, err := p.opts.Fetcher.DownloadText(ctx, r.Source.ChecksumsURL)
		if err != nil {
			return fmt.Errorf("fetching checksums file: %w", err)
		}
		defer func() {
			_ = body.Close() // Best-effort close; response already consumed
		}()

		entries, err := checksum.ParseSums(body)
		if err != nil {
			return fmt.Errorf("parsing checksums file: %w", err)
		}
		expected, err = checksum.Find(entries, r.ArchiveName())
		if err != nil {
			return fmt.Errorf("looking up %s in checksums file: %w", r.ArchiveName(), err)
		}
	}

	if expected == "" {
		slog.Warn("no checksum available, skipping verification", "package", r.Name)
		return nil
	}

	slog.Info("verifying archive checksum", "package", r.Name)
	return checksum.VerifyFile(archivePath, expected)
}

// recordManifest writes the install manifest for a completed run.
func (p *SourceProvisioner) recordManifest(r *recipe.Recipe, steps []buildrun.Step) error {
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.Name)
	}

	return p.opts.Manifests.Write(&manifest.Manifest{
		Name:      r.Name,
		Version:   r.Version,
		SourceURL: r.SourceURL(),
		SHA256:    r.Source.SHA256,
		Prefix:    r.Build.Prefix,
		Runner:    p.opts.Runner.Name(),
		Steps:     names,
	})
}
