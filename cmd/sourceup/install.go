// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"sourceup-cli/internal/buildrun"
	"sourceup-cli/internal/provision"
	"sourceup-cli/pkg/platform"
	"sourceup-cli/pkg/recipe"

	"github.com/spf13/cobra"
)

// newInstallCommand creates the `sourceup install` command.
func newInstallCommand() *cobra.Command {
	var (
		prefixFlag  string
		workdirFlag string
		runnerFlag  string
		jobsFlag    int
		skipInstall bool
		keepWorkDir bool
	)

	cmd := &cobra.Command{
		Use:   "install [recipe-file]",
		Short: "Download, build, and install a package from source",
		Long: `Download a package's source archive, verify it, extract it, and run
the configure/compile/install sequence. The run stops at the first
failing step and sourceup exits with that step's exit code.

Without a recipe file, the built-in libsodium recipe is provisioned.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRecipeArg(args)
			if err != nil {
				renderIssueFor(cmd.ErrOrStderr(), err)
				return err
			}

			applyBuildFlags(r, cmd, prefixFlag, jobsFlag, skipInstall)

			runnerMode := runnerFlag
			if runnerMode == "" {
				runnerMode = loadedCfg.Build.Runner.String()
			}
			runner, err := buildrun.NewRunner(runnerMode)
			if err != nil {
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

			if platform.IsInSandbox() && !r.Build.SkipInstall {
				fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+
					fmt.Sprintf("running inside a %s sandbox; 'make install' may not reach the intended prefix", platform.DetectSandbox()))
			}

			prov := provision.NewSourceProvisioner(provision.Options{
				WorkDir:     workDir,
				Fetcher:     fetcher,
				Runner:      runner,
				Manifests:   manifestStore(),
				KeepWorkDir: keepWorkDir || loadedCfg.Build.KeepWorkDir,
				IO: buildrun.IO{
					Stdout: cmd.OutOrStdout(),
					Stderr: cmd.ErrOrStderr(),
				},
			})

			res, err := prov.Provision(cmd.Context(), r)
			if err != nil {
				stderr := cmd.ErrOrStderr()
				fmt.Fprintln(stderr, ErrorStyle.Render("✗ ")+formatErrorForDisplay(err, verbose))
				renderIssueFor(stderr, err)
				var buildErr *provision.BuildError
				if errors.As(err, &buildErr) {
					return &ExitError{Code: buildErr.Code, Err: err}
				}
				return &ExitError{Code: res.ExitCode, Err: err}
			}

			reportResult(cmd, r, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&prefixFlag, "prefix", "", "install prefix passed to configure as --prefix")
	cmd.Flags().StringVar(&workdirFlag, "workdir", "", "directory for downloads and extracted sources")
	cmd.Flags().StringVar(&runnerFlag, "runner", "", "step runner: native or virtual")
	cmd.Flags().IntVarP(&jobsFlag, "jobs", "j", 0, "make parallelism (0 lets make decide)")
	cmd.Flags().BoolVar(&skipInstall, "skip-install", false, "stop after the compile step")
	cmd.Flags().BoolVar(&keepWorkDir, "keep-work-dir", false, "keep the archive and extracted tree after the run")

	return cmd
}

// applyBuildFlags layers command-line flags and configuration onto the
// recipe's build section. Flags win over the recipe, the recipe wins over
// config defaults.
func applyBuildFlags(r *recipe.Recipe, cmd *cobra.Command, prefix string, jobs int, skipInstall bool) {
	if cmd.Flags().Changed("prefix") {
		r.Build.Prefix = prefix
	} else if r.Build.Prefix == "" {
		r.Build.Prefix = loadedCfg.Install.Prefix.String()
	}

	if cmd.Flags().Changed("jobs") {
		r.Build.Jobs = jobs
	} else if r.Build.Jobs == 0 {
		r.Build.Jobs = int(loadedCfg.Build.Jobs)
	}

	if skipInstall {
		r.Build.SkipInstall = true
	}
}

// reportResult prints the post-run summary for a successful provisioning.
func reportResult(cmd *cobra.Command, r *recipe.Recipe, res *provision.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	if res.State == provision.StateInstalled {
		fmt.Fprintf(out, "%s Installed %s %s\n", SuccessStyle.Render("✓"), r.Name, r.Version)
	} else {
		fmt.Fprintf(out, "%s Built %s %s (install skipped)\n", SuccessStyle.Render("✓"), r.Name, r.Version)
	}

	for _, step := range res.CompletedSteps {
		fmt.Fprintf(out, "  %s %s\n", SuccessStyle.Render("✓"), step)
	}

	if r.Build.Prefix != "" {
		fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("prefix:"), r.Build.Prefix)
	}
	if res.SourceDir != "" {
		fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("source:"), VerboseStyle.Render(res.SourceDir))
	}
}
