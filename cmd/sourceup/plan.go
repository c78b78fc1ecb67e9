// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"sourceup-cli/internal/buildrun"

	"github.com/spf13/cobra"
)

// newPlanCommand creates the `sourceup plan` command.
func newPlanCommand() *cobra.Command {
	var (
		prefixFlag  string
		jobsFlag    int
		skipInstall bool
	)

	cmd := &cobra.Command{
		Use:   "plan [recipe-file]",
		Short: "Show the build steps without running them",
		Long: `Resolve a recipe and print the download URL and the exact build steps
that 'sourceup install' would run, without touching the network or the
filesystem.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRecipeArg(args)
			if err != nil {
				return err
			}
			if err := r.Validate(); err != nil {
				return err
			}

			applyBuildFlags(r, cmd, prefixFlag, jobsFlag, skipInstall)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, TitleStyle.Render(fmt.Sprintf("%s %s", r.Name, r.Version)))
			fmt.Fprintf(out, "%s %s\n", SubtitleStyle.Render("source:"), r.SourceURL())
			switch {
			case r.Source.SHA256 != "":
				fmt.Fprintf(out, "%s sha256 %s\n", SubtitleStyle.Render("verify:"), VerboseStyle.Render(r.Source.SHA256))
			case r.Source.ChecksumsURL != "":
				fmt.Fprintf(out, "%s lookup in %s\n", SubtitleStyle.Render("verify:"), r.Source.ChecksumsURL)
			default:
				fmt.Fprintf(out, "%s %s\n", SubtitleStyle.Render("verify:"), WarningStyle.Render("none (no checksum in recipe)"))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, SubtitleStyle.Render("Steps:"))
			for i, step := range buildrun.PlanSteps(r) {
				fmt.Fprintf(out, "  %d. %s  %s\n", i+1, step.Name, CmdStyle.Render(step.Script()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&prefixFlag, "prefix", "", "install prefix passed to configure as --prefix")
	cmd.Flags().IntVarP(&jobsFlag, "jobs", "j", 0, "make parallelism (0 lets make decide)")
	cmd.Flags().BoolVar(&skipInstall, "skip-install", false, "stop after the compile step")

	return cmd
}
