// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newListCommand creates the `sourceup list` command.
func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed packages",
		Long:  `List packages recorded as installed, with version, prefix, and install time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := manifestStore()
			if store == nil {
				return fmt.Errorf("manifest store unavailable")
			}

			manifests, err := store.List()
			if err != nil {
				return fmt.Errorf("listing manifests: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(manifests) == 0 {
				fmt.Fprintln(out, SubtitleStyle.Render("No packages installed. Run 'sourceup install' to provision one."))
				return nil
			}

			for _, m := range manifests {
				fmt.Fprintf(out, "%s %s\n", TitleStyle.Render(m.Name), m.Version)
				if m.Prefix != "" {
					fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("prefix:"), m.Prefix)
				}
				fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("installed:"), m.InstalledAt.Format("2006-01-02 15:04 MST"))
				if m.Runner != "" {
					fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("runner:"), m.Runner)
				}
			}
			return nil
		},
	}
}
