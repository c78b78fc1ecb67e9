// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"sourceup-cli/internal/config"
	"sourceup-cli/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `sourceup config` command tree.
func newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage sourceup configuration",
		Long: `Manage sourceup configuration.

Configuration is stored in:
  - Linux: ~/.config/sourceup/config.cue
  - macOS: ~/Library/Application Support/sourceup/config.cue
  - Windows: %APPDATA%\sourceup\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cfgProvider.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: cfgFile})
			if err != nil {
				return err
			}

			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context) error {
	cfg, err := cfgProvider.Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	cfgDir, dirErr := config.ConfigDir()
	if dirErr == nil && fileExistsCheck(cfgDir+"/config.cue") {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), cfgDir+"/config.cue")
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	workdir := cfg.WorkDir.String()
	if workdir == "" {
		if def, err := config.DefaultWorkDir(); err == nil {
			workdir = def + " (default)"
		}
	}
	fmt.Printf("%s: %s\n", keyStyle.Render("workdir"), valueStyle.Render(workdir))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("install"))
	prefix := cfg.Install.Prefix.String()
	if prefix == "" {
		prefix = "(package default)"
	}
	fmt.Printf("  prefix: %s\n", valueStyle.Render(prefix))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("build"))
	fmt.Printf("  runner: %s\n", valueStyle.Render(cfg.Build.Runner.String()))
	fmt.Printf("  jobs: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Build.Jobs)))
	fmt.Printf("  keep_work_dir: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Build.KeepWorkDir)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("network"))
	timeout := cfg.Network.Timeout
	if timeout == "" {
		timeout = "(default)"
	}
	fmt.Printf("  timeout: %s\n", valueStyle.Render(timeout))
	ua := cfg.Network.UserAgent
	if ua == "" {
		ua = "(default)"
	}
	fmt.Printf("  user_agent: %s\n", valueStyle.Render(ua))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfig() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s/config.cue\n", SuccessStyle.Render("✓"), cfgDir)
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s/config.cue\n", cfgDir)

	if mDir, err := config.DefaultManifestDir(); err == nil {
		fmt.Printf("Manifest directory: %s\n", mDir)
	}

	return nil
}

// fileExistsCheck reports whether path exists and is a regular file.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
