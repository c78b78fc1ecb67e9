// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for sourceup.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"sourceup-cli/internal/config"
	"sourceup-cli/internal/issue"

	"github.com/charmbracelet/fang"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// cfgProvider loads configuration for all commands.
	cfgProvider = config.NewProvider()
	// loadedCfg is the configuration resolved during initialization. It is
	// never nil after initRootConfig runs; load failures fall back to defaults.
	loadedCfg = config.DefaultConfig()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "sourceup",
		Short: "Build and install packages from source archives",
		Long: TitleStyle.Render("sourceup") + SubtitleStyle.Render(" - Build and install packages from source archives") + `

sourceup downloads a source tarball, verifies its checksum, extracts it,
and walks the classic autotools sequence: ./configure && make &&
make install. The run stops at the first failing step and propagates
that step's exit code.

Packages are described in recipe files using CUE format. Without a
recipe file, sourceup provisions its built-in libsodium recipe.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'sourceup plan' to see what would be executed
  2. Run 'sourceup install' to fetch, build, and install
  3. Run 'sourceup list' to see what is installed

` + SubtitleStyle.Render("Examples:") + `
  sourceup install                    Provision the built-in libsodium recipe
  sourceup install ./zlib.cue         Provision from a recipe file
  sourceup install --prefix ~/.local  Install under a custom prefix
  sourceup fetch                      Download and verify only
  sourceup plan                       Show the build steps without running them`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/sourceup/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(newInstallCommand())
	rootCmd.AddCommand(newFetchCommand())
	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newCompletionCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	cfg, err := cfgProvider.Load(context.Background(), config.LoadOptions{
		ConfigFilePath: cfgFile,
	})
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}
	if cfg != nil {
		loadedCfg = cfg
	}

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = loadedCfg.UI.Verbose
	}

	initLogging()
}

// initLogging routes slog through a prefixed charmbracelet handler so build
// stage logs share the CLI's styling.
func initLogging() {
	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Prefix: "sourceup",
	})
	if verbose {
		logger.SetLevel(charmlog.DebugLevel)
	}
	slog.SetDefault(slog.New(logger))
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
