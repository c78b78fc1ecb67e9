// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// RunnerNative runs build steps as host processes.
	// Defined locally to avoid coupling config to internal/buildrun.
	RunnerNative RunnerMode = "native"
	// RunnerVirtual runs build steps in the embedded mvdan/sh interpreter.
	RunnerVirtual RunnerMode = "virtual"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidRunnerMode is returned when a RunnerMode value is not recognized.
	ErrInvalidRunnerMode = errors.New("invalid runner mode")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidPrefixPath is returned when a PrefixPath value is whitespace-only.
	ErrInvalidPrefixPath = errors.New("invalid prefix path")
	// ErrInvalidWorkDirPath is returned when a WorkDirPath value is whitespace-only.
	ErrInvalidWorkDirPath = errors.New("invalid work dir path")
	// ErrInvalidJobCount is returned when a JobCount value is negative.
	ErrInvalidJobCount = errors.New("invalid job count")
	// ErrInvalidTimeout is returned when a network timeout cannot be parsed
	// or is not positive.
	ErrInvalidTimeout = errors.New("invalid network timeout")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// RunnerMode selects how build steps are executed.
	RunnerMode string

	// InvalidRunnerModeError is returned when a RunnerMode value is not recognized.
	// It wraps ErrInvalidRunnerMode for errors.Is() compatibility.
	InvalidRunnerModeError struct {
		Value RunnerMode
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// PrefixPath is the filesystem path packages are installed under.
	// The zero value ("") is valid and means "use the recipe's default".
	// Non-zero values must not be whitespace-only.
	PrefixPath string

	// InvalidPrefixPathError is returned when a PrefixPath value is
	// non-empty but whitespace-only.
	InvalidPrefixPathError struct {
		Value PrefixPath
	}

	// WorkDirPath is the directory archives are downloaded and extracted
	// into. The zero value ("") is valid and means "use the default work
	// directory". Non-zero values must not be whitespace-only.
	WorkDirPath string

	// InvalidWorkDirPathError is returned when a WorkDirPath value is
	// non-empty but whitespace-only.
	InvalidWorkDirPathError struct {
		Value WorkDirPath
	}

	// JobCount is the make parallelism. Zero means "let make decide".
	JobCount int

	// InvalidJobCountError is returned when a JobCount value is negative.
	InvalidJobCountError struct {
		Value JobCount
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// WorkDir is where archives are fetched and extracted
		WorkDir WorkDirPath `json:"workdir" mapstructure:"workdir"`
		// Install configures where packages land
		Install InstallConfig `json:"install" mapstructure:"install"`
		// Build configures how build steps run
		Build BuildConfig `json:"build" mapstructure:"build"`
		// Network configures download behavior
		Network NetworkConfig `json:"network" mapstructure:"network"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// InstallConfig configures the install destination.
	InstallConfig struct {
		// Prefix is passed to configure as --prefix
		Prefix PrefixPath `json:"prefix" mapstructure:"prefix"`
	}

	// BuildConfig configures step execution.
	BuildConfig struct {
		// Runner selects "native" or "virtual" execution
		Runner RunnerMode `json:"runner" mapstructure:"runner"`
		// Jobs is the make parallelism (0 lets make decide)
		Jobs JobCount `json:"jobs" mapstructure:"jobs"`
		// KeepWorkDir preserves the extracted tree after a run
		KeepWorkDir bool `json:"keep_work_dir" mapstructure:"keep_work_dir"`
	}

	// NetworkConfig configures downloads.
	NetworkConfig struct {
		// Timeout is the whole-download deadline as a Go duration string
		Timeout string `json:"timeout" mapstructure:"timeout"`
		// UserAgent overrides the HTTP User-Agent header
		UserAgent string `json:"user_agent" mapstructure:"user_agent"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// String returns the string representation of the RunnerMode.
func (m RunnerMode) String() string { return string(m) }

// IsValid returns whether the RunnerMode is one of the defined modes,
// and a list of validation errors if it is not.
func (m RunnerMode) IsValid() (bool, []error) {
	switch m {
	case RunnerNative, RunnerVirtual:
		return true, nil
	default:
		return false, []error{&InvalidRunnerModeError{Value: m}}
	}
}

// Error implements the error interface for InvalidRunnerModeError.
func (e *InvalidRunnerModeError) Error() string {
	return fmt.Sprintf("invalid runner mode %q (valid: native, virtual)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidRunnerModeError) Unwrap() error { return ErrInvalidRunnerMode }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the PrefixPath.
func (p PrefixPath) String() string { return string(p) }

// IsValid returns whether the PrefixPath is valid.
// The zero value ("") is valid (means "use the recipe default").
// Non-zero values must not be whitespace-only.
func (p PrefixPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidPrefixPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPrefixPathError.
func (e *InvalidPrefixPathError) Error() string {
	return fmt.Sprintf("invalid prefix path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidPrefixPathError) Unwrap() error { return ErrInvalidPrefixPath }

// String returns the string representation of the WorkDirPath.
func (p WorkDirPath) String() string { return string(p) }

// IsValid returns whether the WorkDirPath is valid.
// The zero value ("") is valid (means "use the default work directory").
// Non-zero values must not be whitespace-only.
func (p WorkDirPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidWorkDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidWorkDirPathError.
func (e *InvalidWorkDirPathError) Error() string {
	return fmt.Sprintf("invalid work dir path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidWorkDirPathError) Unwrap() error { return ErrInvalidWorkDirPath }

// IsValid returns whether the JobCount is valid (zero or positive).
func (j JobCount) IsValid() (bool, []error) {
	if j < 0 {
		return false, []error{&InvalidJobCountError{Value: j}}
	}
	return true, nil
}

// Error implements the error interface for InvalidJobCountError.
func (e *InvalidJobCountError) Error() string {
	return fmt.Sprintf("invalid job count %d: must be zero or positive", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidJobCountError) Unwrap() error { return ErrInvalidJobCount }

// ParseTimeout parses the configured network timeout. An empty value means
// "use the default" and returns (0, nil).
func (n NetworkConfig) ParseTimeout() (time.Duration, error) {
	if n.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(n.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidTimeout, n.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q: must be positive", ErrInvalidTimeout, n.Timeout)
	}
	return d, nil
}

// IsValid returns whether the Config has valid fields.
// It delegates to each typed field's IsValid(); bool fields and free-form
// strings need no validation beyond what ParseTimeout covers.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.WorkDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Install.Prefix.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Build.Runner.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Build.Jobs.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if _, err := c.Network.ParseTimeout(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		WorkDir: "", // Resolved to the platform cache dir at load time
		Install: InstallConfig{
			Prefix: "",
		},
		Build: BuildConfig{
			Runner:      RunnerNative,
			Jobs:        0,
			KeepWorkDir: false,
		},
		Network: NetworkConfig{
			Timeout:   "",
			UserAgent: "",
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
