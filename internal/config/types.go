// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jrunhq/jrun/pkg/jdk"
	"github.com/jrunhq/jrun/pkg/source"
	"github.com/jrunhq/jrun/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidRepository is returned for a blank dependencies.repositories entry.
	ErrInvalidRepository = errors.New("invalid repository")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError collects every field error of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		Run          RunConfig          `json:"run" mapstructure:"run"`
		Build        BuildConfig        `json:"build" mapstructure:"build"`
		Dependencies DependenciesConfig `json:"dependencies" mapstructure:"dependencies"`
		UI           UIConfig           `json:"ui" mapstructure:"ui"`
	}

	// RunConfig holds launch defaults.
	RunConfig struct {
		// JavaOptions is a quoted option string added to every java launch.
		JavaOptions string `json:"java_options" mapstructure:"java_options"`
		// CDS enables class data sharing archives for code that does not say otherwise.
		CDS bool `json:"cds" mapstructure:"cds"`
		// JavaVersion is the default Java version requirement.
		JavaVersion string `json:"java_version" mapstructure:"java_version"`
		// JavaHome selects a Java installation explicitly.
		JavaHome types.FilesystemPath `json:"java_home" mapstructure:"java_home"`
	}

	// BuildConfig holds compilation defaults.
	BuildConfig struct {
		// CompileOptions is a quoted option string added to every javac run.
		CompileOptions string `json:"compile_options" mapstructure:"compile_options"`
		// CacheDir is where built jars are kept.
		CacheDir types.FilesystemPath `json:"cache_dir" mapstructure:"cache_dir"`
	}

	// DependenciesConfig configures dependency resolution.
	DependenciesConfig struct {
		// LocalRepository is the Maven-layout repository root.
		LocalRepository types.FilesystemPath `json:"local_repository" mapstructure:"local_repository"`
		// Repositories are added to every resolution.
		Repositories []string `json:"repositories" mapstructure:"repositories"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Run: RunConfig{
			CDS: false,
		},
		Build: BuildConfig{
			CacheDir: types.FilesystemPath(source.DefaultCacheDir()),
		},
		Dependencies: DependenciesConfig{
			Repositories: []string{},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// RuntimeOptions splits JavaOptions into launcher arguments.
func (c RunConfig) RuntimeOptions() []string { return source.SplitQuoted(c.JavaOptions) }

// CompileOptionList splits CompileOptions into javac arguments.
func (c BuildConfig) CompileOptionList() []string { return source.SplitQuoted(c.CompileOptions) }

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid checks every field, including constraints the schema cannot express
// for values that arrive through the environment.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if _, err := jdk.ParseRequirement(c.Run.JavaVersion); err != nil {
		errs = append(errs, err)
	}
	for _, p := range []types.FilesystemPath{c.Run.JavaHome, c.Build.CacheDir, c.Dependencies.LocalRepository} {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for i, repo := range c.Dependencies.Repositories {
		if strings.TrimSpace(repo) == "" {
			errs = append(errs, fmt.Errorf("%w: dependencies.repositories[%d] is blank", ErrInvalidRepository, i))
		}
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}

	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, fe := range e.FieldErrors {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches both the sentinel and any individual field sentinel.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
