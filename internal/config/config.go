// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jrunhq/jrun/internal/issue"
	"github.com/jrunhq/jrun/pkg/cueutil"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "jrun"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment variable overrides (JRUN_RUN_CDS).
	EnvPrefix = "JRUN"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the jrun configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir reads better than Dir at call sites
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string
	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// ConfigFilePath returns the path of config.cue in dir, or in ConfigDir when
// dir is empty.
func ConfigFilePath(dir string) (string, error) {
	dir, err := configDirWithOverride(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// newViper returns a viper instance holding the defaults and the JRUN_ env bindings.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("run.java_options", defaults.Run.JavaOptions)
	v.SetDefault("run.cds", defaults.Run.CDS)
	v.SetDefault("run.java_version", defaults.Run.JavaVersion)
	v.SetDefault("run.java_home", defaults.Run.JavaHome.String())
	v.SetDefault("build.compile_options", defaults.Build.CompileOptions)
	v.SetDefault("build.cache_dir", defaults.Build.CacheDir.String())
	v.SetDefault("dependencies.local_repository", defaults.Dependencies.LocalRepository.String())
	v.SetDefault("dependencies.repositories", defaults.Dependencies.Repositories)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme.String())
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadWithOptions performs option-driven config loading without package-level
// caching.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()
	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'jrun config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, "", invalidFileError(opts.ConfigFilePath, err)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cuePath, err := ConfigFilePath(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}
		if fileExists(cuePath) {
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", invalidFileError(cuePath, err)
			}
			resolvedPath = cuePath
		}
		// no config file: defaults and environment only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check JRUN_* environment variables for blank or malformed values").
			WithSuggestion("Java versions look like \"17\" or \"21+\"").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func invalidFileError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("See 'jrun config --help' for configuration options").
		Wrap(err).
		BuildError()
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into v.
// The file decodes to a map rather than a struct so that viper keeps the
// defaults for absent fields and env overrides still apply.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	unified, err := cueutil.Unify(configSchema, data, "#Config", cueutil.WithFilename(path))
	if err != nil {
		return err
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default config file unless one exists.
func CreateDefaultConfig() (string, error) {
	cfgPath, err := ConfigFilePath("")
	if err != nil {
		return "", err
	}
	if fileExists(cfgPath) {
		return cfgPath, nil
	}
	return cfgPath, writeConfig(cfgPath, DefaultConfig())
}

// Save writes cfg to the config file in ConfigDir.
func Save(cfg *Config) error {
	cfgPath, err := ConfigFilePath("")
	if err != nil {
		return err
	}
	return writeConfig(cfgPath, cfg)
}

func writeConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE renders cfg as a config.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// jrun configuration file\n")
	sb.WriteString("// Every field is optional; remove a line to fall back to the default.\n\n")

	sb.WriteString("run: {\n")
	fmt.Fprintf(&sb, "\tjava_options: %q\n", cfg.Run.JavaOptions)
	fmt.Fprintf(&sb, "\tcds:          %v\n", cfg.Run.CDS)
	if cfg.Run.JavaVersion != "" {
		fmt.Fprintf(&sb, "\tjava_version: %q\n", cfg.Run.JavaVersion)
	}
	if cfg.Run.JavaHome != "" {
		fmt.Fprintf(&sb, "\tjava_home:    %q\n", cfg.Run.JavaHome)
	}
	sb.WriteString("}\n")

	sb.WriteString("\nbuild: {\n")
	fmt.Fprintf(&sb, "\tcompile_options: %q\n", cfg.Build.CompileOptions)
	if cfg.Build.CacheDir != "" {
		fmt.Fprintf(&sb, "\tcache_dir:       %q\n", cfg.Build.CacheDir)
	}
	sb.WriteString("}\n")

	sb.WriteString("\ndependencies: {\n")
	if cfg.Dependencies.LocalRepository != "" {
		fmt.Fprintf(&sb, "\tlocal_repository: %q\n", cfg.Dependencies.LocalRepository)
	}
	sb.WriteString("\trepositories: [")
	for i, repo := range cfg.Dependencies.Repositories {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", repo)
	}
	sb.WriteString("]\n}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
