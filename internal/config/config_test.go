// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/jrunhq/jrun/internal/issue"
	"github.com/jrunhq/jrun/internal/testutil"
)

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	return testutil.MustWriteFile(t, filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), content)
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Run.CDS {
		t.Error("expected CDS to be off by default")
	}
	if cfg.Run.JavaOptions != "" {
		t.Errorf("expected no default java options, got %q", cfg.Run.JavaOptions)
	}
	if cfg.Build.CacheDir == "" {
		t.Error("expected a default cache directory")
	}
	if cfg.Dependencies.Repositories == nil || len(cfg.Dependencies.Repositories) != 0 {
		t.Errorf("expected empty non-nil repositories, got %#v", cfg.Dependencies.Repositories)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme auto, got %s", cfg.UI.ColorScheme)
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("DefaultConfig().IsValid() = false, %v", errs)
	}
}

func TestConfigDir(t *testing.T) {
	// Mutates process environment.
	dir := t.TempDir()
	defer testutil.SetHomeDir(t, dir)()

	switch runtime.GOOS {
	case "windows":
		defer testutil.MustSetenv(t, "APPDATA", filepath.Join(dir, "AppData"))()
	case "darwin":
	default:
		defer testutil.MustUnsetenv(t, "XDG_CONFIG_HOME")()
	}

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if filepath.Base(got) != AppName {
		t.Errorf("ConfigDir() = %q, want a %q directory", got, AppName)
	}
	if !strings.HasPrefix(got, dir) {
		t.Errorf("ConfigDir() = %q, want it under %q", got, dir)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}

	xdg := t.TempDir()
	defer testutil.MustSetenv(t, "XDG_CONFIG_HOME", xdg)()

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if want := filepath.Join(xdg, AppName); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestConfigDir_Override(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	defer Reset()

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("ConfigDir() = %q, want %q", got, dir)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, path, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("LoadWithPath() error = %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty", path)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("color scheme = %q, want auto", cfg.UI.ColorScheme)
	}
	if cfg.Build.CacheDir != DefaultConfig().Build.CacheDir {
		t.Errorf("cache dir = %q, want default", cfg.Build.CacheDir)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeConfigFile(t, dir, `
run: {
	java_options: "-Xmx512m '-Dgreeting=hello world'"
	cds:          true
	java_version: "21+"
}
build: compile_options: "-Xlint:all"
dependencies: repositories: ["central"]
ui: color_scheme: "dark"
`)

	cfg, path, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("LoadWithPath() error = %v", err)
	}
	if path != cfgPath {
		t.Errorf("resolved path = %q, want %q", path, cfgPath)
	}
	if !cfg.Run.CDS {
		t.Error("expected run.cds = true")
	}
	if cfg.Run.JavaVersion != "21+" {
		t.Errorf("java_version = %q, want 21+", cfg.Run.JavaVersion)
	}
	wantOpts := []string{"-Xmx512m", "-Dgreeting=hello world"}
	gotOpts := cfg.Run.RuntimeOptions()
	if strings.Join(gotOpts, "|") != strings.Join(wantOpts, "|") {
		t.Errorf("RuntimeOptions() = %q, want %q", gotOpts, wantOpts)
	}
	if got := cfg.Build.CompileOptionList(); len(got) != 1 || got[0] != "-Xlint:all" {
		t.Errorf("CompileOptionList() = %q", got)
	}
	if len(cfg.Dependencies.Repositories) != 1 || cfg.Dependencies.Repositories[0] != "central" {
		t.Errorf("repositories = %q", cfg.Dependencies.Repositories)
	}
	if cfg.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("color scheme = %q, want dark", cfg.UI.ColorScheme)
	}
	// untouched sections keep their defaults
	if cfg.Build.CacheDir != DefaultConfig().Build.CacheDir {
		t.Errorf("cache dir = %q, want default", cfg.Build.CacheDir)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	cfgPath := testutil.MustWriteFile(t, filepath.Join(t.TempDir(), "custom.cue"), `ui: verbose: true`)

	cfg, path, err := LoadWithPath(context.Background(), LoadOptions{ConfigFilePath: cfgPath})
	if err != nil {
		t.Fatalf("LoadWithPath() error = %v", err)
	}
	if path != cfgPath {
		t.Errorf("resolved path = %q, want %q", path, cfgPath)
	}
	if !cfg.UI.Verbose {
		t.Error("expected ui.verbose = true")
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.cue")
	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: missing})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *issue.ActionableError, got %T", err)
	}
	if !ae.HasSuggestions() {
		t.Error("expected suggestions on missing config error")
	}
	if !strings.Contains(err.Error(), missing) {
		t.Errorf("error %q does not name %q", err, missing)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"syntax error", `run: {`},
		{"unknown field", `run: shell: "bash"`},
		{"wrong type", `run: cds: "yes"`},
		{"bad color scheme", `ui: color_scheme: "blue"`},
		{"bad java version", `run: java_version: "seventeen"`},
		{"blank repository", `dependencies: repositories: [""]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfigFile(t, dir, tt.content)

			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("expected error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Errorf("expected *issue.ActionableError, got %T", err)
			}
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	// Mutates process environment.
	defer testutil.MustSetenv(t, "JRUN_RUN_CDS", "true")()
	defer testutil.MustSetenv(t, "JRUN_UI_COLOR_SCHEME", "light")()

	dir := t.TempDir()
	writeConfigFile(t, dir, `ui: color_scheme: "dark"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Run.CDS {
		t.Error("expected JRUN_RUN_CDS to enable CDS")
	}
	if cfg.UI.ColorScheme != ColorSchemeLight {
		t.Errorf("color scheme = %q, want env value light", cfg.UI.ColorScheme)
	}
}

func TestLoad_EnvInvalidValue(t *testing.T) {
	// Mutates process environment.
	defer testutil.MustSetenv(t, "JRUN_UI_COLOR_SCHEME", "purple")()

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("errors.Is(err, ErrInvalidConfig) = false for %v", err)
	}
	if !errors.Is(err, ErrInvalidColorScheme) {
		t.Errorf("errors.Is(err, ErrInvalidColorScheme) = false for %v", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Run.JavaOptions = `-Xmx1g "-Dname=a b"`
	cfg.Run.CDS = true
	cfg.Run.JavaVersion = "17"
	cfg.Run.JavaHome = "/opt/jdk-17"
	cfg.Build.CompileOptions = "-g"
	cfg.Dependencies.LocalRepository = "/srv/m2"
	cfg.Dependencies.Repositories = []string{"central", "https://repo.example.com/maven"}
	cfg.UI.ColorScheme = ColorSchemeLight
	cfg.UI.Verbose = true

	dir := t.TempDir()
	writeConfigFile(t, dir, GenerateCUE(cfg))

	got, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Run.JavaOptions != cfg.Run.JavaOptions {
		t.Errorf("java_options = %q, want %q", got.Run.JavaOptions, cfg.Run.JavaOptions)
	}
	if !got.Run.CDS || got.Run.JavaVersion != "17" || got.Run.JavaHome != "/opt/jdk-17" {
		t.Errorf("run = %+v", got.Run)
	}
	if got.Build.CompileOptions != "-g" || got.Build.CacheDir != cfg.Build.CacheDir {
		t.Errorf("build = %+v", got.Build)
	}
	if got.Dependencies.LocalRepository != "/srv/m2" || len(got.Dependencies.Repositories) != 2 {
		t.Errorf("dependencies = %+v", got.Dependencies)
	}
	if got.UI.ColorScheme != ColorSchemeLight || !got.UI.Verbose {
		t.Errorf("ui = %+v", got.UI)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	defer Reset()

	path, err := CreateDefaultConfig()
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if want := filepath.Join(dir, "config.cue"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	// an existing file is left alone
	testutil.MustWriteFile(t, path, `ui: verbose: true`)
	if _, err := CreateDefaultConfig(); err != nil {
		t.Fatalf("second CreateDefaultConfig() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `ui: verbose: true` {
		t.Errorf("existing config was overwritten: %q", data)
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	SetConfigDirOverride(dir)
	defer Reset()

	cfg := DefaultConfig()
	cfg.Run.CDS = true
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := NewProvider().Load(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.Run.CDS {
		t.Error("saved run.cds = true was not loaded back")
	}
}
