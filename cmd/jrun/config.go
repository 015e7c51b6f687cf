// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jrunhq/jrun/internal/config"
	"github.com/jrunhq/jrun/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `jrun config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage jrun configuration",
		Long: `Manage jrun configuration.

Configuration is stored in:
  - Linux: ~/.config/jrun/config.cue
  - macOS: ~/Library/Application Support/jrun/config.cue
  - Windows: %APPDATA%\jrun\config.cue

Every setting can also come from a JRUN_ environment variable, for example
JRUN_RUN_CDS=true or JRUN_BUILD_CACHE_DIR=/tmp/jrun.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app.stdout)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: app.configPath})
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: app.configPath})
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render(issueStyle(configFromContext(ctx)))
		fmt.Fprint(app.stderr, rendered)
		return err
	}

	w := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	cfgPath, pathErr := effectiveConfigPath(app)
	if pathErr == nil && fileExists(cfgPath) {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	value := func(v string) string {
		if v == "" {
			return SubtitleStyle.Render("(not set)")
		}
		return valueStyle.Render(v)
	}
	list := func(vs []string) string {
		if len(vs) == 0 {
			return SubtitleStyle.Render("(none)")
		}
		return valueStyle.Render(strings.Join(vs, ", "))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("run"))
	fmt.Fprintf(w, "  java_options: %s\n", value(cfg.Run.JavaOptions))
	fmt.Fprintf(w, "  cds: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Run.CDS)))
	fmt.Fprintf(w, "  java_version: %s\n", value(cfg.Run.JavaVersion))
	fmt.Fprintf(w, "  java_home: %s\n", value(cfg.Run.JavaHome.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("build"))
	fmt.Fprintf(w, "  compile_options: %s\n", value(cfg.Build.CompileOptions))
	fmt.Fprintf(w, "  cache_dir: %s\n", value(cfg.Build.CacheDir.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("dependencies"))
	fmt.Fprintf(w, "  local_repository: %s\n", value(cfg.Dependencies.LocalRepository.String()))
	fmt.Fprintf(w, "  repositories: %s\n", list(cfg.Dependencies.Repositories))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfig(w io.Writer) error {
	cfgPath, err := config.CreateDefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	fmt.Fprintf(w, "%s Configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	cfgPath, err := effectiveConfigPath(app)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", cfgPath)
	return nil
}

// effectiveConfigPath is the --config file when given, else config.cue in ConfigDir.
func effectiveConfigPath(app *App) (string, error) {
	if app.configPath != "" {
		return app.configPath, nil
	}
	return config.ConfigFilePath("")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
