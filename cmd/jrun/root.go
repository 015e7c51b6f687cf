// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jrunhq/jrun/internal/config"
	"github.com/jrunhq/jrun/internal/issue"
	"github.com/jrunhq/jrun/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jrun",
		Short: "Run Java source files, JShell scripts and jars directly",
		Long: TitleStyle.Render("jrun") + SubtitleStyle.Render(" - run Java without a build tool") + `

jrun compiles a .java file (plus anything its //DEPS, //SOURCES and
//FILES directives pull in) into a cached jar and launches it. JShell
scripts (.jsh) and jars run as they are.

` + SubtitleStyle.Render("Examples:") + `
  jrun Hello.java world         Build and run Hello.java with one argument
  jrun run --dry-run app.jar    Print the java command instead of running it
  jrun run -i tools.jsh         Open JShell with tools.jsh loaded
  jrun build Hello.java         Build the cached jar only
  jrun info Hello.java          Describe the code as JSON
  jrun config show              Show the current configuration`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(initRootConfig(cmd.Context(), app))
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/jrun/config.cue)")

	runCmd := newRunCommand(app)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(newBuildCommand(app))
	rootCmd.AddCommand(newInfoCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	// "jrun Hello.java" is shorthand for "jrun run Hello.java"
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runCmd.RunE(cmd, args)
	}

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the launched program's status, or 1 for
// failures raised before launch. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code.Normalize()))
		}
		os.Exit(int(types.ExitFailure))
	}
}

// errorHandler leaves ExitErrors alone, since reportFailure has already
// rendered them, and styles everything else (usage errors) the fang way.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// initRootConfig loads the configuration, installs the logger, and returns ctx
// carrying the configuration. A broken config file is reported and replaced by
// the defaults so that jrun stays usable.
func initRootConfig(ctx context.Context, app *App) context.Context {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: app.configPath})
	if err != nil {
		fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, app.verbose))
		cfg = config.DefaultConfig()
	}

	if !app.verbose {
		app.verbose = cfg.UI.Verbose
	}
	slog.SetDefault(newLogger(app.stderr, app.verbose))

	return contextWithConfig(ctx, cfg)
}

// issueStyle picks the glamour style for the configured color scheme.
func issueStyle(cfg *config.Config) string {
	if cfg.UI.ColorScheme == config.ColorSchemeLight {
		return "light"
	}
	return "dark"
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their own layout; verbose mode shows the full chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// reportFailure renders err for the user and converts it into an ExitError so
// fang does not print it a second time.
func reportFailure(cmd *cobra.Command, app *App, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return exitErr
	}

	renderFailure(cmd.Context(), app, err)
	cmd.SilenceErrors = true
	return &ExitError{Code: types.ExitFailure, Err: err}
}

// renderFailure classifies err and writes it, with its issue guidance, to the
// app's stderr.
func renderFailure(ctx context.Context, app *App, err error) {
	issueID, styled := classifyError(err, app.verbose)
	renderServiceError(app.stderr, newServiceError(err, issueID, styled), issueStyle(configFromContext(ctx)))
}
