// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/jrunhq/jrun/internal/config"
	"github.com/jrunhq/jrun/pkg/source"
	"github.com/jrunhq/jrun/pkg/types"
)

type (
	configContextKey struct{}

	// App wires CLI services and shared dependencies. Every cobra handler
	// receives the App and goes through its interfaces.
	App struct {
		Config   ConfigProvider
		Launcher Launcher
		stdin    io.Reader
		stdout   io.Writer
		stderr   io.Writer

		// set by the persistent root flags
		verbose    bool
		configPath string
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Launcher Launcher
		Stdin    io.Reader
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// Launcher starts a generated launch command and waits for it. A program
	// that runs and exits non-zero is not an error: its status is returned.
	Launcher interface {
		Launch(ctx context.Context, cmd *source.Command, stdio Stdio) (types.ExitCode, error)
	}

	// Stdio are the streams handed to a launched program.
	Stdio struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Launcher == nil {
		deps.Launcher = &execLauncher{}
	}

	return &App{
		Config:   deps.Config,
		Launcher: deps.Launcher,
		stdin:    deps.Stdin,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
}

func (a *App) stdio() Stdio {
	return Stdio{Stdin: a.stdin, Stdout: a.stdout, Stderr: a.stderr}
}

// contextWithConfig attaches the configuration loaded for this invocation.
func contextWithConfig(ctx context.Context, cfg *config.Config) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configContextKey{}, cfg)
}

// configFromContext returns the invocation's configuration, or the defaults
// when none was attached.
func configFromContext(ctx context.Context) *config.Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(configContextKey{}).(*config.Config); ok && cfg != nil {
			return cfg
		}
	}
	return config.DefaultConfig()
}
