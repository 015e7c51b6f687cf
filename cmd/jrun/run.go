// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jrunhq/jrun/internal/config"
	"github.com/jrunhq/jrun/pkg/dependencies"
	"github.com/jrunhq/jrun/pkg/source"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type (
	// runRequest captures the launch inputs of one invocation as a value.
	runRequest struct {
		// Reference is the file, URL or coordinate to run.
		Reference string
		// Args are passed to the program.
		Args []string
		// Interactive opens JShell with the code loaded.
		Interactive bool
		// ForceJsh treats the code as a JShell script.
		ForceJsh bool
		// JavaVersion overrides the version the code asks for.
		JavaVersion string
		// JavaHome skips Java discovery.
		JavaHome string
		// MainClass overrides the entry point.
		MainClass string
		// RuntimeOptions are added after the configured and declared ones.
		RuntimeOptions []string
		// CDS forces class data sharing on or off when set.
		CDS *bool
		// Deps are extra dependency coordinates.
		Deps []string
		// ClassPath are extra classpath entries.
		ClassPath []string
		// Fresh rebuilds and downloads again.
		Fresh bool
		// DryRun prints the launch command instead of running it.
		DryRun bool
		// Watch rebuilds and relaunches when the code's files change.
		Watch bool
		// WatchPatterns select more files to watch, relative to the code's directory.
		WatchPatterns []string
	}

	// runFlags are the cobra bindings behind a runRequest.
	runFlags struct {
		interactive    bool
		jsh            bool
		javaVersion    string
		javaHome       string
		mainClass      string
		runtimeOptions []string
		cds            bool
		noCDS          bool
		deps           []string
		classPath      []string
		fresh          bool
		dryRun         bool
		watch          bool
		watchPatterns  []string
	}

	// prepared is code ready for its builder and command generator.
	prepared struct {
		code source.Code
		ctx  *source.RunContext
	}
)

func newRunCommand(app *App) *cobra.Command {
	var flags runFlags

	runCmd := &cobra.Command{
		Use:   "run <file|url|group:artifact:version> [args...]",
		Short: "Build if needed and run Java code",
		Long: `Build if needed and run Java code.

A .java file is compiled into a cached jar first; the cache is reused until
the sources, directives or options change. A .jsh file runs in JShell, and a
.jar runs as is. Everything after the reference is passed to the program.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := flags.request(cmd, args)
			execute := executeRun
			if req.Watch {
				execute = executeWatch
			}
			if err := execute(cmd.Context(), app, req, app.stdout); err != nil {
				return reportFailure(cmd, app, err)
			}
			return nil
		},
	}

	flags.bind(runCmd.Flags())
	runCmd.MarkFlagsMutuallyExclusive("cds", "no-cds")

	return runCmd
}

func (f *runFlags) bind(fs *pflag.FlagSet) {
	fs.SetInterspersed(false)
	fs.BoolVarP(&f.interactive, "interactive", "i", false, "open JShell with the code loaded")
	fs.BoolVar(&f.jsh, "jsh", false, "treat the code as a JShell script")
	fs.StringVarP(&f.javaVersion, "java", "j", "", `java version to use ("17" or "17+")`)
	fs.StringVar(&f.javaHome, "java-home", "", "java installation to use instead of discovery")
	fs.StringVarP(&f.mainClass, "main", "m", "", "main class to launch")
	fs.StringArrayVarP(&f.runtimeOptions, "runtime-option", "R", nil, "option for the java launcher (repeatable, quoted)")
	fs.BoolVar(&f.cds, "cds", false, "use a class data sharing archive")
	fs.BoolVar(&f.noCDS, "no-cds", false, "never use a class data sharing archive")
	fs.StringArrayVar(&f.deps, "deps", nil, "extra dependency coordinate (repeatable)")
	fs.StringArrayVar(&f.classPath, "cp", nil, "extra classpath entry (repeatable)")
	fs.BoolVar(&f.fresh, "fresh", false, "rebuild and download again, ignoring caches")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print the launch command instead of running it")
	fs.BoolVarP(&f.watch, "watch", "w", false, "rebuild and relaunch when sources or resources change")
	fs.StringArrayVar(&f.watchPatterns, "watch-pattern", nil, "extra glob of files to watch, relative to the code (repeatable)")
}

// request turns the parsed flags into a runRequest.
func (f *runFlags) request(cmd *cobra.Command, args []string) runRequest {
	req := runRequest{
		Reference:     args[0],
		Args:          args[1:],
		Interactive:   f.interactive,
		ForceJsh:      f.jsh,
		JavaVersion:   f.javaVersion,
		JavaHome:      f.javaHome,
		MainClass:     f.mainClass,
		Deps:          f.deps,
		ClassPath:     f.classPath,
		Fresh:         f.fresh,
		DryRun:        f.dryRun,
		Watch:         f.watch || len(f.watchPatterns) > 0,
		WatchPatterns: f.watchPatterns,
	}
	for _, opt := range f.runtimeOptions {
		req.RuntimeOptions = append(req.RuntimeOptions, source.SplitQuoted(opt)...)
	}
	switch {
	case cmd.Flags().Changed("cds"):
		enabled := f.cds
		req.CDS = &enabled
	case f.noCDS:
		disabled := false
		req.CDS = &disabled
	}
	return req
}

// prepare resolves the reference and creates the code and run context,
// layering configuration defaults below the code's directives and the
// request's overrides.
func prepare(ctx context.Context, cfg *config.Config, req runRequest) (*prepared, error) {
	localRepo := cfg.Dependencies.LocalRepository.OrDefault("")

	ref, err := source.ResolveResource(ctx, req.Reference, source.ResolveOptions{
		LocalRepository: localRepo,
		Refresh:         req.Fresh,
	})
	if err != nil {
		return nil, err
	}

	extraDeps := make([]dependencies.Coordinate, 0, len(req.Deps))
	for _, d := range req.Deps {
		c, parseErr := dependencies.ParseCoordinate(d)
		if parseErr != nil {
			return nil, parseErr
		}
		extraDeps = append(extraDeps, c)
	}

	code, err := source.ForResource(ref,
		source.WithCacheDir(cfg.Build.CacheDir.OrDefault(source.DefaultCacheDir())),
		source.WithExtraCompileOptions(cfg.Build.CompileOptionList()...),
		source.WithRepositories(cfg.Dependencies.Repositories...),
		source.WithDependencies(extraDeps...),
		source.WithClasspaths(req.ClassPath...),
	)
	if err != nil {
		return nil, err
	}

	rctx := source.NewRunContext()
	rctx.ForceJsh = req.ForceJsh
	rctx.Interactive = req.Interactive
	rctx.JavaVersion = req.JavaVersion
	if rctx.JavaVersion == "" && code.JavaVersion() == "" {
		rctx.JavaVersion = cfg.Run.JavaVersion
	}
	rctx.JavaHome = req.JavaHome
	if rctx.JavaHome == "" {
		rctx.JavaHome = cfg.Run.JavaHome.OrDefault("")
	}
	rctx.MainClass = req.MainClass
	rctx.DefaultRuntimeOptions = cfg.Run.RuntimeOptions()
	rctx.RuntimeOptions = req.RuntimeOptions
	rctx.Arguments = req.Args
	rctx.CDS = req.CDS
	if rctx.CDS == nil && cfg.Run.CDS {
		enabled := true
		rctx.CDS = &enabled
	}
	rctx.FreshBuild = req.Fresh
	rctx.LocalRepository = localRepo

	slog.Debug("prepared code",
		"execution", rctx.ExecutionID,
		"ref", ref.String(),
		"needsBuild", source.NeedsBuild(code, rctx))

	return &prepared{code: code, ctx: rctx}, nil
}

// launchCommand builds the prepared code if needed and generates its launch command.
func (p *prepared) launchCommand(ctx context.Context) (*source.Command, error) {
	built, err := p.code.Builder(p.ctx).Build(ctx)
	if err != nil {
		return nil, err
	}
	return built.CmdGenerator(p.ctx).Generate(ctx)
}

// executeRun prepares, builds and launches the requested code. In dry-run mode
// the launch command is written to out instead.
func executeRun(ctx context.Context, app *App, req runRequest, out io.Writer) error {
	p, err := prepare(ctx, configFromContext(ctx), req)
	if err != nil {
		return err
	}

	command, err := p.launchCommand(ctx)
	if err != nil {
		return err
	}

	if req.DryRun {
		fmt.Fprintln(out, command.String())
		return nil
	}

	code, err := app.Launcher.Launch(ctx, command, app.stdio())
	if err != nil {
		return err
	}
	if !code.IsSuccess() {
		slog.Debug("program exited", "execution", p.ctx.ExecutionID, "code", code.String())
		return &ExitError{Code: code}
	}
	return nil
}
