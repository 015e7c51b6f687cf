// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/jrunhq/jrun/internal/watch"
	"github.com/jrunhq/jrun/pkg/source"
)

// watchSession owns the program launched by the latest rebuild. A rebuild
// stops the previous program before starting the next one.
type watchSession struct {
	app *App
	req runRequest
	out io.Writer

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// executeWatch runs the requested code, then rebuilds and relaunches it each
// time one of its files changes, until ctx is canceled. Only a failure to
// resolve the code on the first run is returned; later failures are reported
// and the session keeps watching.
func executeWatch(ctx context.Context, app *App, req runRequest, out io.Writer) error {
	p, err := prepare(ctx, configFromContext(ctx), req)
	if err != nil {
		return err
	}

	s := &watchSession{app: app, req: req, out: out}
	defer s.stop()
	s.start(ctx, p)

	// Later rebuilds reuse the caches the first run refreshed.
	s.req.Fresh = false

	var w *watch.Watcher
	w, err = watch.New(watch.Config{
		Files:    watchedFiles(p.code),
		Patterns: req.WatchPatterns,
		BaseDir:  watchBaseDir(p.code),
		Stderr:   app.stderr,
		OnChange: func(ctx context.Context, changed []string) error {
			slog.Info("change detected, rebuilding", "files", len(changed))
			next, prepErr := prepare(ctx, configFromContext(ctx), s.req)
			if prepErr != nil {
				renderFailure(ctx, app, prepErr)
				return nil
			}
			if trackErr := w.Track(watchedFiles(next.code)...); trackErr != nil {
				slog.Warn("cannot watch new files", "error", trackErr)
			}
			s.start(ctx, next)
			return nil
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(app.stderr, SubtitleStyle.Render(fmt.Sprintf("Watching %d file(s); press Ctrl+C to stop", len(w.Tracked()))))
	return w.Run(ctx)
}

// start stops the running program, if any, then builds p and launches it in
// the background. Build and launch failures are rendered, not returned.
func (s *watchSession) start(ctx context.Context, p *prepared) {
	s.stop()

	command, err := p.launchCommand(ctx)
	if err != nil {
		renderFailure(ctx, s.app, err)
		return
	}
	if s.req.DryRun {
		fmt.Fprintln(s.out, command.String())
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		code, launchErr := s.app.Launcher.Launch(runCtx, command, s.app.stdio())
		switch {
		case runCtx.Err() != nil:
			// stopped for a rebuild or shutdown
		case launchErr != nil:
			renderFailure(ctx, s.app, launchErr)
		case !code.IsSuccess():
			fmt.Fprintln(s.app.stderr, WarningStyle.Render("program exited with code "+code.String()))
		}
	}()
}

// stop cancels the running program and waits for it to exit.
func (s *watchSession) stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// watchedFiles lists the local files code is built from: the referenced file,
// plus the sources and resources of a source set.
func watchedFiles(code source.Code) []string {
	var files []string
	if ref := code.ResourceRef(); ref.HasFile() {
		files = append(files, ref.File())
	}
	set, ok := code.AsSourceSet()
	if !ok {
		return files
	}
	for _, src := range set.Sources() {
		if src.HasFile() {
			files = append(files, src.File())
		}
	}
	for _, res := range set.Resources() {
		if res.Ref.HasFile() {
			files = append(files, res.Ref.File())
		}
	}
	return files
}

func watchBaseDir(code source.Code) string {
	if ref := code.ResourceRef(); ref.HasFile() {
		return filepath.Dir(ref.File())
	}
	return ""
}
