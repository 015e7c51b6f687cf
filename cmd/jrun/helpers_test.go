// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jrunhq/jrun/internal/config"
	"github.com/jrunhq/jrun/internal/testutil"
	"github.com/jrunhq/jrun/pkg/jarfile"
	"github.com/jrunhq/jrun/pkg/jdk"
	"github.com/jrunhq/jrun/pkg/source"
	"github.com/jrunhq/jrun/pkg/types"
)

const testJavaHome = "/opt/jdk"

type (
	staticConfig struct {
		cfg *config.Config
		err error
	}

	recordingLauncher struct {
		mu       sync.Mutex
		commands []*source.Command
		code     types.ExitCode
		err      error
	}

	testApp struct {
		*App
		stdout   *bytes.Buffer
		stderr   *bytes.Buffer
		launcher *recordingLauncher
	}
)

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cfg, nil
}

func (l *recordingLauncher) Launch(_ context.Context, cmd *source.Command, _ Stdio) (types.ExitCode, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.commands = append(l.commands, cmd)
	return l.code, l.err
}

// testConfig returns defaults with the build cache inside the test's temp dir.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Build.CacheDir = types.FilesystemPath(t.TempDir())
	cfg.Dependencies.LocalRepository = types.FilesystemPath(t.TempDir())
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()
	ta := &testApp{
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		launcher: &recordingLauncher{},
	}
	ta.App = NewApp(Dependencies{
		Config:   staticConfig{cfg: cfg},
		Launcher: ta.launcher,
		Stdin:    strings.NewReader(""),
		Stdout:   ta.stdout,
		Stderr:   ta.stderr,
	})
	return ta
}

// execute runs the command tree with args, bypassing fang.
func (ta *testApp) execute(args ...string) error {
	root := NewRootCommand(ta.App)
	root.SetArgs(args)
	root.SetOut(ta.stdout)
	root.SetErr(ta.stderr)
	return root.ExecuteContext(context.Background())
}

// writeAppJar creates a runnable jar with demo.Main as its entry point.
func writeAppJar(t *testing.T) string {
	t.Helper()
	return testutil.MustWriteJar(t, filepath.Join(t.TempDir(), "app.jar"), map[string]string{
		jarfile.AttrMainClass: "demo.Main",
	})
}

func javaTool() string {
	return (&jdk.JDK{Home: testJavaHome}).Tool("java")
}
