// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jrunhq/jrun/internal/testutil"
	"github.com/jrunhq/jrun/pkg/dependencies"
	"github.com/jrunhq/jrun/pkg/jarfile"
	"github.com/jrunhq/jrun/pkg/source"
	"github.com/jrunhq/jrun/pkg/types"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func TestRun_DryRun(t *testing.T) {
	t.Parallel()

	jar := writeAppJar(t)

	tests := []struct {
		name string
		args []string
	}{
		{"run subcommand", []string{"run", "--dry-run", "--java-home", testJavaHome, jar, "a", "b c"}},
		{"root shorthand", []string{"--dry-run", "--java-home", testJavaHome, jar, "a", "b c"}},
	}

	want := (&source.Command{
		Path: javaTool(),
		Args: []string{"-classpath", jar, "demo.Main", "a", "b c"},
	}).String()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ta := newTestApp(t, testConfig(t))
			if err := ta.execute(tt.args...); err != nil {
				t.Fatalf("execute() error = %v\nstderr: %s", err, ta.stderr)
			}
			if got := strings.TrimSpace(ta.stdout.String()); got != want {
				t.Errorf("dry run printed %q, want %q", got, want)
			}
			if len(ta.launcher.commands) != 0 {
				t.Errorf("dry run launched %d commands", len(ta.launcher.commands))
			}
		})
	}
}

func TestRun_ProgramArgsAreNotParsedAsFlags(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, testConfig(t))
	jar := writeAppJar(t)
	if err := ta.execute("run", "--java-home", testJavaHome, jar, "--verbose", "-x"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if len(ta.launcher.commands) != 1 {
		t.Fatalf("launched %d commands, want 1", len(ta.launcher.commands))
	}
	args := ta.launcher.commands[0].Args
	if !slices.Equal(args[len(args)-2:], []string{"--verbose", "-x"}) {
		t.Errorf("program args = %q, want trailing --verbose -x", args)
	}
}

func TestRun_ExitCodePassesThrough(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, testConfig(t))
	ta.launcher.code = 3

	err := ta.execute("run", "--java-home", testJavaHome, writeAppJar(t))
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("execute() error = %v, want *ExitError", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("exit code = %d, want 3", exitErr.Code)
	}
	if ta.stderr.Len() != 0 {
		t.Errorf("a program's own failure should not be rendered, stderr = %q", ta.stderr)
	}
}

func TestRun_ConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Run.JavaOptions = `-Xmx1g "-Dgreeting=hi there"`
	cfg.Run.CDS = true
	cfg.Run.JavaHome = testJavaHome

	tests := []struct {
		name    string
		flags   []string
		wantCDS bool
		wantOpt []string
	}{
		{"config only", nil, true, []string{"-Xmx1g", "-Dgreeting=hi there"}},
		{"no-cds flag", []string{"--no-cds"}, false, []string{"-Xmx1g", "-Dgreeting=hi there"}},
		{"no-cds explicitly false", []string{"--no-cds=false"}, true, []string{"-Xmx1g", "-Dgreeting=hi there"}},
		{"runtime option flag", []string{"-R", "-Da=1 '-Db=x y'"}, true, []string{"-Xmx1g", "-Dgreeting=hi there", "-Da=1", "-Db=x y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ta := newTestApp(t, cfg)
			jar := writeAppJar(t)
			args := append(append([]string{"run"}, tt.flags...), jar)
			if err := ta.execute(args...); err != nil {
				t.Fatalf("execute() error = %v\nstderr: %s", err, ta.stderr)
			}

			got := ta.launcher.commands[0]
			if got.Path != javaTool() {
				t.Errorf("Path = %q, want configured java home", got.Path)
			}
			if !slices.Equal(got.Args[:len(tt.wantOpt)], tt.wantOpt) {
				t.Errorf("leading args = %q, want %q", got.Args, tt.wantOpt)
			}
			hasCDS := slices.ContainsFunc(got.Args, func(a string) bool {
				return strings.HasPrefix(a, "-XX:ArchiveClassesAtExit=")
			})
			if hasCDS != tt.wantCDS {
				t.Errorf("CDS in %q = %v, want %v", got.Args, hasCDS, tt.wantCDS)
			}
		})
	}
}

func TestRun_RuntimeOptionOrder(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Run.JavaOptions = "-Xmx512m"
	jar := testutil.MustWriteJar(t, filepath.Join(t.TempDir(), "app.jar"), map[string]string{
		jarfile.AttrMainClass:   "demo.Main",
		jarfile.AttrJavaOptions: "-Xmx2g",
	})

	ta := newTestApp(t, cfg)
	if err := ta.execute("run", "--java-home", testJavaHome, "-R", "-ea", jar); err != nil {
		t.Fatalf("execute() error = %v\nstderr: %s", err, ta.stderr)
	}

	// configured defaults first so the code's own options win, flags last
	want := []string{"-Xmx512m", "-Xmx2g", "-ea"}
	if got := ta.launcher.commands[0].Args; !slices.Equal(got[:len(want)], want) {
		t.Errorf("leading args = %q, want %q", got, want)
	}
}

func TestRun_ExtraDependencies(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	jar := writeAppJar(t)

	t.Run("resolved", func(t *testing.T) {
		t.Parallel()

		lib := testutil.MustWriteArtifact(t, cfg.Dependencies.LocalRepository.String(), dependencies.MustParseCoordinate("org.example:lib:1.0"))
		ta := newTestApp(t, cfg)
		if err := ta.execute("run", "--dry-run", "--java-home", testJavaHome, "--deps", "org.example:lib:1.0", jar); err != nil {
			t.Fatalf("execute() error = %v\nstderr: %s", err, ta.stderr)
		}
		want := jar + string(filepath.ListSeparator) + lib
		if !strings.Contains(ta.stdout.String(), want) {
			t.Errorf("dry run %q does not carry classpath %q", ta.stdout, want)
		}
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		ta := newTestApp(t, cfg)
		err := ta.execute("run", "--java-home", testJavaHome, "--deps", "org.example:absent:2.0", jar)
		var exitErr *ExitError
		if !errors.As(err, &exitErr) || exitErr.Code != types.ExitFailure {
			t.Fatalf("execute() error = %v, want exit 1", err)
		}
		if !strings.Contains(ta.stderr.String(), "org.example:absent:2.0") {
			t.Errorf("stderr does not name the missing dependency: %q", ta.stderr)
		}
	})
}

func TestRun_MissingReference(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, testConfig(t))
	missing := filepath.Join(t.TempDir(), "Nope.java")

	err := ta.execute("run", missing)
	if !errors.Is(err, source.ErrResourceNotFound) {
		t.Errorf("execute() error = %v, want ErrResourceNotFound", err)
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != types.ExitFailure {
		t.Errorf("execute() error = %v, want exit 1", err)
	}
	if !strings.Contains(ta.stderr.String(), "Error:") {
		t.Errorf("stderr = %q, want rendered error", ta.stderr)
	}
}

func TestRun_InteractiveJShell(t *testing.T) {
	t.Parallel()

	script := testutil.MustWriteFile(t, filepath.Join(t.TempDir(), "tools.jsh"), "System.out.println(1);\n")
	ta := newTestApp(t, testConfig(t))

	if err := ta.execute("run", "-i", "--dry-run", "--java-home", testJavaHome, script); err != nil {
		t.Fatalf("execute() error = %v\nstderr: %s", err, ta.stderr)
	}
	out := ta.stdout.String()
	if !strings.Contains(out, "jshell") || !strings.Contains(out, "--startup") {
		t.Errorf("dry run = %q, want an interactive jshell command", out)
	}
}

func TestRunFlags_Request(t *testing.T) {
	t.Parallel()

	var f runFlags
	c := &cobra.Command{}
	f.bind(c.Flags())
	if err := c.ParseFlags([]string{"--cds", "-R", "-Xss2m '-Dx=a b'", "-R", "-ea", "--main", "demo.Other", "--jsh", "--fresh", "--deps", "g:a:1"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	req := f.request(c, []string{"Hello.java", "one", "two"})
	if req.Reference != "Hello.java" || !slices.Equal(req.Args, []string{"one", "two"}) {
		t.Errorf("reference/args = %q %q", req.Reference, req.Args)
	}
	if !slices.Equal(req.RuntimeOptions, []string{"-Xss2m", "-Dx=a b", "-ea"}) {
		t.Errorf("RuntimeOptions = %q", req.RuntimeOptions)
	}
	if req.CDS == nil || !*req.CDS {
		t.Errorf("CDS = %v, want forced on", req.CDS)
	}
	if req.MainClass != "demo.Other" || !req.ForceJsh || !req.Fresh {
		t.Errorf("request = %+v", req)
	}
	if !slices.Equal(req.Deps, []string{"g:a:1"}) {
		t.Errorf("Deps = %q", req.Deps)
	}

	var unset runFlags
	c2 := &cobra.Command{}
	unset.bind(c2.Flags())
	if req := unset.request(c2, []string{"x.jar"}); req.CDS != nil {
		t.Errorf("CDS = %v, want nil when neither --cds nor --no-cds is given", *req.CDS)
	}
}
