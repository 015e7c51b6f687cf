// SPDX-License-Identifier: MPL-2.0

package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/jrunhq/jrun/pkg/dependencies"
	"github.com/jrunhq/jrun/pkg/jdk"

	"golang.org/x/exp/slices"
	"mvdan.cc/sh/v3/syntax"
)

// CDSSuffix names the class data sharing archive kept next to a jar.
const CDSSuffix = ".jsa"

type (
	// CmdGenerator assembles the command that launches code.
	CmdGenerator interface {
		Generate(ctx context.Context) (*Command, error)
	}

	// Command is a launch invocation: an executable and its arguments.
	Command struct {
		Path string
		Args []string
	}

	javaCmdGenerator struct {
		code Code
		ctx  *RunContext
	}

	jshCmdGenerator struct {
		code Code
		ctx  *RunContext
	}
)

func newCmdGenerator(code Code, ctx *RunContext) CmdGenerator {
	if usesJShell(code, ctx) {
		return &jshCmdGenerator{code: code, ctx: ctx}
	}
	return &javaCmdGenerator{code: code, ctx: ctx}
}

// Argv returns the executable followed by its arguments.
func (c *Command) Argv() []string {
	return append([]string{c.Path}, c.Args...)
}

// String renders the command as a single bash-quoted line.
func (c *Command) String() string {
	argv := c.Argv()
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			q = strconv.Quote(arg)
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " ")
}

// CDSArchiveFor returns the class data sharing archive path for a jar.
func CDSArchiveFor(jarFile string) string {
	return strings.TrimSuffix(jarFile, JarSuffix) + CDSSuffix
}

func (g *javaCmdGenerator) Generate(ctx context.Context) (*Command, error) {
	rctx := g.ctx.orZero()

	java, err := locateTool(ctx, rctx, g.code, "java")
	if err != nil {
		return nil, err
	}
	cp, err := resolveClassPath(ctx, rctx, g.code)
	if err != nil {
		return nil, err
	}

	jar := g.code.JarFile()
	args := rctx.RuntimeOptionsFor(g.code)

	if rctx.CDSFor(g.code) {
		jsa := CDSArchiveFor(jar)
		if _, statErr := os.Stat(jsa); statErr == nil {
			args = append(args, "-XX:SharedArchiveFile="+jsa, "-Xshare:auto")
		} else {
			args = append(args, "-XX:ArchiveClassesAtExit="+jsa)
		}
	}

	if main := rctx.MainClassFor(g.code); main != "" {
		args = append(args, "-classpath", cp.Prepend(jar).ClassPath(), main)
	} else {
		// the jar's own manifest names the entry point and its classpath
		args = append(args, "-jar", jar)
	}
	args = append(args, rctx.Args()...)

	return &Command{Path: java, Args: args}, nil
}

func (g *jshCmdGenerator) Generate(ctx context.Context) (*Command, error) {
	rctx := g.ctx.orZero()

	jshell, err := locateTool(ctx, rctx, g.code, "jshell")
	if err != nil {
		return nil, err
	}
	cp, err := resolveClassPath(ctx, rctx, g.code)
	if err != nil {
		return nil, err
	}

	args := []string{"--execution=local"}
	for _, opt := range rctx.RuntimeOptionsFor(g.code) {
		args = append(args, "-J"+opt)
	}

	if g.code.IsJar() {
		cp = cp.Prepend(g.code.JarFile())
	}
	if !cp.IsEmpty() {
		args = append(args, "--class-path", cp.ClassPath())
	}

	ref := g.code.ResourceRef()
	if !g.code.IsJar() && ref.HasFile() {
		if rctx.Interactive {
			args = append(args, "--startup", "DEFAULT", "--startup", ref.File())
		} else {
			args = append(args, ref.File())
		}
	}

	if len(rctx.Arguments) > 0 {
		slog.Warn("jshell does not receive program arguments", "count", len(rctx.Arguments))
	}

	return &Command{Path: jshell, Args: args}, nil
}

func locateTool(ctx context.Context, rctx *RunContext, code Code, tool string) (string, error) {
	req, err := jdk.ParseRequirement(rctx.JavaVersionFor(code))
	if err != nil {
		return "", err
	}
	j, err := jdk.Locate(ctx, jdk.LocateOptions{Home: rctx.JavaHome, Requirement: req})
	if err != nil {
		return "", err
	}
	return j.Tool(tool), nil
}

func resolveClassPath(ctx context.Context, rctx *RunContext, code Code) (*dependencies.ModularClassPath, error) {
	cp, err := code.ContributeDependencies(dependencies.NewResolver(rctx.LocalRepository)).Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dependencies of %s: %w", code.ResourceRef(), err)
	}
	return cp, nil
}

// Equal reports whether two commands have the same executable and arguments.
func (c *Command) Equal(other *Command) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Path == other.Path && slices.Equal(c.Args, other.Args)
}
