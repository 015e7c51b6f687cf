// SPDX-License-Identifier: MPL-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/jrunhq/jrun/pkg/jdk"
)

type (
	// Compiler turns sources into class files.
	Compiler interface {
		Compile(ctx context.Context, req CompileRequest) error
	}

	// CompileRequest describes one compilation.
	CompileRequest struct {
		// Sources are the source files, main source first.
		Sources []string
		// ClassPath is the OS-separated compile classpath.
		ClassPath string
		// Options are extra javac options.
		Options []string
		// OutputDir receives the class files.
		OutputDir string
		// JavaVersion is the Java version requirement, "" for any.
		JavaVersion string
		// JavaHome selects a Java installation explicitly.
		JavaHome string
	}

	// JavacCompiler compiles with the javac of a located JDK.
	JavacCompiler struct {
		// Stdout and Stderr receive javac's output; both default to os.Stderr.
		Stdout io.Writer
		Stderr io.Writer
	}
)

// Compile runs javac.
func (c *JavacCompiler) Compile(ctx context.Context, req CompileRequest) error {
	requirement, err := jdk.ParseRequirement(req.JavaVersion)
	if err != nil {
		return err
	}
	j, err := jdk.Locate(ctx, jdk.LocateOptions{Home: req.JavaHome, Requirement: requirement})
	if err != nil {
		return err
	}

	args := []string{"-d", req.OutputDir}
	if req.ClassPath != "" {
		args = append(args, "-classpath", req.ClassPath)
	}
	args = append(args, req.Options...)
	args = append(args, req.Sources...)

	cmd := exec.CommandContext(ctx, j.Tool("javac"), args...)
	cmd.Stdout = writerOr(c.Stdout, os.Stderr)
	cmd.Stderr = writerOr(c.Stderr, os.Stderr)

	slog.Debug("compiling", "javac", cmd.Path, "sources", len(req.Sources))
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			main := ""
			if len(req.Sources) > 0 {
				main = req.Sources[0]
			}
			return &CompileError{Main: main, ExitCode: exitErr.ExitCode()}
		}
		return fmt.Errorf("failed to run javac: %w", err)
	}
	return nil
}

func writerOr(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
