// SPDX-License-Identifier: MPL-2.0

package jdk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"

	"github.com/hashicorp/go-version"
)

// EnvJavaHome names the environment variable consulted before PATH.
const EnvJavaHome = "JAVA_HOME"

var (
	// ErrJDKNotFound is returned when no Java installation can be located.
	ErrJDKNotFound = errors.New("no java installation found")
	// ErrRequirementNotMet is the sentinel error wrapped by RequirementNotMetError.
	ErrRequirementNotMet = errors.New("java version requirement not met")

	versionOutputRegex = regexp.MustCompile(`version "([^"]+)"`)
)

type (
	// JDK is a located Java installation.
	JDK struct {
		// Home is the installation root (the directory containing bin/).
		Home string
		// Version is the normalized version, nil when it was not probed.
		Version *version.Version
	}

	// LocateOptions controls Locate.
	LocateOptions struct {
		// Home, when set, is used as-is without probing its version.
		Home string
		// Requirement restricts which installation is acceptable.
		Requirement Requirement
	}

	// RequirementNotMetError reports a located JDK whose version does not
	// satisfy the requested requirement.
	RequirementNotMetError struct {
		Requirement Requirement
		Home        string
		Found       *version.Version
	}
)

// Error implements the error interface.
func (e *RequirementNotMetError) Error() string {
	return fmt.Sprintf("java %s required but %s provides %s", e.Requirement, e.Home, e.Found)
}

// Unwrap returns ErrRequirementNotMet for errors.Is() compatibility.
func (e *RequirementNotMetError) Unwrap() error { return ErrRequirementNotMet }

// Major returns the feature release of the JDK, 0 when unknown.
func (j *JDK) Major() int {
	if j == nil || j.Version == nil {
		return 0
	}
	return j.Version.Segments()[0]
}

// Tool returns the path of a tool (java, javac, jshell) in the JDK's bin directory.
func (j *JDK) Tool(name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(j.Home, "bin", name)
}

// Locate finds a Java installation: an explicit Home first, then $JAVA_HOME,
// then the java found on PATH.
func Locate(ctx context.Context, opts LocateOptions) (*JDK, error) {
	if opts.Home != "" {
		return &JDK{Home: opts.Home}, nil
	}

	home := os.Getenv(EnvJavaHome)
	if home == "" {
		javaPath, err := exec.LookPath("java")
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not set and java is not on PATH", ErrJDKNotFound, EnvJavaHome)
		}
		if resolved, evalErr := filepath.EvalSymlinks(javaPath); evalErr == nil {
			javaPath = resolved
		}
		home = filepath.Dir(filepath.Dir(javaPath))
	}

	j := &JDK{Home: home}
	if opts.Requirement.IsZero() {
		return j, nil
	}

	v, err := probeVersion(ctx, j.Tool("java"))
	if err != nil {
		return nil, err
	}
	j.Version = v
	slog.Debug("located java", "home", home, "version", v.String())

	if !opts.Requirement.SatisfiedBy(v) {
		return nil, &RequirementNotMetError{Requirement: opts.Requirement, Home: home, Found: v}
	}
	return j, nil
}

func probeVersion(ctx context.Context, javaPath string) (*version.Version, error) {
	cmd := exec.CommandContext(ctx, javaPath, "-version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to run %s -version: %w", javaPath, err)
	}
	return ParseVersionOutput(out.String())
}

// ParseVersionOutput extracts the version from `java -version` output, e.g.
// `openjdk version "17.0.2" 2022-01-18`.
func ParseVersionOutput(out string) (*version.Version, error) {
	m := versionOutputRegex.FindStringSubmatch(out)
	if m == nil {
		return nil, fmt.Errorf("unrecognized java -version output: %q", out)
	}
	return ParseVersion(m[1])
}
