// SPDX-License-Identifier: MPL-2.0

package source

import (
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// RunContext carries the caller's intent for one invocation. It is created once
// per invocation and treated as read-only afterwards. A nil *RunContext behaves
// like the zero value.
type RunContext struct {
	// ForceJsh runs the code as a JShell fragment whatever its file suffix.
	ForceJsh bool
	// Interactive starts an interactive JShell session instead of a batch run.
	Interactive bool

	// JavaVersion overrides the Java version requested by the code.
	JavaVersion string
	// JavaHome selects a Java installation explicitly, skipping discovery.
	JavaHome string
	// MainClass overrides the entry point.
	MainClass string
	// DefaultRuntimeOptions come before the code's own runtime options, so the
	// code can override them.
	DefaultRuntimeOptions []string
	// RuntimeOptions are appended to the code's own runtime options.
	RuntimeOptions []string
	// Arguments are passed to the program.
	Arguments []string
	// CDS overrides the code's class data sharing setting when non-nil.
	CDS *bool
	// FreshBuild ignores a cached build.
	FreshBuild bool
	// LocalRepository is the repository dependencies are resolved against.
	LocalRepository string

	// ExecutionID identifies this invocation in logs.
	ExecutionID string
}

// NewRunContext returns a RunContext with a fresh ExecutionID.
func NewRunContext() *RunContext {
	return &RunContext{ExecutionID: uuid.NewString()}
}

func (c *RunContext) orZero() *RunContext {
	if c == nil {
		return &RunContext{}
	}
	return c
}

// MainClassFor returns the entry point to launch code with.
func (c *RunContext) MainClassFor(code Code) string {
	if c != nil && c.MainClass != "" {
		return c.MainClass
	}
	return code.MainClass()
}

// JavaVersionFor returns the Java version requirement to launch code with.
func (c *RunContext) JavaVersionFor(code Code) string {
	if c != nil && c.JavaVersion != "" {
		return c.JavaVersion
	}
	return code.JavaVersion()
}

// CDSFor reports whether class data sharing is used for code.
func (c *RunContext) CDSFor(code Code) bool {
	if c != nil && c.CDS != nil {
		return *c.CDS
	}
	return code.EnableCDS()
}

// RuntimeOptionsFor returns the context's defaults, the code's runtime options
// and the context's additional ones, in that order. The launcher keeps the
// last occurrence of a repeated option.
func (c *RunContext) RuntimeOptionsFor(code Code) []string {
	if c == nil {
		return code.RuntimeOptions()
	}
	opts := slices.Clone(c.DefaultRuntimeOptions)
	opts = append(opts, code.RuntimeOptions()...)
	return append(opts, c.RuntimeOptions...)
}

// Args returns a copy of the program arguments.
func (c *RunContext) Args() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.Arguments)
}
