// SPDX-License-Identifier: MPL-2.0

package source

import (
	"github.com/jrunhq/jrun/pkg/dependencies"
	"github.com/jrunhq/jrun/pkg/types"

	"golang.org/x/exp/slices"
)

type (
	// Option configures a Code value at construction. Options that only make sense
	// for a SourceSet (sources, compile options, ...) are ignored by NewJar.
	Option func(*settings)

	// Resource is a non-source file copied into the built archive at Target.
	Resource struct {
		// Target is the slash-separated path inside the archive.
		Target string
		// Ref is the file to copy.
		Ref ResourceRef
	}

	settings struct {
		meta           Metadata
		sources        []ResourceRef
		resources      []Resource
		dependencies   []dependencies.Coordinate
		repositories   []string
		classpaths     []string
		compileOptions []string
		cacheDir       string
		compiler       Compiler
	}
)

func newSettings(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithMainClass sets the entry point.
func WithMainClass(name string) Option {
	return func(s *settings) { s.meta.MainClass = name }
}

// WithRuntimeOptions replaces the java launcher options.
func WithRuntimeOptions(opts ...string) Option {
	return func(s *settings) { s.meta.RuntimeOptions = slices.Clone(opts) }
}

// WithCDS enables or disables the class data sharing archive.
func WithCDS(enabled bool) Option {
	return func(s *settings) { s.meta.CDS = enabled }
}

// WithJavaVersion sets the requested Java version ("17", "21+").
func WithJavaVersion(v string) Option {
	return func(s *settings) { s.meta.JavaVersion = v }
}

// WithDescription sets the human-readable description.
func WithDescription(d types.DescriptionText) Option {
	return func(s *settings) { s.meta.Description = d }
}

// WithGAV sets the coordinate the code is published under.
func WithGAV(c dependencies.Coordinate) Option {
	return func(s *settings) { s.meta.GAV = c }
}

// WithMetadata replaces all launch metadata at once.
func WithMetadata(m Metadata) Option {
	return func(s *settings) {
		s.meta = m
		s.meta.RuntimeOptions = slices.Clone(m.RuntimeOptions)
	}
}

// WithSources adds source files compiled together with the main source.
func WithSources(refs ...ResourceRef) Option {
	return func(s *settings) { s.sources = append(s.sources, refs...) }
}

// WithResources adds files packaged into the archive.
func WithResources(res ...Resource) Option {
	return func(s *settings) { s.resources = append(s.resources, res...) }
}

// WithDependencies adds dependency declarations.
func WithDependencies(cs ...dependencies.Coordinate) Option {
	return func(s *settings) { s.dependencies = append(s.dependencies, cs...) }
}

// WithRepositories adds repositories the dependencies come from.
func WithRepositories(repos ...string) Option {
	return func(s *settings) { s.repositories = append(s.repositories, repos...) }
}

// WithClasspaths adds literal classpath entries.
func WithClasspaths(entries ...string) Option {
	return func(s *settings) { s.classpaths = append(s.classpaths, entries...) }
}

// WithCompileOptions replaces the javac options.
func WithCompileOptions(opts ...string) Option {
	return func(s *settings) { s.compileOptions = slices.Clone(opts) }
}

// WithExtraCompileOptions appends javac options after the ones already set.
func WithExtraCompileOptions(opts ...string) Option {
	return func(s *settings) { s.compileOptions = append(s.compileOptions, opts...) }
}

// WithCacheDir sets the directory built archives are stored under.
func WithCacheDir(dir string) Option {
	return func(s *settings) { s.cacheDir = dir }
}

// WithCompiler replaces the compiler used by the SourceSet builder.
func WithCompiler(c Compiler) Option {
	return func(s *settings) { s.compiler = c }
}
