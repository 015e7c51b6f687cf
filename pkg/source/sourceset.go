// SPDX-License-Identifier: MPL-2.0

package source

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/jrunhq/jrun/pkg/dependencies"

	"golang.org/x/exp/slices"
)

// hashLength is the number of hex digits of the reference hash used in cache paths.
const hashLength = 12

// SourceSet is one or more source files compiled together into a single archive.
// The first source is the main source, the one the ResourceRef points at.
type SourceSet struct {
	base
	sources        []ResourceRef
	resources      []Resource
	dependencies   []dependencies.Coordinate
	repositories   []string
	classpaths     []string
	compileOptions []string
	cacheDir       string
	jarFile        string
	compiler       Compiler
}

// NewSourceSet creates a SourceSet rooted at ref.
func NewSourceSet(ref ResourceRef, opts ...Option) *SourceSet {
	s := newSettings(opts)

	sources := []ResourceRef{ref}
	for _, src := range s.sources {
		if src.File() == "" || src.File() != ref.File() {
			sources = append(sources, src)
		}
	}

	cacheDir := s.cacheDir
	if cacheDir == "" {
		cacheDir = DefaultCacheDir()
	}

	compiler := s.compiler
	if compiler == nil {
		compiler = &JavacCompiler{}
	}

	return &SourceSet{
		base:           newBase(ref, s.meta),
		sources:        sources,
		resources:      slices.Clone(s.resources),
		dependencies:   slices.Clone(s.dependencies),
		repositories:   slices.Clone(s.repositories),
		classpaths:     slices.Clone(s.classpaths),
		compileOptions: slices.Clone(s.compileOptions),
		cacheDir:       cacheDir,
		jarFile:        jarPathFor(cacheDir, ref),
		compiler:       compiler,
	}
}

// DefaultCacheDir returns the directory built archives are stored under by default.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "jrun", "jars")
}

// jarPathFor derives a stable archive path from the reference, so that the
// same source always maps to the same cached archive.
func jarPathFor(cacheDir string, ref ResourceRef) string {
	key := ref.File()
	if key == "" {
		key = ref.Original()
	}
	sum := sha256.Sum256([]byte(key))

	name := filepath.Base(filepath.FromSlash(key))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "main"
	}
	return filepath.Join(cacheDir, name+"."+hex.EncodeToString(sum[:])[:hashLength], name+JarSuffix)
}

// JarFile returns the archive path the build produces.
func (s *SourceSet) JarFile() string { return s.jarFile }

// Sources returns the source files, main source first.
func (s *SourceSet) Sources() []ResourceRef { return slices.Clone(s.sources) }

// Resources returns the files packaged alongside the classes.
func (s *SourceSet) Resources() []Resource { return slices.Clone(s.resources) }

// Dependencies returns the declared dependencies.
func (s *SourceSet) Dependencies() []dependencies.Coordinate { return slices.Clone(s.dependencies) }

// Repositories returns the declared repositories.
func (s *SourceSet) Repositories() []string { return slices.Clone(s.repositories) }

// Classpaths returns the literal classpath entries.
func (s *SourceSet) Classpaths() []string { return slices.Clone(s.classpaths) }

// CompileOptions returns the javac options.
func (s *SourceSet) CompileOptions() []string { return slices.Clone(s.compileOptions) }

// CacheDir returns the build cache root.
func (s *SourceSet) CacheDir() string { return s.cacheDir }

// ContributeDependencies adds the declared dependencies, repositories and
// classpath entries to r.
func (s *SourceSet) ContributeDependencies(r *dependencies.Resolver) *dependencies.Resolver {
	return r.AddDependencies(s.dependencies...).
		AddRepositories(s.repositories...).
		AddClasspaths(s.classpaths...)
}

// AsJar returns false: a SourceSet is not a Jar.
func (s *SourceSet) AsJar() (*Jar, bool) { return nil, false }

// AsSourceSet returns s.
func (s *SourceSet) AsSourceSet() (*SourceSet, bool) { return s, true }

// Builder returns the compile-and-package builder.
func (s *SourceSet) Builder(ctx *RunContext) Builder {
	return &sourceSetBuilder{set: s, ctx: ctx}
}

// CmdGenerator returns the java, or for .jsh sources and jsh/interactive modes
// the jshell, command generator.
func (s *SourceSet) CmdGenerator(ctx *RunContext) CmdGenerator { return newCmdGenerator(s, ctx) }

func (s *SourceSet) sealed() {}
