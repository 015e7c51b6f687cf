// SPDX-License-Identifier: MPL-2.0

package source

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jrunhq/jrun/pkg/dependencies"
	"github.com/jrunhq/jrun/pkg/jarfile"
	"github.com/jrunhq/jrun/pkg/types"

	"golang.org/x/exp/slices"
)

// Jar is an already packaged archive. It never needs building.
type Jar struct {
	base
	classPath    []string
	dependencies []dependencies.Coordinate
}

// NewJar creates a Jar from explicit metadata, without reading the archive.
func NewJar(ref ResourceRef, opts ...Option) *Jar {
	s := newSettings(opts)
	return &Jar{
		base:         newBase(ref, s.meta),
		classPath:    slices.Clone(s.classpaths),
		dependencies: slices.Clone(s.dependencies),
	}
}

// OpenJar creates a Jar whose metadata comes from the archive manifest. Options
// are applied after the manifest and therefore override it.
func OpenJar(ref ResourceRef, opts ...Option) (*Jar, error) {
	if !ref.HasFile() {
		return nil, fmt.Errorf("%w: %s", ErrNoBackingFile, ref)
	}
	m, err := jarfile.ReadManifest(ref.File())
	if err != nil {
		return nil, err
	}
	return NewJar(ref, append(manifestOptions(ref.File(), m), opts...)...), nil
}

func manifestOptions(jarPath string, m *jarfile.Manifest) []Option {
	opts := []Option{
		WithMainClass(m.Get(jarfile.AttrMainClass)),
		WithJavaVersion(m.Get(jarfile.AttrBuildJdkSpec)),
		WithDescription(types.DescriptionText(m.Get(jarfile.AttrImplementationTitle))),
		WithCDS(strings.EqualFold(m.Get(jarfile.AttrCDS), "true")),
	}
	if javaOpts := m.Get(jarfile.AttrJavaOptions); javaOpts != "" {
		opts = append(opts, WithRuntimeOptions(SplitQuoted(javaOpts)...))
	}

	dir := filepath.Dir(jarPath)
	for _, entry := range strings.Fields(m.Get(jarfile.AttrClassPath)) {
		p := filepath.FromSlash(entry)
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		opts = append(opts, WithClasspaths(p))
	}

	for _, dep := range strings.Fields(m.Get(jarfile.AttrDependencies)) {
		c, err := dependencies.ParseCoordinate(dep)
		if err != nil {
			slog.Warn("ignoring malformed dependency in jar manifest", "jar", jarPath, "error", err)
			continue
		}
		opts = append(opts, WithDependencies(c))
	}
	return opts
}

// JarFile returns the backing archive.
func (j *Jar) JarFile() string { return j.ref.File() }

// ContributeDependencies adds the manifest dependencies and classpath entries.
func (j *Jar) ContributeDependencies(r *dependencies.Resolver) *dependencies.Resolver {
	return r.AddDependencies(j.dependencies...).AddClasspaths(j.classPath...)
}

// AsJar returns j.
func (j *Jar) AsJar() (*Jar, bool) { return j, true }

// AsSourceSet returns false: a Jar is not a SourceSet.
func (j *Jar) AsSourceSet() (*SourceSet, bool) { return nil, false }

// Builder returns a builder that only checks the archive is present.
func (j *Jar) Builder(ctx *RunContext) Builder { return &jarBuilder{jar: j} }

// CmdGenerator returns the java, or under jsh/interactive modes the jshell,
// command generator.
func (j *Jar) CmdGenerator(ctx *RunContext) CmdGenerator { return newCmdGenerator(j, ctx) }

func (j *Jar) sealed() {}
