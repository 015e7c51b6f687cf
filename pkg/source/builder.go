// SPDX-License-Identifier: MPL-2.0

package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jrunhq/jrun/pkg/dependencies"
	"github.com/jrunhq/jrun/pkg/jarfile"

	"github.com/pelletier/go-toml/v2"
)

// StateSuffix is appended to a built archive's path to name its build-state record.
const StateSuffix = ".state.toml"

var packageDeclRegex = regexp.MustCompile(`(?m)^\s*package\s+([\w.]+)\s*;`)

type (
	// Builder produces runnable code. For code that needs no build step it
	// returns the input unchanged.
	Builder interface {
		Build(ctx context.Context) (Code, error)
	}

	jarBuilder struct {
		jar *Jar
	}

	sourceSetBuilder struct {
		set *SourceSet
		ctx *RunContext
	}

	// buildState is the record stored next to a built archive.
	buildState struct {
		Digest      string    `toml:"digest"`
		MainClass   string    `toml:"main_class"`
		JavaVersion string    `toml:"java_version"`
		BuiltAt     time.Time `toml:"built_at"`
	}
)

func (b *jarBuilder) Build(ctx context.Context) (Code, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(b.jar.JarFile())
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrArchiveMissing, b.jar.JarFile())
	}
	return b.jar, nil
}

func (b *sourceSetBuilder) Build(ctx context.Context) (Code, error) {
	set := b.set
	if !NeedsBuild(set, b.ctx) {
		return set, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	javaVersion := b.ctx.JavaVersionFor(set)
	javaHome := b.ctx.orZero().JavaHome
	digest, err := set.digest(javaVersion, javaHome)
	if err != nil {
		return nil, err
	}

	stateFile := set.JarFile() + StateSuffix
	if !b.ctx.orZero().FreshBuild {
		if state, ok := loadBuildState(stateFile, set.JarFile()); ok && state.Digest == digest {
			slog.Debug("reusing cached build", "jar", set.JarFile())
			return set.builtJar(state.MainClass), nil
		}
	}

	localRepo := b.ctx.orZero().LocalRepository
	cp, err := set.ContributeDependencies(dependencies.NewResolver(localRepo)).Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dependencies of %s: %w", set.ResourceRef(), err)
	}

	work, err := os.MkdirTemp("", "jrun-build-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create build directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(work) }()

	sources := make([]string, 0, len(set.sources))
	for _, src := range set.sources {
		if !src.HasFile() {
			return nil, fmt.Errorf("%w: %s", ErrNoBackingFile, src)
		}
		sources = append(sources, src.File())
	}

	req := CompileRequest{
		Sources:     sources,
		ClassPath:   cp.ClassPath(),
		Options:     set.CompileOptions(),
		OutputDir:   work,
		JavaVersion: javaVersion,
		JavaHome:    javaHome,
	}
	if err := set.compiler.Compile(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", set.ResourceRef(), err)
	}

	for _, res := range set.resources {
		if err := copyResource(work, res); err != nil {
			return nil, err
		}
	}

	mainClass := set.MainClass()
	if mainClass == "" {
		if mainClass, err = inferMainClass(sources[0]); err != nil {
			return nil, err
		}
	}

	if err := jarfile.Write(set.JarFile(), work, set.manifest(mainClass, cp)); err != nil {
		return nil, fmt.Errorf("failed to package %s: %w", set.ResourceRef(), err)
	}

	state := buildState{
		Digest:      digest,
		MainClass:   mainClass,
		JavaVersion: set.JavaVersion(),
		BuiltAt:     time.Now().UTC(),
	}
	if err := writeBuildState(stateFile, state); err != nil {
		// the jar is usable; the next run just rebuilds
		slog.Warn("failed to write build state", "file", stateFile, "error", err)
	}

	return set.builtJar(mainClass), nil
}

// builtJar describes the archive produced from s.
func (s *SourceSet) builtJar(mainClass string) *Jar {
	meta := s.Metadata()
	meta.MainClass = mainClass
	return NewJar(NewResourceRef(s.ref.Original(), s.jarFile),
		WithMetadata(meta),
		WithDependencies(s.dependencies...),
		WithClasspaths(s.classpaths...),
	)
}

func (s *SourceSet) manifest(mainClass string, cp *dependencies.ModularClassPath) *jarfile.Manifest {
	m := jarfile.NewManifest()
	m.Set(jarfile.AttrCreatedBy, "jrun")
	m.Set(jarfile.AttrMainClass, mainClass)
	m.Set(jarfile.AttrBuildJdkSpec, s.JavaVersion())
	m.Set(jarfile.AttrImplementationTitle, s.Description().String())
	m.Set(jarfile.AttrJavaOptions, JoinQuoted(s.meta.RuntimeOptions))
	if s.EnableCDS() {
		m.Set(jarfile.AttrCDS, "true")
	}

	deps := make([]string, 0, len(s.dependencies))
	for _, d := range s.dependencies {
		deps = append(deps, d.String())
	}
	m.Set(jarfile.AttrDependencies, strings.Join(deps, " "))

	dir := filepath.Dir(s.jarFile)
	entries := make([]string, 0, len(cp.Entries()))
	for _, e := range cp.Entries() {
		// entries are relative to the working directory; the manifest's are
		// relative to the jar
		if abs, err := filepath.Abs(e); err == nil {
			e = abs
			if rel, err := filepath.Rel(dir, abs); err == nil {
				e = rel
			}
		}
		entries = append(entries, filepath.ToSlash(e))
	}
	m.Set(jarfile.AttrClassPath, strings.Join(entries, " "))
	return m
}

// digest hashes every input that affects the build output, including the
// Java requirement and installation the build runs with.
func (s *SourceSet) digest(javaVersion, javaHome string) (string, error) {
	h := sha256.New()
	write := func(parts ...string) {
		for _, p := range parts {
			_, _ = io.WriteString(h, strconv.Itoa(len(p)))
			_, _ = io.WriteString(h, ":")
			_, _ = io.WriteString(h, p)
		}
	}

	hashFile := func(label string, ref ResourceRef) error {
		if !ref.HasFile() {
			return fmt.Errorf("%w: %s", ErrNoBackingFile, ref)
		}
		data, err := os.ReadFile(ref.File())
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", ref.File(), err)
		}
		write(label, ref.File(), string(data))
		return nil
	}

	for _, src := range s.sources {
		if err := hashFile("source", src); err != nil {
			return "", err
		}
	}
	for _, res := range s.resources {
		if err := hashFile("resource:"+res.Target, res.Ref); err != nil {
			return "", err
		}
	}
	for _, d := range s.dependencies {
		write("dep", d.String())
	}
	write("classpath")
	write(s.classpaths...)
	write("javac")
	write(s.compileOptions...)
	write("java")
	write(s.meta.RuntimeOptions...)
	write("meta", s.meta.MainClass, s.meta.JavaVersion, strconv.FormatBool(s.meta.CDS), s.meta.Description.String())
	write("jdk", javaVersion, javaHome)

	return hex.EncodeToString(h.Sum(nil)), nil
}

func loadBuildState(stateFile, jarFile string) (buildState, bool) {
	var state buildState
	if _, err := os.Stat(jarFile); err != nil {
		return state, false
	}
	data, err := os.ReadFile(stateFile)
	if err != nil {
		return state, false
	}
	if err := toml.Unmarshal(data, &state); err != nil {
		slog.Warn("ignoring unreadable build state", "file", stateFile, "error", err)
		return state, false
	}
	return state, true
}

func writeBuildState(stateFile string, state buildState) error {
	data, err := toml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode build state: %w", err)
	}
	return os.WriteFile(stateFile, data, 0o644)
}

func copyResource(root string, res Resource) error {
	target := filepath.FromSlash(strings.TrimPrefix(res.Target, "/"))
	if target == "" || !filepath.IsLocal(target) {
		return fmt.Errorf("invalid resource target %q", res.Target)
	}
	if !res.Ref.HasFile() {
		return fmt.Errorf("%w: %s", ErrNoBackingFile, res.Ref)
	}

	dst := filepath.Join(root, target)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create resource directory: %w", err)
	}
	data, err := os.ReadFile(res.Ref.File())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrResourceNotFound, res.Ref)
		}
		return fmt.Errorf("failed to read resource %s: %w", res.Ref, err)
	}
	return os.WriteFile(dst, data, 0o644)
}

// inferMainClass derives the entry point from the main source: its package
// declaration followed by the file's base name.
func inferMainClass(mainSource string) (string, error) {
	data, err := os.ReadFile(mainSource)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", mainSource, err)
	}
	name := strings.TrimSuffix(filepath.Base(mainSource), filepath.Ext(mainSource))
	if m := packageDeclRegex.FindSubmatch(data); m != nil {
		return string(m[1]) + "." + name, nil
	}
	return name, nil
}
