// SPDX-License-Identifier: MPL-2.0

package source

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jrunhq/jrun/pkg/dependencies"
	"github.com/jrunhq/jrun/pkg/types"
)

// Directive names recognized in source comments.
const (
	DirectiveDeps           = "DEPS"
	DirectiveRepos          = "REPOS"
	DirectiveJava           = "JAVA"
	DirectiveJavaOptions    = "JAVA_OPTIONS"
	DirectiveRuntimeOptions = "RUNTIME_OPTIONS"
	DirectiveCompileOptions = "COMPILE_OPTIONS"
	DirectiveSources        = "SOURCES"
	DirectiveFiles          = "FILES"
	DirectiveMain           = "MAIN"
	DirectiveCDS            = "CDS"
	DirectiveDescription    = "DESCRIPTION"
	DirectiveGAV            = "GAV"
)

// Directives is what a source file declares about itself in //NAME lines.
// Paths in Sources and Files are as written, relative to the declaring file.
type Directives struct {
	Dependencies   []dependencies.Coordinate
	Repositories   []string
	JavaVersion    string
	RuntimeOptions []string
	CompileOptions []string
	Sources        []string
	Files          []FileDirective
	MainClass      string
	CDS            bool
	Description    types.DescriptionText
	GAV            dependencies.Coordinate
}

// FileDirective is one //FILES entry: a file packaged at Target.
type FileDirective struct {
	Target string
	Source string
}

// ParseDirectives scans content for directive lines. A directive line starts
// with "//" immediately followed by an upper-case name, then whitespace or the
// end of the line. Unknown names are left alone; later //JAVA, //MAIN and
// //GAV lines win, repeated list directives accumulate.
func ParseDirectives(name string, content []byte) (*Directives, error) {
	d := &Directives{}
	var descriptions []string

	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		directive, value, ok := splitDirective(sc.Text())
		if !ok {
			continue
		}

		invalid := func(err error) error {
			return &InvalidDirectiveError{File: name, Line: lineNo, Text: sc.Text(), Err: err}
		}

		switch directive {
		case DirectiveDeps:
			for _, tok := range SplitQuoted(value) {
				c, err := dependencies.ParseCoordinate(tok)
				if err != nil {
					return nil, invalid(err)
				}
				d.Dependencies = append(d.Dependencies, c)
			}
		case DirectiveRepos:
			d.Repositories = append(d.Repositories, SplitQuoted(value)...)
		case DirectiveJava:
			if value == "" {
				return nil, invalid(nil)
			}
			d.JavaVersion = value
		case DirectiveJavaOptions, DirectiveRuntimeOptions:
			d.RuntimeOptions = append(d.RuntimeOptions, SplitQuoted(value)...)
		case DirectiveCompileOptions:
			d.CompileOptions = append(d.CompileOptions, SplitQuoted(value)...)
		case DirectiveSources:
			d.Sources = append(d.Sources, SplitQuoted(value)...)
		case DirectiveFiles:
			for _, tok := range SplitQuoted(value) {
				target, src, found := strings.Cut(tok, "=")
				if !found {
					src = tok
					target = filepath.ToSlash(filepath.Base(tok))
				}
				if target == "" || src == "" {
					return nil, invalid(nil)
				}
				d.Files = append(d.Files, FileDirective{Target: target, Source: src})
			}
		case DirectiveMain:
			if value == "" {
				return nil, invalid(nil)
			}
			d.MainClass = value
		case DirectiveCDS:
			d.CDS = true
		case DirectiveDescription:
			descriptions = append(descriptions, value)
		case DirectiveGAV:
			c, err := dependencies.ParseCoordinate(value)
			if err != nil {
				return nil, invalid(err)
			}
			d.GAV = c
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", name, err)
	}

	d.Description = types.DescriptionText(strings.Join(descriptions, "\n"))
	return d, nil
}

// splitDirective returns the directive name and its trimmed value.
func splitDirective(line string) (name, value string, ok bool) {
	rest, found := strings.CutPrefix(line, "//")
	if !found || rest == "" {
		return "", "", false
	}

	end := 0
	for end < len(rest) && (rest[end] >= 'A' && rest[end] <= 'Z' || rest[end] == '_') {
		end++
	}
	if end == 0 || (end < len(rest) && !isOptionSpace(rest[end])) {
		return "", "", false
	}
	return rest[:end], strings.TrimSpace(rest[end:]), true
}

// Options converts the directives into SourceSet options. Relative paths are
// resolved against dir.
func (d *Directives) Options(dir string) []Option {
	opts := []Option{
		WithMainClass(d.MainClass),
		WithRuntimeOptions(d.RuntimeOptions...),
		WithCDS(d.CDS),
		WithJavaVersion(d.JavaVersion),
		WithDescription(d.Description),
		WithGAV(d.GAV),
		WithDependencies(d.Dependencies...),
		WithRepositories(d.Repositories...),
		WithCompileOptions(d.CompileOptions...),
	}
	for _, src := range d.Sources {
		p := resolveAgainst(dir, src)
		opts = append(opts, WithSources(NewResourceRef(src, p)))
	}
	for _, f := range d.Files {
		p := resolveAgainst(dir, f.Source)
		opts = append(opts, WithResources(Resource{Target: f.Target, Ref: NewResourceRef(f.Source, p)}))
	}
	return opts
}

func resolveAgainst(dir, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// NewSourceSetFromFile reads the directives of the file behind ref and creates
// the SourceSet they describe. Extra options are applied last.
func NewSourceSetFromFile(ref ResourceRef, cacheDir string, opts ...Option) (*SourceSet, error) {
	if !ref.HasFile() {
		return nil, fmt.Errorf("%w: %s", ErrNoBackingFile, ref)
	}
	content, err := os.ReadFile(ref.File())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, ref)
		}
		return nil, fmt.Errorf("failed to read %s: %w", ref.File(), err)
	}
	d, err := ParseDirectives(ref.File(), content)
	if err != nil {
		return nil, err
	}

	all := d.Options(filepath.Dir(ref.File()))
	if cacheDir != "" {
		all = append(all, WithCacheDir(cacheDir))
	}
	return NewSourceSet(ref, append(all, opts...)...), nil
}
