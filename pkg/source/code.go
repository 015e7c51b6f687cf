// SPDX-License-Identifier: MPL-2.0

package source

import (
	"github.com/jrunhq/jrun/pkg/dependencies"
	"github.com/jrunhq/jrun/pkg/types"

	"golang.org/x/exp/slices"
)

type (
	// Code is runnable code: either a packaged Jar or a SourceSet that may need
	// building first. The set of implementations is closed to this package.
	//
	// Every query answers from data captured at construction; none performs I/O.
	// Optional values are reported as their zero value when unavailable.
	Code interface {
		// ResourceRef returns the reference the code was created from.
		ResourceRef() ResourceRef
		// JarFile returns the archive that is, or will be after building, the
		// run target. The path is stable for the lifetime of the value.
		JarFile() string
		// MainClass returns the entry point, or "" when it cannot be determined and
		// must be discovered from the archive manifest at launch.
		MainClass() string
		// RuntimeOptions returns the options passed to the java launcher. The
		// result is a fresh, non-nil slice.
		RuntimeOptions() []string
		// EnableCDS reports whether a class data sharing archive should be used.
		EnableCDS() bool
		// JavaVersion returns the requested Java version ("17", "21+"), or "" for
		// no constraint.
		JavaVersion() string
		// Description returns the human-readable description, if any.
		Description() types.DescriptionText
		// GAV returns the coordinate the code is published under, if any.
		GAV() dependencies.Coordinate
		// ContributeDependencies adds the code's dependency declarations to r and
		// returns r for chaining.
		ContributeDependencies(r *dependencies.Resolver) *dependencies.Resolver
		// IsJar reports whether the backing file is an archive.
		IsJar() bool
		// IsJShell reports whether the backing file is a JShell script fragment.
		IsJShell() bool
		// AsJar returns the code as a *Jar when it is one.
		AsJar() (*Jar, bool)
		// AsSourceSet returns the code as a *SourceSet when it is one.
		AsSourceSet() (*SourceSet, bool)
		// Builder returns the builder for this code under ctx.
		Builder(ctx *RunContext) Builder
		// CmdGenerator returns the launch command generator for this code under ctx.
		CmdGenerator(ctx *RunContext) CmdGenerator

		sealed()
	}

	// Metadata holds the launch metadata shared by all Code variants. Unset fields
	// keep their zero value, which is also the documented default.
	Metadata struct {
		MainClass      string
		RuntimeOptions []string
		CDS            bool
		JavaVersion    string
		Description    types.DescriptionText
		GAV            dependencies.Coordinate
	}

	// base implements the Metadata half of Code for the concrete variants.
	base struct {
		ref  ResourceRef
		meta Metadata
	}
)

func newBase(ref ResourceRef, meta Metadata) base {
	meta.RuntimeOptions = slices.Clone(meta.RuntimeOptions)
	return base{ref: ref, meta: meta}
}

func (b *base) ResourceRef() ResourceRef { return b.ref }

func (b *base) MainClass() string { return b.meta.MainClass }

func (b *base) RuntimeOptions() []string {
	opts := make([]string, len(b.meta.RuntimeOptions))
	copy(opts, b.meta.RuntimeOptions)
	return opts
}

func (b *base) EnableCDS() bool { return b.meta.CDS }

func (b *base) JavaVersion() string { return b.meta.JavaVersion }

func (b *base) Description() types.DescriptionText {
	if b.meta.Description.IsEmpty() {
		return ""
	}
	return b.meta.Description
}

func (b *base) GAV() dependencies.Coordinate { return b.meta.GAV }

func (b *base) IsJar() bool { return b.ref.IsJar() }

func (b *base) IsJShell() bool { return b.ref.IsJShell() }

// Metadata returns a copy of the code's launch metadata.
func (b *base) Metadata() Metadata {
	m := b.meta
	m.RuntimeOptions = b.RuntimeOptions()
	return m
}
