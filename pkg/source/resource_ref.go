// SPDX-License-Identifier: MPL-2.0

package source

import "strings"

const (
	// JarSuffix marks an already packaged archive.
	JarSuffix = ".jar"
	// JShellSuffix marks a JShell script fragment, interpreted without a build step.
	JShellSuffix = ".jsh"
	// JavaSuffix marks a Java source file.
	JavaSuffix = ".java"
)

// ResourceRef identifies where a piece of code came from and which local file
// currently backs it. The backing file may be a temporary or cached copy of a
// remote resource, or absent altogether.
type ResourceRef struct {
	original string
	file     string
}

// NewResourceRef creates a reference. An empty file means no local file backs it.
func NewResourceRef(original, file string) ResourceRef {
	return ResourceRef{original: original, file: file}
}

// Original returns the reference as given by the user: a URL, a dependency
// coordinate or a path.
func (r ResourceRef) Original() string { return r.original }

// File returns the path of the local backing file, or "" when there is none.
func (r ResourceRef) File() string { return r.file }

// HasFile reports whether a local file backs the reference.
func (r ResourceRef) HasFile() bool { return r.file != "" }

// IsJar reports whether the backing file is an archive.
func (r ResourceRef) IsJar() bool { return IsJarFile(r.file) }

// IsJShell reports whether the backing file is a JShell script fragment.
func (r ResourceRef) IsJShell() bool { return IsJShellFile(r.file) }

// String returns the original reference, falling back to the backing file.
func (r ResourceRef) String() string {
	if r.original != "" {
		return r.original
	}
	return r.file
}

// IsJarFile reports whether path names an archive. Classification looks at the
// name suffix only; the content is never inspected.
func IsJarFile(path string) bool {
	return path != "" && strings.HasSuffix(path, JarSuffix)
}

// IsJShellFile reports whether path names a JShell script fragment, by suffix only.
func IsJShellFile(path string) bool {
	return path != "" && strings.HasSuffix(path, JShellSuffix)
}
