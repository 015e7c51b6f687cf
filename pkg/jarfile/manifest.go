// SPDX-License-Identifier: MPL-2.0

// Package jarfile reads and writes the archives jrun launches: the main
// section of META-INF/MANIFEST.MF and the jar layout produced by a build.
package jarfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ManifestPath is the location of the manifest inside a jar.
const ManifestPath = "META-INF/MANIFEST.MF"

// Manifest attribute names read or written by jrun.
const (
	AttrManifestVersion      = "Manifest-Version"
	AttrCreatedBy            = "Created-By"
	AttrMainClass            = "Main-Class"
	AttrClassPath            = "Class-Path"
	AttrBuildJdkSpec         = "Build-Jdk-Spec"
	AttrImplementationTitle  = "Implementation-Title"
	AttrJavaOptions          = "Jrun-Java-Options"
	AttrCDS                  = "Jrun-Cds"
	AttrDependencies         = "Jrun-Dependencies"
	AttrImplementationVendor = "Implementation-Vendor"
)

// maxLineLength is the manifest line limit in bytes, excluding the line break.
const maxLineLength = 72

type (
	// Manifest holds the main section of a jar manifest in insertion order.
	Manifest struct {
		attrs []attribute
	}

	attribute struct {
		name  string
		value string
	}
)

// NewManifest returns a manifest holding only Manifest-Version: 1.0.
func NewManifest() *Manifest {
	m := &Manifest{}
	m.Set(AttrManifestVersion, "1.0")
	return m
}

// Get returns the value of the named attribute. Names compare case-insensitively.
func (m *Manifest) Get(name string) string {
	if m == nil {
		return ""
	}
	for _, a := range m.attrs {
		if strings.EqualFold(a.name, name) {
			return a.value
		}
	}
	return ""
}

// Has reports whether the attribute is present.
func (m *Manifest) Has(name string) bool {
	if m == nil {
		return false
	}
	for _, a := range m.attrs {
		if strings.EqualFold(a.name, name) {
			return true
		}
	}
	return false
}

// Set adds or replaces an attribute. An empty value removes it.
func (m *Manifest) Set(name, value string) {
	for i, a := range m.attrs {
		if strings.EqualFold(a.name, name) {
			if value == "" {
				m.attrs = append(m.attrs[:i], m.attrs[i+1:]...)
			} else {
				m.attrs[i].value = value
			}
			return
		}
	}
	if value != "" {
		m.attrs = append(m.attrs, attribute{name: name, value: value})
	}
}

// Names returns the attribute names in order.
func (m *Manifest) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.attrs))
	for _, a := range m.attrs {
		names = append(names, a.name)
	}
	return names
}

// ParseManifest reads the main section of a manifest. Continuation lines (starting
// with a single space) are joined to the previous value; parsing stops at the
// first blank line.
func ParseManifest(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			break
		}
		if strings.HasPrefix(line, " ") {
			if len(m.attrs) == 0 {
				return nil, fmt.Errorf("manifest continuation line without attribute: %q", line)
			}
			m.attrs[len(m.attrs)-1].value += line[1:]
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed manifest line: %q", line)
		}
		m.attrs = append(m.attrs, attribute{name: name, value: strings.TrimPrefix(value, " ")})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return m, nil
}

// WriteTo writes the manifest with CRLF line breaks, wrapping lines at 72 bytes.
func (m *Manifest) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	for _, a := range m.attrs {
		writeWrapped(&sb, a.name+": "+a.value)
	}
	sb.WriteString("\r\n")
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

func writeWrapped(sb *strings.Builder, line string) {
	limit := maxLineLength
	for len(line) > limit {
		sb.WriteString(line[:limit])
		sb.WriteString("\r\n ")
		line = line[limit:]
		limit = maxLineLength - 1
	}
	sb.WriteString(line)
	sb.WriteString("\r\n")
}
