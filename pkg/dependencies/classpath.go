// SPDX-License-Identifier: MPL-2.0

package dependencies

import (
	"os"
	"strings"

	"golang.org/x/exp/slices"
)

// ModularClassPath is the ordered, de-duplicated list of classpath entries
// produced by a resolution.
type ModularClassPath struct {
	entries []string
}

// NewModularClassPath creates a classpath, dropping empty and repeated entries
// while keeping first-seen order.
func NewModularClassPath(entries ...string) *ModularClassPath {
	seen := make(map[string]struct{}, len(entries))
	cp := &ModularClassPath{}
	for _, e := range entries {
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		cp.entries = append(cp.entries, e)
	}
	return cp
}

// Entries returns a copy of the classpath entries.
func (cp *ModularClassPath) Entries() []string {
	if cp == nil {
		return nil
	}
	return slices.Clone(cp.entries)
}

// IsEmpty reports whether the classpath has no entries.
func (cp *ModularClassPath) IsEmpty() bool { return cp == nil || len(cp.entries) == 0 }

// ClassPath joins the entries with the platform list separator.
func (cp *ModularClassPath) ClassPath() string {
	if cp == nil {
		return ""
	}
	return strings.Join(cp.entries, string(os.PathListSeparator))
}

// Prepend returns a new classpath with the given entries placed first.
func (cp *ModularClassPath) Prepend(entries ...string) *ModularClassPath {
	return NewModularClassPath(append(slices.Clone(entries), cp.Entries()...)...)
}
