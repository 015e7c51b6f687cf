// SPDX-License-Identifier: MPL-2.0

// Package jdk locates a Java installation and matches it against the Java
// version a piece of code asks for (//JAVA 17, //JAVA 21+, Build-Jdk-Spec).
package jdk

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-version"
)

// ErrInvalidRequirement is the sentinel error wrapped by InvalidRequirementError.
var ErrInvalidRequirement = errors.New("invalid java version requirement")

type (
	// Requirement is a Java feature-release constraint: "17" means exactly 17,
	// "17+" means 17 or newer. The zero value accepts any version.
	Requirement struct {
		raw         string
		major       int
		orNewer     bool
		constraints version.Constraints
	}

	// InvalidRequirementError is returned when a requirement string cannot be parsed.
	InvalidRequirementError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidRequirementError) Error() string {
	return fmt.Sprintf("invalid java version requirement %q (expected e.g. \"17\" or \"17+\")", e.Value)
}

// Unwrap returns ErrInvalidRequirement for errors.Is() compatibility.
func (e *InvalidRequirementError) Unwrap() error { return ErrInvalidRequirement }

// ParseRequirement parses "N", "N+", and the legacy "1.N" spelling.
// An empty string yields the zero Requirement.
func ParseRequirement(s string) (Requirement, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Requirement{}, nil
	}

	majorStr, orNewer := strings.CutSuffix(raw, "+")
	majorStr = strings.TrimPrefix(majorStr, "1.")
	if i := strings.IndexByte(majorStr, '.'); i >= 0 {
		majorStr = majorStr[:i]
	}
	major, err := strconv.Atoi(majorStr)
	if err != nil || major <= 0 {
		return Requirement{}, &InvalidRequirementError{Value: s}
	}

	expr := fmt.Sprintf(">= %d, < %d", major, major+1)
	if orNewer {
		expr = fmt.Sprintf(">= %d", major)
	}
	constraints, err := version.NewConstraint(expr)
	if err != nil {
		return Requirement{}, &InvalidRequirementError{Value: s}
	}

	return Requirement{raw: raw, major: major, orNewer: orNewer, constraints: constraints}, nil
}

// IsZero reports whether the requirement accepts any version.
func (r Requirement) IsZero() bool { return r.major == 0 }

// Major returns the requested feature release, 0 when unconstrained.
func (r Requirement) Major() int { return r.major }

// OrNewer reports whether newer feature releases are accepted.
func (r Requirement) OrNewer() bool { return r.orNewer }

// String returns the requirement as written.
func (r Requirement) String() string { return r.raw }

// SatisfiedBy reports whether v (already normalized, see ParseVersion) meets
// the requirement. Early-access builds ("21-ea") count as their release.
func (r Requirement) SatisfiedBy(v *version.Version) bool {
	if r.IsZero() {
		return true
	}
	if v == nil {
		return false
	}
	return r.constraints.Check(v.Core())
}

// ParseVersion parses a Java version string into a version whose first segment
// is the feature release: "1.8.0_292" becomes 8.0.292, "17.0.2" stays 17.0.2.
func ParseVersion(s string) (*version.Version, error) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "_", ".")
	raw = strings.TrimPrefix(raw, "1.")
	v, err := version.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse java version %q: %w", s, err)
	}
	return v, nil
}
