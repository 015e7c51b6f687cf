// SPDX-License-Identifier: MPL-2.0

package dependencies

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// DefaultArtifactType is used when a coordinate does not name a packaging type.
const DefaultArtifactType = "jar"

// ErrInvalidCoordinate is the sentinel error wrapped by InvalidCoordinateError.
var ErrInvalidCoordinate = errors.New("invalid dependency coordinate")

type (
	// Coordinate identifies a published artifact, written as
	// group:artifact:version[:classifier][@type].
	// The zero value means "no coordinate".
	Coordinate struct {
		GroupID    string
		ArtifactID string
		Version    string
		Classifier string
		Type       string
	}

	// InvalidCoordinateError is returned when a string cannot be parsed as a Coordinate.
	InvalidCoordinateError struct {
		Value  string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid dependency coordinate %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidCoordinate for errors.Is() compatibility.
func (e *InvalidCoordinateError) Unwrap() error { return ErrInvalidCoordinate }

// ParseCoordinate parses group:artifact:version[:classifier][@type].
func ParseCoordinate(s string) (Coordinate, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Coordinate{}, &InvalidCoordinateError{Value: s, Reason: "empty"}
	}

	var c Coordinate
	if at := strings.LastIndexByte(raw, '@'); at >= 0 {
		c.Type = raw[at+1:]
		raw = raw[:at]
		if c.Type == "" {
			return Coordinate{}, &InvalidCoordinateError{Value: s, Reason: "empty type after '@'"}
		}
	}

	parts := strings.Split(raw, ":")
	switch len(parts) {
	case 3:
		c.GroupID, c.ArtifactID, c.Version = parts[0], parts[1], parts[2]
	case 4:
		c.GroupID, c.ArtifactID, c.Version, c.Classifier = parts[0], parts[1], parts[2], parts[3]
	default:
		return Coordinate{}, &InvalidCoordinateError{Value: s, Reason: "expected group:artifact:version[:classifier][@type]"}
	}

	for _, part := range parts {
		if part == "" || strings.ContainsAny(part, " \t/\\") {
			return Coordinate{}, &InvalidCoordinateError{Value: s, Reason: "empty or malformed segment"}
		}
	}

	return c, nil
}

// MustParseCoordinate is like ParseCoordinate but panics on error. Intended for
// constants and tests.
func MustParseCoordinate(s string) Coordinate {
	c, err := ParseCoordinate(s)
	if err != nil {
		panic(err)
	}
	return c
}

// LooksLikeCoordinate reports whether s has the shape of a coordinate rather than
// a file path or URL. It does not validate the segments.
func LooksLikeCoordinate(s string) bool {
	if strings.Contains(s, "://") || strings.ContainsAny(s, `/\`) {
		return false
	}
	n := strings.Count(s, ":")
	return n == 2 || n == 3
}

// IsZero reports whether the coordinate is unset.
func (c Coordinate) IsZero() bool { return c == Coordinate{} }

// ArtifactType returns the packaging type, defaulting to "jar".
func (c Coordinate) ArtifactType() string {
	if c.Type == "" {
		return DefaultArtifactType
	}
	return c.Type
}

// String formats the coordinate in the same notation ParseCoordinate accepts.
func (c Coordinate) String() string {
	if c.IsZero() {
		return ""
	}
	s := c.GroupID + ":" + c.ArtifactID + ":" + c.Version
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	if c.Type != "" {
		s += "@" + c.Type
	}
	return s
}

// RepositoryPath returns the slash-separated path of the artifact inside a
// Maven-layout repository.
func (c Coordinate) RepositoryPath() string {
	name := c.ArtifactID + "-" + c.Version
	if c.Classifier != "" {
		name += "-" + c.Classifier
	}
	name += "." + c.ArtifactType()
	return path.Join(strings.ReplaceAll(c.GroupID, ".", "/"), c.ArtifactID, c.Version, name)
}
