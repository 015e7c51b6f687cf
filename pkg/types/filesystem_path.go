// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

type (
	// FilesystemPath is an optional path setting such as a cache directory or a
	// local repository root. The zero value ("") means "use the default location".
	// Non-zero values must not be whitespace-only.
	FilesystemPath string

	// InvalidFilesystemPathError is returned when a FilesystemPath value is
	// non-empty but whitespace-only.
	InvalidFilesystemPathError struct {
		Value FilesystemPath
	}
)

// String returns the string representation of the FilesystemPath.
func (p FilesystemPath) String() string { return string(p) }

// OrDefault returns the cleaned path, or def when the path is unset.
func (p FilesystemPath) OrDefault(def string) string {
	if p == "" {
		return def
	}
	return filepath.Clean(string(p))
}

// Validate returns an error when the path is non-empty but whitespace-only.
func (p FilesystemPath) Validate() error {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return &InvalidFilesystemPathError{Value: p}
	}
	return nil
}

// Error implements the error interface for InvalidFilesystemPathError.
func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid filesystem path %q: must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidFilesystemPath for errors.Is() compatibility.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }
