// SPDX-License-Identifier: MPL-2.0

// Package types defines small value types shared by the source, dependency and
// configuration packages. It is a leaf package: it imports only the standard library.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDescriptionText is the sentinel error wrapped by InvalidDescriptionTextError.
var ErrInvalidDescriptionText = errors.New("invalid description text")

type (
	// DescriptionText is the human-readable description attached to a piece of code,
	// usually taken from a //DESCRIPTION directive or a jar manifest.
	// The zero value ("") means "no description". Non-zero values must not be
	// whitespace-only.
	DescriptionText string

	// InvalidDescriptionTextError is returned when a DescriptionText value is
	// non-empty but whitespace-only.
	InvalidDescriptionTextError struct {
		Value DescriptionText
	}
)

// String returns the string representation of the DescriptionText.
func (d DescriptionText) String() string { return string(d) }

// IsEmpty reports whether no description is available. Whitespace-only
// descriptions count as empty.
func (d DescriptionText) IsEmpty() bool { return strings.TrimSpace(string(d)) == "" }

// Validate returns an error when the description is non-empty but whitespace-only.
func (d DescriptionText) Validate() error {
	if d == "" {
		return nil
	}
	if strings.TrimSpace(string(d)) == "" {
		return &InvalidDescriptionTextError{Value: d}
	}
	return nil
}

// Error implements the error interface for InvalidDescriptionTextError.
func (e *InvalidDescriptionTextError) Error() string {
	return fmt.Sprintf("invalid description text: non-empty value must not be whitespace-only (got %q)", e.Value)
}

// Unwrap returns ErrInvalidDescriptionText for errors.Is() compatibility.
func (e *InvalidDescriptionTextError) Unwrap() error { return ErrInvalidDescriptionText }
