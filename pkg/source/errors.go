// SPDX-License-Identifier: MPL-2.0

package source

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBackingFile is returned when an operation needs the local file behind
	// a ResourceRef and there is none.
	ErrNoBackingFile = errors.New("resource has no local file")
	// ErrResourceNotFound is returned when a reference cannot be resolved to a file.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrArchiveMissing is returned when a Jar's archive is not on disk at launch.
	ErrArchiveMissing = errors.New("archive not found")
	// ErrCompilationFailed is the sentinel error wrapped by CompileError.
	ErrCompilationFailed = errors.New("compilation failed")
	// ErrInvalidDirective is the sentinel error wrapped by InvalidDirectiveError.
	ErrInvalidDirective = errors.New("invalid source directive")
)

type (
	// CompileError reports a javac run that exited with a non-zero status.
	CompileError struct {
		Main     string
		ExitCode int
	}

	// InvalidDirectiveError reports a malformed //DIRECTIVE line.
	InvalidDirectiveError struct {
		File string
		Line int
		Text string
		Err  error
	}
)

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("compilation of %s failed (javac exit status %d)", e.Main, e.ExitCode)
}

// Unwrap returns ErrCompilationFailed for errors.Is() compatibility.
func (e *CompileError) Unwrap() error { return ErrCompilationFailed }

// Error implements the error interface.
func (e *InvalidDirectiveError) Error() string {
	msg := fmt.Sprintf("%s:%d: invalid directive %q", e.File, e.Line, e.Text)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns both ErrInvalidDirective and the underlying cause.
func (e *InvalidDirectiveError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidDirective}
	}
	return []error{ErrInvalidDirective, e.Err}
}
