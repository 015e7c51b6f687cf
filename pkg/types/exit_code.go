// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitSuccess is returned when the launched program (or build) succeeded.
	ExitSuccess ExitCode = 0
	// ExitFailure is the generic failure code used for errors raised before launch.
	ExitFailure ExitCode = 1
	// ExitUsage is returned for invalid command-line usage.
	ExitUsage ExitCode = 2
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is the process exit status reported by jrun.
	// When a program is launched, its own exit status is passed through unchanged.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates success.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// Normalize maps out-of-range codes (for example -1 from a signaled process)
// to ExitFailure so the value can be handed to os.Exit.
func (c ExitCode) Normalize() ExitCode {
	if c.Validate() != nil {
		return ExitFailure
	}
	return c
}

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
