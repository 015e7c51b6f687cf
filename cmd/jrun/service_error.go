// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jrunhq/jrun/internal/issue"
)

// ServiceError is an error that carries rendering information for the CLI
// layer: an optional pre-styled message and an optional issue catalog entry.
// Always create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError, panicking on a nil err.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError prints the issue help section first, then the styled
// message, so the concrete error stays closest to the prompt.
func renderServiceError(stderr io.Writer, svcErr *ServiceError, style string) {
	if svcErr == nil {
		return
	}

	if svcErr.IssueID != 0 {
		if entry := issue.Get(svcErr.IssueID); entry != nil {
			rendered, renderErr := entry.Render(style)
			if renderErr != nil {
				slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
			} else {
				fmt.Fprint(stderr, rendered)
			}
		}
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}
}
