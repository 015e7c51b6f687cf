// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/jrunhq/jrun/internal/config"
	"github.com/jrunhq/jrun/internal/issue"
	"github.com/jrunhq/jrun/pkg/dependencies"
	"github.com/jrunhq/jrun/pkg/jdk"
	"github.com/jrunhq/jrun/pkg/source"
)

// classifyError maps a resolve/build/launch failure to an issue catalog ID and
// a styled message for CLI rendering. The first matching cause wins, so more
// specific sentinels are checked before the ones they may wrap.
func classifyError(err error, verbose bool) (issueID issue.Id, styledMsg string) {
	issueID = issue.LaunchFailedId

	var dlErr *source.DownloadError
	switch {
	case errors.As(err, &dlErr) && !errors.Is(err, source.ErrResourceNotFound):
		issueID = issue.DownloadFailedId
	case errors.Is(err, source.ErrResourceNotFound), errors.Is(err, source.ErrNoBackingFile):
		issueID = issue.ResourceNotFoundId
	case errors.Is(err, source.ErrArchiveMissing):
		issueID = issue.ArchiveMissingId
	case errors.Is(err, source.ErrInvalidDirective), errors.Is(err, dependencies.ErrInvalidCoordinate):
		issueID = issue.InvalidDirectiveId
	case errors.Is(err, source.ErrCompilationFailed):
		issueID = issue.CompilationFailedId
	case errors.Is(err, dependencies.ErrUnresolvedDependency):
		issueID = issue.DependenciesUnresolvedId
	case errors.Is(err, jdk.ErrRequirementNotMet), errors.Is(err, jdk.ErrInvalidRequirement):
		issueID = issue.JavaVersionMismatchId
	case errors.Is(err, jdk.ErrJDKNotFound):
		issueID = issue.JavaNotFoundId
	case errors.Is(err, config.ErrInvalidConfig):
		issueID = issue.ConfigLoadFailedId
	}

	return issueID, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}
