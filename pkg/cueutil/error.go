// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrInvalidCUEPath is returned when a CUEPath is blank.
var ErrInvalidCUEPath = errors.New("invalid CUE path")

type (
	// CUEPath is a JSON-style path into a document, e.g. "dependencies.repositories[1]".
	CUEPath string

	// InvalidCUEPathError wraps ErrInvalidCUEPath.
	InvalidCUEPathError struct {
		Value CUEPath
	}

	// ValidationError is one schema violation.
	ValidationError struct {
		FilePath string
		CUEPath  CUEPath
		Message  string
	}
)

// String returns the path text.
func (p CUEPath) String() string { return string(p) }

// Validate rejects empty and whitespace-only paths.
func (p CUEPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidCUEPathError{Value: p}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidCUEPathError) Error() string {
	return fmt.Sprintf("invalid CUE path %q: must not be blank", e.Value)
}

// Unwrap returns ErrInvalidCUEPath for errors.Is() compatibility.
func (e *InvalidCUEPathError) Unwrap() error { return ErrInvalidCUEPath }

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.CUEPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// ValidationErrors splits a CUE error into one ValidationError per violation.
// A non-CUE error yields a single entry without a path.
func ValidationErrors(err error, filePath string) []*ValidationError {
	if err == nil {
		return nil
	}
	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return []*ValidationError{{FilePath: filePath, Message: err.Error()}}
	}

	out := make([]*ValidationError, 0, len(list))
	for _, e := range list {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()
		if path != "" {
			if rest, ok := strings.CutPrefix(msg, path); ok {
				msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			}
		}
		out = append(out, &ValidationError{FilePath: filePath, CUEPath: CUEPath(path), Message: msg})
	}
	return out
}

// FormatError renders a CUE error as "<file>: <path>: <message>", one line per
// violation.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}
	if len(cueerrors.Errors(err)) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	verrs := ValidationErrors(err, filePath)
	if len(verrs) == 1 {
		return verrs[0]
	}
	lines := make([]string, 0, len(verrs))
	for _, v := range verrs {
		if v.CUEPath != "" {
			lines = append(lines, v.CUEPath.String()+": "+v.Message)
		} else {
			lines = append(lines, v.Message)
		}
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath turns CUE's ["repositories", "1", "url"] into "repositories[1].url".
func formatPath(parts []string) string {
	var sb strings.Builder
	for i, part := range parts {
		if i > 0 && isIndex(part) {
			sb.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
