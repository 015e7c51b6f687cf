// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/jrunhq/jrun/internal/issue"
)

func TestNewServiceError_NilPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil error")
		}
	}()
	_ = newServiceError(nil, 0, "")
}

func TestServiceError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("cause")
	svcErr := newServiceError(cause, issue.LaunchFailedId, "")
	if !errors.Is(svcErr, cause) {
		t.Error("errors.Is(svcErr, cause) = false")
	}
	if svcErr.Error() != "cause" {
		t.Errorf("Error() = %q", svcErr.Error())
	}
}

func TestRenderServiceError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderServiceError(&buf, nil, "dark")
	if buf.Len() != 0 {
		t.Errorf("nil ServiceError rendered %q", buf.String())
	}

	renderServiceError(&buf, newServiceError(errors.New("x"), 0, "styled message\n"), "dark")
	if got := buf.String(); got != "styled message\n" {
		t.Errorf("rendered %q, want only the styled message", got)
	}

	buf.Reset()
	renderServiceError(&buf, newServiceError(errors.New("x"), issue.ResourceNotFoundId, "tail\n"), "dark")
	out := buf.String()
	if !strings.HasSuffix(out, "tail\n") || len(out) <= len("tail\n") {
		t.Errorf("rendered %q, want the catalog entry followed by the styled message", out)
	}
}
