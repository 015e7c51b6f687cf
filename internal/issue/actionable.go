// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is a user-facing error: what failed, on what, and how to
	// fix it.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("build Hello.java").
	//		WithResource("/home/me/Hello.java").
	//		WithSuggestion("Fix the compilation errors reported above").
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase: "resolve dependencies", "launch java".
		Operation string
		// Resource is the file, URL or coordinate involved, if any.
		Resource string
		// Suggestions are fixes to try, most likely first.
		Suggestions []string
		// Cause is the underlying error, if any.
		Cause error
	}

	// ErrorContext builds an ActionableError step by step.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
	}
)

// NewErrorContext creates an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WrapWithOperation wraps err with an operation. A nil err yields nil.
func WrapWithOperation(err error, operation string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Cause: err}
}

// WrapWithContext wraps err with an operation and a resource. A nil err yields nil.
func WrapWithContext(err error, operation, resource string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Resource: resource, Cause: err}
}

// Error returns "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	var sb strings.Builder
	sb.WriteString("failed to ")
	sb.WriteString(e.Operation)
	if e.Resource != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Resource)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the cause for errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error with its suggestions as bullets. Verbose output
// also lists every error of the cause chain, outermost first.
func (e *ActionableError) Format(verbose bool) string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n")
		for _, s := range e.Suggestions {
			sb.WriteString("\n  • ")
			sb.WriteString(s)
		}
	}

	if verbose && e.Cause != nil {
		sb.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&sb, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}
	return sb.String()
}

// HasSuggestions reports whether any suggestion is attached.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// WithOperation sets the failed operation.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the resource involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends a suggestion.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// WithSuggestions appends several suggestions.
func (c *ErrorContext) WithSuggestions(sugs ...string) *ErrorContext {
	c.suggestions = append(c.suggestions, sugs...)
	return c
}

// Wrap sets the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build returns the ActionableError, or nil when no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: append([]string(nil), c.suggestions...),
		Cause:       c.cause,
	}
}

// BuildError is Build returning the error interface, so that a missing
// operation yields an untyped nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
