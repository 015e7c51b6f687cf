// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult holds a decoded document and the unified CUE value it came from.
type ParseResult[T any] struct {
	Value   *T
	Unified cue.Value
}

// Unify compiles schema and data, unifies data with the schema definition at
// schemaPath (e.g. "#Config") and validates the result.
func Unify(schema, data []byte, schemaPath string, opts ...Option) (cue.Value, error) {
	o := applyOptions(opts)

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if err := schemaValue.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", err)
	}
	root := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if err := root.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, err)
	}

	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if err := userValue.Err(); err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}

	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}
	return unified, nil
}

// ParseAndDecode unifies data with the schema and decodes the result into T.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	unified, err := Unify(schema, data, schemaPath, opts...)
	if err != nil {
		return nil, err
	}

	var value T
	if err := unified.Decode(&value); err != nil {
		return nil, FormatError(err, applyOptions(opts).filename)
	}
	return &ParseResult[T]{Value: &value, Unified: unified}, nil
}

// CheckFileSize rejects documents larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
	}
	return nil
}
