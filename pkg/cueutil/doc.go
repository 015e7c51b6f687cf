// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema.
//
// Loading a CUE file always follows the same three steps:
//
//  1. Compile the embedded schema and look up its root definition
//  2. Compile the user document and unify it with that definition
//  3. Validate, then decode into Go values
//
// ParseAndDecode runs the three steps into a typed struct; Unify stops after
// validation and hands back the unified value for callers that decode into
// something else (the configuration store decodes into a map for viper).
// Errors are reported with JSON-style paths, e.g.
//
//	config.cue: run.cds: conflicting values true and "yes" (mismatched types bool and string)
package cueutil
