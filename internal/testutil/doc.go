// SPDX-License-Identifier: MPL-2.0

// Package testutil holds test helpers that fail the test on setup errors
// instead of returning them: environment and home directory overrides
// (MustSetenv, SetHomeDir), file fixtures (MustWriteFile, MustWriteJar,
// MustWriteArtifact) and cleanup (MustClose).
package testutil
