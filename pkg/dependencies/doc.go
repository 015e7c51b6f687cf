// SPDX-License-Identifier: MPL-2.0

// Package dependencies collects dependency declarations contributed by runnable
// code and resolves them to a classpath.
//
// Resolution maps each coordinate onto the Maven repository layout of a local
// repository directory. Transitive resolution and remote downloads are not
// performed: a coordinate whose artifact is missing locally is reported as
// unresolved.
package dependencies
