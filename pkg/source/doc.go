// SPDX-License-Identifier: MPL-2.0

// Package source models the code jrun can run and decides how to launch it.
//
// A ResourceRef pairs the reference given by the user (a path, a URL or a
// dependency coordinate) with the local file backing it. Code is the closed set of
// runnable variants built from a ResourceRef:
//
//   - Jar: an already packaged archive, launched as-is.
//   - SourceSet: one or more .java (or .jsh) sources that share a classpath.
//
// NeedsBuild decides, from the backing file's suffix and the RunContext, whether a
// Builder has to compile and package the code before its CmdGenerator can assemble
// the java or jshell invocation. SplitQuoted turns stored option strings (config
// values, //JAVA_OPTIONS directives, manifest attributes) into discrete arguments.
//
// Code values are immutable after construction and safe for concurrent reads.
package source
