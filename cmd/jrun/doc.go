// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the jrun command line interface.
//
// The root command and its subcommands (run, build, info, config) are built
// around an App, which holds the configuration provider, the process launcher,
// and the output streams. Commands turn their flags into a runRequest, let
// pkg/source resolve, build, and describe the code, and hand the resulting
// launch command to the Launcher.
package cmd
