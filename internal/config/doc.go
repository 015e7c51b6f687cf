// SPDX-License-Identifier: MPL-2.0

// Package config loads jrun's settings.
//
// Settings live in config.cue inside the platform config directory
// ($XDG_CONFIG_HOME/jrun on Linux, ~/Library/Application Support/jrun on macOS,
// %APPDATA%\jrun on Windows). The file is validated against the embedded
// config_schema.cue and layered over the built-in defaults with viper; JRUN_*
// environment variables (JRUN_RUN_CDS, JRUN_UI_VERBOSE, ...) override both.
package config
