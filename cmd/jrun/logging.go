// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// newLogger returns an slog logger writing through charmbracelet/log. Verbose
// mode lowers the level to debug and adds timestamps.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Prefix:          "jrun",
		Level:           level,
		ReportTimestamp: verbose,
	})
	return slog.New(handler)
}
