// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/jrunhq/jrun/pkg/source"
	"github.com/jrunhq/jrun/pkg/types"
)

// execLauncher runs launch commands as child processes sharing the terminal.
type execLauncher struct{}

// Launch starts cmd and waits for it to exit.
func (l *execLauncher) Launch(ctx context.Context, cmd *source.Command, stdio Stdio) (types.ExitCode, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Stdin = stdio.Stdin
	c.Stdout = stdio.Stdout
	c.Stderr = stdio.Stderr

	slog.Debug("launching", "command", cmd.String())

	err := c.Run()
	if err == nil {
		return types.ExitSuccess, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return types.ExitCode(exitErr.ExitCode()).Normalize(), nil
	}
	return types.ExitFailure, fmt.Errorf("failed to launch %s: %w", cmd.Path, err)
}
