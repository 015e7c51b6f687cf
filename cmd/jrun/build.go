// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/jrunhq/jrun/pkg/source"

	"github.com/spf13/cobra"
)

func newBuildCommand(app *App) *cobra.Command {
	var (
		fresh    bool
		javaHome string
	)

	buildCmd := &cobra.Command{
		Use:   "build <file|url|group:artifact:version>",
		Short: "Build the cached jar without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := runRequest{Reference: args[0], Fresh: fresh, JavaHome: javaHome}
			if err := executeBuild(cmd.Context(), req, app.stdout); err != nil {
				return reportFailure(cmd, app, err)
			}
			return nil
		},
	}

	buildCmd.Flags().BoolVar(&fresh, "fresh", false, "rebuild even when the cached jar is current")
	buildCmd.Flags().StringVar(&javaHome, "java-home", "", "java installation to compile with")

	return buildCmd
}

// executeBuild builds the requested code and reports where the jar went.
func executeBuild(ctx context.Context, req runRequest, out io.Writer) error {
	p, err := prepare(ctx, configFromContext(ctx), req)
	if err != nil {
		return err
	}

	if !source.NeedsBuild(p.code, p.ctx) {
		fmt.Fprintf(out, "%s %s needs no build\n", SubtitleStyle.Render("-"), p.code.ResourceRef())
		return nil
	}

	built, err := p.code.Builder(p.ctx).Build(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Built %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(built.JarFile()))
	return nil
}
