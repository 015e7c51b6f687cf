// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jrunhq/jrun/pkg/dependencies"
	"github.com/jrunhq/jrun/pkg/source"

	"github.com/spf13/cobra"
)

// codeInfo is the JSON document printed by "jrun info".
type codeInfo struct {
	Reference      string   `json:"reference"`
	File           string   `json:"file"`
	Kind           string   `json:"kind"`
	JarFile        string   `json:"jar_file"`
	NeedsBuild     bool     `json:"needs_build"`
	MainClass      string   `json:"main_class,omitempty"`
	JavaVersion    string   `json:"java_version,omitempty"`
	Description    string   `json:"description,omitempty"`
	GAV            string   `json:"gav,omitempty"`
	CDS            bool     `json:"cds"`
	RuntimeOptions []string `json:"runtime_options"`
	Sources        []string `json:"sources,omitempty"`
	Dependencies   []string `json:"dependencies"`
	Repositories   []string `json:"repositories,omitempty"`
	CompileOptions []string `json:"compile_options,omitempty"`
}

func newInfoCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file|url|group:artifact:version>",
		Short: "Describe code as JSON without building or running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := executeInfo(cmd.Context(), runRequest{Reference: args[0]}, app.stdout); err != nil {
				return reportFailure(cmd, app, err)
			}
			return nil
		},
	}
}

func executeInfo(ctx context.Context, req runRequest, out io.Writer) error {
	p, err := prepare(ctx, configFromContext(ctx), req)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(describe(p), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode info: %w", err)
	}
	fmt.Fprintln(out, string(payload))
	return nil
}

// describe collects what the code declares; nothing is resolved or built.
func describe(p *prepared) codeInfo {
	code := p.code
	info := codeInfo{
		Reference:      code.ResourceRef().Original(),
		File:           code.ResourceRef().File(),
		Kind:           kindOf(code),
		JarFile:        code.JarFile(),
		NeedsBuild:     source.NeedsBuild(code, p.ctx),
		MainClass:      p.ctx.MainClassFor(code),
		JavaVersion:    p.ctx.JavaVersionFor(code),
		Description:    code.Description().String(),
		CDS:            p.ctx.CDSFor(code),
		RuntimeOptions: p.ctx.RuntimeOptionsFor(code),
		Dependencies:   []string{},
	}
	for _, dep := range code.ContributeDependencies(dependencies.NewResolver(p.ctx.LocalRepository)).Dependencies() {
		info.Dependencies = append(info.Dependencies, dep.String())
	}
	if gav := code.GAV(); !gav.IsZero() {
		info.GAV = gav.String()
	}

	if set, ok := code.AsSourceSet(); ok {
		for _, src := range set.Sources() {
			info.Sources = append(info.Sources, src.File())
		}
		info.Repositories = set.Repositories()
		info.CompileOptions = set.CompileOptions()
	}
	return info
}

func kindOf(code source.Code) string {
	switch {
	case code.IsJar():
		return "jar"
	case code.IsJShell():
		return "jshell"
	default:
		return "source"
	}
}
