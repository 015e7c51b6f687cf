// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jrunhq/jrun/internal/testutil"
)

func TestProvider_ExplicitFileWinsOverDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfigFile(t, dir, `ui: color_scheme: "dark"`)
	explicit := testutil.MustWriteFile(t, filepath.Join(t.TempDir(), "other.cue"), `ui: color_scheme: "light"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: explicit,
		ConfigDirPath:  dir,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UI.ColorScheme != ColorSchemeLight {
		t.Errorf("color scheme = %q, want light from explicit file", cfg.UI.ColorScheme)
	}
}

func TestProvider_LoadsAreIndependent(t *testing.T) {
	t.Parallel()

	withFile := t.TempDir()
	writeConfigFile(t, withFile, `run: cds: true`)
	p := NewProvider()

	first, err := p.Load(context.Background(), LoadOptions{ConfigDirPath: withFile})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	second, err := p.Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !first.Run.CDS {
		t.Error("first load: expected run.cds = true")
	}
	if second.Run.CDS {
		t.Error("second load leaked run.cds from the first")
	}
}
