// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrunhq/jrun/pkg/dependencies"
	"github.com/jrunhq/jrun/pkg/jarfile"
)

// MustSetenv sets key to value and returns the function restoring the
// previous value (or unsetting it).
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	original, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	return func() {
		var err error
		if had {
			err = os.Setenv(key, original)
		} else {
			err = os.Unsetenv(key)
		}
		if err != nil {
			t.Errorf("failed to restore env %s: %v", key, err)
		}
	}
}

// MustUnsetenv unsets key and returns the function restoring it.
func MustUnsetenv(t testing.TB, key string) func() {
	t.Helper()
	original, had := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	return func() {
		if had {
			if err := os.Setenv(key, original); err != nil {
				t.Errorf("failed to restore env %s: %v", key, err)
			}
		}
	}
}

// MustChdir changes the working directory and returns the function changing back.
func MustChdir(t testing.TB, dir string) func() {
	t.Helper()
	original, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory to %s: %v", dir, err)
	}
	return func() {
		if err := os.Chdir(original); err != nil {
			t.Errorf("failed to restore directory to %s: %v", original, err)
		}
	}
}

// MustWriteFile writes content to path, creating parent directories.
func MustWriteFile(t testing.TB, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// MustWriteJar writes a jar at path holding one dummy class and a manifest
// with the given main-section attributes.
func MustWriteJar(t testing.TB, path string, attrs map[string]string) string {
	t.Helper()
	classes := t.TempDir()
	MustWriteFile(t, filepath.Join(classes, "Main.class"), "\xca\xfe\xba\xbe")

	m := jarfile.NewManifest()
	for name, value := range attrs {
		m.Set(name, value)
	}
	if err := jarfile.Write(path, classes, m); err != nil {
		t.Fatalf("failed to write jar %s: %v", path, err)
	}
	return path
}

// MustWriteArtifact places a jar for coordinate c in the Maven-layout
// repository at repo and returns its path.
func MustWriteArtifact(t testing.TB, repo string, c dependencies.Coordinate) string {
	t.Helper()
	return MustWriteJar(t, filepath.Join(repo, filepath.FromSlash(c.RepositoryPath())), nil)
}

// MustClose closes c, failing the test on error.
func MustClose(t testing.TB, c io.Closer) {
	t.Helper()
	if err := c.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}
}
