// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"runtime"
	"testing"
)

func TestSetHomeDir(t *testing.T) {
	key := "HOME"
	if runtime.GOOS == "windows" {
		key = "USERPROFILE"
	}

	dir := t.TempDir()
	original, hadOriginal := os.LookupEnv(key)

	restore := SetHomeDir(t, dir)
	if got := os.Getenv(key); got != dir {
		t.Errorf("%s = %q, want %q", key, got, dir)
	}
	if home, err := os.UserHomeDir(); err != nil || home != dir {
		t.Errorf("os.UserHomeDir() = %q, %v; want %q", home, err, dir)
	}

	restore()
	got, has := os.LookupEnv(key)
	if has != hadOriginal || got != original {
		t.Errorf("after restore %s = %q (set=%v), want %q (set=%v)", key, got, has, original, hadOriginal)
	}
}
