// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"golang.org/x/exp/slices"
)

func TestIsNoise(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"/src/Hello.java", false},
		{"/src/.Hello.java.swp", true},
		{"/src/Hello.java~", true},
		{"/src/.#Hello.java", true},
		{"/src/#Hello.java#", true},
		{"/src/.DS_Store", true},
		{"/src/.git/HEAD", true},
		{"/src/.idea/workspace.xml", true},
		{"/src/gitignore.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := isNoise(tt.path); got != tt.want {
				t.Errorf("isNoise(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{BaseDir: t.TempDir(), Patterns: []string{"[unclosed"}}); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestWatcher_Matches(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	main := filepath.Join(dir, "Hello.java")
	writeFile(t, main, "class Hello {}")
	if err := os.MkdirAll(filepath.Join(dir, "res"), 0o755); err != nil {
		t.Fatal(err)
	}

	w, err := New(Config{BaseDir: dir, Files: []string{main}, Patterns: []string{"res/**/*.properties"}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.fsw.Close() })

	tests := []struct {
		path string
		want bool
	}{
		{main, true},
		{filepath.Join(dir, "Other.java"), false},
		{filepath.Join(dir, "res", "app.properties"), true},
		{filepath.Join(dir, "res", "nested", "x.properties"), true},
		{filepath.Join(dir, "res", "app.properties~"), false},
	}
	for _, tt := range tests {
		if got := w.Matches(tt.path); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcher_Track(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "A.java")
	b := filepath.Join(dir, "sub", "B.java")
	writeFile(t, a, "class A {}")
	writeFile(t, b, "class B {}")

	w, err := New(Config{BaseDir: dir, Files: []string{a}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.fsw.Close() })

	if err := w.Track(b, a); err != nil {
		t.Fatalf("Track() error = %v", err)
	}
	if got, want := w.Tracked(), []string{a, b}; !slices.Equal(got, want) {
		t.Errorf("Tracked() = %q, want %q", got, want)
	}
	if err := w.Track(filepath.Join(dir, "missing", "C.java")); err == nil {
		t.Error("Track() of a file in a missing directory succeeded")
	}
}

func TestWatcher_RunFiresOnChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	main := filepath.Join(dir, "Hello.java")
	other := filepath.Join(dir, "Unrelated.txt")
	writeFile(t, main, "class Hello {}")

	var (
		mu    sync.Mutex
		calls [][]string
	)
	fired := make(chan struct{}, 4)

	w, err := New(Config{
		BaseDir:  dir,
		Files:    []string{main},
		Debounce: 50 * time.Millisecond,
		Stderr:   &discard{},
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			calls = append(calls, changed)
			mu.Unlock()
			fired <- struct{}{}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// give fsnotify a moment to settle before producing events
	time.Sleep(50 * time.Millisecond)
	writeFile(t, other, "ignored")
	writeFile(t, main, "class Hello { }")
	writeFile(t, main, "class Hello {  }")

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("OnChange was not called")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if !slices.Equal(calls[0], []string{main}) {
		t.Errorf("first callback got %q, want only %q", calls[0], main)
	}
}

func TestWatcher_RunTwice(t *testing.T) {
	t.Parallel()

	w, err := New(Config{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if err := w.Run(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() error = %v, want ErrAlreadyRunning", err)
	}
}

type discard struct{}

func (*discard) Write(p []byte) (int, error) { return len(p), nil }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
