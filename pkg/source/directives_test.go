// SPDX-License-Identifier: MPL-2.0

package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrunhq/jrun/pkg/dependencies"

	"golang.org/x/exp/slices"
)

const helloSource = `///usr/bin/env jrun "$0" "$@" ; exit $?
//DEPS info.picocli:picocli:4.7.5
//DEPS com.google.guava:guava:33.0.0-jre org.slf4j:slf4j-api:2.0.9
//REPOS https://repo.example.com/maven
//JAVA 17+
//JAVA_OPTIONS -Xmx512m "-Dgreeting=hello world"
//RUNTIME_OPTIONS -ea
//COMPILE_OPTIONS -Xlint:all
//SOURCES util/Strings.java
//FILES app.properties res/logo.png=assets/logo.png
//MAIN demo.Hello
//CDS
//DESCRIPTION Says hello
//DESCRIPTION to everyone
//GAV demo:hello:1.0
// DEPS not:a:directive
//DEPSX ignored:too:1
//UNKNOWN whatever

package demo;

public class Hello {
    public static void main(String[] args) { System.out.println("hello"); }
}
`

func TestParseDirectives(t *testing.T) {
	t.Parallel()

	d, err := ParseDirectives("Hello.java", []byte(helloSource))
	if err != nil {
		t.Fatalf("ParseDirectives() error = %v", err)
	}

	wantDeps := []string{
		"info.picocli:picocli:4.7.5",
		"com.google.guava:guava:33.0.0-jre",
		"org.slf4j:slf4j-api:2.0.9",
	}
	gotDeps := make([]string, 0, len(d.Dependencies))
	for _, c := range d.Dependencies {
		gotDeps = append(gotDeps, c.String())
	}
	if !slices.Equal(gotDeps, wantDeps) {
		t.Errorf("Dependencies = %v, want %v", gotDeps, wantDeps)
	}
	if !slices.Equal(d.Repositories, []string{"https://repo.example.com/maven"}) {
		t.Errorf("Repositories = %v", d.Repositories)
	}
	if d.JavaVersion != "17+" {
		t.Errorf("JavaVersion = %q", d.JavaVersion)
	}
	if !slices.Equal(d.RuntimeOptions, []string{"-Xmx512m", "-Dgreeting=hello world", "-ea"}) {
		t.Errorf("RuntimeOptions = %q", d.RuntimeOptions)
	}
	if !slices.Equal(d.CompileOptions, []string{"-Xlint:all"}) {
		t.Errorf("CompileOptions = %q", d.CompileOptions)
	}
	if !slices.Equal(d.Sources, []string{"util/Strings.java"}) {
		t.Errorf("Sources = %q", d.Sources)
	}
	wantFiles := []FileDirective{
		{Target: "app.properties", Source: "app.properties"},
		{Target: "res/logo.png", Source: "assets/logo.png"},
	}
	if !slices.Equal(d.Files, wantFiles) {
		t.Errorf("Files = %v, want %v", d.Files, wantFiles)
	}
	if d.MainClass != "demo.Hello" {
		t.Errorf("MainClass = %q", d.MainClass)
	}
	if !d.CDS {
		t.Error("CDS = false")
	}
	if d.Description != "Says hello\nto everyone" {
		t.Errorf("Description = %q", d.Description)
	}
	if d.GAV.String() != "demo:hello:1.0" {
		t.Errorf("GAV = %v", d.GAV)
	}
}

func TestParseDirectives_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"bad dependency", "//DEPS nope\n"},
		{"empty java", "//JAVA\n"},
		{"empty main", "//MAIN   \n"},
		{"bad gav", "//GAV a\n"},
		{"empty files target", "//FILES =x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseDirectives("X.java", []byte(tt.content))
			if !errors.Is(err, ErrInvalidDirective) {
				t.Fatalf("ParseDirectives() error = %v, want ErrInvalidDirective", err)
			}
			var dErr *InvalidDirectiveError
			if !errors.As(err, &dErr) || dErr.Line != 1 {
				t.Errorf("error = %#v, want *InvalidDirectiveError on line 1", err)
			}
		})
	}

	_, err := ParseDirectives("X.java", []byte("//DEPS nope\n"))
	if !errors.Is(err, dependencies.ErrInvalidCoordinate) {
		t.Errorf("bad dependency error = %v, want ErrInvalidCoordinate in chain", err)
	}
}

func TestNewSourceSetFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	main := filepath.Join(dir, "Hello.java")
	if err := os.WriteFile(main, []byte(helloSource), 0o644); err != nil {
		t.Fatal(err)
	}
	cache := t.TempDir()

	set, err := NewSourceSetFromFile(NewResourceRef("Hello.java", main), cache, WithMainClass("override.Main"))
	if err != nil {
		t.Fatalf("NewSourceSetFromFile() error = %v", err)
	}

	if got := set.MainClass(); got != "override.Main" {
		t.Errorf("MainClass() = %q, want option override", got)
	}
	if got := set.CacheDir(); got != cache {
		t.Errorf("CacheDir() = %q", got)
	}
	srcs := set.Sources()
	if len(srcs) != 2 || srcs[1].File() != filepath.Join(dir, "util", "Strings.java") {
		t.Errorf("Sources() = %v", srcs)
	}
	res := set.Resources()
	if len(res) != 2 || res[1].Target != "res/logo.png" || res[1].Ref.File() != filepath.Join(dir, "assets", "logo.png") {
		t.Errorf("Resources() = %v", res)
	}
	if got := set.JavaVersion(); got != "17+" {
		t.Errorf("JavaVersion() = %q", got)
	}
	if len(set.Dependencies()) != 3 {
		t.Errorf("Dependencies() = %v", set.Dependencies())
	}
}

func TestNewSourceSetFromFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := NewSourceSetFromFile(NewResourceRef("Nope.java", filepath.Join(t.TempDir(), "Nope.java")), "")
	if !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("error = %v, want ErrResourceNotFound", err)
	}
}
