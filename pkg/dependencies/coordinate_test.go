// SPDX-License-Identifier: MPL-2.0

package dependencies

import (
	"errors"
	"testing"
)

func TestParseCoordinate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Coordinate
		wantErr bool
	}{
		{
			name:  "group artifact version",
			input: "info.picocli:picocli:4.7.5",
			want:  Coordinate{GroupID: "info.picocli", ArtifactID: "picocli", Version: "4.7.5"},
		},
		{
			name:  "with classifier",
			input: "org.lwjgl:lwjgl:3.3.3:natives-linux",
			want:  Coordinate{GroupID: "org.lwjgl", ArtifactID: "lwjgl", Version: "3.3.3", Classifier: "natives-linux"},
		},
		{
			name:  "with type",
			input: "com.example:bom:1.0@pom",
			want:  Coordinate{GroupID: "com.example", ArtifactID: "bom", Version: "1.0", Type: "pom"},
		},
		{
			name:  "surrounding whitespace",
			input: "  a:b:1  ",
			want:  Coordinate{GroupID: "a", ArtifactID: "b", Version: "1"},
		},
		{name: "empty", input: "", wantErr: true},
		{name: "two segments", input: "a:b", wantErr: true},
		{name: "empty segment", input: "a::1", wantErr: true},
		{name: "empty type", input: "a:b:1@", wantErr: true},
		{name: "path", input: "lib/a:b:1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCoordinate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCoordinate(%q) = %v, want error", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidCoordinate) {
					t.Errorf("error should wrap ErrInvalidCoordinate, got: %v", err)
				}
				var ice *InvalidCoordinateError
				if !errors.As(err, &ice) {
					t.Errorf("error should be *InvalidCoordinateError, got: %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCoordinate(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCoordinate(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCoordinate_StringAndRepositoryPath(t *testing.T) {
	t.Parallel()

	c := MustParseCoordinate("org.lwjgl:lwjgl:3.3.3:natives-linux")
	if got := c.String(); got != "org.lwjgl:lwjgl:3.3.3:natives-linux" {
		t.Errorf("String() = %q", got)
	}
	if got, want := c.RepositoryPath(), "org/lwjgl/lwjgl/3.3.3/lwjgl-3.3.3-natives-linux.jar"; got != want {
		t.Errorf("RepositoryPath() = %q, want %q", got, want)
	}

	pom := MustParseCoordinate("com.example:bom:1.0@pom")
	if got, want := pom.RepositoryPath(), "com/example/bom/1.0/bom-1.0.pom"; got != want {
		t.Errorf("RepositoryPath() = %q, want %q", got, want)
	}

	if (Coordinate{}).String() != "" || !(Coordinate{}).IsZero() {
		t.Error("zero Coordinate should be empty and report IsZero")
	}
}

func TestLooksLikeCoordinate(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"a:b:1":                 true,
		"a:b:1:linux":           true,
		"hello.java":            false,
		"./dir/hello.java":      false,
		"https://x.org/a.java":  false,
		`C:\scripts\hello.java`: false,
		"a:b":                   false,
	}
	for input, want := range tests {
		if got := LooksLikeCoordinate(input); got != want {
			t.Errorf("LooksLikeCoordinate(%q) = %v, want %v", input, got, want)
		}
	}
}
