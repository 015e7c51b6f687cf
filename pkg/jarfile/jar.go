// SPDX-License-Identifier: MPL-2.0

package jarfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// ReadManifest opens the jar at path and parses its manifest. A jar without a
// manifest yields an empty Manifest and no error.
func ReadManifest(path string) (*Manifest, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open jar %s: %w", path, err)
	}
	defer zr.Close()

	f, err := zr.Open(ManifestPath)
	if errors.Is(err, fs.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest in %s: %w", path, err)
	}
	defer f.Close()

	m, err := ParseManifest(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Write packages the contents of dir into a jar at path, with the manifest as
// the first entry. The jar is written to a temporary file in the target
// directory and renamed into place, so a failed write leaves any previous jar
// untouched.
func Write(path, dir string, manifest *Manifest) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create jar directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".jrun-*.jar")
	if err != nil {
		return fmt.Errorf("failed to create jar file: %w", err)
	}
	defer func() {
		if err != nil {
			// best-effort cleanup on failure
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	zw := zip.NewWriter(tmp)

	mw, err := zw.Create(ManifestPath)
	if err != nil {
		return fmt.Errorf("failed to create manifest entry: %w", err)
	}
	if manifest == nil {
		manifest = NewManifest()
	}
	if _, err = manifest.WriteTo(mw); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, relErr := filepath.Rel(dir, p)
		if relErr != nil {
			return fmt.Errorf("failed to get relative path: %w", relErr)
		}
		if rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)
		if name == ManifestPath {
			return nil
		}
		if d.IsDir() {
			_, createErr := zw.Create(name + "/")
			return createErr
		}
		return addFile(zw, p, name, d)
	})
	if err != nil {
		return fmt.Errorf("failed to package %s: %w", dir, err)
	}

	if err = zw.Close(); err != nil {
		return fmt.Errorf("failed to finish jar: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close jar: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move jar into place: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to create file header: %w", err)
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create jar entry: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Entries lists the file names stored in the jar.
func Entries(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open jar %s: %w", path, err)
	}
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names, nil
}
