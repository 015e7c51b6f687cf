// SPDX-License-Identifier: MPL-2.0

package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jrunhq/jrun/pkg/dependencies"
)

type (
	// ResolveOptions controls ResolveResource.
	ResolveOptions struct {
		// DownloadDir receives remote resources; defaults to DefaultDownloadDir.
		DownloadDir string
		// LocalRepository is searched for coordinate references; defaults to
		// dependencies.DefaultLocalRepository.
		LocalRepository string
		// Client performs downloads; defaults to http.DefaultClient.
		Client *http.Client
		// Refresh downloads remote resources again even when a copy exists.
		Refresh bool
	}

	// DownloadError reports a remote resource that could not be fetched.
	DownloadError struct {
		URL        string
		StatusCode int
	}
)

// Error implements the error interface.
func (e *DownloadError) Error() string {
	return fmt.Sprintf("download of %s failed: HTTP %d", e.URL, e.StatusCode)
}

// Unwrap returns ErrResourceNotFound for 404 responses.
func (e *DownloadError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrResourceNotFound
	}
	return nil
}

// DefaultDownloadDir returns the directory remote resources are cached in.
func DefaultDownloadDir() string {
	return filepath.Join(filepath.Dir(DefaultCacheDir()), "urls")
}

// ResolveResource turns a user reference into a ResourceRef backed by a local
// file. Existing local paths win; otherwise http(s) URLs are downloaded and
// dependency coordinates are looked up in the local repository.
func ResolveResource(ctx context.Context, reference string, opts ResolveOptions) (ResourceRef, error) {
	if reference == "" {
		return ResourceRef{}, fmt.Errorf("%w: empty reference", ErrResourceNotFound)
	}

	if info, err := os.Stat(reference); err == nil && !info.IsDir() {
		abs, absErr := filepath.Abs(reference)
		if absErr != nil {
			return ResourceRef{}, fmt.Errorf("failed to resolve %s: %w", reference, absErr)
		}
		return NewResourceRef(reference, abs), nil
	}

	if u, err := url.Parse(reference); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		file, err := download(ctx, u, opts)
		if err != nil {
			return ResourceRef{}, err
		}
		return NewResourceRef(reference, file), nil
	}

	if dependencies.LooksLikeCoordinate(reference) {
		return resolveCoordinate(reference, opts)
	}

	return ResourceRef{}, fmt.Errorf("%w: %s", ErrResourceNotFound, reference)
}

func resolveCoordinate(reference string, opts ResolveOptions) (ResourceRef, error) {
	c, err := dependencies.ParseCoordinate(reference)
	if err != nil {
		return ResourceRef{}, err
	}
	repo := opts.LocalRepository
	if repo == "" {
		if repo, err = dependencies.DefaultLocalRepository(); err != nil {
			return ResourceRef{}, err
		}
	}
	artifact := filepath.Join(repo, filepath.FromSlash(c.RepositoryPath()))
	if _, err := os.Stat(artifact); err != nil {
		return ResourceRef{}, fmt.Errorf("%w: %s (looked for %s)", ErrResourceNotFound, reference, artifact)
	}
	return NewResourceRef(reference, artifact), nil
}

// download fetches u into <DownloadDir>/<hash>/<name>, keeping the remote file
// name so that suffix-based classification still works.
func download(ctx context.Context, u *url.URL, opts ResolveOptions) (string, error) {
	dir := opts.DownloadDir
	if dir == "" {
		dir = DefaultDownloadDir()
	}
	sum := sha256.Sum256([]byte(u.String()))
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		name = "index" + JavaSuffix
	}
	target := filepath.Join(dir, hex.EncodeToString(sum[:])[:hashLength], name)

	if !opts.Refresh {
		if _, err := os.Stat(target); err == nil {
			slog.Debug("using downloaded copy", "url", u.String(), "file", target)
			return target, nil
		}
	}

	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &DownloadError{URL: u.String(), StatusCode: resp.StatusCode}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create download file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to download %s: %w", u, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write download: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store download: %w", err)
	}

	slog.Debug("downloaded resource", "url", u.String(), "file", target)
	return target, nil
}

// ForResource creates the Code for a resolved reference: a Jar for archives,
// otherwise a SourceSet described by the file's directives.
func ForResource(ref ResourceRef, opts ...Option) (Code, error) {
	if !ref.HasFile() {
		return nil, fmt.Errorf("%w: %s", ErrNoBackingFile, ref)
	}
	if _, err := os.Stat(ref.File()); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, ref)
	}

	if ref.IsJar() {
		return OpenJar(ref, opts...)
	}
	if !strings.HasSuffix(ref.File(), JavaSuffix) && !ref.IsJShell() {
		slog.Debug("treating file as java source", "file", ref.File())
	}
	return NewSourceSetFromFile(ref, "", opts...)
}
