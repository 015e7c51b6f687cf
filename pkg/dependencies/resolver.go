// SPDX-License-Identifier: MPL-2.0

package dependencies

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

// ErrUnresolvedDependency is the sentinel error wrapped by UnresolvedDependenciesError.
var ErrUnresolvedDependency = errors.New("unresolved dependency")

type (
	// Resolver accumulates dependency declarations and resolves them against a
	// local repository. Declarations are only ever added; a Resolver is owned by a
	// single caller and is not safe for concurrent mutation.
	Resolver struct {
		localRepo    string
		dependencies []Coordinate
		repositories []string
		classpaths   []string
	}

	// UnresolvedDependenciesError lists every coordinate whose artifact could not
	// be found in the local repository.
	UnresolvedDependenciesError struct {
		LocalRepository string
		Missing         []Coordinate
	}
)

// Error implements the error interface.
func (e *UnresolvedDependenciesError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, c := range e.Missing {
		names = append(names, c.String())
	}
	return fmt.Sprintf("%d dependency(ies) not found in %s: %s", len(e.Missing), e.LocalRepository, strings.Join(names, ", "))
}

// Unwrap returns ErrUnresolvedDependency for errors.Is() compatibility.
func (e *UnresolvedDependenciesError) Unwrap() error { return ErrUnresolvedDependency }

// DefaultLocalRepository returns ~/.m2/repository.
func DefaultLocalRepository() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".m2", "repository"), nil
}

// NewResolver creates an empty resolver. An empty localRepo selects
// DefaultLocalRepository at resolution time.
func NewResolver(localRepo string) *Resolver {
	return &Resolver{localRepo: localRepo}
}

// AddDependency declares a dependency. Repeated coordinates are kept once.
func (r *Resolver) AddDependency(c Coordinate) *Resolver {
	if !c.IsZero() && !slices.Contains(r.dependencies, c) {
		r.dependencies = append(r.dependencies, c)
	}
	return r
}

// AddDependencies declares several dependencies.
func (r *Resolver) AddDependencies(cs ...Coordinate) *Resolver {
	for _, c := range cs {
		r.AddDependency(c)
	}
	return r
}

// AddRepository records a repository the declarations may come from.
// Repositories are informational: artifacts are looked up locally only.
func (r *Resolver) AddRepository(repo string) *Resolver {
	if repo != "" && !slices.Contains(r.repositories, repo) {
		r.repositories = append(r.repositories, repo)
	}
	return r
}

// AddRepositories records several repositories.
func (r *Resolver) AddRepositories(repos ...string) *Resolver {
	for _, repo := range repos {
		r.AddRepository(repo)
	}
	return r
}

// AddClasspath adds a literal classpath entry, placed after resolved artifacts.
func (r *Resolver) AddClasspath(entry string) *Resolver {
	if entry != "" && !slices.Contains(r.classpaths, entry) {
		r.classpaths = append(r.classpaths, entry)
	}
	return r
}

// AddClasspaths adds several literal classpath entries.
func (r *Resolver) AddClasspaths(entries ...string) *Resolver {
	for _, e := range entries {
		r.AddClasspath(e)
	}
	return r
}

// Dependencies returns a copy of the declared dependencies in declaration order.
func (r *Resolver) Dependencies() []Coordinate { return slices.Clone(r.dependencies) }

// Repositories returns a copy of the recorded repositories.
func (r *Resolver) Repositories() []string { return slices.Clone(r.repositories) }

// Classpaths returns a copy of the literal classpath entries.
func (r *Resolver) Classpaths() []string { return slices.Clone(r.classpaths) }

// LocalRepository returns the repository directory used for resolution.
func (r *Resolver) LocalRepository() (string, error) {
	if r.localRepo != "" {
		return r.localRepo, nil
	}
	return DefaultLocalRepository()
}

// Resolve maps every declared dependency to its artifact in the local repository
// and returns the resulting classpath followed by the literal entries.
// All missing artifacts are reported together in an *UnresolvedDependenciesError.
func (r *Resolver) Resolve(ctx context.Context) (*ModularClassPath, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("resolve dependencies canceled: %w", ctx.Err())
	default:
	}

	if len(r.dependencies) == 0 {
		return NewModularClassPath(r.classpaths...), nil
	}

	repo, err := r.LocalRepository()
	if err != nil {
		return nil, err
	}

	entries := make([]string, 0, len(r.dependencies)+len(r.classpaths))
	var missing []Coordinate
	for _, dep := range r.dependencies {
		artifact := filepath.Join(repo, filepath.FromSlash(dep.RepositoryPath()))
		if info, statErr := os.Stat(artifact); statErr != nil || info.IsDir() {
			missing = append(missing, dep)
			continue
		}
		slog.Debug("resolved dependency", "coordinate", dep.String(), "artifact", artifact)
		entries = append(entries, artifact)
	}
	if len(missing) > 0 {
		return nil, &UnresolvedDependenciesError{LocalRepository: repo, Missing: missing}
	}

	return NewModularClassPath(append(entries, r.classpaths...)...), nil
}
