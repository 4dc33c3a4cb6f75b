// Package retrieval fetches a rules document's bytes from either the
// plain filesystem or a path inside a repository. It is deliberately
// small: everything downstream only ever sees an io.Reader.
package retrieval

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DalavanCloud/subversion/authz"
)

// Source fetches the contents of a rules document named by path.
type Source interface {
	Open(path string) (io.ReadCloser, error)
}

// FileSource reads rules documents directly off the local filesystem.
type FileSource struct{}

func (FileSource) Open(path string) (io.ReadCloser, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &authz.ConfigError{Kind: authz.ErrIllegalTarget, File: path, Detail: "rules file does not exist"}
		}
		return nil, fmt.Errorf("retrieval: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, &authz.ConfigError{Kind: authz.ErrIllegalTarget, File: path, Detail: "rules path is a directory"}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("retrieval: open %s: %w", path, err)
	}
	return f, nil
}

// RepoLocator resolves a repository name to its root directory on
// disk, the one piece of "where do repositories live" knowledge the
// rest of this package needs from its host.
type RepoLocator func(repoName string) (rootDir string, ok bool)

// RepoSource reads rules documents named by a "repo:/path" URL. It
// resolves the repository root via Locate, then the remainder as a
// plain filesystem path under that root; there is no revision history
// here (unlike a real versioned repository, the working copy on disk
// is always "the youngest revision").
type RepoSource struct {
	Locate RepoLocator
}

// Open accepts "repo_name:/path/within/repo". A bare path with no
// "repo_name:" prefix is rejected; use FileSource for that case.
func (s RepoSource) Open(path string) (io.ReadCloser, error) {
	repoName, inner, ok := strings.Cut(path, ":")
	if !ok || !strings.HasPrefix(inner, "/") {
		return nil, &authz.ConfigError{Kind: authz.ErrIllegalTarget, File: path,
			Detail: "repository-relative rules path must be repo_name:/path"}
	}

	root, ok := s.Locate(repoName)
	if !ok {
		return nil, &authz.ConfigError{Kind: authz.ErrReposNotFound, File: path,
			Detail: "no repository named " + repoName}
	}

	full := filepath.Join(root, filepath.FromSlash(inner))
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &authz.ConfigError{Kind: authz.ErrIllegalTarget, File: path,
				Detail: "path does not exist within repository " + repoName}
		}
		return nil, fmt.Errorf("retrieval: stat %s: %w", full, err)
	}
	if info.IsDir() {
		return nil, &authz.ConfigError{Kind: authz.ErrIllegalTarget, File: path,
			Detail: "path within repository " + repoName + " is a directory"}
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("retrieval: open %s: %w", full, err)
	}
	return f, nil
}

// ReadAll drains src and closes it, regardless of error, the shape
// every caller in this repo wants: one []byte to hand to an INI
// parser.
func ReadAll(src Source, path string) ([]byte, error) {
	r, err := src.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
