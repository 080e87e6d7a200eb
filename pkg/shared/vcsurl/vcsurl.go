package vcsurl

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/scan-io-git/pomscan/pkg/shared"
)

// GetPathDirs splits a URL path into its non-empty segments.
func GetPathDirs(path string) []string {
	var dirs []string
	for _, dir := range strings.Split(path, "/") {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// ParseRepositoryRef turns a repository reference into a project key and slug.
// Supported forms:
//   - KEY/slug
//   - https://bitbucket.com/projects/<KEY>/repos/<slug>[/browse...]
//   - https://bitbucket.com/scm/<key>/<slug>.git
//   - ssh://git@bitbucket.com:7999/<key>/<slug>.git
//
// Project keys are upper-cased since Bitbucket SCM and SSH URLs carry them in lower case.
func ParseRepositoryRef(raw string) (shared.RepositoryRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return shared.RepositoryRef{}, fmt.Errorf("empty repository reference")
	}

	if !strings.Contains(raw, "://") {
		return parseShortRef(raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return shared.RepositoryRef{}, fmt.Errorf("invalid repository URL %q: %w", raw, err)
	}
	return parseBitbucket(u, raw)
}

func parseShortRef(raw string) (shared.RepositoryRef, error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return shared.RepositoryRef{}, fmt.Errorf("invalid repository reference %q, expected KEY/slug", raw)
	}
	return shared.RepositoryRef{ProjectKey: parts[0], RepoSlug: parts[1]}, nil
}

func parseBitbucket(u *url.URL, raw string) (shared.RepositoryRef, error) {
	pathDirs := GetPathDirs(u.Path)
	isHTTP := u.Scheme == "http" || u.Scheme == "https"

	switch {
	// Web UI URL format - https://bitbucket.com/projects/<project_name>/repos/<repo_name>/browse
	// The server may live under a context path, so the anchor is searched for.
	case isHTTP && indexOf(pathDirs, "projects") >= 0:
		i := indexOf(pathDirs, "projects")
		if len(pathDirs) > i+3 && pathDirs[i+2] == "repos" {
			return shared.RepositoryRef{ProjectKey: pathDirs[i+1], RepoSlug: pathDirs[i+3]}, nil
		}
	// SCM path - https://bitbucket.com/scm/<project_name>/<repo_name>.git
	case isHTTP && indexOf(pathDirs, "scm") >= 0:
		i := indexOf(pathDirs, "scm")
		if len(pathDirs) == i+3 {
			return shared.RepositoryRef{
				ProjectKey: strings.ToUpper(pathDirs[i+1]),
				RepoSlug:   strings.TrimSuffix(pathDirs[i+2], ".git"),
			}, nil
		}
	// SSH path - ssh://git@bitbucket.com:7999/<project_name>/<repo_name>.git
	case u.Scheme == "ssh":
		if len(pathDirs) == 2 && !strings.HasPrefix(pathDirs[0], "~") {
			return shared.RepositoryRef{
				ProjectKey: strings.ToUpper(pathDirs[0]),
				RepoSlug:   strings.TrimSuffix(pathDirs[1], ".git"),
			}, nil
		}
	}
	return shared.RepositoryRef{}, fmt.Errorf("invalid Bitbucket repository URL: %q", raw)
}

func indexOf(dirs []string, name string) int {
	for i, d := range dirs {
		if d == name {
			return i
		}
	}
	return -1
}
