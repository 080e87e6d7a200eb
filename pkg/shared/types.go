package shared

import "fmt"

// RepositoryRef identifies one Bitbucket repository by project key and repository slug.
type RepositoryRef struct {
	ProjectKey string `json:"project_key" yaml:"project_key"`
	RepoSlug   string `json:"repo_slug" yaml:"repo_slug"`
}

// String returns the reference in the KEY/slug form used in logs and flags.
func (r RepositoryRef) String() string {
	return fmt.Sprintf("%s/%s", r.ProjectKey, r.RepoSlug)
}

// VersionRecord is one reported (repository, file, tag, value) tuple.
type VersionRecord struct {
	ProjectKey string `json:"project_key"`
	RepoSlug   string `json:"repo_slug"`
	FilePath   string `json:"file_path"`
	Tag        string `json:"version_tag"`
	Value      string `json:"version"`
}
