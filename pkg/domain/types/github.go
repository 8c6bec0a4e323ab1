package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// GitHubToken is a credential for GitHub API. It is redacted from logs.
type GitHubToken string

// RepoName identifies a GitHub repository as owner/name
type RepoName struct {
	Owner string
	Name  string
}

// ParseRepoName accepts "owner/name" or a github.com URL
func ParseRepoName(s string) (RepoName, error) {
	v := strings.TrimSpace(s)
	if idx := strings.Index(v, "github.com"); idx >= 0 {
		v = v[idx+len("github.com"):]
	}
	v = strings.Trim(strings.TrimPrefix(v, ":"), "/")
	v = strings.TrimSuffix(v, ".git")

	parts := strings.Split(v, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return RepoName{}, goerr.New("invalid repository name", goerr.V("repo", s))
	}

	return RepoName{Owner: parts[0], Name: parts[1]}, nil
}

func (x RepoName) String() string {
	return x.Owner + "/" + x.Name
}

// URL returns the web URL of the repository
func (x RepoName) URL() string {
	return "https://github.com/" + x.String()
}

// IsZero returns true if the repository is not set
func (x RepoName) IsZero() bool {
	return x.Owner == "" && x.Name == ""
}
