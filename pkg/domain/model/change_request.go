package model

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// ChangeAction is an intent of a change request
type ChangeAction string

const (
	ActionNewPackage    ChangeAction = "new-package"
	ActionUpdatePackage ChangeAction = "update-package"
)

// TitlePrefix marks issues handled by spack-updater
const TitlePrefix = "[package-update]"

// ChangeRequest is an intent to push a local package to the upstream
type ChangeRequest struct {
	Action  ChangeAction `yaml:"action"`
	Package string       `yaml:"package"`
	Path    string       `yaml:"path"`
	Repo    string       `yaml:"repo,omitempty"`
	Branch  string       `yaml:"branch,omitempty"`

	// Upstream is where the request is finally addressed to, e.g. https://github.com/spack/spack
	Upstream string `yaml:"-"`
}

// Title is shared by every request for the same package so that duplicates can be detected
func (x *ChangeRequest) Title() string {
	return fmt.Sprintf("%s request to update %s", TitlePrefix, x.Package)
}

// Payload is the machine readable part of the issue body
func (x *ChangeRequest) Payload() (string, error) {
	raw, err := yaml.Marshal(x)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal change request", goerr.V("package", x.Package))
	}
	return string(raw), nil
}

// Body is the issue body embedding the payload and a link to file the request upstream
func (x *ChangeRequest) Body() (string, error) {
	payload, err := x.Payload()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("This is a request for an automated package update. ")
	b.WriteString("Add the spack-updater label to this issue to trigger it.\n\n")
	b.WriteString(payload)

	if x.Upstream != "" {
		q := url.Values{}
		q.Set("labels", "package-update")
		q.Set("title", x.Title())
		q.Set("body", payload)
		fmt.Fprintf(&b, "\n - [Click here to request the update](%s/issues/new?%s)\n",
			strings.TrimSuffix(x.Upstream, "/"), q.Encode())
	}

	return b.String(), nil
}

// Issue is an issue on GitHub
type Issue struct {
	Number  int
	Title   string
	HTMLURL string
}

// PullRequestTitle is the title of an issue asking to open a pull request
const PullRequestTitle = TitlePrefix + " request to open pull request."

// PullRequestRequest asks maintainers to open a pull request from a fork branch
type PullRequestRequest struct {
	Upstream RepoRef // repository the pull request targets, e.g. spack/spack at develop
	Head     RepoRef // fork and branch holding the changes
}

// RepoRef is a repository with a branch
type RepoRef struct {
	Owner  string
	Name   string
	Branch string
}

// CompareURL is the GitHub page that opens the pull request
func (x *PullRequestRequest) CompareURL() string {
	return fmt.Sprintf("https://github.com/%s/%s/compare/%s...%s:%s:%s",
		x.Upstream.Owner, x.Upstream.Name, x.Upstream.Branch,
		x.Head.Owner, x.Head.Name, x.Head.Branch,
	)
}
