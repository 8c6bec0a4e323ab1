package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/spack-updater/pkg/domain/interfaces"
	"github.com/m-mizutani/spack-updater/pkg/domain/model"
	"github.com/m-mizutani/spack-updater/pkg/domain/types"
)

const perPage = 100

// ErrNoRelease is returned when a repository has no release at all
var ErrNoRelease = goerr.New("no release found")

type client struct {
	githubClient *github.Client
}

// Option is a functional option for client
type Option func(*client) error

// WithBaseURL replaces the API endpoint, e.g. for GitHub Enterprise or tests
func WithBaseURL(baseURL string) Option {
	return func(c *client) error {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return goerr.Wrap(err, "invalid GitHub API base URL", goerr.V("url", baseURL))
		}
		c.githubClient.BaseURL = u
		return nil
	}
}

// NewClient creates a new GitHub client with App authentication
func NewClient(appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.GitHubClient, error) {
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	return newClient(github.NewClient(&http.Client{Transport: itr}), opts...)
}

// NewTokenClient creates a new GitHub client with a personal access token or GITHUB_TOKEN.
// An empty token creates an anonymous client.
func NewTokenClient(token types.GitHubToken, opts ...Option) (interfaces.GitHubClient, error) {
	githubClient := github.NewClient(nil)
	if token != "" {
		githubClient = githubClient.WithAuthToken(string(token))
	}
	return newClient(githubClient, opts...)
}

func newClient(githubClient *github.Client, opts ...Option) (*client, error) {
	c := &client{githubClient: githubClient}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LatestRelease returns the first entry of the releases listing. go-github fails on any
// non-2xx status before the body is decoded.
func (c *client) LatestRelease(ctx context.Context, repo types.RepoName) (*model.ReleaseInfo, error) {
	releases, _, err := c.githubClient.Repositories.ListReleases(ctx, repo.Owner, repo.Name, &github.ListOptions{
		PerPage: perPage,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list releases", goerr.V("repo", repo.String()))
	}

	if len(releases) == 0 {
		return nil, goerr.Wrap(ErrNoRelease, "repository has no release", goerr.V("repo", repo.String()))
	}

	latest := releases[0]
	return &model.ReleaseInfo{
		TagName:    latest.GetTagName(),
		Name:       latest.GetName(),
		HTMLURL:    latest.GetHTMLURL(),
		TarballURL: latest.GetTarballURL(),
	}, nil
}

// ListOpenIssues returns open issues of the repository, following pagination
func (c *client) ListOpenIssues(ctx context.Context, repo types.RepoName) ([]*model.Issue, error) {
	opt := &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var issues []*model.Issue
	for {
		resp, err := c.listIssuesPage(ctx, repo, opt, &issues)
		if err != nil {
			return nil, err
		}
		if resp.NextPage == 0 {
			break
		}
		opt.ListOptions.Page = resp.NextPage
	}

	return issues, nil
}

func (c *client) listIssuesPage(ctx context.Context, repo types.RepoName, opt *github.IssueListByRepoOptions, out *[]*model.Issue) (*github.Response, error) {
	page, resp, err := c.githubClient.Issues.ListByRepo(ctx, repo.Owner, repo.Name, opt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list issues",
			goerr.V("repo", repo.String()),
			goerr.V("page", opt.ListOptions.Page),
		)
	}

	for _, issue := range page {
		if issue.IsPullRequest() {
			continue
		}
		*out = append(*out, toIssue(issue))
	}

	return resp, nil
}

// CreateIssue opens a new issue
func (c *client) CreateIssue(ctx context.Context, repo types.RepoName, title, body string) (*model.Issue, error) {
	issue, _, err := c.githubClient.Issues.Create(ctx, repo.Owner, repo.Name, &github.IssueRequest{
		Title: github.Ptr(title),
		Body:  github.Ptr(body),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create issue",
			goerr.V("repo", repo.String()),
			goerr.V("title", title),
		)
	}

	return toIssue(issue), nil
}

// EditIssueBody replaces the body of an issue
func (c *client) EditIssueBody(ctx context.Context, repo types.RepoName, number int, body string) error {
	_, _, err := c.githubClient.Issues.Edit(ctx, repo.Owner, repo.Name, number, &github.IssueRequest{
		Body: github.Ptr(body),
	})
	if err != nil {
		return goerr.Wrap(err, "failed to edit issue",
			goerr.V("repo", repo.String()),
			goerr.V("number", number),
		)
	}
	return nil
}

// CloseIssue closes an issue
func (c *client) CloseIssue(ctx context.Context, repo types.RepoName, number int) error {
	_, _, err := c.githubClient.Issues.Edit(ctx, repo.Owner, repo.Name, number, &github.IssueRequest{
		State: github.Ptr("closed"),
	})
	if err != nil {
		return goerr.Wrap(err, "failed to close issue",
			goerr.V("repo", repo.String()),
			goerr.V("number", number),
		)
	}
	return nil
}

func toIssue(issue *github.Issue) *model.Issue {
	return &model.Issue{
		Number:  issue.GetNumber(),
		Title:   issue.GetTitle(),
		HTMLURL: issue.GetHTMLURL(),
	}
}
