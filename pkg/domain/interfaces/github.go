package interfaces

import (
	"context"

	"github.com/m-mizutani/spack-updater/pkg/domain/model"
	"github.com/m-mizutani/spack-updater/pkg/domain/types"
)

// GitHubClient defines operations for interacting with GitHub API
type GitHubClient interface {
	// LatestRelease returns the first entry of the releases listing
	LatestRelease(ctx context.Context, repo types.RepoName) (*model.ReleaseInfo, error)

	// ListOpenIssues returns open issues of the repository. Pull requests are excluded.
	ListOpenIssues(ctx context.Context, repo types.RepoName) ([]*model.Issue, error)

	// CreateIssue opens a new issue
	CreateIssue(ctx context.Context, repo types.RepoName, title, body string) (*model.Issue, error)

	// EditIssueBody replaces the body of an issue
	EditIssueBody(ctx context.Context, repo types.RepoName, number int, body string) error

	// CloseIssue closes an issue
	CloseIssue(ctx context.Context, repo types.RepoName, number int) error
}
