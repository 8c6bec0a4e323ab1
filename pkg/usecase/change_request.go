package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/spack-updater/pkg/domain/interfaces"
	"github.com/m-mizutani/spack-updater/pkg/domain/model"
	"github.com/m-mizutani/spack-updater/pkg/domain/types"
)

type changeRequestUseCase struct {
	githubClient interfaces.GitHubClient
	repo         types.RepoName
	replace      bool
}

// ChangeRequestOption is a functional option for the change request use case
type ChangeRequestOption func(*changeRequestUseCase)

// WithReplace closes an existing open issue with the same title and opens a new one
// instead of leaving it as is
func WithReplace(replace bool) ChangeRequestOption {
	return func(uc *changeRequestUseCase) {
		uc.replace = replace
	}
}

// NewChangeRequest creates a use case opening issues on repo. A zero repo only prints requests.
func NewChangeRequest(githubClient interfaces.GitHubClient, repo types.RepoName, opts ...ChangeRequestOption) interfaces.ChangeRequestUseCase {
	uc := &changeRequestUseCase{
		githubClient: githubClient,
		repo:         repo,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Submit opens an issue for req unless an open issue with the same title exists
func (uc *changeRequestUseCase) Submit(ctx context.Context, req *model.ChangeRequest) (*model.Issue, error) {
	logger := ctxlog.From(ctx)

	title := req.Title()
	body, err := req.Body()
	if err != nil {
		return nil, err
	}

	logger.Info("Change request", "title", title, "body", body)

	if uc.repo.IsZero() {
		logger.Info("Target repository is not set, change request is not submitted", "title", title)
		return nil, nil
	}

	proceed, err := uc.resolveDuplicate(ctx, title)
	if err != nil || !proceed {
		return nil, err
	}

	issue, err := uc.githubClient.CreateIssue(ctx, uc.repo, title, body)
	if err != nil {
		return nil, err
	}

	logger.Info("Opened request issue", "url", issue.HTMLURL, "number", issue.Number)
	return issue, nil
}

// RequestPullRequest opens an issue with a link to open the pull request. The link is added
// after creation so that the pull request body can reference the issue number.
func (uc *changeRequestUseCase) RequestPullRequest(ctx context.Context, req *model.PullRequestRequest) (*model.Issue, error) {
	logger := ctxlog.From(ctx)

	if uc.repo.IsZero() {
		return nil, goerr.New("target repository is required to request a pull request")
	}

	title := model.PullRequestTitle
	body := "This is a request to open a pull request for a package update.\n\n"

	proceed, err := uc.resolveDuplicate(ctx, title)
	if err != nil || !proceed {
		return nil, err
	}

	issue, err := uc.githubClient.CreateIssue(ctx, uc.repo, title, body)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("expand", "1")
	q.Set("body", fmt.Sprintf("This pull request was requested by %s#%d", uc.repo.String(), issue.Number))
	link := req.CompareURL() + "?" + q.Encode()
	body += fmt.Sprintf("[Click here to open the pull request](%s)\n", link)

	if err := uc.githubClient.EditIssueBody(ctx, uc.repo, issue.Number, body); err != nil {
		return nil, err
	}

	logger.Info("Opened pull request issue", "url", issue.HTMLURL, "number", issue.Number, "compare", link)
	return issue, nil
}

// resolveDuplicate returns false when an open issue titled title already exists and must be kept.
// The title check and creation are not atomic; concurrent runs may still open duplicates.
func (uc *changeRequestUseCase) resolveDuplicate(ctx context.Context, title string) (bool, error) {
	logger := ctxlog.From(ctx)

	issues, err := uc.githubClient.ListOpenIssues(ctx, uc.repo)
	if err != nil {
		return false, goerr.Wrap(err, "failed to retrieve previous issues")
	}

	for _, issue := range issues {
		if strings.TrimSpace(issue.Title) != strings.TrimSpace(title) {
			continue
		}

		if !uc.replace {
			logger.Info("Request already has an issue opened, not re-opening",
				"title", title,
				"number", issue.Number,
				"url", issue.HTMLURL,
			)
			return false, nil
		}

		logger.Info("Closing old request issue", "number", issue.Number)
		if err := uc.githubClient.CloseIssue(ctx, uc.repo, issue.Number); err != nil {
			return false, err
		}
	}

	return true, nil
}
