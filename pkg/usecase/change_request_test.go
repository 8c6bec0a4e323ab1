package usecase_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/spack-updater/pkg/domain/model"
	"github.com/m-mizutani/spack-updater/pkg/domain/types"
	"github.com/m-mizutani/spack-updater/pkg/usecase"
)

var requestRepo = types.RepoName{Owner: "flux-framework", Name: "spack"}

func newUpdateRequest() *model.ChangeRequest {
	return &model.ChangeRequest{
		Action:   model.ActionUpdatePackage,
		Package:  "flux-core",
		Path:     "packages/flux-core",
		Repo:     "flux-framework/spack",
		Upstream: "https://github.com/spack/spack",
	}
}

func openIssues(issues ...*model.Issue) func(context.Context, types.RepoName) ([]*model.Issue, error) {
	return func(ctx context.Context, repo types.RepoName) ([]*model.Issue, error) {
		return issues, nil
	}
}

func TestChangeRequest_Submit(t *testing.T) {
	client := &MockGitHubClient{
		listOpenIssuesFunc: openIssues(&model.Issue{Number: 1, Title: "unrelated"}),
	}
	uc := usecase.NewChangeRequest(client, requestRepo)

	issue, err := uc.Submit(context.Background(), newUpdateRequest())
	gt.NoError(t, err)
	gt.Value(t, issue).NotNil()
	gt.Value(t, issue.Number).Equal(101)

	gt.A(t, client.created).Length(1)
	gt.Value(t, client.created[0].Repo).Equal(requestRepo)
	gt.Value(t, client.created[0].Title).Equal("[package-update] request to update flux-core")
	gt.String(t, client.created[0].Body).Contains("action: update-package")
	gt.String(t, client.created[0].Body).Contains("path: packages/flux-core")
	gt.String(t, client.created[0].Body).Contains("https://github.com/spack/spack/issues/new?")
	gt.A(t, client.closed).Length(0)
}

func TestChangeRequest_DuplicateSkipped(t *testing.T) {
	client := &MockGitHubClient{
		listOpenIssuesFunc: openIssues(&model.Issue{
			Number: 7,
			Title:  "  [package-update] request to update flux-core \n",
		}),
	}
	uc := usecase.NewChangeRequest(client, requestRepo)

	issue, err := uc.Submit(context.Background(), newUpdateRequest())
	gt.NoError(t, err)
	gt.Value(t, issue).Nil()
	gt.A(t, client.created).Length(0)
	gt.A(t, client.closed).Length(0)
}

func TestChangeRequest_Replace(t *testing.T) {
	client := &MockGitHubClient{
		listOpenIssuesFunc: openIssues(
			&model.Issue{Number: 3, Title: "other"},
			&model.Issue{Number: 7, Title: "[package-update] request to update flux-core"},
		),
	}
	uc := usecase.NewChangeRequest(client, requestRepo, usecase.WithReplace(true))

	issue, err := uc.Submit(context.Background(), newUpdateRequest())
	gt.NoError(t, err)
	gt.Value(t, issue).NotNil()
	gt.Value(t, client.closed).Equal([]int{7})
	gt.A(t, client.created).Length(1)
}

func TestChangeRequest_NoRepo(t *testing.T) {
	client := &MockGitHubClient{
		listOpenIssuesFunc: func(ctx context.Context, repo types.RepoName) ([]*model.Issue, error) {
			t.Error("issues must not be listed without a target repository")
			return nil, nil
		},
	}
	uc := usecase.NewChangeRequest(client, types.RepoName{})

	issue, err := uc.Submit(context.Background(), newUpdateRequest())
	gt.NoError(t, err)
	gt.Value(t, issue).Nil()
	gt.A(t, client.created).Length(0)
}

func TestChangeRequest_ListFailure(t *testing.T) {
	client := &MockGitHubClient{
		listOpenIssuesFunc: func(ctx context.Context, repo types.RepoName) ([]*model.Issue, error) {
			return nil, errors.New("rate limited")
		},
	}
	uc := usecase.NewChangeRequest(client, requestRepo)

	_, err := uc.Submit(context.Background(), newUpdateRequest())
	gt.Error(t, err)
	gt.A(t, client.created).Length(0)
}

func TestChangeRequest_RequestPullRequest(t *testing.T) {
	client := &MockGitHubClient{}
	uc := usecase.NewChangeRequest(client, requestRepo)

	issue, err := uc.RequestPullRequest(context.Background(), &model.PullRequestRequest{
		Upstream: model.RepoRef{Owner: "spack", Name: "spack", Branch: "develop"},
		Head:     model.RepoRef{Owner: "flux-framework", Name: "spack", Branch: "update-flux-core"},
	})
	gt.NoError(t, err)
	gt.Value(t, issue.Number).Equal(101)

	gt.A(t, client.created).Length(1)
	gt.Value(t, client.created[0].Title).Equal("[package-update] request to open pull request.")

	gt.A(t, client.edited).Length(1)
	gt.Value(t, client.edited[0].Number).Equal(101)

	body := client.edited[0].Body
	gt.String(t, body).Contains("https://github.com/spack/spack/compare/develop...flux-framework:spack:update-flux-core?")

	start := strings.Index(body, "](") + 2
	link, err := url.Parse(body[start : len(body)-len(")\n")])
	gt.NoError(t, err)
	gt.Value(t, link.Query().Get("expand")).Equal("1")
	gt.Value(t, link.Query().Get("body")).Equal("This pull request was requested by flux-framework/spack#101")
}

func TestChangeRequest_RequestPullRequestDuplicate(t *testing.T) {
	client := &MockGitHubClient{
		listOpenIssuesFunc: openIssues(&model.Issue{Number: 9, Title: model.PullRequestTitle}),
	}
	uc := usecase.NewChangeRequest(client, requestRepo)

	issue, err := uc.RequestPullRequest(context.Background(), &model.PullRequestRequest{
		Upstream: model.RepoRef{Owner: "spack", Name: "spack", Branch: "develop"},
		Head:     model.RepoRef{Owner: "flux-framework", Name: "spack", Branch: "main"},
	})
	gt.NoError(t, err)
	gt.Value(t, issue).Nil()
	gt.A(t, client.created).Length(0)
	gt.A(t, client.edited).Length(0)
}

func TestChangeRequest_RequestPullRequestNeedsRepo(t *testing.T) {
	uc := usecase.NewChangeRequest(&MockGitHubClient{}, types.RepoName{})

	_, err := uc.RequestPullRequest(context.Background(), &model.PullRequestRequest{})
	gt.Error(t, err)
}
