package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/spack-updater/pkg/cli/config"
	"github.com/m-mizutani/spack-updater/pkg/domain/model"
	"github.com/m-mizutani/spack-updater/pkg/domain/types"
	"github.com/m-mizutani/spack-updater/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdRequestPR() *cli.Command {
	var (
		upstream   string
		base       string
		branchFrom string
		replace    bool
		ghCfg      config.GitHub
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "upstream",
			Usage:       "Repository the pull request targets (owner/name)",
			Value:       "spack/spack",
			Destination: &upstream,
		},
		&cli.StringFlag{
			Name:        "base",
			Usage:       "Base branch of the pull request",
			Value:       defaultBranch,
			Destination: &base,
		},
		&cli.StringFlag{
			Name:        "branch-from",
			Usage:       "Branch holding the changes",
			Destination: &branchFrom,
			Sources:     cli.EnvVars("BRANCH_FROM"),
		},
		&cli.BoolFlag{
			Name:        "replace",
			Usage:       "Close an open request issue and open a new one",
			Destination: &replace,
		},
	}
	flags = append(flags, ghCfg.Flags()...)

	return &cli.Command{
		Name:  "request-pr",
		Usage: "Open an issue with a link to open a pull request against upstream",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := ghCfg.RequireAuth(); err != nil {
				return err
			}

			head, err := ghCfg.Repo()
			if err != nil {
				return err
			}
			if head.IsZero() || branchFrom == "" {
				return goerr.New("GITHUB_REPOSITORY and BRANCH_FROM are required",
					goerr.V("repository", ghCfg.Repository),
					goerr.V("branch_from", branchFrom),
				)
			}

			upstreamRepo, err := types.ParseRepoName(upstream)
			if err != nil {
				return err
			}

			ctxlog.From(ctx).Info("Requesting pull request",
				"repo", head.String(),
				"branch_from", branchFrom,
				"upstream", upstreamRepo.String(),
				"base", base,
			)

			githubClient, err := ghCfg.NewClient()
			if err != nil {
				return err
			}

			issue, err := usecase.NewChangeRequest(githubClient, head, usecase.WithReplace(replace)).
				RequestPullRequest(ctx, &model.PullRequestRequest{
					Upstream: model.RepoRef{Owner: upstreamRepo.Owner, Name: upstreamRepo.Name, Branch: base},
					Head:     model.RepoRef{Owner: head.Owner, Name: head.Name, Branch: branchFrom},
				})
			if err != nil {
				return err
			}

			printIssue(os.Stdout, issue)
			return nil
		},
	}
}
