package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/spack-updater/pkg/cli/config"
	"github.com/m-mizutani/spack-updater/pkg/infra/git"
	"github.com/m-mizutani/spack-updater/pkg/infra/tree"
	"github.com/m-mizutani/spack-updater/pkg/usecase"
	"github.com/urfave/cli/v3"
)

const (
	defaultUpstream = "https://github.com/spack/spack"
	defaultBranch   = "develop"
)

func cmdSync() *cli.Command {
	var (
		repoDir  string
		upstream string
		branch   string
		submit   bool
		replace  bool
		stampCfg config.Timestamps
		fileCfg  config.File
		ghCfg    config.GitHub
		outCfg   config.Actions
		slack    config.Slack
	)

	cwd, _ := os.Getwd()

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Repository directory holding packages/",
			Value:       cwd,
			Destination: &repoDir,
		},
		&cli.StringFlag{
			Name:        "upstream",
			Usage:       "Upstream repository to sync with (URL, owner/name or local path)",
			Value:       defaultUpstream,
			Destination: &upstream,
			Sources:     cli.EnvVars("SPACK_UPDATER_UPSTREAM"),
		},
		&cli.StringFlag{
			Name:        "branch",
			Usage:       "Upstream branch",
			Value:       defaultBranch,
			Destination: &branch,
			Sources:     cli.EnvVars("SPACK_UPDATER_UPSTREAM_BRANCH"),
		},
		&cli.BoolFlag{
			Name:        "pull-request",
			Aliases:     []string{"pull_request"},
			Usage:       "Open a request issue when local changes should go upstream",
			Destination: &submit,
		},
		&cli.BoolFlag{
			Name:        "replace",
			Usage:       "Close an open request issue for the package and open a new one",
			Destination: &replace,
		},
	}
	flags = append(flags, stampCfg.Flags()...)
	flags = append(flags, fileCfg.Flags()...)
	flags = append(flags, ghCfg.Flags()...)
	flags = append(flags, outCfg.Flags()...)
	flags = append(flags, slack.Flags()...)

	return &cli.Command{
		Name:      "sync",
		Aliases:   []string{"s"},
		Usage:     "Compare a package with upstream and stage or request changes",
		ArgsUsage: "<package name>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			name := c.Args().First()
			if name == "" {
				return goerr.New("package name is required")
			}

			content, err := fileCfg.Load()
			if err != nil {
				return err
			}
			if !c.IsSet("upstream") && content.Sync.Upstream != "" {
				upstream = content.Sync.Upstream
			}
			if !c.IsSet("branch") && content.Sync.Branch != "" {
				branch = content.Sync.Branch
			}
			if !c.IsSet("timestamps") && content.Sync.Timestamps != "" {
				stampCfg.Source = content.Sync.Timestamps
			}

			stamps, err := stampCfg.StampSource()
			if err != nil {
				return err
			}

			source, err := ghCfg.Repo()
			if err != nil {
				return err
			}

			logger.Info("Starting package sync",
				"package", name,
				"repo", repoDir,
				"upstream", upstream,
				"branch", branch,
				"timestamps", stampCfg.Source,
			)

			opts := []usecase.SyncOption{
				usecase.WithUpstream(upstream, branch),
				usecase.WithSource(source, ghCfg.Branch),
			}
			if notifier := slack.Notifier(); notifier != nil {
				opts = append(opts, usecase.WithSyncNotifier(notifier))
			}

			syncUC, err := usecase.NewSync(repoDir, git.NewFetcher(), stamps, tree.Stager{}, outCfg.Output(), opts...)
			if err != nil {
				return err
			}

			result, err := syncUC.Diff(ctx, name)
			if err != nil {
				return err
			}
			printSyncSummary(os.Stdout, name, result)

			if result.Request == nil {
				return nil
			}
			if !submit {
				payload, err := result.Request.Payload()
				if err != nil {
					return err
				}
				logger.Info("Change request is not submitted without --pull-request",
					"title", result.Request.Title(),
					"payload", payload,
				)
				return nil
			}

			if source.IsZero() {
				logger.Warn("GITHUB_REPOSITORY is not set, change request is only printed")
			} else if err := ghCfg.RequireAuth(); err != nil {
				return err
			}

			githubClient, err := ghCfg.NewClient()
			if err != nil {
				return err
			}

			issue, err := usecase.NewChangeRequest(githubClient, source, usecase.WithReplace(replace)).Submit(ctx, result.Request)
			if err != nil {
				return err
			}
			printIssue(os.Stdout, issue)
			return nil
		},
	}
}
