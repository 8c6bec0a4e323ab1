package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/spack-updater/pkg/cli/config"
	"github.com/m-mizutani/spack-updater/pkg/domain/types"
	"github.com/m-mizutani/spack-updater/pkg/infra/download"
	"github.com/m-mizutani/spack-updater/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdReleaseCheck() *cli.Command {
	var (
		repo    string
		dryRun  bool
		fileCfg config.File
		ghCfg   config.GitHub
		outCfg  config.Actions
		slack   config.Slack
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "GitHub repository of the package (owner/name). Derived from the package url when omitted or \".\"",
			Destination: &repo,
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Don't write changes to file",
			Destination: &dryRun,
		},
	}
	flags = append(flags, fileCfg.Flags()...)
	flags = append(flags, ghCfg.Flags()...)
	flags = append(flags, outCfg.Flags()...)
	flags = append(flags, slack.Flags()...)

	return &cli.Command{
		Name:      "release-check",
		Aliases:   []string{"r"},
		Usage:     "Add a version line for the latest upstream release of a package",
		ArgsUsage: "<package directory, e.g. packages/flux-core>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			packageDir := c.Args().First()
			if packageDir == "" {
				return goerr.New("package directory is required")
			}
			name := filepath.Base(filepath.Clean(packageDir))

			content, err := fileCfg.Load()
			if err != nil {
				return err
			}
			if (repo == "" || repo == ".") && content.Release.Repos[name] != "" {
				repo = content.Release.Repos[name]
			}

			logger.Info("Starting release check",
				"package", packageDir,
				"repo", repo,
				"dry_run", dryRun,
			)

			githubClient, err := ghCfg.NewClient()
			if err != nil {
				return err
			}

			opts := []usecase.ReleaseOption{
				usecase.WithDryRun(dryRun),
			}
			if repo != "" && repo != "." {
				repoName, err := types.ParseRepoName(repo)
				if err != nil {
					return err
				}
				opts = append(opts, usecase.WithRepo(repoName))
			}
			if notifier := slack.Notifier(); notifier != nil {
				opts = append(opts, usecase.WithReleaseNotifier(notifier))
			}

			uc := usecase.NewRelease(githubClient, download.New(nil), outCfg.Output(), opts...)
			update, err := uc.Check(ctx, packageDir)
			if err != nil {
				return err
			}

			printReleaseSummary(os.Stdout, name, update)
			return nil
		},
	}
}
