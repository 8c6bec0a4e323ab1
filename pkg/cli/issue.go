package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/spack-updater/pkg/cli/config"
	"github.com/m-mizutani/spack-updater/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdParseIssue() *cli.Command {
	var (
		title  string
		outCfg config.Actions
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "title",
			Usage:       "Issue title. Issues not titled as package update requests are ignored",
			Destination: &title,
			Sources:     cli.EnvVars("title"),
		},
	}
	flags = append(flags, outCfg.Flags()...)

	return &cli.Command{
		Name:      "parse-issue",
		Usage:     "Export key: value lines of an issue body as environment entries",
		ArgsUsage: "<path to issue text file>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				return goerr.New("path to issue text file is required")
			}

			ctxlog.From(ctx).Info("Parsing issue", "path", path, "title", title)

			fields, err := usecase.NewIssueParser(outCfg.Output()).Parse(ctx, path, title)
			if err != nil {
				return err
			}

			for _, field := range fields {
				colorKey.Fprintf(os.Stdout, "%s%s", usecase.IssueEnvPrefix, field.Key)
				fmt.Fprintf(os.Stdout, "=%s\n", field.Value)
			}
			return nil
		},
	}
}
