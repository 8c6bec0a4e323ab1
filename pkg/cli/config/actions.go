package config

import (
	"github.com/m-mizutani/spack-updater/pkg/infra/actions"
	"github.com/urfave/cli/v3"
)

// Actions holds the files GitHub Actions reads outputs from
type Actions struct {
	EnvPath    string
	OutputPath string
}

// Flags returns CLI flags for the output channel
func (c *Actions) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "env-file",
			Usage:       "File to append environment entries to",
			Destination: &c.EnvPath,
			Sources:     cli.EnvVars("GITHUB_ENV"),
		},
		&cli.StringFlag{
			Name:        "output-file",
			Usage:       "File to append step outputs to",
			Destination: &c.OutputPath,
			Sources:     cli.EnvVars("GITHUB_OUTPUT"),
		},
	}
}

// Output creates the output channel
func (c *Actions) Output() *actions.Output {
	return actions.NewOutput(c.EnvPath, c.OutputPath)
}
