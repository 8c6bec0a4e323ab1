package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/spack-updater/pkg/domain/interfaces"
	"github.com/m-mizutani/spack-updater/pkg/infra/git"
	"github.com/m-mizutani/spack-updater/pkg/infra/tree"
	"github.com/urfave/cli/v3"
)

const (
	TimestampsGit   = "git"
	TimestampsMtime = "mtime"
)

// Timestamps selects where file times for the sync comparison come from
type Timestamps struct {
	Source string
}

// Flags returns CLI flags for the timestamp source
func (c *Timestamps) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "timestamps",
			Usage:       "Source of file timestamps (git, mtime). mtime marks every file of a fresh clone as newer than the local checkout",
			Value:       TimestampsGit,
			Destination: &c.Source,
			Sources:     cli.EnvVars("SPACK_UPDATER_TIMESTAMPS"),
		},
	}
}

// StampSource returns the configured source
func (c *Timestamps) StampSource() (interfaces.StampSource, error) {
	switch c.Source {
	case TimestampsGit:
		return git.CommitTimeSource{}, nil
	case TimestampsMtime:
		return tree.ModTimeSource{}, nil
	default:
		return nil, goerr.New("unsupported timestamp source", goerr.V("timestamps", c.Source))
	}
}
