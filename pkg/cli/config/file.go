package config

import (
	"bytes"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// File is an optional TOML file with per-package defaults, e.g.
//
//	[release.repos]
//	flux-core = "flux-framework/flux-core"
//
//	[sync]
//	upstream = "spack/spack"
//	branch = "develop"
//	timestamps = "git"
type File struct {
	Path string
}

// FileContent is the decoded configuration file
type FileContent struct {
	Release ReleaseFile `toml:"release"`
	Sync    SyncFile    `toml:"sync"`
}

// ReleaseFile maps package names to their GitHub repositories
type ReleaseFile struct {
	Repos map[string]string `toml:"repos"`
}

// SyncFile holds sync defaults. Command line flags take precedence.
type SyncFile struct {
	Upstream   string `toml:"upstream"`
	Branch     string `toml:"branch"`
	Timestamps string `toml:"timestamps"`
}

// Flags returns CLI flags for the configuration file
func (c *File) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML configuration file",
			Destination: &c.Path,
			Sources:     cli.EnvVars("SPACK_UPDATER_CONFIG"),
		},
	}
}

// Load reads the configuration file. An unset path yields empty content.
func (c *File) Load() (*FileContent, error) {
	var content FileContent
	if c.Path == "" {
		return &content, nil
	}

	raw, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", c.Path))
	}

	decoder := toml.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&content); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", c.Path))
	}

	return &content, nil
}
