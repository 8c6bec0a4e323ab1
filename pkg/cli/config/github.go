package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/spack-updater/pkg/domain/interfaces"
	"github.com/m-mizutani/spack-updater/pkg/domain/types"
	githubinfra "github.com/m-mizutani/spack-updater/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub API credentials and the repository the workflow runs in
type GitHub struct {
	Token          string
	AppID          int64
	InstallationID int64
	PrivateKey     string
	PrivateKeyFile string
	BaseURL        string

	Repository string
	Branch     string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token for API access",
			Destination: &c.Token,
			Sources:     cli.EnvVars("GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID, used instead of the token when set",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("SPACK_UPDATER_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("SPACK_UPDATER_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("SPACK_UPDATER_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key-file",
			Usage:       "Path to GitHub App private key (PEM)",
			Destination: &c.PrivateKeyFile,
			Sources:     cli.EnvVars("SPACK_UPDATER_GITHUB_APP_PRIVATE_KEY_FILE"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub API endpoint",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("GITHUB_API_URL"),
		},
		&cli.StringFlag{
			Name:        "github-repository",
			Usage:       "Repository to open request issues on (owner/name)",
			Destination: &c.Repository,
			Sources:     cli.EnvVars("GITHUB_REPOSITORY"),
		},
		&cli.StringFlag{
			Name:        "github-branch",
			Usage:       "Branch the request originates from",
			Destination: &c.Branch,
			Sources:     cli.EnvVars("GITHUB_REF_NAME"),
		},
	}
}

// AppEnabled returns true if GitHub App authentication is configured
func (c *GitHub) AppEnabled() bool {
	return c.AppID != 0
}

// NewClient creates a GitHub client. App authentication takes precedence over the token,
// and without either the client is anonymous.
func (c *GitHub) NewClient() (interfaces.GitHubClient, error) {
	var opts []githubinfra.Option
	if c.BaseURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.BaseURL))
	}

	if !c.AppEnabled() {
		return githubinfra.NewTokenClient(types.GitHubToken(c.Token), opts...)
	}

	if c.InstallationID == 0 {
		return nil, goerr.New("github-app-installation-id is required with github-app-id")
	}

	key := []byte(c.PrivateKey)
	if len(key) == 0 && c.PrivateKeyFile != "" {
		raw, err := os.ReadFile(c.PrivateKeyFile)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read GitHub App private key", goerr.V("path", c.PrivateKeyFile))
		}
		key = raw
	}
	if len(key) == 0 {
		return nil, goerr.New("GitHub App private key is required with github-app-id")
	}

	return githubinfra.NewClient(c.AppID, c.InstallationID, key, opts...)
}

// RequireAuth fails when neither a token nor a GitHub App is configured
func (c *GitHub) RequireAuth() error {
	if c.Token == "" && !c.AppEnabled() {
		return goerr.New("GITHUB_TOKEN is required")
	}
	return nil
}

// Repo returns the workflow repository, or zero when it is not set
func (c *GitHub) Repo() (types.RepoName, error) {
	if c.Repository == "" {
		return types.RepoName{}, nil
	}
	return types.ParseRepoName(c.Repository)
}
