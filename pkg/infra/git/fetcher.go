package git

import (
	"context"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Fetcher checks out an upstream repository with a shallow clone
type Fetcher struct{}

// NewFetcher creates a Fetcher
func NewFetcher() *Fetcher {
	return &Fetcher{}
}

// UpstreamURL expands "org/name" into a GitHub URL. URLs and local paths are kept as is.
func UpstreamURL(upstream string) string {
	switch {
	case strings.HasPrefix(upstream, "http"),
		strings.HasPrefix(upstream, "git@"),
		strings.HasPrefix(upstream, "file://"),
		strings.HasPrefix(upstream, "/"),
		strings.HasPrefix(upstream, "."):
		return upstream
	default:
		return "https://github.com/" + upstream
	}
}

// Fetch clones upstream into dir at depth 1. An empty branch uses the default branch.
func (x *Fetcher) Fetch(ctx context.Context, upstream, branch, dir string) error {
	logger := ctxlog.From(ctx)
	url := UpstreamURL(upstream)

	opt := &git.CloneOptions{
		URL:          url,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	}
	if branch != "" {
		opt.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}

	logger.Info("Cloning upstream", "url", url, "branch", branch, "dir", dir)
	if _, err := git.PlainCloneContext(ctx, dir, false, opt); err != nil {
		return goerr.Wrap(err, "failed to clone upstream repository",
			goerr.V("url", url),
			goerr.V("branch", branch),
		)
	}

	return nil
}
