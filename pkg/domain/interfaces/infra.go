package interfaces

import (
	"context"
	"io"

	"github.com/m-mizutani/spack-updater/pkg/domain/model"
)

// Downloader fetches a URL. It returns ErrNotFound style errors for non-200 responses.
type Downloader interface {
	Download(ctx context.Context, url string, w io.Writer) error
}

// TreeFetcher checks out an upstream repository into dir
type TreeFetcher interface {
	Fetch(ctx context.Context, upstream, branch, dir string) error
}

// StampSource lists files under root with their modification times
type StampSource interface {
	Stamps(ctx context.Context, root string) ([]model.FileStamp, error)
}

// Stager copies every file of a package tree over another and returns the copied paths
type Stager interface {
	Stage(ctx context.Context, src, dst string) ([]string, error)
}

// OutputWriter is the key/value channel back to the calling CI job
type OutputWriter interface {
	// SetOutput writes to both environment and step outputs
	SetOutput(ctx context.Context, key, value string) error
	// SetEnv writes to environment only
	SetEnv(ctx context.Context, key, value string) error
}

// Notifier posts a human readable message to a chat channel
type Notifier interface {
	Notify(ctx context.Context, msg string) error
}
