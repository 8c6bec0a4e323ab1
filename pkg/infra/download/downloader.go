package download

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// ErrUnexpectedStatus is returned for any response other than 200 OK
var ErrUnexpectedStatus = goerr.New("unexpected status code")

const defaultTimeout = 5 * time.Minute

// Downloader streams a URL into a writer
type Downloader struct {
	httpClient *http.Client
}

// New creates a Downloader. A nil client uses a default client with a timeout.
func New(httpClient *http.Client) *Downloader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Downloader{httpClient: httpClient}
}

// Download writes the body of url to w. Only 200 OK is accepted.
func (d *Downloader) Download(ctx context.Context, url string, w io.Writer) error {
	logger := ctxlog.From(ctx)
	logger.Debug("Downloading", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create download request", goerr.V("url", url))
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to download", goerr.V("url", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return goerr.Wrap(ErrUnexpectedStatus, "download failed",
			goerr.V("url", url),
			goerr.V("status", resp.StatusCode),
		)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return goerr.Wrap(err, "failed to read response body", goerr.V("url", url))
	}

	logger.Debug("Downloaded", "url", url, "size_bytes", n)
	return nil
}
