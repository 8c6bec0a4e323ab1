package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/spack-updater/pkg/domain/interfaces"
	"github.com/m-mizutani/spack-updater/pkg/domain/model"
	"github.com/m-mizutani/spack-updater/pkg/domain/types"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	// ErrDownloadFailed is returned when no download strategy yields the release archive
	ErrDownloadFailed = goerr.New("failed to download new release. If there isn't support for the archive type, open an issue to request it")

	// ErrUnsupportedHost is returned when the repository cannot be derived from a non GitHub URL
	ErrUnsupportedHost = goerr.New("release updates are only supported for GitHub, please open an issue with your setup")

	// ErrCurrentVersionNotFound is returned when neither package.py nor VERSION has a version
	ErrCurrentVersionNotFound = goerr.New("current version is not found in package")
)

var numericVersionPattern = regexp.MustCompile(`(\d+\.)?(\d+\.)?(\*|\d+)`)

const defaultWebBaseURL = "https://github.com"

type releaseUseCase struct {
	githubClient interfaces.GitHubClient
	downloader   interfaces.Downloader
	output       interfaces.OutputWriter
	notifier     interfaces.Notifier

	repo       types.RepoName
	dryRun     bool
	webBaseURL string
}

// ReleaseOption is a functional option for the release use case
type ReleaseOption func(*releaseUseCase)

// WithRepo sets the upstream repository. Without it the repository is derived from the url of package.py.
func WithRepo(repo types.RepoName) ReleaseOption {
	return func(uc *releaseUseCase) {
		uc.repo = repo
	}
}

// WithDryRun reports digest and identifier without rewriting package files
func WithDryRun(dryRun bool) ReleaseOption {
	return func(uc *releaseUseCase) {
		uc.dryRun = dryRun
	}
}

// WithReleaseNotifier posts a message when a new release is applied
func WithReleaseNotifier(notifier interfaces.Notifier) ReleaseOption {
	return func(uc *releaseUseCase) {
		uc.notifier = notifier
	}
}

// WithWebBaseURL replaces https://github.com for constructed download URLs
func WithWebBaseURL(baseURL string) ReleaseOption {
	return func(uc *releaseUseCase) {
		uc.webBaseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// NewRelease creates a new instance of ReleaseUseCase
func NewRelease(
	githubClient interfaces.GitHubClient,
	downloader interfaces.Downloader,
	output interfaces.OutputWriter,
	opts ...ReleaseOption,
) interfaces.ReleaseUseCase {
	uc := &releaseUseCase{
		githubClient: githubClient,
		downloader:   downloader,
		output:       output,
		webBaseURL:   defaultWebBaseURL,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Check compares the latest upstream release with the recorded version and applies it if different
func (uc *releaseUseCase) Check(ctx context.Context, packageDir string) (*model.ReleaseUpdate, error) {
	logger := ctxlog.From(ctx)

	record, err := model.LoadPackage(packageDir)
	if err != nil {
		return nil, err
	}

	repo, err := uc.resolveRepo(record)
	if err != nil {
		return nil, err
	}
	record.Repo = repo

	if record.CurrentVersion == "" {
		return nil, goerr.Wrap(ErrCurrentVersionNotFound, "cannot check release", goerr.V("package", record.Name))
	}

	logger.Info("Checking release",
		"package", record.Name,
		"repo", repo.String(),
		"current_version", record.CurrentVersion,
		"download_url", record.DownloadURL,
	)

	latest, err := uc.githubClient.LatestRelease(ctx, repo)
	if err != nil {
		return nil, err
	}

	if model.IsSameVersion(latest.TagName, record.CurrentVersion) {
		logger.Info("No new version found", "package", record.Name, "tag", latest.TagName)
		return nil, nil
	}

	logger.Info("New version detected",
		"package", record.Name,
		"tag", latest.TagName,
		"current_version", record.CurrentVersion,
	)

	return uc.apply(ctx, record, latest)
}

func (uc *releaseUseCase) resolveRepo(record *model.PackageRecord) (types.RepoName, error) {
	if !uc.repo.IsZero() {
		return uc.repo, nil
	}

	if !strings.Contains(record.DownloadURL, "github.com") {
		return types.RepoName{}, goerr.Wrap(ErrUnsupportedHost, "cannot derive repository",
			goerr.V("package", record.Name),
			goerr.V("url", record.DownloadURL),
		)
	}

	return types.ParseRepoName(record.DownloadURL)
}

func (uc *releaseUseCase) apply(ctx context.Context, record *model.PackageRecord, latest *model.ReleaseInfo) (*model.ReleaseUpdate, error) {
	logger := ctxlog.From(ctx)
	version := model.NakedVersion(latest.TagName)

	url, digest, err := uc.downloadDigest(ctx, record, latest.TagName, version)
	if err != nil {
		return nil, err
	}

	update := &model.ReleaseUpdate{
		Package: record.Name,
		Release: latest,
		Version: version,
		Digest:  digest,
		URL:     url,
	}

	original := record.Definition.String()
	if err := record.Definition.InsertVersion(record.CurrentVersion, version, digest); err != nil {
		return nil, err
	}

	if err := uc.output.SetOutput(ctx, "package", update.Spec()); err != nil {
		return nil, err
	}
	if err := uc.output.SetOutput(ctx, "digest", digest); err != nil {
		return nil, err
	}

	if uc.dryRun {
		logger.Info("Dry run, package file is not modified",
			"package", record.Name,
			"diff", previewDiff(original, record.Definition.String()),
		)
		return update, nil
	}

	if err := writeFileAtomic(record.DefinitionPath(), record.Definition.String()); err != nil {
		return nil, err
	}

	// VERSION is only maintained by packages that already have one
	if current, err := model.ReadVersionFile(record.VersionPath()); err != nil {
		return nil, err
	} else if current != "" {
		if err := model.WriteVersionFile(record.VersionPath(), version); err != nil {
			return nil, err
		}
	}
	update.Written = true

	logger.Info("Updated package file",
		"package", record.Name,
		"version", version,
		"digest", digest,
		"path", record.DefinitionPath(),
	)

	if err := uc.output.SetOutput(ctx, "version", latest.TagName); err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		msg := fmt.Sprintf("New release of %s detected: %s (%s)", record.Name, latest.TagName, latest.HTMLURL)
		if err := uc.notifier.Notify(ctx, msg); err != nil {
			logger.Warn("Failed to notify new release", "error", err)
		}
	}

	return update, nil
}

// downloadURLs returns download candidates in order of preference
func (uc *releaseUseCase) downloadURLs(record *model.PackageRecord, tag, version string) []string {
	var urls []string

	if record.DownloadURL != "" {
		if record.CurrentVersion != "" && strings.Contains(record.DownloadURL, record.CurrentVersion) {
			urls = append(urls, strings.ReplaceAll(record.DownloadURL, record.CurrentVersion, version))
		} else if match := numericVersionPattern.FindString(record.DownloadURL); match != "" {
			urls = append(urls, strings.ReplaceAll(record.DownloadURL, match, version))
		}
	}

	base := uc.webBaseURL + "/" + record.Repo.String()
	urls = append(urls,
		fmt.Sprintf("%s/releases/download/%s/%s-%s.tar.gz", base, tag, record.Name, version),
		fmt.Sprintf("%s/archive/refs/tags/%s.tar.gz", base, version),
	)

	return urls
}

// downloadDigest tries each candidate URL and returns the sha256 of the first one served with 200
func (uc *releaseUseCase) downloadDigest(ctx context.Context, record *model.PackageRecord, tag, version string) (string, string, error) {
	logger := ctxlog.From(ctx)
	urls := uc.downloadURLs(record, tag, version)

	for _, url := range urls {
		hasher := sha256.New()
		if err := uc.downloader.Download(ctx, url, hasher); err != nil {
			logger.Info("Download candidate failed", "url", url, "error", err)
			continue
		}

		digest := hex.EncodeToString(hasher.Sum(nil))
		logger.Info("Downloaded release archive", "url", url, "digest", digest)
		return url, digest, nil
	}

	return "", "", goerr.Wrap(ErrDownloadFailed, "all download candidates failed",
		goerr.V("package", record.Name),
		goerr.V("tag", tag),
		goerr.V("urls", urls),
	)
}

func writeFileAtomic(path, content string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary file", goerr.V("path", path))
	}
	defer func() {
		_ = os.Remove(tmp.Name()) // no-op after a successful rename
	}()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to write temporary file", goerr.V("path", tmp.Name()))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close temporary file", goerr.V("path", tmp.Name()))
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return goerr.Wrap(err, "failed to set file mode", goerr.V("path", tmp.Name()))
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return goerr.Wrap(err, "failed to replace package file", goerr.V("path", path))
	}
	return nil
}

func previewDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			sb.WriteString(prefix + line + "\n")
		}
	}
	return sb.String()
}
