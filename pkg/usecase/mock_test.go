package usecase_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/spack-updater/pkg/domain/model"
	"github.com/m-mizutani/spack-updater/pkg/domain/types"
)

// MockGitHubClient is a mock implementation of GitHubClient
type MockGitHubClient struct {
	latestReleaseFunc  func(ctx context.Context, repo types.RepoName) (*model.ReleaseInfo, error)
	listOpenIssuesFunc func(ctx context.Context, repo types.RepoName) ([]*model.Issue, error)

	releaseCalls []types.RepoName
	created      []MockIssue
	edited       []MockEdit
	closed       []int
}

type MockEdit struct {
	Number int
	Body   string
}

type MockIssue struct {
	Repo  types.RepoName
	Title string
	Body  string
}

func (m *MockGitHubClient) LatestRelease(ctx context.Context, repo types.RepoName) (*model.ReleaseInfo, error) {
	m.releaseCalls = append(m.releaseCalls, repo)
	if m.latestReleaseFunc != nil {
		return m.latestReleaseFunc(ctx, repo)
	}
	return nil, errors.New("mock not configured")
}

func (m *MockGitHubClient) ListOpenIssues(ctx context.Context, repo types.RepoName) ([]*model.Issue, error) {
	if m.listOpenIssuesFunc != nil {
		return m.listOpenIssuesFunc(ctx, repo)
	}
	return nil, nil
}

func (m *MockGitHubClient) CreateIssue(ctx context.Context, repo types.RepoName, title, body string) (*model.Issue, error) {
	m.created = append(m.created, MockIssue{Repo: repo, Title: title, Body: body})
	n := 100 + len(m.created)
	return &model.Issue{Number: n, Title: title, HTMLURL: repo.URL() + "/issues/" + strconv.Itoa(n)}, nil
}

func (m *MockGitHubClient) EditIssueBody(ctx context.Context, repo types.RepoName, number int, body string) error {
	m.edited = append(m.edited, MockEdit{Number: number, Body: body})
	return nil
}

func (m *MockGitHubClient) CloseIssue(ctx context.Context, repo types.RepoName, number int) error {
	m.closed = append(m.closed, number)
	return nil
}

// MockDownloader serves content per URL; unknown URLs fail like a 404
type MockDownloader struct {
	files map[string]string
	calls []string
}

func (m *MockDownloader) Download(ctx context.Context, url string, w io.Writer) error {
	m.calls = append(m.calls, url)
	content, ok := m.files[url]
	if !ok {
		return errors.New("404 not found")
	}
	_, err := io.WriteString(w, content)
	return err
}

// MockOutput records CI outputs
type MockOutput struct {
	outputs map[string]string
	envs    map[string]string
}

func newMockOutput() *MockOutput {
	return &MockOutput{outputs: map[string]string{}, envs: map[string]string{}}
}

func (m *MockOutput) SetOutput(ctx context.Context, key, value string) error {
	m.outputs[key] = value
	m.envs[key] = value
	return nil
}

func (m *MockOutput) SetEnv(ctx context.Context, key, value string) error {
	m.envs[key] = value
	return nil
}

// MockNotifier records notifications
type MockNotifier struct {
	messages []string
}

func (m *MockNotifier) Notify(ctx context.Context, msg string) error {
	m.messages = append(m.messages, msg)
	return nil
}

// MockFetcher copies a fixture tree instead of cloning
type MockFetcher struct {
	fixture string
	err     error
	dirs    []string
}

func (m *MockFetcher) Fetch(ctx context.Context, upstream, branch, dir string) error {
	m.dirs = append(m.dirs, dir)
	if m.err != nil {
		return m.err
	}
	return copyDir(m.fixture, dir)
}

// MockStager records staging requests
type MockStager struct {
	err   error
	calls [][2]string
}

func (m *MockStager) Stage(ctx context.Context, src, dst string) ([]string, error) {
	m.calls = append(m.calls, [2]string{src, dst})
	if m.err != nil {
		return nil, m.err
	}
	return nil, nil
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, raw, 0644); err != nil {
			return err
		}
		return os.Chtimes(target, info.ModTime(), info.ModTime())
	})
}

func writeFile(t *testing.T, path, content string, mtime int64) {
	t.Helper()
	gt.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644))
	ts := time.Unix(mtime, 0)
	gt.NoError(t, os.Chtimes(path, ts, ts))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	gt.NoError(t, err)
	return string(raw)
}
