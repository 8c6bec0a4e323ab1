package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/spack-updater/pkg/domain/interfaces"
	"github.com/m-mizutani/spack-updater/pkg/domain/model"
	"github.com/m-mizutani/spack-updater/pkg/domain/types"
)

const (
	// LocalPackagesDir is where packages live in the local repository
	LocalPackagesDir = "packages"

	// EnvFromUpstream signals the CI job that upstream files were staged here
	EnvFromUpstream = "spack_updater_from_spack"

	// EnvToUpstream signals the CI job that local changes should go upstream
	EnvToUpstream = "spack_updater_to_spack"
)

// upstreamPackagesDir is the builtin package repository inside a spack checkout
var upstreamPackagesDir = filepath.Join("var", "spack", "repos", "builtin", "packages")

// ErrPackageNotFound is returned when a package exists neither here nor upstream
var ErrPackageNotFound = goerr.New("package is not found in upstream or here")

type syncUseCase struct {
	repoRoot string
	fetcher  interfaces.TreeFetcher
	output   interfaces.OutputWriter
	stamps   interfaces.StampSource
	stager   interfaces.Stager
	notifier interfaces.Notifier

	upstream  string
	branch    string
	source    types.RepoName
	sourceRef string
}

// SyncOption is a functional option for the sync use case
type SyncOption func(*syncUseCase)

// WithUpstream sets the upstream repository and branch to clone
func WithUpstream(upstream, branch string) SyncOption {
	return func(uc *syncUseCase) {
		uc.upstream = upstream
		uc.branch = branch
	}
}

// WithSource sets the repository and branch change requests originate from
func WithSource(repo types.RepoName, branch string) SyncOption {
	return func(uc *syncUseCase) {
		uc.source = repo
		uc.sourceRef = branch
	}
}

// WithSyncNotifier posts a message when a package needs synchronization
func WithSyncNotifier(notifier interfaces.Notifier) SyncOption {
	return func(uc *syncUseCase) {
		uc.notifier = notifier
	}
}

// NewSync creates a new instance of SyncUseCase for the local repository at repoRoot
func NewSync(
	repoRoot string,
	fetcher interfaces.TreeFetcher,
	stamps interfaces.StampSource,
	stager interfaces.Stager,
	output interfaces.OutputWriter,
	opts ...SyncOption,
) (interfaces.SyncUseCase, error) {
	absRoot, err := filepath.Abs(repoRoot)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve repository root", goerr.V("repo", repoRoot))
	}

	uc := &syncUseCase{
		repoRoot: absRoot,
		fetcher:  fetcher,
		output:   output,
		stamps:   stamps,
		stager:   stager,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc, nil
}

// Diff clones upstream, compares the package on both sides and acts on the decision.
// The clone is removed before returning.
func (uc *syncUseCase) Diff(ctx context.Context, packageName string) (*model.SyncResult, error) {
	logger := ctxlog.From(ctx)

	cloneDir, err := os.MkdirTemp("", "spack-updater-upstream-*")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create temporary directory")
	}
	defer func() {
		if removeErr := os.RemoveAll(cloneDir); removeErr != nil {
			logger.Warn("Failed to clean up upstream clone",
				"temp_dir", cloneDir,
				"error", removeErr,
			)
		} else {
			logger.Debug("Cleaned up upstream clone", "temp_dir", cloneDir)
		}
	}()

	if err := uc.fetcher.Fetch(ctx, uc.upstream, uc.branch, cloneDir); err != nil {
		return nil, err
	}

	localDir := filepath.Join(uc.repoRoot, LocalPackagesDir, packageName)
	upstreamDir := filepath.Join(cloneDir, upstreamPackagesDir, packageName)

	result, err := uc.diff(ctx, packageName, localDir, upstreamDir)
	if err != nil {
		return nil, err
	}

	logger.Info("Package diff decided",
		"package", packageName,
		"decision", result.Decision,
		"staged", len(result.Staged),
	)

	if uc.notifier != nil && result.Decision != model.DecisionNoChange {
		msg := fmt.Sprintf("Package %s: %s (upstream %s)", packageName, result.Decision, uc.upstream)
		if err := uc.notifier.Notify(ctx, msg); err != nil {
			logger.Warn("Failed to notify sync decision", "error", err)
		}
	}

	return result, nil
}

func (uc *syncUseCase) diff(ctx context.Context, packageName, localDir, upstreamDir string) (*model.SyncResult, error) {
	logger := ctxlog.From(ctx)

	localExists, err := exists(localDir)
	if err != nil {
		return nil, err
	}
	upstreamExists, err := exists(upstreamDir)
	if err != nil {
		return nil, err
	}

	// Package only upstream: obtain it
	if !localExists {
		if !upstreamExists {
			return nil, goerr.Wrap(ErrPackageNotFound, "cannot sync package", goerr.V("package", packageName))
		}

		logger.Info("Package does not exist here, obtaining from upstream", "package", packageName, "dir", localDir)
		staged, err := uc.stager.Stage(ctx, upstreamDir, localDir)
		if err != nil {
			return nil, err
		}
		if err := uc.requireDefinition(localDir); err != nil {
			return nil, err
		}
		if err := uc.output.SetEnv(ctx, EnvFromUpstream, "true"); err != nil {
			return nil, err
		}
		return &model.SyncResult{Decision: model.DecisionToHere, Staged: staged}, nil
	}

	if err := uc.requireDefinition(localDir); err != nil {
		return nil, err
	}

	if !upstreamExists {
		req, err := uc.newRequest(model.ActionNewPackage, packageName, localDir)
		if err != nil {
			return nil, err
		}
		if err := uc.output.SetEnv(ctx, EnvToUpstream, "true"); err != nil {
			return nil, err
		}
		return &model.SyncResult{Decision: model.DecisionNewPackage, Request: req}, nil
	}

	localStamps, err := uc.stamps.Stamps(ctx, localDir)
	if err != nil {
		return nil, err
	}
	upstreamStamps, err := uc.stamps.Stamps(ctx, upstreamDir)
	if err != nil {
		return nil, err
	}

	result := &model.SyncResult{Decision: model.Compare(localStamps, upstreamStamps)}

	switch result.Decision {
	case model.DecisionToHere:
		staged, err := uc.stager.Stage(ctx, upstreamDir, localDir)
		if err != nil {
			return nil, err
		}
		result.Staged = staged
		if err := uc.output.SetEnv(ctx, EnvFromUpstream, "true"); err != nil {
			return nil, err
		}

	case model.DecisionToUpstream:
		req, err := uc.newRequest(model.ActionUpdatePackage, packageName, localDir)
		if err != nil {
			return nil, err
		}
		result.Request = req
		if err := uc.output.SetEnv(ctx, EnvToUpstream, "true"); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (uc *syncUseCase) requireDefinition(dir string) error {
	path := filepath.Join(dir, model.DefinitionFilename)
	ok, err := exists(path)
	if err != nil {
		return err
	}
	if !ok {
		return goerr.Wrap(model.ErrDefinitionNotFound, "package directory has no definition", goerr.V("path", path))
	}
	return nil
}

func (uc *syncUseCase) newRequest(action model.ChangeAction, packageName, localDir string) (*model.ChangeRequest, error) {
	rel, err := filepath.Rel(uc.repoRoot, localDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve package path", goerr.V("dir", localDir))
	}

	req := &model.ChangeRequest{
		Action:   action,
		Package:  packageName,
		Path:     filepath.ToSlash(rel),
		Branch:   uc.sourceRef,
		Upstream: upstreamWebURL(uc.upstream),
	}
	if !uc.source.IsZero() {
		req.Repo = uc.source.String()
	}
	return req, nil
}

// upstreamWebURL returns the GitHub page of upstream, or empty for local paths
func upstreamWebURL(upstream string) string {
	if strings.HasPrefix(upstream, "/") || strings.HasPrefix(upstream, ".") || strings.HasPrefix(upstream, "file://") {
		return ""
	}
	repo, err := types.ParseRepoName(upstream)
	if err != nil {
		return ""
	}
	return repo.URL()
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, goerr.Wrap(err, "failed to stat", goerr.V("path", path))
}
