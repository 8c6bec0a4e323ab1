package git

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/spack-updater/pkg/domain/model"
	"github.com/m-mizutani/spack-updater/pkg/infra/tree"
)

// CommitTimeSource stamps files with the committer time of the last commit touching them.
// In a shallow clone, files whose history reaches past the fetched commit carry the time of
// HEAD. Files not tracked by git fall back to their modification time.
type CommitTimeSource struct{}

// Stamps returns stamps of files under root, which must be inside a git work tree
func (CommitTimeSource) Stamps(ctx context.Context, root string) ([]model.FileStamp, error) {
	stamps, err := tree.ModTimeSource{}.Stamps(ctx, root)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open git repository", goerr.V("root", root))
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get work tree", goerr.V("root", root))
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve root", goerr.V("root", root))
	}
	// work tree root may be a symlinked path (e.g. macOS /var -> /private/var)
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}
	wtRoot := wt.Filesystem.Root()
	if resolved, err := filepath.EvalSymlinks(wtRoot); err == nil {
		wtRoot = resolved
	}

	prefix, err := filepath.Rel(wtRoot, absRoot)
	if err != nil {
		return nil, goerr.Wrap(err, "package is not in work tree", goerr.V("root", root))
	}

	for i := range stamps {
		name := filepath.ToSlash(filepath.Join(prefix, stamps[i].Path))

		commit, err := lastCommit(repo, name)
		if err != nil {
			return nil, err
		}
		if commit != nil {
			stamps[i].ModTime = commit.Committer.When
		}
	}

	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Path < stamps[j].Path })
	return stamps, nil
}

func lastCommit(repo *git.Repository, name string) (*object.Commit, error) {
	iter, err := repo.Log(&git.LogOptions{FileName: &name})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read git log", goerr.V("file", name))
	}
	defer iter.Close()

	commit, err := iter.Next()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	// the history of a shallow clone ends at a missing parent; `git log -1` reports HEAD there
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return headCommit(repo)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to iterate git log", goerr.V("file", name))
	}
	return commit, nil
}

func headCommit(repo *git.Repository) (*object.Commit, error) {
	head, err := repo.Head()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve HEAD")
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read HEAD commit", goerr.V("hash", head.Hash().String()))
	}
	return commit, nil
}
