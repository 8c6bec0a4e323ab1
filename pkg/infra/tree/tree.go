package tree

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/spack-updater/pkg/domain/model"
	"github.com/otiai10/copy"
)

// ModTimeSource stamps files with their filesystem modification time
type ModTimeSource struct{}

// Stamps walks root and returns regular files sorted by relative path
func (ModTimeSource) Stamps(ctx context.Context, root string) ([]model.FileStamp, error) {
	var stamps []model.FileStamp

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		stamps = append(stamps, model.FileStamp{
			Path:    filepath.ToSlash(rel),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to walk package tree", goerr.V("root", root))
	}

	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Path < stamps[j].Path })
	return stamps, nil
}

// Stager copies package trees on the local filesystem
type Stager struct{}

// Stage copies every file of src over dst, creating directories as needed. Sidecar files are
// never copied. Returns staged files relative to dst.
func (Stager) Stage(ctx context.Context, src, dst string) ([]string, error) {
	logger := ctxlog.From(ctx)
	var staged []string

	opt := copy.Options{
		PreserveTimes: true,
		Skip: func(info os.FileInfo, srcPath, destPath string) (bool, error) {
			if info.IsDir() {
				return info.Name() == ".git", nil
			}
			if model.IsSidecar(srcPath) {
				return true, nil
			}

			rel, err := filepath.Rel(src, srcPath)
			if err != nil {
				return false, err
			}
			staged = append(staged, filepath.ToSlash(rel))
			return false, nil
		},
	}

	if err := copy.Copy(src, dst, opt); err != nil {
		return nil, goerr.Wrap(err, "failed to stage package tree",
			goerr.V("src", src),
			goerr.V("dst", dst),
		)
	}

	sort.Strings(staged)
	logger.Debug("Staged package tree", "src", src, "dst", dst, "files", staged)
	return staged, nil
}
