package tree_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/spack-updater/pkg/domain/model"
	"github.com/m-mizutani/spack-updater/pkg/infra/tree"
)

func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	gt.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644))
	gt.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestModTimeSource_Stamps(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.py"), "pkg", time.Unix(100, 0))
	writeFile(t, filepath.Join(root, "patches", "a.patch"), "patch", time.Unix(200, 0))
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref", time.Unix(300, 0))

	stamps, err := tree.ModTimeSource{}.Stamps(context.Background(), root)
	gt.NoError(t, err)
	gt.A(t, stamps).Length(2)
	gt.Value(t, stamps[0].Path).Equal("package.py")
	gt.Value(t, stamps[0].ModTime.Unix()).Equal(int64(100))
	gt.Value(t, stamps[1].Path).Equal("patches/a.patch")
	gt.Value(t, stamps[1].ModTime.Unix()).Equal(int64(200))
}

func TestModTimeSource_Stamps_MissingRoot(t *testing.T) {
	_, err := tree.ModTimeSource{}.Stamps(context.Background(), filepath.Join(t.TempDir(), "nope"))
	gt.Error(t, err)
}

func TestStage(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, filepath.Join(src, "package.py"), "upstream", time.Unix(200, 0))
	writeFile(t, filepath.Join(src, "patches", "new.patch"), "new", time.Unix(200, 0))
	writeFile(t, filepath.Join(src, model.VersionFilename), "9.9.9", time.Unix(200, 0))

	writeFile(t, filepath.Join(dst, "package.py"), "local", time.Unix(100, 0))
	writeFile(t, filepath.Join(dst, model.VersionFilename), "1.0.0", time.Unix(100, 0))
	writeFile(t, filepath.Join(dst, "local-only.txt"), "keep", time.Unix(100, 0))

	staged, err := tree.Stager{}.Stage(context.Background(), src, dst)
	gt.NoError(t, err)
	gt.Value(t, staged).Equal([]string{"package.py", "patches/new.patch"})

	read := func(name string) string {
		raw, err := os.ReadFile(filepath.Join(dst, name))
		gt.NoError(t, err)
		return string(raw)
	}
	gt.Value(t, read("package.py")).Equal("upstream")
	gt.Value(t, read("patches/new.patch")).Equal("new")
	gt.Value(t, read(model.VersionFilename)).Equal("1.0.0")
	gt.Value(t, read("local-only.txt")).Equal("keep")
}
