package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/spack-updater/pkg/cli/config"
)

func TestFile_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spack-updater.toml")
	gt.NoError(t, os.WriteFile(path, []byte(`
[release.repos]
flux-core = "flux-framework/flux-core"
flux-sched = "https://github.com/flux-framework/flux-sched"

[sync]
upstream = "spack/spack"
branch = "develop"
timestamps = "git"
`), 0644))

	content, err := (&config.File{Path: path}).Load()
	gt.NoError(t, err)
	gt.Value(t, content.Release.Repos["flux-core"]).Equal("flux-framework/flux-core")
	gt.Value(t, content.Release.Repos["flux-sched"]).Equal("https://github.com/flux-framework/flux-sched")
	gt.Value(t, content.Sync.Upstream).Equal("spack/spack")
	gt.Value(t, content.Sync.Branch).Equal("develop")
	gt.Value(t, content.Sync.Timestamps).Equal("git")
}

func TestFile_LoadEmptyPath(t *testing.T) {
	content, err := (&config.File{}).Load()
	gt.NoError(t, err)
	gt.Value(t, content).NotNil()
	gt.Value(t, content.Sync.Upstream).Equal("")
}

func TestFile_LoadUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spack-updater.toml")
	gt.NoError(t, os.WriteFile(path, []byte("[sync]\nupstrem = \"typo\"\n"), 0644))

	_, err := (&config.File{Path: path}).Load()
	gt.Error(t, err)
}

func TestFile_LoadMissing(t *testing.T) {
	_, err := (&config.File{Path: filepath.Join(t.TempDir(), "none.toml")}).Load()
	gt.Error(t, err)
}
