package model

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/spack-updater/pkg/domain/types"
)

const (
	// DefinitionFilename is the package definition file in a package directory
	DefinitionFilename = "package.py"

	// VersionFilename is the optional sidecar holding only the current version
	VersionFilename = "VERSION"
)

// ErrDefinitionNotFound is returned when a package directory has no package.py
var ErrDefinitionNotFound = goerr.New("package definition file is not found")

// PackageRecord is a package read from disk for one invocation
type PackageRecord struct {
	Name           string
	Dir            string
	CurrentVersion string
	DownloadURL    string
	Repo           types.RepoName
	Definition     *Definition
}

// DefinitionPath returns path of package.py
func (x *PackageRecord) DefinitionPath() string {
	return filepath.Join(x.Dir, DefinitionFilename)
}

// VersionPath returns path of the VERSION sidecar
func (x *PackageRecord) VersionPath() string {
	return filepath.Join(x.Dir, VersionFilename)
}

// LoadPackage reads package.py and the VERSION sidecar of dir. The sidecar takes precedence
// over the version lines of package.py.
func LoadPackage(dir string) (*PackageRecord, error) {
	record := &PackageRecord{
		Name: filepath.Base(filepath.Clean(dir)),
		Dir:  dir,
	}

	raw, err := os.ReadFile(record.DefinitionPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrDefinitionNotFound, "failed to load package", goerr.V("path", record.DefinitionPath()))
		}
		return nil, goerr.Wrap(err, "failed to read package definition", goerr.V("path", record.DefinitionPath()))
	}

	record.Definition = ParseDefinition(string(raw))
	record.DownloadURL = record.Definition.URL()
	record.CurrentVersion = record.Definition.CurrentVersion()

	version, err := ReadVersionFile(record.VersionPath())
	if err != nil {
		return nil, err
	}
	if version != "" {
		record.CurrentVersion = version
	}

	return record, nil
}

// ReadVersionFile returns the version in a sidecar file. A missing file yields an empty string.
func ReadVersionFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", goerr.Wrap(err, "failed to read version file", goerr.V("path", path))
	}
	return strings.TrimRight(string(raw), "\n"), nil
}

// WriteVersionFile writes version followed by a single newline
func WriteVersionFile(path, version string) error {
	if err := os.WriteFile(path, []byte(version+"\n"), 0644); err != nil {
		return goerr.Wrap(err, "failed to write version file", goerr.V("path", path))
	}
	return nil
}

// IsSidecar returns true for files that are never compared or staged
func IsSidecar(path string) bool {
	return filepath.Base(path) == VersionFilename
}
