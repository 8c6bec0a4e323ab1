package model

import "strings"

// ReleaseInfo is the latest release of an upstream repository
type ReleaseInfo struct {
	TagName    string
	Name       string
	HTMLURL    string
	TarballURL string
}

// IsSameVersion reports whether tag is already recorded as version. Tags are often
// prefixed with "v" while package versions are not.
func IsSameVersion(tag, version string) bool {
	return tag == version || tag == "v"+version
}

// NakedVersion strips the "v" prefix of a tag
func NakedVersion(tag string) string {
	return strings.TrimPrefix(tag, "v")
}

// ReleaseUpdate is the result of applying a new release to a package
type ReleaseUpdate struct {
	Package string
	Release *ReleaseInfo
	Version string // naked version written to package.py
	Digest  string
	URL     string // archive the digest was computed from
	Written bool   // false on dry run
}

// Spec returns the package@version identifier
func (x *ReleaseUpdate) Spec() string {
	return x.Package + "@" + x.Version
}
