package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// EntryKind is a kind of line in a package definition file
type EntryKind int

const (
	EntryOther EntryKind = iota
	EntryVersion
	EntryURL
)

// Entry is a single line of a package definition file
type Entry struct {
	Kind    EntryKind
	Line    string
	Version string // EntryVersion only
	SHA256  string // EntryVersion only, empty for branch versions
	URL     string // EntryURL only
}

var (
	versionPattern = regexp.MustCompile(`^(\s*)version\(\s*["']([^"']+)["']`)
	sha256Pattern  = regexp.MustCompile(`sha256\s*=\s*["']([0-9a-fA-F]*)["']`)
	urlPattern     = regexp.MustCompile(`^\s*url\s*=\s*["']([^"']+)["']`)
)

// ErrVersionLineNotFound is returned when the current version has no version line to anchor the insertion
var ErrVersionLineNotFound = goerr.New("version line of current version is not found")

// Definition is a line oriented view of a package definition file (package.py)
type Definition struct {
	Entries []Entry
}

// ParseDefinition splits text into typed entries. Joining the lines back yields the original text.
func ParseDefinition(text string) *Definition {
	lines := strings.Split(text, "\n")
	def := &Definition{Entries: make([]Entry, 0, len(lines))}

	for _, line := range lines {
		def.Entries = append(def.Entries, parseEntry(line))
	}

	return def
}

func parseEntry(line string) Entry {
	if m := versionPattern.FindStringSubmatch(line); m != nil {
		entry := Entry{Kind: EntryVersion, Line: line, Version: m[2]}
		if s := sha256Pattern.FindStringSubmatch(line); s != nil {
			entry.SHA256 = s[1]
		}
		return entry
	}

	if m := urlPattern.FindStringSubmatch(line); m != nil {
		return Entry{Kind: EntryURL, Line: line, URL: m[1]}
	}

	return Entry{Kind: EntryOther, Line: line}
}

// CurrentVersion returns the first version carrying a sha256 checksum. Branch versions such as
// version("master", branch="master") are skipped.
func (x *Definition) CurrentVersion() string {
	for _, e := range x.Entries {
		if e.Kind == EntryVersion && e.SHA256 != "" {
			return e.Version
		}
	}
	return ""
}

// URL returns the download URL template of the package
func (x *Definition) URL() string {
	for _, e := range x.Entries {
		if e.Kind == EntryURL {
			return e.URL
		}
	}
	return ""
}

// Versions returns all declared versions in file order
func (x *Definition) Versions() []string {
	var versions []string
	for _, e := range x.Entries {
		if e.Kind == EntryVersion {
			versions = append(versions, e.Version)
		}
	}
	return versions
}

// InsertVersion adds exactly one version line right before the version line of current.
// Indentation follows the anchor line.
func (x *Definition) InsertVersion(current, version, digest string) error {
	for i, e := range x.Entries {
		if e.Kind != EntryVersion || e.Version != current {
			continue
		}

		indent := versionPattern.FindStringSubmatch(e.Line)[1]
		line := fmt.Sprintf(`%sversion("%s", sha256="%s")`, indent, version, digest)
		entry := Entry{Kind: EntryVersion, Line: line, Version: version, SHA256: digest}

		entries := make([]Entry, 0, len(x.Entries)+1)
		entries = append(entries, x.Entries[:i]...)
		entries = append(entries, entry)
		entries = append(entries, x.Entries[i:]...)
		x.Entries = entries
		return nil
	}

	return goerr.Wrap(ErrVersionLineNotFound, "failed to insert version",
		goerr.V("current", current),
		goerr.V("version", version),
	)
}

// String renders the definition back to text
func (x *Definition) String() string {
	lines := make([]string, len(x.Entries))
	for i, e := range x.Entries {
		lines[i] = e.Line
	}
	return strings.Join(lines, "\n")
}
