package model

import "time"

// Decision is the synchronization direction of a package
type Decision string

const (
	DecisionNoChange   Decision = "no-change"
	DecisionNewPackage Decision = "new-package"
	DecisionToHere     Decision = "to-here"
	DecisionToUpstream Decision = "to-upstream"
)

func (x Decision) String() string {
	return string(x)
}

// FileStamp is a file of a package tree with its modification time
type FileStamp struct {
	Path    string // relative to the package directory, slash separated
	ModTime time.Time
}

// Compare decides the direction between two package trees. The first upstream file that is
// newer than its local counterpart decides DecisionToHere immediately. A newer local file only
// decides DecisionToUpstream after every file has been checked. Files existing on one side only
// and sidecar files are ignored.
func Compare(local, upstream []FileStamp) Decision {
	upstreamTimes := make(map[string]time.Time, len(upstream))
	for _, f := range upstream {
		upstreamTimes[f.Path] = f.ModTime
	}

	localNewer := false
	for _, f := range local {
		if IsSidecar(f.Path) {
			continue
		}

		upstreamTime, ok := upstreamTimes[f.Path]
		if !ok {
			continue
		}

		switch {
		case upstreamTime.After(f.ModTime):
			return DecisionToHere
		case f.ModTime.After(upstreamTime):
			localNewer = true
		}
	}

	if localNewer {
		return DecisionToUpstream
	}
	return DecisionNoChange
}

// SyncResult is the outcome of synchronizing one package
type SyncResult struct {
	Decision Decision
	Request  *ChangeRequest
	Staged   []string
}
