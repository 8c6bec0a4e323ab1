package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/spack-updater/pkg/domain/model"
)

var (
	colorKey     = color.New(color.FgCyan, color.Bold)
	colorNoop    = color.New(color.FgHiBlack)
	colorUpdate  = color.New(color.FgGreen, color.Bold)
	colorRequest = color.New(color.FgYellow, color.Bold)
)

func printReleaseSummary(w io.Writer, name string, update *model.ReleaseUpdate) {
	colorKey.Fprintf(w, "%-12s", name)
	if update == nil {
		colorNoop.Fprintln(w, "up to date")
		return
	}

	state := "written"
	if !update.Written {
		state = "dry run"
	}
	colorUpdate.Fprintf(w, "%s -> %s", update.Release.TagName, update.Spec())
	fmt.Fprintf(w, " (%s, sha256 %s)\n", state, update.Digest)
}

func printSyncSummary(w io.Writer, name string, result *model.SyncResult) {
	colorKey.Fprintf(w, "%-12s", name)

	switch result.Decision {
	case model.DecisionNoChange:
		colorNoop.Fprintln(w, result.Decision)
	case model.DecisionToHere:
		colorUpdate.Fprintf(w, "%s", result.Decision)
		fmt.Fprintf(w, " (%d files staged)\n", len(result.Staged))
	default:
		colorRequest.Fprintf(w, "%s", result.Decision)
		if result.Request != nil {
			fmt.Fprintf(w, " (%s)", result.Request.Title())
		}
		fmt.Fprintln(w)
	}
}

func printIssue(w io.Writer, issue *model.Issue) {
	if issue == nil {
		colorNoop.Fprintln(w, "no issue opened")
		return
	}
	colorRequest.Fprintf(w, "opened #%d", issue.Number)
	fmt.Fprintf(w, " %s\n", issue.HTMLURL)
}
