package usecase

import (
	"context"
	"os"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/spack-updater/pkg/domain/interfaces"
	"github.com/m-mizutani/spack-updater/pkg/domain/model"
)

const (
	// IssueEnvPrefix prefixes every environment variable exported from an issue
	IssueEnvPrefix = "spack_updater_"

	githubWebURL = "https://github.com/"
)

// IssueParser exports "key: value" lines of an issue body to the CI environment
type IssueParser struct {
	output interfaces.OutputWriter
}

// NewIssueParser creates an IssueParser
func NewIssueParser(output interfaces.OutputWriter) *IssueParser {
	return &IssueParser{output: output}
}

// Parse reads the issue text at path. Nothing is exported when title is set and is not a
// package update request. Returns the exported fields with lower case keys.
func (x *IssueParser) Parse(ctx context.Context, path, title string) ([]model.IssueField, error) {
	logger := ctxlog.From(ctx)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read issue text", goerr.V("path", path))
	}

	if !model.IsUpdateRequestTitle(title) {
		logger.Info("Issue is not a package update request, skip", "title", title)
		return nil, nil
	}

	fields := model.ParseIssueBody(string(raw))
	for i, field := range fields {
		if field.Key == "repo" && !strings.HasPrefix(field.Value, "http") {
			fields[i].Value = githubWebURL + field.Value
		}
		fields[i].Key = strings.ToLower(field.Key)

		if err := x.output.SetEnv(ctx, IssueEnvPrefix+fields[i].Key, fields[i].Value); err != nil {
			return nil, err
		}
	}

	return fields, nil
}
