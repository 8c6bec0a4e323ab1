package actions

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Output appends key=value lines to the files GitHub Actions reads after a step,
// $GITHUB_ENV and $GITHUB_OUTPUT. Empty paths are skipped.
type Output struct {
	envPath    string
	outputPath string
}

// NewOutput creates an Output
func NewOutput(envPath, outputPath string) *Output {
	return &Output{envPath: envPath, outputPath: outputPath}
}

// SetOutput writes key=value to both $GITHUB_ENV and $GITHUB_OUTPUT
func (x *Output) SetOutput(ctx context.Context, key, value string) error {
	if err := x.SetEnv(ctx, key, value); err != nil {
		return err
	}
	return appendLine(ctx, "GITHUB_OUTPUT", x.outputPath, key, value)
}

// SetEnv writes key=value to $GITHUB_ENV
func (x *Output) SetEnv(ctx context.Context, key, value string) error {
	return appendLine(ctx, "GITHUB_ENV", x.envPath, key, value)
}

func appendLine(ctx context.Context, name, path, key, value string) error {
	logger := ctxlog.From(ctx)
	if path == "" {
		logger.Info("Output channel is not set, skip", "channel", name, "key", key, "value", value)
		return nil
	}

	logger.Info("Writing output", "channel", name, "key", key, "value", value)

	fd, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return goerr.Wrap(err, "failed to open output file", goerr.V("channel", name), goerr.V("path", path))
	}
	defer fd.Close()

	if _, err := fmt.Fprintf(fd, "%s=%s\n", key, value); err != nil {
		return goerr.Wrap(err, "failed to write output", goerr.V("channel", name), goerr.V("key", key))
	}
	return nil
}
