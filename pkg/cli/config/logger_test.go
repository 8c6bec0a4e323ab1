package config_test

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/spack-updater/pkg/cli/config"
	"github.com/m-mizutani/spack-updater/pkg/domain/types"
)

func TestLogger_Configure(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "Valid level: debug", level: "debug"},
		{name: "Valid level: DEBUG (case insensitive)", level: "DEBUG"},
		{name: "Valid level: info", level: "info"},
		{name: "Valid level: warn", level: "warn"},
		{name: "Valid level: ERROR", level: "ERROR"},
		{name: "Invalid level: invalid", level: "invalid", wantErr: true},
		{name: "Invalid level: empty string", level: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &config.Logger{Level: tt.level, Output: io.Discard}

			result, err := logger.Configure()
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Value(t, result).NotNil()
		})
	}
}

func TestLogger_Configure_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := &config.Logger{Level: "info", Output: &buf}

	result, err := logger.Configure()
	gt.NoError(t, err)

	result.Debug("hidden message")
	result.Info("visible message", "package", "flux-core")
	gt.String(t, buf.String()).Contains("visible message")
	gt.String(t, buf.String()).Contains("flux-core")
	gt.String(t, buf.String()).NotContains("hidden message")
}

func TestLogger_RedactToken(t *testing.T) {
	var buf bytes.Buffer
	logger := &config.Logger{Level: "info", JSON: true, Output: &buf}

	result, err := logger.Configure()
	gt.NoError(t, err)

	type credentials struct {
		Token types.GitHubToken
		User  string
	}
	result.Info("auth",
		"token", types.GitHubToken("ghp_secretvalue"),
		"creds", credentials{Token: "ghp_othersecret", User: "octocat"},
	)

	gt.String(t, buf.String()).NotContains("ghp_secretvalue")
	gt.String(t, buf.String()).NotContains("ghp_othersecret")
	gt.String(t, buf.String()).Contains("octocat")

	var record map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	gt.Value(t, record["msg"]).Equal("auth")
}

func TestLogger_Flags(t *testing.T) {
	logger := &config.Logger{}
	flags := logger.Flags()
	gt.A(t, flags).Length(2)

	names := map[string]bool{}
	for _, flag := range flags {
		names[flag.Names()[0]] = true
	}
	gt.Value(t, names["log-level"]).Equal(true)
	gt.Value(t, names["log-json"]).Equal(true)
}
