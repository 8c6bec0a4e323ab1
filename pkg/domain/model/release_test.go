package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/spack-updater/pkg/domain/model"
)

func TestIsSameVersion(t *testing.T) {
	tests := []struct {
		tag      string
		version  string
		expected bool
	}{
		{tag: "1.2.3", version: "1.2.3", expected: true},
		{tag: "v1.2.3", version: "1.2.3", expected: true},
		{tag: "v1.2.4", version: "1.2.3", expected: false},
		{tag: "1.2.3", version: "v1.2.3", expected: false},
		{tag: "vv1.2.3", version: "1.2.3", expected: false},
		{tag: "release-1.2.3", version: "1.2.3", expected: false},
		{tag: "1.2.3", version: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.tag+"/"+tt.version, func(t *testing.T) {
			gt.Value(t, model.IsSameVersion(tt.tag, tt.version)).Equal(tt.expected)
		})
	}
}

func TestNakedVersion(t *testing.T) {
	gt.Value(t, model.NakedVersion("v0.50.0")).Equal("0.50.0")
	gt.Value(t, model.NakedVersion("0.50.0")).Equal("0.50.0")
}
