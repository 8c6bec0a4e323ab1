package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/spack-updater/pkg/domain/model"
)

func stamp(path string, sec int64) model.FileStamp {
	return model.FileStamp{Path: path, ModTime: time.Unix(sec, 0)}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		local    []model.FileStamp
		upstream []model.FileStamp
		expected model.Decision
	}{
		{
			name:     "upstream newer",
			local:    []model.FileStamp{stamp("a.py", 100), stamp("package.py", 50)},
			upstream: []model.FileStamp{stamp("a.py", 200), stamp("package.py", 50)},
			expected: model.DecisionToHere,
		},
		{
			name:     "local newer",
			local:    []model.FileStamp{stamp("a.py", 200), stamp("package.py", 50)},
			upstream: []model.FileStamp{stamp("a.py", 100), stamp("package.py", 50)},
			expected: model.DecisionToUpstream,
		},
		{
			name:     "all equal",
			local:    []model.FileStamp{stamp("a.py", 100), stamp("package.py", 50)},
			upstream: []model.FileStamp{stamp("a.py", 100), stamp("package.py", 50)},
			expected: model.DecisionNoChange,
		},
		{
			name:     "upstream newer later in walk overrides local newer",
			local:    []model.FileStamp{stamp("a.py", 300), stamp("package.py", 50)},
			upstream: []model.FileStamp{stamp("a.py", 100), stamp("package.py", 60)},
			expected: model.DecisionToHere,
		},
		{
			name:     "files on one side only are ignored",
			local:    []model.FileStamp{stamp("new.patch", 900), stamp("package.py", 50)},
			upstream: []model.FileStamp{stamp("old.patch", 10), stamp("package.py", 50)},
			expected: model.DecisionNoChange,
		},
		{
			name:     "sidecar is ignored",
			local:    []model.FileStamp{stamp("VERSION", 900), stamp("package.py", 50)},
			upstream: []model.FileStamp{stamp("VERSION", 10), stamp("package.py", 50)},
			expected: model.DecisionNoChange,
		},
		{
			name:     "nested path",
			local:    []model.FileStamp{stamp("patches/fix.patch", 1)},
			upstream: []model.FileStamp{stamp("patches/fix.patch", 2)},
			expected: model.DecisionToHere,
		},
		{
			name:     "empty trees",
			expected: model.DecisionNoChange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, model.Compare(tt.local, tt.upstream)).Equal(tt.expected)
		})
	}
}

func TestCompare_Deterministic(t *testing.T) {
	local := []model.FileStamp{stamp("a.py", 200), stamp("b.py", 100), stamp("package.py", 10)}
	upstream := []model.FileStamp{stamp("package.py", 10), stamp("b.py", 100), stamp("a.py", 100)}

	first := model.Compare(local, upstream)
	for i := 0; i < 10; i++ {
		gt.Value(t, model.Compare(local, upstream)).Equal(first)
	}
	gt.Value(t, first).Equal(model.DecisionToUpstream)
}
