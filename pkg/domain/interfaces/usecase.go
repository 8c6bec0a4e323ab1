package interfaces

import (
	"context"

	"github.com/m-mizutani/spack-updater/pkg/domain/model"
)

// ReleaseUseCase checks upstream releases of a package
type ReleaseUseCase interface {
	// Check returns the applied update, or nil when the package is up to date
	Check(ctx context.Context, packageDir string) (*model.ReleaseUpdate, error)
}

// SyncUseCase decides the synchronization direction of a package
type SyncUseCase interface {
	Diff(ctx context.Context, packageName string) (*model.SyncResult, error)
}

// ChangeRequestUseCase files change requests as issues
type ChangeRequestUseCase interface {
	// Submit returns the opened issue, or nil when nothing was opened
	Submit(ctx context.Context, req *model.ChangeRequest) (*model.Issue, error)

	// RequestPullRequest opens an issue linking to the compare page of branch against upstream base
	RequestPullRequest(ctx context.Context, req *model.PullRequestRequest) (*model.Issue, error)
}
