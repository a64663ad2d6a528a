package interfaces

import (
	"context"

	"github.com/m-mizutani/tagship/pkg/domain/model"
)

// VersionResolver determines the tag for a trigger
type VersionResolver interface {
	Resolve(ctx context.Context, trigger model.Trigger) (model.Tag, error)
}

// TagPublisher creates a tag and pushes it to the remote
type TagPublisher interface {
	Publish(ctx context.Context, tag model.Tag) error
}

// NotesComposer assembles the release body for a tag
type NotesComposer interface {
	Compose(ctx context.Context, tag model.Tag) (*model.ReleaseNotes, error)
}

// Reconciler obtains the single release for a tag
type Reconciler interface {
	Reconcile(ctx context.Context, tag model.Tag, notes *model.ReleaseNotes) (*model.Release, error)
}

// AssetPublisher replaces the binary asset on a release
type AssetPublisher interface {
	Publish(ctx context.Context, release *model.Release, artifact *model.Artifact) (*model.Asset, error)
}

// VersionFileUpdater writes the VERSION file on the main branch
type VersionFileUpdater interface {
	Update(ctx context.Context, tag model.Tag) model.Outcome
}

// PipelineUseCase runs one release for a trigger
type PipelineUseCase interface {
	Run(ctx context.Context, trigger model.Trigger) (*model.RunResult, error)
}
