package interfaces

import (
	"context"

	"github.com/m-mizutani/tagship/pkg/domain/model"
)

// ReleaseHost defines release operations on the hosting platform
type ReleaseHost interface {
	// CreateRelease creates a release. An existing release for the tag is
	// reported as an error tagged types.ErrTagReleaseExists.
	CreateRelease(ctx context.Context, req *model.NewRelease) (*model.Release, error)

	// GetReleaseByTag fetches an existing release
	GetReleaseByTag(ctx context.Context, tag string) (*model.Release, error)

	// ListAssets lists the assets attached to a release
	ListAssets(ctx context.Context, release *model.Release) ([]*model.Asset, error)

	// DeleteAsset deletes a release asset
	DeleteAsset(ctx context.Context, assetID int64) error

	// UploadAsset uploads the artifact as a release asset
	UploadAsset(ctx context.Context, release *model.Release, artifact *model.Artifact) (*model.Asset, error)
}

// PushCredential provides the token used in authenticated push URLs
type PushCredential interface {
	PushToken(ctx context.Context) (string, error)
}
