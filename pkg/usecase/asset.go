package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/interfaces"
	"github.com/m-mizutani/tagship/pkg/domain/model"
)

type assetPublisher struct {
	host interfaces.ReleaseHost
}

// NewAssetPublisher creates an AssetPublisher
func NewAssetPublisher(host interfaces.ReleaseHost) interfaces.AssetPublisher {
	return &assetPublisher{host: host}
}

// Publish replaces the asset named after the artifact. Removing the old
// asset is best-effort; the upload is attempted regardless and its failure
// is fatal.
func (p *assetPublisher) Publish(ctx context.Context, release *model.Release, artifact *model.Artifact) (*model.Asset, error) {
	logger := ctxlog.From(ctx)

	if outcome := p.removeExisting(ctx, release, artifact.Name); !outcome.IsOK() {
		logger.Warn("Could not delete existing asset",
			"release_id", release.ID,
			"asset", artifact.Name,
			"error", outcome.Err,
		)
	}

	logger.Info("Uploading binary",
		"release_id", release.ID,
		"asset", artifact.Name,
		"size_bytes", artifact.Size,
	)

	asset, err := p.host.UploadAsset(ctx, release, artifact)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upload binary",
			goerr.V("release_id", release.ID),
			goerr.V("asset", artifact.Name),
		)
	}

	logger.Info("Binary uploaded successfully", "asset_url", asset.DownloadURL)
	return asset, nil
}

func (p *assetPublisher) removeExisting(ctx context.Context, release *model.Release, name string) model.Outcome {
	assets, err := p.host.ListAssets(ctx, release)
	if err != nil {
		return model.Recoverable(goerr.Wrap(err, "failed to list assets"))
	}

	for _, asset := range assets {
		if asset.Name != name {
			continue
		}

		ctxlog.From(ctx).Info("Deleting existing asset", "asset", name, "asset_id", asset.ID)
		if err := p.host.DeleteAsset(ctx, asset.ID); err != nil {
			return model.Recoverable(goerr.Wrap(err, "failed to delete asset", goerr.V("asset_id", asset.ID)))
		}
	}

	return model.Ok()
}
