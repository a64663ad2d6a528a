package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/interfaces"
	"github.com/m-mizutani/tagship/pkg/domain/model"
	"github.com/m-mizutani/tagship/pkg/domain/types"
)

type reconciler struct {
	host interfaces.ReleaseHost
}

// NewReconciler creates a Reconciler
func NewReconciler(host interfaces.ReleaseHost) interfaces.Reconciler {
	return &reconciler{host: host}
}

// Reconcile creates the release for tag, or returns the existing one when
// the host reports that the tag already has a release
func (r *reconciler) Reconcile(ctx context.Context, tag model.Tag, notes *model.ReleaseNotes) (*model.Release, error) {
	logger := ctxlog.From(ctx)

	req := &model.NewRelease{
		TagName:    string(tag),
		Name:       string(tag),
		Body:       notes.Text(),
		Draft:      false,
		Prerelease: false,
	}

	logger.Info("Creating release", "tag", tag)
	release, err := r.host.CreateRelease(ctx, req)
	if err == nil {
		logger.Info("Release created", "tag", tag, "release_id", release.ID)
		return release, nil
	}

	if !goerr.HasTag(err, types.ErrTagReleaseExists) {
		return nil, goerr.Wrap(err, "failed to create release", goerr.V("tag", tag))
	}

	logger.Info("Release already exists, fetching existing release", "tag", tag)
	release, err = r.host.GetReleaseByTag(ctx, string(tag))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get release info", goerr.V("tag", tag))
	}

	logger.Info("Using existing release", "tag", tag, "release_id", release.ID)
	return release, nil
}
