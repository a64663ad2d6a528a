package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/interfaces"
	"github.com/m-mizutani/tagship/pkg/domain/model"
)

// Pipeline holds the collaborators of one release run
type Pipeline struct {
	Resolver    interfaces.VersionResolver
	VersionFile interfaces.VersionFileUpdater // optional
	Builder     interfaces.Builder
	Notes       interfaces.NotesComposer
	Reconciler  interfaces.Reconciler
	Assets      interfaces.AssetPublisher
	Remote      RemoteConfig
	Strategy    BranchStrategy // branch strategy of Resolver; empty means next
}

type pipeline struct {
	Pipeline
}

// NewPipeline creates a PipelineUseCase
func NewPipeline(p Pipeline) interfaces.PipelineUseCase {
	return &pipeline{Pipeline: p}
}

// Run resolves the tag, builds the binary and publishes it. Steps run in
// order and the first fatal error stops the run.
func (p *pipeline) Run(ctx context.Context, trigger model.Trigger) (*model.RunResult, error) {
	logger := ctxlog.From(ctx)

	tag, err := p.Resolver.Resolve(ctx, trigger)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve version", goerr.V("trigger", trigger.Kind))
	}
	result := &model.RunResult{Tag: tag}

	if p.updatesVersionFile(trigger) {
		if outcome := p.VersionFile.Update(ctx, tag); !outcome.IsOK() {
			logger.Warn("Could not update VERSION on main", "error", outcome.Err)
		}
	}

	artifact, err := p.Builder.Build(ctx, tag)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build binary", goerr.V("tag", tag))
	}

	if !p.Remote.IsCanonical() {
		logger.Info("Non-canonical server detected; skipping release upload", "server", p.Remote.ServerURL)
		result.SkipReason = "non-canonical server"
		return result, nil
	}

	notes, err := p.Notes.Compose(ctx, tag)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compose release notes", goerr.V("tag", tag))
	}

	release, err := p.Reconciler.Reconcile(ctx, tag, notes)
	if err != nil {
		return nil, err
	}
	result.Release = release

	asset, err := p.Assets.Publish(ctx, release, artifact)
	if err != nil {
		return nil, err
	}
	result.Asset = asset

	logger.Info("Release published", "tag", tag, "release_id", release.ID)
	return result, nil
}

// updatesVersionFile reports whether the VERSION commit runs for trigger. A
// branch push with the next strategy pushes a fresh tag every time, so a
// further push to main would start the next run.
func (p *pipeline) updatesVersionFile(trigger model.Trigger) bool {
	if p.VersionFile == nil {
		return false
	}
	return trigger.Kind == model.TriggerTagPush || p.Strategy == BranchStrategyLatest
}
