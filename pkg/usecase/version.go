package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/interfaces"
	"github.com/m-mizutani/tagship/pkg/domain/model"
	"github.com/m-mizutani/tagship/pkg/domain/types"
)

// BranchStrategy decides which tag a branch push releases
type BranchStrategy string

const (
	// BranchStrategyNext bumps the patch number of the highest tag
	BranchStrategyNext BranchStrategy = "next"
	// BranchStrategyLatest re-releases the highest tag
	BranchStrategyLatest BranchStrategy = "latest"
)

type versionResolver struct {
	vcs       interfaces.VCS
	publisher interfaces.TagPublisher
	strategy  BranchStrategy
}

// ResolverOption configures the version resolver
type ResolverOption func(*versionResolver)

// WithBranchStrategy sets the strategy used for branch pushes
func WithBranchStrategy(s BranchStrategy) ResolverOption {
	return func(r *versionResolver) {
		r.strategy = s
	}
}

// NewVersionResolver creates a VersionResolver. publisher is used to push
// every tag synthesized for a branch push.
func NewVersionResolver(vcs interfaces.VCS, publisher interfaces.TagPublisher, opts ...ResolverOption) interfaces.VersionResolver {
	r := &versionResolver{
		vcs:       vcs,
		publisher: publisher,
		strategy:  BranchStrategyNext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the tag for the trigger
func (r *versionResolver) Resolve(ctx context.Context, trigger model.Trigger) (model.Tag, error) {
	switch trigger.Kind {
	case model.TriggerTagPush:
		tag, err := trigger.TagName()
		if err != nil {
			return "", err
		}
		ctxlog.From(ctx).Info("Tag push detected", "tag", tag)
		return tag, nil

	case model.TriggerBranchPush:
		return r.resolveBranch(ctx)

	default:
		return "", goerr.New("unknown trigger kind",
			goerr.V("kind", trigger.Kind),
			goerr.T(types.ErrTagInvalidInput),
		)
	}
}

func (r *versionResolver) resolveBranch(ctx context.Context) (model.Tag, error) {
	logger := ctxlog.From(ctx)

	latest, err := r.latestTag(ctx)
	if err != nil {
		return "", err
	}

	if latest == "" {
		logger.Info("No tags found, bootstrapping first release tag", "tag", model.BootstrapTag)
		if err := r.publisher.Publish(ctx, model.BootstrapTag); err != nil {
			return "", goerr.Wrap(err, "failed to publish bootstrap tag", goerr.V("tag", model.BootstrapTag))
		}
		return model.BootstrapTag, nil
	}

	logger.Info("Latest tag", "tag", latest)

	if r.strategy == BranchStrategyLatest {
		if _, err := model.ParseTag(string(latest)); err != nil {
			return "", err
		}
		return latest, nil
	}

	next, err := latest.Next()
	if err != nil {
		return "", err
	}

	logger.Info("Creating new tag", "tag", next)
	if err := r.publisher.Publish(ctx, next); err != nil {
		return "", goerr.Wrap(err, "failed to publish tag", goerr.V("tag", next))
	}

	return next, nil
}

// latestTag refreshes remote tags and returns the highest one, or "" when
// the repository has no tags
func (r *versionResolver) latestTag(ctx context.Context) (model.Tag, error) {
	if err := r.vcs.FetchTags(ctx); err != nil {
		return "", goerr.Wrap(err, "failed to fetch tags")
	}

	tags, err := r.vcs.ListTagsSorted(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list tags")
	}
	if len(tags) == 0 {
		return "", nil
	}
	return model.Tag(tags[0]), nil
}

// NextVersion returns the tag a branch push with the "next" strategy would
// produce, without creating or pushing it
func NextVersion(ctx context.Context, vcs interfaces.VCS) (model.Tag, error) {
	r := &versionResolver{vcs: vcs}
	latest, err := r.latestTag(ctx)
	if err != nil {
		return "", err
	}
	if latest == "" {
		latest = model.ZeroTag
	}
	return latest.Next()
}
