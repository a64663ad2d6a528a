package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/interfaces"
	"github.com/m-mizutani/tagship/pkg/domain/model"
	"github.com/m-mizutani/tagship/pkg/domain/types"
)

// RemoteConfig describes where tags and branches are pushed
type RemoteConfig struct {
	ServerURL  string // e.g. https://github.com
	Repository string // owner/repo
	Remote     string // remote alias used for non-canonical servers
}

// IsCanonical reports whether the server is the canonical public host
func (c RemoteConfig) IsCanonical() bool {
	return c.ServerURL == types.CanonicalServerURL
}

// PushTarget returns the remote to push to. On the canonical host it is an
// authenticated URL, otherwise the configured remote alias.
func PushTarget(ctx context.Context, cfg RemoteConfig, cred interfaces.PushCredential) (string, error) {
	if !cfg.IsCanonical() || cred == nil {
		return cfg.Remote, nil
	}

	token, err := cred.PushToken(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get push token")
	}
	if token == "" {
		return cfg.Remote, nil
	}

	return fmt.Sprintf("https://x-access-token:%s@github.com/%s.git", token, cfg.Repository), nil
}

type tagPublisher struct {
	vcs  interfaces.VCS
	cfg  RemoteConfig
	cred interfaces.PushCredential
}

// NewTagPublisher creates a TagPublisher
func NewTagPublisher(vcs interfaces.VCS, cfg RemoteConfig, cred interfaces.PushCredential) interfaces.TagPublisher {
	return &tagPublisher{
		vcs:  vcs,
		cfg:  cfg,
		cred: cred,
	}
}

// Publish creates the tag locally and pushes it. A tag that already exists
// locally is an error: it can only happen when resolution picked a used tag.
func (p *tagPublisher) Publish(ctx context.Context, tag model.Tag) error {
	if err := p.vcs.CreateTag(ctx, string(tag)); err != nil {
		return goerr.Wrap(err, "failed to create tag", goerr.V("tag", tag))
	}

	target, err := PushTarget(ctx, p.cfg, p.cred)
	if err != nil {
		return err
	}

	if err := p.vcs.PushRef(ctx, target, string(tag)); err != nil {
		return goerr.Wrap(err, "failed to push tag", goerr.V("tag", tag))
	}

	ctxlog.From(ctx).Info("Tag pushed successfully", "tag", tag, "canonical", p.cfg.IsCanonical())
	return nil
}
