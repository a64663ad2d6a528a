package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/interfaces"
	"github.com/m-mizutani/tagship/pkg/domain/model"
)

const (
	versionFileName = "VERSION"
	versionBranch   = "main"
	committerName   = "github-actions"
	committerEmail  = "github-actions@github.com"
	defaultRemote   = "origin"
)

type versionFileUpdater struct {
	ws   interfaces.Workspace
	vcs  interfaces.VCS
	cfg  RemoteConfig
	cred interfaces.PushCredential
}

// NewVersionFileUpdater creates a VersionFileUpdater
func NewVersionFileUpdater(ws interfaces.Workspace, vcs interfaces.VCS, cfg RemoteConfig, cred interfaces.PushCredential) interfaces.VersionFileUpdater {
	return &versionFileUpdater{
		ws:   ws,
		vcs:  vcs,
		cfg:  cfg,
		cred: cred,
	}
}

// Update commits the tag's version into VERSION on main and pushes it. Every
// failure is Recoverable: the release goes on without the housekeeping commit.
func (u *versionFileUpdater) Update(ctx context.Context, tag model.Tag) model.Outcome {
	logger := ctxlog.From(ctx)
	version := tag.Version()

	remote := u.cfg.Remote
	if remote == "" {
		remote = defaultRemote
	}

	logger.Info("Updating VERSION file", "version", version, "remote", remote)

	if err := u.ws.SetIdentity(ctx, committerName, committerEmail); err != nil {
		return model.Recoverable(goerr.Wrap(err, "failed to set git identity"))
	}
	if err := u.ws.FetchBranch(ctx, remote, versionBranch); err != nil {
		return model.Recoverable(goerr.Wrap(err, "failed to fetch main"))
	}
	if err := u.ws.CheckoutTracking(ctx, versionBranch, remote+"/"+versionBranch); err != nil {
		return model.Recoverable(goerr.Wrap(err, "failed to checkout main"))
	}
	if err := u.ws.WriteFile(ctx, versionFileName, []byte(version+"\n")); err != nil {
		return model.Recoverable(goerr.Wrap(err, "failed to write VERSION"))
	}
	if err := u.ws.Add(ctx, versionFileName); err != nil {
		return model.Recoverable(goerr.Wrap(err, "failed to stage VERSION"))
	}

	// [skip ci] keeps the push to main from starting another release run
	msg := fmt.Sprintf("chore(release): set VERSION to %s [skip ci]", version)
	if err := u.ws.Commit(ctx, msg); err != nil {
		logger.Info("No changes to VERSION; skipping commit")
		return model.Ok()
	}

	target, err := PushTarget(ctx, u.cfg, u.cred)
	if err != nil {
		return model.Recoverable(err)
	}
	if err := u.vcs.PushRef(ctx, target, "HEAD:"+versionBranch); err != nil {
		return model.Recoverable(goerr.Wrap(err, "failed to push VERSION update"))
	}

	logger.Info("VERSION file pushed", "version", version)
	return model.Ok()
}
