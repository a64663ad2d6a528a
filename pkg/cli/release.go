package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/cli/config"
	"github.com/m-mizutani/tagship/pkg/controller/trigger"
	"github.com/m-mizutani/tagship/pkg/domain/model"
	"github.com/m-mizutani/tagship/pkg/infra/git"
	"github.com/m-mizutani/tagship/pkg/infra/notes"
	"github.com/m-mizutani/tagship/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdRelease() *cli.Command {
	var (
		githubCfg  config.GitHub
		triggerCfg config.Trigger
		releaseCfg config.Release
		buildCfg   config.Build
	)

	var flags []cli.Flag
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, triggerCfg.Flags()...)
	flags = append(flags, releaseCfg.Flags()...)
	flags = append(flags, buildCfg.Flags()...)

	return &cli.Command{
		Name:    "release",
		Aliases: []string{"r"},
		Usage:   "Resolve the tag, build the binary and publish the release",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			strategy, err := triggerCfg.Strategy()
			if err != nil {
				return err
			}

			host, err := githubCfg.NewClient()
			if err != nil {
				return goerr.Wrap(err, "failed to create GitHub client")
			}

			vcs := git.New()
			remote := usecase.RemoteConfig{
				ServerURL:  githubCfg.NormalizedServerURL(),
				Repository: githubCfg.Repository,
				Remote:     releaseCfg.Remote,
			}
			publisher := usecase.NewTagPublisher(vcs, remote, host)

			p := usecase.Pipeline{
				Resolver:   usecase.NewVersionResolver(vcs, publisher, usecase.WithBranchStrategy(strategy)),
				Builder:    buildCfg.NewBuilder(),
				Notes:      usecase.NewNotesComposer(vcs, notes.NewFileStore(releaseCfg.NotesFile), releaseCfg.Body),
				Reconciler: usecase.NewReconciler(host),
				Assets:     usecase.NewAssetPublisher(host),
				Remote:     remote,
				Strategy:   strategy,
			}
			if !releaseCfg.NoVersionFile {
				p.VersionFile = usecase.NewVersionFileUpdater(vcs, vcs, remote, host)
			}

			logger.Info("Starting release",
				"repository", githubCfg.Repository,
				"server", remote.ServerURL,
				"ref_type", triggerCfg.RefType,
				"ref", triggerCfg.Ref,
			)

			processor := trigger.NewProcessor(
				usecase.NewPipeline(p),
				trigger.WithBranchRelease(triggerCfg.BranchReleaseEnabled()),
			)

			result, err := processor.Process(ctx, triggerCfg.RefType, triggerCfg.Ref)
			if err != nil {
				return err
			}

			printSummary(c.Root().Writer, result)
			return nil
		},
	}
}

func printSummary(w io.Writer, result *model.RunResult) {
	if result.Skipped() {
		color.New(color.FgYellow).Fprintf(w, "skipped")
		if result.Tag != "" {
			fmt.Fprintf(w, " %s", result.Tag)
		}
		fmt.Fprintf(w, ": %s\n", result.SkipReason)
		return
	}

	color.New(color.FgGreen, color.Bold).Fprintf(w, "released %s\n", result.Tag)
	if result.Release != nil && result.Release.HTMLURL != "" {
		fmt.Fprintf(w, "  release: %s\n", result.Release.HTMLURL)
	}
	if result.Asset != nil {
		fmt.Fprintf(w, "  asset:   %s (%s)\n", result.Asset.Name, humanize.Bytes(uint64(result.Asset.Size)))
	}
}
