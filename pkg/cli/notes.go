package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/cli/config"
	"github.com/m-mizutani/tagship/pkg/domain/model"
	"github.com/m-mizutani/tagship/pkg/domain/types"
	"github.com/m-mizutani/tagship/pkg/infra/git"
	"github.com/m-mizutani/tagship/pkg/infra/notes"
	"github.com/m-mizutani/tagship/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdNotes() *cli.Command {
	var (
		releaseCfg config.Release
		tag        string
	)

	flags := append([]cli.Flag{
		&cli.StringFlag{
			Name:        "tag",
			Aliases:     []string{"t"},
			Usage:       "Tag to compose release notes for",
			Required:    true,
			Destination: &tag,
		},
	}, releaseCfg.Flags()...)

	return &cli.Command{
		Name:  "notes",
		Usage: "Print the release notes that would be published for a tag",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if tag == "" {
				return goerr.New("tag is required", goerr.T(types.ErrTagInvalidInput))
			}

			composer := usecase.NewNotesComposer(git.New(), notes.NewFileStore(releaseCfg.NotesFile), releaseCfg.Body)
			result, err := composer.Compose(ctx, model.Tag(tag))
			if err != nil {
				return err
			}

			fmt.Fprintln(c.Root().Writer, result.Text())
			return nil
		},
	}
}
