package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/tagship/pkg/infra/git"
	"github.com/m-mizutani/tagship/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdNextVersion() *cli.Command {
	return &cli.Command{
		Name:  "next-version",
		Usage: "Print the tag a branch release would push, without pushing it",
		Action: func(ctx context.Context, c *cli.Command) error {
			tag, err := usecase.NextVersion(ctx, git.New())
			if err != nil {
				return err
			}

			fmt.Fprintln(c.Root().Writer, tag)
			return nil
		},
	}
}
