package config

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/types"
	"github.com/m-mizutani/tagship/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Trigger holds the CI event that started the run
type Trigger struct {
	RefType             string
	Ref                 string
	UpdateLatestRelease string
	BranchStrategy      string
}

// Flags returns CLI flags for trigger configuration
func (c *Trigger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "ref-type",
			Usage:       "Ref type of the trigger (branch or tag)",
			Destination: &c.RefType,
			Sources:     cli.EnvVars("GITHUB_REF_TYPE"),
		},
		&cli.StringFlag{
			Name:        "ref",
			Usage:       "Ref of the trigger, e.g. refs/tags/v1.2.3",
			Destination: &c.Ref,
			Sources:     cli.EnvVars("GITHUB_REF"),
		},
		&cli.StringFlag{
			Name:        "update-latest-release",
			Usage:       "Release on branch pushes (1, true or yes)",
			Destination: &c.UpdateLatestRelease,
			Sources:     cli.EnvVars("UPDATE_LATEST_RELEASE"),
		},
		&cli.StringFlag{
			Name:        "branch-strategy",
			Usage:       "Tag used on branch pushes: next (bump patch) or latest (reuse highest tag)",
			Value:       string(usecase.BranchStrategyNext),
			Destination: &c.BranchStrategy,
			Sources:     cli.EnvVars("TAGSHIP_BRANCH_STRATEGY"),
		},
	}
}

// BranchReleaseEnabled reports whether branch pushes should release
func (c *Trigger) BranchReleaseEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(c.UpdateLatestRelease)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// Strategy returns the parsed branch strategy
func (c *Trigger) Strategy() (usecase.BranchStrategy, error) {
	switch s := usecase.BranchStrategy(strings.ToLower(c.BranchStrategy)); s {
	case "":
		return usecase.BranchStrategyNext, nil
	case usecase.BranchStrategyNext, usecase.BranchStrategyLatest:
		return s, nil
	default:
		return "", goerr.New("invalid branch strategy",
			goerr.V("strategy", c.BranchStrategy),
			goerr.T(types.ErrTagInvalidInput))
	}
}
