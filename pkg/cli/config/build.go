package config

import (
	"github.com/m-mizutani/tagship/pkg/infra/builder"
	"github.com/urfave/cli/v3"
)

// Build holds build configuration
type Build struct {
	BinaryName  string
	Command     string
	BinaryPaths []string
}

// Flags returns CLI flags for build configuration
func (c *Build) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "binary-name",
			Usage:       "Name of the built binary and of the release asset",
			Value:       "confctl",
			Destination: &c.BinaryName,
			Sources:     cli.EnvVars("TAGSHIP_BINARY_NAME"),
		},
		&cli.StringFlag{
			Name:        "build-command",
			Usage:       "Build command",
			Value:       builder.DefaultCommand,
			Destination: &c.Command,
			Sources:     cli.EnvVars("TAGSHIP_BUILD_COMMAND"),
		},
		&cli.StringSliceFlag{
			Name:        "binary-path",
			Usage:       "Where the build leaves the binary; tried in order",
			Destination: &c.BinaryPaths,
			Sources:     cli.EnvVars("TAGSHIP_BINARY_PATH"),
		},
	}
}

// NewBuilder creates the command builder
func (c *Build) NewBuilder() *builder.CommandBuilder {
	paths := c.BinaryPaths
	if len(paths) == 0 {
		paths = builder.DefaultPaths(c.BinaryName)
	}
	return builder.New(c.Command, c.BinaryName, paths)
}
