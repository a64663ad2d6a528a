package config

import (
	"github.com/urfave/cli/v3"
)

// Release holds release publishing configuration
type Release struct {
	Body          string
	NotesFile     string
	Remote        string
	NoVersionFile bool
}

// Flags returns CLI flags for release configuration
func (c *Release) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "release-body",
			Usage:       "Release notes body used when the notes file has no entry",
			Destination: &c.Body,
			Sources:     cli.EnvVars("RELEASE_BODY"),
		},
		&cli.StringFlag{
			Name:        "notes-file",
			Usage:       "Release notes file (TOML, or YAML by extension)",
			Value:       "releases_notes.toml",
			Destination: &c.NotesFile,
			Sources:     cli.EnvVars("TAGSHIP_NOTES_FILE"),
		},
		&cli.StringFlag{
			Name:        "remote",
			Usage:       "Git remote used on non-canonical servers",
			Value:       "origin",
			Destination: &c.Remote,
			Sources:     cli.EnvVars("TAGSHIP_REMOTE"),
		},
		&cli.BoolFlag{
			Name:        "no-version-file",
			Usage:       "Do not commit the VERSION file to main on branch releases",
			Destination: &c.NoVersionFile,
			Sources:     cli.EnvVars("TAGSHIP_NO_VERSION_FILE"),
		},
	}
}
