package types

import "github.com/m-mizutani/goerr/v2"

// Version is set by ldflags at build time
var Version = "dev"

var (
	// ErrTagInvalidInput marks malformed trigger refs, unknown trigger kinds and
	// other bad input from the CI environment.
	ErrTagInvalidInput = goerr.NewTag("invalid_input")

	// ErrTagInvalidVersion marks a tag that does not parse as vMAJOR.MINOR.PATCH.
	ErrTagInvalidVersion = goerr.NewTag("invalid_version")

	// ErrTagReleaseExists marks the host's uniqueness violation on release creation.
	ErrTagReleaseExists = goerr.NewTag("release_exists")

	// ErrTagHost marks an unexpected response from the release host.
	ErrTagHost = goerr.NewTag("host")

	// ErrTagVCS marks a failed version-control command.
	ErrTagVCS = goerr.NewTag("vcs")
)

// CanonicalServerURL is the only server for which releases are published.
const CanonicalServerURL = "https://github.com"
