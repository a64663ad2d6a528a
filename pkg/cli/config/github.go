package config

import (
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/types"
	githubinfra "github.com/m-mizutani/tagship/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds release host configuration
type GitHub struct {
	ServerURL         string
	Repository        string
	Token             string `masq:"secret"`
	APIURL            string
	UploadURL         string
	AppID             int64
	AppInstallationID int64
	AppPrivateKey     string `masq:"secret"`
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "server-url",
			Usage:       "Host base URL; uploads only happen on " + types.CanonicalServerURL + " (unset counts as another host)",
			Destination: &c.ServerURL,
			Sources:     cli.EnvVars("GITHUB_SERVER_URL"),
		},
		&cli.StringFlag{
			Name:        "repository",
			Usage:       "Repository in owner/repo form",
			Destination: &c.Repository,
			Sources:     cli.EnvVars("GITHUB_REPOSITORY"),
		},
		&cli.StringFlag{
			Name:        "token",
			Usage:       "Token for the release API and for pushing",
			Destination: &c.Token,
			Sources:     cli.EnvVars("GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "api-url",
			Usage:       "REST API base URL",
			Value:       "https://api.github.com/",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("GITHUB_API_URL"),
		},
		&cli.StringFlag{
			Name:        "upload-url",
			Usage:       "Upload API base URL",
			Value:       "https://uploads.github.com/",
			Destination: &c.UploadURL,
			Sources:     cli.EnvVars("TAGSHIP_UPLOAD_URL"),
		},
		&cli.Int64Flag{
			Name:        "app-id",
			Usage:       "GitHub App ID, used instead of --token when set",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("TAGSHIP_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.AppInstallationID,
			Sources:     cli.EnvVars("TAGSHIP_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "app-private-key",
			Usage:       "GitHub App private key (PEM content or file path)",
			Destination: &c.AppPrivateKey,
			Sources:     cli.EnvVars("TAGSHIP_GITHUB_APP_PRIVATE_KEY"),
		},
	}
}

// NormalizedServerURL returns the server URL without trailing slashes
func (c *GitHub) NormalizedServerURL() string {
	return strings.TrimRight(strings.TrimSpace(c.ServerURL), "/")
}

// Validate checks required values
func (c *GitHub) Validate() error {
	if c.Repository == "" {
		return goerr.New("repository is required (--repository or GITHUB_REPOSITORY)",
			goerr.T(types.ErrTagInvalidInput))
	}
	if c.AppID != 0 && (c.AppInstallationID == 0 || c.AppPrivateKey == "") {
		return goerr.New("app-installation-id and app-private-key are required with app-id",
			goerr.V("app_id", c.AppID),
			goerr.T(types.ErrTagInvalidInput))
	}
	return nil
}

// NewClient builds the release host client. GitHub App credentials take
// precedence over the token.
func (c *GitHub) NewClient() (*githubinfra.Client, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	opts := []githubinfra.Option{
		githubinfra.WithBaseURL(c.APIURL),
		githubinfra.WithUploadURL(c.UploadURL),
	}

	if c.AppID == 0 {
		return githubinfra.NewClient(c.Repository, c.Token, opts...)
	}

	key, err := c.privateKey()
	if err != nil {
		return nil, err
	}
	return githubinfra.NewAppClient(c.Repository, c.AppID, c.AppInstallationID, key, opts...)
}

func (c *GitHub) privateKey() ([]byte, error) {
	if strings.Contains(c.AppPrivateKey, "-----BEGIN") {
		return []byte(c.AppPrivateKey), nil
	}

	data, err := os.ReadFile(c.AppPrivateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read GitHub App private key",
			goerr.V("path", c.AppPrivateKey),
			goerr.T(types.ErrTagInvalidInput))
	}
	return data, nil
}
