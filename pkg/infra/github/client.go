package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/interfaces"
	"github.com/m-mizutani/tagship/pkg/domain/model"
	"github.com/m-mizutani/tagship/pkg/domain/types"
)

const (
	uploadURLTemplate = "{?name,label}"
	assetsPerPage     = 100
)

// Client implements interfaces.ReleaseHost on the GitHub REST API
type Client struct {
	githubClient *github.Client
	owner        string
	repo         string
	token        string
	appTransport *ghinstallation.Transport
}

var (
	_ interfaces.ReleaseHost    = (*Client)(nil)
	_ interfaces.PushCredential = (*Client)(nil)
)

type config struct {
	baseURL    string
	uploadURL  string
	httpClient *http.Client
}

// Option is a functional option for Client
type Option func(*config)

// WithBaseURL sets the REST API base URL, e.g. https://api.github.com/
func WithBaseURL(u string) Option {
	return func(c *config) {
		c.baseURL = u
	}
}

// WithUploadURL sets the upload API base URL, e.g. https://uploads.github.com/
func WithUploadURL(u string) Option {
	return func(c *config) {
		c.uploadURL = u
	}
}

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// NewClient creates a client authenticated with a bearer token
func NewClient(repository, token string, opts ...Option) (*Client, error) {
	cfg := newConfig(opts)

	c, err := newClient(repository, cfg, cfg.httpClient)
	if err != nil {
		return nil, err
	}
	c.githubClient = c.githubClient.WithAuthToken(token)
	c.token = token
	return c, nil
}

// NewAppClient creates a client authenticated as a GitHub App installation
func NewAppClient(repository string, appID, installationID int64, privateKey []byte, opts ...Option) (*Client, error) {
	cfg := newConfig(opts)

	base := http.DefaultTransport
	if cfg.httpClient != nil && cfg.httpClient.Transport != nil {
		base = cfg.httpClient.Transport
	}

	itr, err := ghinstallation.New(base, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID),
		)
	}
	if cfg.baseURL != "" {
		itr.BaseURL = strings.TrimSuffix(cfg.baseURL, "/")
	}

	c, err := newClient(repository, cfg, &http.Client{Transport: itr})
	if err != nil {
		return nil, err
	}
	c.appTransport = itr
	return c, nil
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func newClient(repository string, cfg *config, httpClient *http.Client) (*Client, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, goerr.New("repository must be owner/repo",
			goerr.V("repository", repository),
			goerr.T(types.ErrTagInvalidInput),
		)
	}

	githubClient := github.NewClient(httpClient)
	if cfg.baseURL != "" {
		u, err := parseBaseURL(cfg.baseURL)
		if err != nil {
			return nil, err
		}
		githubClient.BaseURL = u
	}
	if cfg.uploadURL != "" {
		u, err := parseBaseURL(cfg.uploadURL)
		if err != nil {
			return nil, err
		}
		githubClient.UploadURL = u
	}

	return &Client{
		githubClient: githubClient,
		owner:        owner,
		repo:         repo,
	}, nil
}

func parseBaseURL(s string) (*url.URL, error) {
	if !strings.HasSuffix(s, "/") {
		s += "/"
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid API URL", goerr.V("url", s), goerr.T(types.ErrTagInvalidInput))
	}
	return u, nil
}

// PushToken returns the token for authenticated git pushes
func (c *Client) PushToken(ctx context.Context) (string, error) {
	if c.appTransport == nil {
		return c.token, nil
	}
	token, err := c.appTransport.Token(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get installation token")
	}
	return token, nil
}

// CreateRelease creates a published release. HTTP 422 is reported with
// types.ErrTagReleaseExists.
func (c *Client) CreateRelease(ctx context.Context, req *model.NewRelease) (*model.Release, error) {
	release, resp, err := c.githubClient.Repositories.CreateRelease(ctx, c.owner, c.repo, &github.RepositoryRelease{
		TagName:    github.Ptr(req.TagName),
		Name:       github.Ptr(req.Name),
		Body:       github.Ptr(req.Body),
		Draft:      github.Ptr(req.Draft),
		Prerelease: github.Ptr(req.Prerelease),
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
			return nil, hostError(err, "release already exists", goerr.T(types.ErrTagReleaseExists), goerr.V("tag", req.TagName))
		}
		return nil, hostError(err, "failed to create release", goerr.V("tag", req.TagName))
	}

	return toRelease(release)
}

func (c *Client) GetReleaseByTag(ctx context.Context, tag string) (*model.Release, error) {
	release, _, err := c.githubClient.Repositories.GetReleaseByTag(ctx, c.owner, c.repo, tag)
	if err != nil {
		return nil, hostError(err, "failed to get release by tag", goerr.V("tag", tag))
	}
	return toRelease(release)
}

// ListAssets lists every asset of the release, following pagination. The
// release's assets URL is used when known.
func (c *Client) ListAssets(ctx context.Context, release *model.Release) ([]*model.Asset, error) {
	var assets []*github.ReleaseAsset
	opts := &github.ListOptions{PerPage: assetsPerPage}

	for {
		page, resp, err := c.listAssetsPage(ctx, release, opts)
		if err != nil {
			return nil, err
		}
		assets = append(assets, page...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	result := make([]*model.Asset, 0, len(assets))
	for _, a := range assets {
		result = append(result, toAsset(a))
	}
	return result, nil
}

func (c *Client) listAssetsPage(ctx context.Context, release *model.Release, opts *github.ListOptions) ([]*github.ReleaseAsset, *github.Response, error) {
	if release.AssetsURL == "" {
		list, resp, err := c.githubClient.Repositories.ListReleaseAssets(ctx, c.owner, c.repo, release.ID, opts)
		if err != nil {
			return nil, nil, hostError(err, "failed to list release assets", goerr.V("release_id", release.ID))
		}
		return list, resp, nil
	}

	u := fmt.Sprintf("%s?per_page=%d", release.AssetsURL, opts.PerPage)
	if opts.Page > 0 {
		u += fmt.Sprintf("&page=%d", opts.Page)
	}
	req, err := c.githubClient.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create asset list request", goerr.V("url", u))
	}

	var list []*github.ReleaseAsset
	resp, err := c.githubClient.Do(ctx, req, &list)
	if err != nil {
		return nil, nil, hostError(err, "failed to list release assets",
			goerr.V("release_id", release.ID),
			goerr.V("page", opts.Page),
		)
	}
	return list, resp, nil
}

func (c *Client) DeleteAsset(ctx context.Context, assetID int64) error {
	if _, err := c.githubClient.Repositories.DeleteReleaseAsset(ctx, c.owner, c.repo, assetID); err != nil {
		return hostError(err, "failed to delete release asset", goerr.V("asset_id", assetID))
	}
	return nil
}

// UploadAsset posts the artifact to the release's upload URL. Only HTTP 201
// counts as success.
func (c *Client) UploadAsset(ctx context.Context, release *model.Release, artifact *model.Artifact) (*model.Asset, error) {
	f, err := os.Open(artifact.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open artifact", goerr.V("path", artifact.Path))
	}
	defer f.Close()

	uploadURL := strings.TrimSuffix(release.UploadURL, uploadURLTemplate) + "?name=" + url.QueryEscape(artifact.Name)

	req, err := c.githubClient.NewUploadRequest(uploadURL, f, artifact.Size, "application/octet-stream")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create upload request", goerr.V("url", uploadURL))
	}

	var asset github.ReleaseAsset
	resp, err := c.githubClient.Do(ctx, req, &asset)
	if err != nil {
		return nil, hostError(err, "failed to upload release asset", goerr.V("release_id", release.ID))
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, goerr.New("unexpected status on asset upload",
			goerr.V("status", resp.StatusCode),
			goerr.V("release_id", release.ID),
			goerr.T(types.ErrTagHost),
		)
	}

	return toAsset(&asset), nil
}

// hostError wraps a go-github error with the status and response message
func hostError(err error, msg string, opts ...goerr.Option) error {
	opts = append(opts, goerr.T(types.ErrTagHost))

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		if ghErr.Response != nil {
			opts = append(opts, goerr.V("status", ghErr.Response.StatusCode))
		}
		opts = append(opts, goerr.V("response", ghErr.Message))
		if len(ghErr.Errors) > 0 {
			opts = append(opts, goerr.V("errors", ghErr.Errors))
		}
	}

	return goerr.Wrap(err, msg, opts...)
}

func toRelease(r *github.RepositoryRelease) (*model.Release, error) {
	if r.GetID() == 0 || r.GetUploadURL() == "" {
		return nil, goerr.New("release has no id or upload url",
			goerr.V("tag", r.GetTagName()),
			goerr.T(types.ErrTagHost),
		)
	}

	return &model.Release{
		ID:        r.GetID(),
		TagName:   r.GetTagName(),
		Name:      r.GetName(),
		UploadURL: r.GetUploadURL(),
		AssetsURL: r.GetAssetsURL(),
		HTMLURL:   r.GetHTMLURL(),
	}, nil
}

func toAsset(a *github.ReleaseAsset) *model.Asset {
	return &model.Asset{
		ID:          a.GetID(),
		Name:        a.GetName(),
		Size:        int64(a.GetSize()),
		DownloadURL: a.GetBrowserDownloadURL(),
	}
}
