package git

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/interfaces"
	"github.com/m-mizutani/tagship/pkg/domain/types"
)

// Client runs git commands in a working tree
type Client struct {
	executable string
	dir        string
}

var (
	_ interfaces.VCS       = (*Client)(nil)
	_ interfaces.Workspace = (*Client)(nil)
)

// Option is a functional option for Client
type Option func(*Client)

// WithDir sets the working tree. Default is the current directory.
func WithDir(dir string) Option {
	return func(c *Client) {
		c.dir = dir
	}
}

// WithExecutable sets the git binary
func WithExecutable(path string) Option {
	return func(c *Client) {
		c.executable = path
	}
}

// New creates a git client
func New(opts ...Option) *Client {
	c := &Client{
		executable: "git",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// run executes git and returns stdout. Credentials in URL arguments are
// masked in logs and errors.
func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	desc := c.executable + " " + strings.Join(sanitizeArgs(args), " ")
	ctxlog.From(ctx).Debug("Running git command", "command", desc, "dir", c.dir)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.executable, args...)
	cmd.Dir = c.dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	if err := cmd.Run(); err != nil {
		return "", goerr.Wrap(err, "git command failed",
			goerr.V("command", desc),
			goerr.V("stderr", SanitizeCredentialURLs(strings.TrimSpace(stderr.String()))),
			goerr.T(types.ErrTagVCS),
		)
	}

	return stdout.String(), nil
}

// FetchTags fetches tags from the default remote and prunes local tags that
// no longer exist there
func (c *Client) FetchTags(ctx context.Context) error {
	_, err := c.run(ctx, "fetch", "--prune", "--prune-tags", "--tags")
	return err
}

// ListTagsSorted returns tags ordered by version, highest first
func (c *Client) ListTagsSorted(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "tag", "--list", "--sort=-v:refname")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (c *Client) CreateTag(ctx context.Context, tag string) error {
	_, err := c.run(ctx, "tag", tag)
	return err
}

func (c *Client) PushRef(ctx context.Context, remote, ref string) error {
	_, err := c.run(ctx, "push", remote, ref)
	return err
}

// TagAnnotation returns the message of an annotated tag. Lightweight tags
// have no annotation and yield an empty string.
func (c *Client) TagAnnotation(ctx context.Context, tag string) (string, error) {
	out, err := c.run(ctx, "tag", "--list", "--format=%(if)%(*objecttype)%(then)%(contents)%(end)", tag)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) LogBetween(ctx context.Context, from, to string) (string, error) {
	rng := to
	if from != "" {
		rng = from + ".." + to
	}
	out, err := c.run(ctx, "log", "--pretty=format:- %s (%h)", rng)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) SetIdentity(ctx context.Context, name, email string) error {
	if _, err := c.run(ctx, "config", "user.name", name); err != nil {
		return err
	}
	_, err := c.run(ctx, "config", "user.email", email)
	return err
}

func (c *Client) FetchBranch(ctx context.Context, remote, branch string) error {
	_, err := c.run(ctx, "fetch", remote, branch)
	return err
}

// CheckoutTracking resets branch to upstream and checks it out
func (c *Client) CheckoutTracking(ctx context.Context, branch, upstream string) error {
	_, err := c.run(ctx, "checkout", "-B", branch, upstream)
	return err
}

func (c *Client) WriteFile(ctx context.Context, path string, data []byte) error {
	full := filepath.Join(c.dir, path)
	if err := os.WriteFile(full, data, 0644); err != nil {
		return goerr.Wrap(err, "failed to write file", goerr.V("path", full))
	}
	return nil
}

func (c *Client) Add(ctx context.Context, path string) error {
	_, err := c.run(ctx, "add", path)
	return err
}

func (c *Client) Commit(ctx context.Context, message string) error {
	_, err := c.run(ctx, "commit", "-m", message)
	return err
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func sanitizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg
		if strings.Contains(arg, "://") && strings.Contains(arg, "@") {
			out[i] = SanitizeCredentialURLs(arg)
		}
	}
	return out
}

// SanitizeCredentialURLs replaces the user info of every URL in s
func SanitizeCredentialURLs(s string) string {
	fields := strings.Fields(s)
	for _, f := range fields {
		idx := strings.Index(f, "://")
		if idx < 0 || !strings.Contains(f[idx:], "@") {
			continue
		}
		u, err := url.Parse(strings.Trim(f, "'\""))
		if err != nil || u.User == nil {
			continue
		}
		u.User = url.User("***")
		s = strings.ReplaceAll(s, strings.Trim(f, "'\""), u.String())
	}
	return s
}
