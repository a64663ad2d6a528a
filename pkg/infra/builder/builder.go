package builder

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/kballard/go-shellquote"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/interfaces"
	"github.com/m-mizutani/tagship/pkg/domain/model"
)

// DefaultCommand builds a static Linux binary with cargo
const DefaultCommand = "cargo build --release --target x86_64-unknown-linux-musl"

// DefaultPaths returns where the default command leaves the binary
func DefaultPaths(name string) []string {
	return []string{
		filepath.Join("target", "x86_64-unknown-linux-musl", "release", name),
		filepath.Join("target", "release", name),
	}
}

// CommandBuilder runs a build command and collects the produced binary
type CommandBuilder struct {
	command    string
	binaryName string
	paths      []string
	dir        string
	output     io.Writer
}

var _ interfaces.Builder = (*CommandBuilder)(nil)

// Option is a functional option for CommandBuilder
type Option func(*CommandBuilder)

// WithDir sets the directory the build runs in
func WithDir(dir string) Option {
	return func(b *CommandBuilder) {
		b.dir = dir
	}
}

// WithOutput sets where build output is streamed. Default is stderr.
func WithOutput(w io.Writer) Option {
	return func(b *CommandBuilder) {
		b.output = w
	}
}

// New creates a CommandBuilder. paths are tried in order; the first existing
// file is the binary.
func New(command, binaryName string, paths []string, opts ...Option) *CommandBuilder {
	b := &CommandBuilder{
		command:    command,
		binaryName: binaryName,
		paths:      paths,
		output:     os.Stderr,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs the build command, then copies the binary to <dir>/<binaryName>
func (b *CommandBuilder) Build(ctx context.Context, tag model.Tag) (*model.Artifact, error) {
	logger := ctxlog.From(ctx)
	logger.Info("Building binary", "tag", tag, "command", b.command)

	args, err := shellquote.Split(b.command)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid build command", goerr.V("command", b.command))
	}
	if len(args) == 0 {
		return nil, goerr.New("empty build command")
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = b.dir
	cmd.Stdout = b.output
	cmd.Stderr = io.MultiWriter(b.output, &stderr)
	if err := cmd.Run(); err != nil {
		return nil, goerr.Wrap(err, "build command failed",
			goerr.V("command", b.command),
			goerr.V("stderr", tail(stderr.String(), 2048)),
		)
	}

	src, err := b.findBinary()
	if err != nil {
		return nil, err
	}

	dst := filepath.Join(b.dir, b.binaryName)
	size, err := copyFile(src, dst)
	if err != nil {
		return nil, err
	}

	logger.Info("Binary built successfully",
		"path", dst,
		"size", humanize.Bytes(uint64(size)),
		"size_bytes", humanize.Comma(size),
	)

	return &model.Artifact{
		Path: dst,
		Name: b.binaryName,
		Size: size,
	}, nil
}

func (b *CommandBuilder) findBinary() (string, error) {
	for _, p := range b.paths {
		full := filepath.Join(b.dir, p)
		if st, err := os.Stat(full); err == nil && !st.IsDir() {
			return full, nil
		}
	}
	return "", goerr.New("binary not found after build",
		goerr.V("binary", b.binaryName),
		goerr.V("paths", b.paths),
	)
}

func copyFile(src, dst string) (int64, error) {
	if filepath.Clean(src) == filepath.Clean(dst) {
		st, err := os.Stat(src)
		if err != nil {
			return 0, goerr.Wrap(err, "failed to stat binary", goerr.V("path", src))
		}
		return st.Size(), nil
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to open binary", goerr.V("path", src))
	}
	defer in.Close()

	st, err := in.Stat()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to stat binary", goerr.V("path", src))
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, st.Mode().Perm())
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create binary copy", goerr.V("path", dst))
	}
	defer out.Close()

	n, err := io.Copy(out, in)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to copy binary", goerr.V("src", src), goerr.V("dst", dst))
	}
	return n, nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
