package interfaces

import "context"

// VCS defines the version-control operations used by a release run
type VCS interface {
	// FetchTags fetches remote tags, pruning stale local ones
	FetchTags(ctx context.Context) error

	// ListTagsSorted returns all tags, highest version first
	ListTagsSorted(ctx context.Context) ([]string, error)

	// CreateTag creates a lightweight tag at HEAD. It fails if the tag exists.
	CreateTag(ctx context.Context, tag string) error

	// PushRef pushes a ref to a remote alias or URL
	PushRef(ctx context.Context, remote, ref string) error

	// TagAnnotation returns the annotation text of a tag
	TagAnnotation(ctx context.Context, tag string) (string, error)

	// LogBetween returns one "- <subject> (<short-hash>)" line per commit in
	// from..to. An empty from covers the whole history up to to.
	LogBetween(ctx context.Context, from, to string) (string, error)
}

// Workspace defines the working tree operations for VERSION file housekeeping
type Workspace interface {
	SetIdentity(ctx context.Context, name, email string) error
	FetchBranch(ctx context.Context, remote, branch string) error
	CheckoutTracking(ctx context.Context, branch, upstream string) error
	WriteFile(ctx context.Context, path string, data []byte) error
	Add(ctx context.Context, path string) error
	Commit(ctx context.Context, message string) error
}
