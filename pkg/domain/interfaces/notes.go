package interfaces

import (
	"context"

	"github.com/m-mizutani/tagship/pkg/domain/model"
)

// NotesStore looks up release notes entries by key
type NotesStore interface {
	// Lookup returns the entry for the first key that exists, or nil
	Lookup(ctx context.Context, keys []string) (*model.NotesEntry, error)
}

// Builder compiles the release binary
type Builder interface {
	Build(ctx context.Context, tag model.Tag) (*model.Artifact, error)
}
