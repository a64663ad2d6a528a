package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/interfaces"
	"github.com/m-mizutani/tagship/pkg/domain/model"
)

type notesComposer struct {
	vcs          interfaces.VCS
	store        interfaces.NotesStore
	overrideBody string
}

// NewNotesComposer creates a NotesComposer. store may be nil when no notes
// file is configured.
func NewNotesComposer(vcs interfaces.VCS, store interfaces.NotesStore, overrideBody string) interfaces.NotesComposer {
	return &notesComposer{
		vcs:          vcs,
		store:        store,
		overrideBody: overrideBody,
	}
}

// Compose builds the release notes from the first source with a non-empty
// body: notes store, override text, tag annotation, commit log.
func (c *notesComposer) Compose(ctx context.Context, tag model.Tag) (*model.ReleaseNotes, error) {
	logger := ctxlog.From(ctx)
	notes := &model.ReleaseNotes{}

	entry, outcome := c.fromStore(ctx, tag)
	switch {
	case outcome.IsFatal():
		return nil, outcome.Err
	case !outcome.IsOK():
		logger.Warn("Could not read release notes store", "error", outcome.Err)
	case entry != nil:
		notes.Title = strings.TrimSpace(entry.Title)
		if body := strings.TrimSpace(entry.Body); body != "" {
			notes.Body = body
			notes.Source = model.NotesSourceStore
		}
	}

	if notes.Body == "" {
		if body := strings.TrimSpace(c.overrideBody); body != "" {
			notes.Body = body
			notes.Source = model.NotesSourceOverride
		}
	}

	if notes.Body == "" {
		body, outcome := c.fromAnnotation(ctx, tag)
		if !outcome.IsOK() {
			logger.Warn("Could not read tag annotation", "tag", tag, "error", outcome.Err)
		} else if body != "" {
			notes.Body = body
			notes.Source = model.NotesSourceAnnotation
		}
	}

	if notes.Body == "" {
		body, outcome := c.fromCommitLog(ctx)
		if !outcome.IsOK() {
			logger.Warn("Could not generate commit log", "error", outcome.Err)
		} else if body != "" {
			notes.Body = body
			notes.Source = model.NotesSourceCommitLog
		}
	}

	if notes.Body == "" && notes.Title == "" {
		notes.Body = fmt.Sprintf("Automated release for %s", tag)
		notes.Source = model.NotesSourcePlaceholder
	}

	logger.Debug("Composed release notes",
		"tag", tag,
		"source", notes.Source,
		"has_title", notes.Title != "",
	)

	return notes, nil
}

func (c *notesComposer) fromStore(ctx context.Context, tag model.Tag) (*model.NotesEntry, model.Outcome) {
	if c.store == nil {
		return nil, model.Ok()
	}

	entry, err := c.store.Lookup(ctx, tag.NotesKeys())
	if err != nil {
		return nil, model.Recoverable(goerr.Wrap(err, "failed to look up release notes", goerr.V("tag", tag)))
	}
	return entry, model.Ok()
}

func (c *notesComposer) fromAnnotation(ctx context.Context, tag model.Tag) (string, model.Outcome) {
	text, err := c.vcs.TagAnnotation(ctx, string(tag))
	if err != nil {
		return "", model.Recoverable(err)
	}
	return strings.TrimSpace(text), model.Ok()
}

// fromCommitLog lists the commits since the previous tag, which is the
// second highest one, or the whole history when there is none
func (c *notesComposer) fromCommitLog(ctx context.Context) (string, model.Outcome) {
	tags, err := c.vcs.ListTagsSorted(ctx)
	if err != nil {
		return "", model.Recoverable(err)
	}

	var previous string
	if len(tags) > 1 {
		previous = tags[1]
	}

	log, err := c.vcs.LogBetween(ctx, previous, "HEAD")
	if err != nil {
		return "", model.Recoverable(err)
	}
	return strings.TrimSpace(log), model.Ok()
}
