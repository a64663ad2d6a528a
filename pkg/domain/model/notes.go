package model

import "strings"

// NotesSource records which source produced a release body
type NotesSource string

const (
	NotesSourceStore       NotesSource = "notes-store"
	NotesSourceOverride    NotesSource = "override"
	NotesSourceAnnotation  NotesSource = "annotation"
	NotesSourceCommitLog   NotesSource = "commit-log"
	NotesSourcePlaceholder NotesSource = "placeholder"
)

// ReleaseNotes is the composed title and body of a release
type ReleaseNotes struct {
	Title  string
	Body   string
	Source NotesSource
}

// Text returns the release body as published. A title is prepended with a
// blank line regardless of which source produced the body.
func (n *ReleaseNotes) Text() string {
	if n.Title == "" {
		return n.Body
	}
	return strings.TrimSpace(n.Title + "\n\n" + n.Body)
}

// NotesEntry is one entry of the notes store
type NotesEntry struct {
	Title string `toml:"title" yaml:"title"`
	Body  string `toml:"body" yaml:"body"`
}
