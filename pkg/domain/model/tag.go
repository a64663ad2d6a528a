package model

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/types"
)

// Tag is a release version label in the form vMAJOR.MINOR.PATCH
type Tag string

const (
	// ZeroTag is treated as the latest tag when a repository has none
	ZeroTag Tag = "v0.0.0"

	// BootstrapTag is the first tag synthesized for a repository without tags
	BootstrapTag Tag = "v0.0.1"
)

// ParseTag parses a tag strictly as three dot-separated integers with an
// optional leading "v". Pre-release and build metadata are rejected.
func ParseTag(s string) (*semver.Version, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "v")
	v, err := semver.StrictNewVersion(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "tag is not MAJOR.MINOR.PATCH",
			goerr.V("tag", s),
			goerr.T(types.ErrTagInvalidVersion),
		)
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return nil, goerr.New("tag has pre-release or build metadata",
			goerr.V("tag", s),
			goerr.T(types.ErrTagInvalidVersion),
		)
	}
	return v, nil
}

// Next returns the tag with the patch number incremented. Minor and major
// are never bumped.
func (t Tag) Next() (Tag, error) {
	v, err := ParseTag(string(t))
	if err != nil {
		return "", err
	}
	next := v.IncPatch()
	return Tag(fmt.Sprintf("v%d.%d.%d", next.Major(), next.Minor(), next.Patch())), nil
}

// Version returns the tag without its leading "v"
func (t Tag) Version() string {
	return strings.TrimPrefix(string(t), "v")
}

func (t Tag) String() string {
	return string(t)
}

// NotesKeys returns the notes store keys to try for this tag, in order
func (t Tag) NotesKeys() []string {
	raw := string(t)
	stripped := t.Version()
	return []string{
		raw,
		stripped,
		strings.ReplaceAll(raw, ".", "-"),
		strings.ReplaceAll(stripped, ".", "-"),
	}
}
