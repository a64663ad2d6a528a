package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/types"
)

// TriggerKind is the event kind that started a run
type TriggerKind string

const (
	TriggerBranchPush TriggerKind = "branch"
	TriggerTagPush    TriggerKind = "tag"
)

// ParseTriggerKind converts a CI ref type into a TriggerKind
func ParseTriggerKind(s string) (TriggerKind, error) {
	switch TriggerKind(s) {
	case TriggerBranchPush, TriggerTagPush:
		return TriggerKind(s), nil
	default:
		return "", goerr.New("unknown ref type",
			goerr.V("ref_type", s),
			goerr.T(types.ErrTagInvalidInput),
		)
	}
}

// Trigger is the event of one run
type Trigger struct {
	Kind TriggerKind
	Ref  string // e.g. refs/heads/main or refs/tags/v1.2.3
}

// TagName extracts the tag from the last path segment of the ref
func (t Trigger) TagName() (Tag, error) {
	ref := strings.TrimSpace(t.Ref)
	name := ref[strings.LastIndex(ref, "/")+1:]
	if name == "" {
		return "", goerr.New("no tag name in ref",
			goerr.V("ref", t.Ref),
			goerr.T(types.ErrTagInvalidInput),
		)
	}
	return Tag(name), nil
}
