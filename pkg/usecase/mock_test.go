package usecase_test

import (
	"context"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/model"
	"github.com/m-mizutani/tagship/pkg/domain/types"
)

// fakeVCS is a scripted VCS that records calls in order
type fakeVCS struct {
	tags        []string
	annotations map[string]string
	logs        map[string]string // keyed by "from..to"

	fetchErr error
	listErr  error
	pushErr  error
	logErr   error

	calls  []string
	pushed []pushCall
}

type pushCall struct {
	Remote string
	Ref    string
}

func (m *fakeVCS) FetchTags(ctx context.Context) error {
	m.calls = append(m.calls, "fetch")
	return m.fetchErr
}

// ListTagsSorted sorts semver-looking tags descending, like git's v:refname
func (m *fakeVCS) ListTagsSorted(ctx context.Context) ([]string, error) {
	m.calls = append(m.calls, "list")
	if m.listErr != nil {
		return nil, m.listErr
	}
	tags := append([]string(nil), m.tags...)
	sort.SliceStable(tags, func(i, j int) bool {
		vi, ei := semver.NewVersion(tags[i])
		vj, ej := semver.NewVersion(tags[j])
		if ei != nil || ej != nil {
			return tags[i] > tags[j]
		}
		return vi.GreaterThan(vj)
	})
	return tags, nil
}

func (m *fakeVCS) CreateTag(ctx context.Context, tag string) error {
	m.calls = append(m.calls, "tag "+tag)
	for _, t := range m.tags {
		if t == tag {
			return goerr.New("tag already exists", goerr.T(types.ErrTagVCS))
		}
	}
	m.tags = append(m.tags, tag)
	return nil
}

func (m *fakeVCS) PushRef(ctx context.Context, remote, ref string) error {
	m.calls = append(m.calls, "push "+ref)
	m.pushed = append(m.pushed, pushCall{Remote: remote, Ref: ref})
	return m.pushErr
}

func (m *fakeVCS) TagAnnotation(ctx context.Context, tag string) (string, error) {
	m.calls = append(m.calls, "annotation "+tag)
	return m.annotations[tag], nil
}

func (m *fakeVCS) LogBetween(ctx context.Context, from, to string) (string, error) {
	m.calls = append(m.calls, "log "+from+".."+to)
	if m.logErr != nil {
		return "", m.logErr
	}
	return m.logs[from+".."+to], nil
}

// mockTagPublisher records published tags
type mockTagPublisher struct {
	publishFunc func(ctx context.Context, tag model.Tag) error
	published   []model.Tag
}

func (m *mockTagPublisher) Publish(ctx context.Context, tag model.Tag) error {
	m.published = append(m.published, tag)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, tag)
	}
	return nil
}

// mockNotesStore returns a fixed entry or error
type mockNotesStore struct {
	entries map[string]*model.NotesEntry
	err     error
	keys    []string
}

func (m *mockNotesStore) Lookup(ctx context.Context, keys []string) (*model.NotesEntry, error) {
	m.keys = keys
	if m.err != nil {
		return nil, m.err
	}
	for _, k := range keys {
		if e, ok := m.entries[k]; ok {
			return e, nil
		}
	}
	return nil, nil
}

// mockHost is a ReleaseHost with function fields and an ordered call log
type mockHost struct {
	createFunc func(ctx context.Context, req *model.NewRelease) (*model.Release, error)
	getFunc    func(ctx context.Context, tag string) (*model.Release, error)
	listFunc   func(ctx context.Context, release *model.Release) ([]*model.Asset, error)
	deleteFunc func(ctx context.Context, id int64) error
	uploadFunc func(ctx context.Context, release *model.Release, artifact *model.Artifact) (*model.Asset, error)

	calls    []string
	requests []*model.NewRelease
}

func (m *mockHost) CreateRelease(ctx context.Context, req *model.NewRelease) (*model.Release, error) {
	m.calls = append(m.calls, "create "+req.TagName)
	m.requests = append(m.requests, req)
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &model.Release{ID: 1, TagName: req.TagName, UploadURL: "https://uploads.example.com/1/assets{?name,label}"}, nil
}

func (m *mockHost) GetReleaseByTag(ctx context.Context, tag string) (*model.Release, error) {
	m.calls = append(m.calls, "get "+tag)
	if m.getFunc != nil {
		return m.getFunc(ctx, tag)
	}
	return nil, goerr.New("mock not configured")
}

func (m *mockHost) ListAssets(ctx context.Context, release *model.Release) ([]*model.Asset, error) {
	m.calls = append(m.calls, "list")
	if m.listFunc != nil {
		return m.listFunc(ctx, release)
	}
	return nil, nil
}

func (m *mockHost) DeleteAsset(ctx context.Context, id int64) error {
	m.calls = append(m.calls, "delete")
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockHost) UploadAsset(ctx context.Context, release *model.Release, artifact *model.Artifact) (*model.Asset, error) {
	m.calls = append(m.calls, "upload "+artifact.Name)
	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, release, artifact)
	}
	return &model.Asset{ID: 100, Name: artifact.Name, Size: artifact.Size}, nil
}

type staticCredential string

func (s staticCredential) PushToken(ctx context.Context) (string, error) {
	return string(s), nil
}

// mockWorkspace records workspace operations
type mockWorkspace struct {
	failOn    string
	commitErr error
	calls     []string
	written   map[string]string
}

func (m *mockWorkspace) step(name string) error {
	m.calls = append(m.calls, name)
	if m.failOn == name {
		return goerr.New("step failed", goerr.V("step", name))
	}
	return nil
}

func (m *mockWorkspace) SetIdentity(ctx context.Context, name, email string) error {
	return m.step("identity")
}

func (m *mockWorkspace) FetchBranch(ctx context.Context, remote, branch string) error {
	return m.step("fetch " + remote + " " + branch)
}

func (m *mockWorkspace) CheckoutTracking(ctx context.Context, branch, upstream string) error {
	return m.step("checkout " + branch + " " + upstream)
}

func (m *mockWorkspace) WriteFile(ctx context.Context, path string, data []byte) error {
	if m.written == nil {
		m.written = map[string]string{}
	}
	m.written[path] = string(data)
	return m.step("write " + path)
}

func (m *mockWorkspace) Add(ctx context.Context, path string) error {
	return m.step("add " + path)
}

func (m *mockWorkspace) Commit(ctx context.Context, message string) error {
	if err := m.step("commit " + message); err != nil {
		return err
	}
	return m.commitErr
}
