package github_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

type fakeAsset struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Size               int    `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
	content            []byte
}

type fakeRelease struct {
	ID         int64  `json:"id"`
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Body       string `json:"body"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
	UploadURL  string `json:"upload_url"`
	AssetsURL  string `json:"assets_url"`
	assets     []*fakeAsset
}

// fakeGitHub is an in-memory GitHub releases API for owner/repo
type fakeGitHub struct {
	mu       sync.Mutex
	server   *httptest.Server
	releases map[string]*fakeRelease
	nextID   int64

	calls          []string
	uploadStatus   int
	listAssetsFail bool
	assetPageSize  int
}

func newFakeGitHub(t *testing.T) *fakeGitHub {
	f := &fakeGitHub{
		releases:      map[string]*fakeRelease{},
		nextID:        1,
		uploadStatus:  http.StatusCreated,
		assetPageSize: 100,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/owner/repo/releases", f.createRelease)
	mux.HandleFunc("GET /repos/owner/repo/releases/{kind}/{key}", f.getRelease)
	mux.HandleFunc("POST /repos/owner/repo/releases/{id}/assets", f.uploadAsset)
	mux.HandleFunc("DELETE /repos/owner/repo/releases/assets/{id}", f.deleteAsset)

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGitHub) URL() string {
	return f.server.URL + "/"
}

func (f *fakeGitHub) record(r *http.Request) {
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
}

func (f *fakeGitHub) createRelease(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(r)

	var req fakeRelease
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, ok := f.releases[req.TagName]; ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "Validation Failed",
			"errors":  []map[string]string{{"resource": "Release", "code": "already_exists", "field": "tag_name"}},
		})
		return
	}

	id := f.nextID
	f.nextID++
	rel := &fakeRelease{
		ID:         id,
		TagName:    req.TagName,
		Name:       req.Name,
		Body:       req.Body,
		Draft:      req.Draft,
		Prerelease: req.Prerelease,
		UploadURL:  fmt.Sprintf("%srepos/owner/repo/releases/%d/assets{?name,label}", f.URL(), id),
		AssetsURL:  fmt.Sprintf("%srepos/owner/repo/releases/%d/assets", f.URL(), id),
	}
	f.releases[req.TagName] = rel
	writeJSON(w, http.StatusCreated, rel)
}

// getRelease serves both /releases/tags/{tag} and /releases/{id}/assets,
// which cannot be registered as separate patterns
func (f *fakeGitHub) getRelease(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.PathValue("kind") == "tags":
		f.getReleaseByTag(w, r, r.PathValue("key"))
	case r.PathValue("key") == "assets":
		f.listAssets(w, r, r.PathValue("kind"))
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	}
}

func (f *fakeGitHub) getReleaseByTag(w http.ResponseWriter, r *http.Request, tag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(r)

	rel, ok := f.releases[tag]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, rel)
}

func (f *fakeGitHub) releaseByID(s string) *fakeRelease {
	id, _ := strconv.ParseInt(s, 10, 64)
	for _, rel := range f.releases {
		if rel.ID == id {
			return rel
		}
	}
	return nil
}

func (f *fakeGitHub) listAssets(w http.ResponseWriter, r *http.Request, releaseID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(r)

	if f.listAssetsFail {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
		return
	}

	rel := f.releaseByID(releaseID)
	if rel == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}

	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage <= 0 || perPage > f.assetPageSize {
		perPage = f.assetPageSize
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}

	start := min((page-1)*perPage, len(rel.assets))
	end := min(start+perPage, len(rel.assets))
	if end < len(rel.assets) {
		w.Header().Set("Link", fmt.Sprintf(`<%s%s?per_page=%d&page=%d>; rel="next"`, f.server.URL, r.URL.Path, perPage, page+1))
	}

	assets := append([]*fakeAsset{}, rel.assets[start:end]...)
	writeJSON(w, http.StatusOK, assets)
}

func (f *fakeGitHub) uploadAsset(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(r)

	rel := f.releaseByID(r.PathValue("id"))
	if rel == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}

	body, _ := io.ReadAll(r.Body)
	name := r.URL.Query().Get("name")

	if f.uploadStatus != http.StatusCreated {
		writeJSON(w, f.uploadStatus, map[string]string{"message": "upload rejected"})
		return
	}

	for _, a := range rel.assets {
		if a.Name == name {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "already_exists"})
			return
		}
	}

	asset := &fakeAsset{
		ID:                 f.nextID,
		Name:               name,
		Size:               len(body),
		BrowserDownloadURL: fmt.Sprintf("https://github.com/owner/repo/releases/download/%s/%s", rel.TagName, name),
		content:            body,
	}
	f.nextID++
	rel.assets = append(rel.assets, asset)
	writeJSON(w, http.StatusCreated, asset)
}

func (f *fakeGitHub) deleteAsset(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(r)

	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	for _, rel := range f.releases {
		for i, a := range rel.assets {
			if a.ID == id {
				rel.assets = append(rel.assets[:i], rel.assets[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
}

// addAsset attaches an asset to the release for tag
func (f *fakeGitHub) addAsset(tag string, id int64, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rel := f.releases[tag]
	rel.assets = append(rel.assets, &fakeAsset{ID: id, Name: name, Size: 3, content: []byte("old")})
}

// countCalls counts recorded calls with method and path
func (f *fakeGitHub) countCalls(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
