package model

// Release is a published release on the host
type Release struct {
	ID        int64
	TagName   string
	Name      string
	UploadURL string
	AssetsURL string
	HTMLURL   string
}

// Asset is a file attached to a release
type Asset struct {
	ID          int64
	Name        string
	Size        int64
	DownloadURL string
}

// Artifact is the binary produced by the builder
type Artifact struct {
	Path string // Path to the file to upload
	Name string // Asset name on the release
	Size int64  // Size in bytes
}

// NewRelease holds the parameters for creating a release
type NewRelease struct {
	TagName    string
	Name       string
	Body       string
	Draft      bool
	Prerelease bool
}

// RunResult summarizes one pipeline run
type RunResult struct {
	Tag        Tag
	Release    *Release
	Asset      *Asset
	SkipReason string
}

// Skipped reports whether the run stopped early on purpose
func (r *RunResult) Skipped() bool {
	return r.SkipReason != ""
}
