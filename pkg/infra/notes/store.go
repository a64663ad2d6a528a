package notes

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/interfaces"
	"github.com/m-mizutani/tagship/pkg/domain/model"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// document is the notes file layout: releases.<key>.{title,body}
type document struct {
	Releases map[string]model.NotesEntry `toml:"releases" yaml:"releases"`
}

// FileStore reads release notes from a TOML or YAML file. The file is read
// on every lookup so a missing file is not an error until it matters.
type FileStore struct {
	path string
}

var _ interfaces.NotesStore = (*FileStore)(nil)

// NewFileStore creates a store for path. Files ending in .yaml or .yml are
// parsed as YAML, anything else as TOML.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Lookup returns the entry for the first key present in the file. A missing
// file yields no entry and no error.
func (s *FileStore) Lookup(ctx context.Context, keys []string) (*model.NotesEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read notes file", goerr.V("path", s.path))
	}

	doc, err := s.parse(data)
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		if entry, ok := doc.Releases[key]; ok {
			return &entry, nil
		}
	}
	return nil, nil
}

func (s *FileStore) parse(data []byte) (*document, error) {
	var doc document

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, goerr.Wrap(err, "failed to parse notes file as YAML", goerr.V("path", s.path))
		}
	default:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, goerr.Wrap(err, "failed to parse notes file as TOML", goerr.V("path", s.path))
		}
	}

	return &doc, nil
}
