package source

import (
	"context"
	"encoding/json"
	"os"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// JSON reads a [Snapshot] document from a file.
type JSON struct {
	path string
}

// NewJSON creates a source for the document at path.
func NewJSON(path string) *JSON { return &JSON{path: path} }

// Kind implements [Source].
func (s *JSON) Kind() string { return "json" }

// Location implements [Source].
func (s *JSON) Location() string { return s.path }

// Load implements [Source].
func (s *JSON) Load(ctx context.Context) (tree.Folder, []tree.File, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return tree.Folder{}, nil, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", s.path)
	}
	if err != nil {
		return tree.Folder{}, nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "read %s", s.path)
	}
	snap, err := ParseSnapshot(data)
	if err != nil {
		return tree.Folder{}, nil, err
	}
	return snap.Root, snap.Files, nil
}

// ParseSnapshot decodes a {"root": ..., "files": [...]} document.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse snapshot")
	}
	return snap, nil
}

// MarshalSnapshot encodes a snapshot as indented JSON.
func MarshalSnapshot(root tree.Folder, files []tree.File) ([]byte, error) {
	if files == nil {
		files = []tree.File{}
	}
	return json.MarshalIndent(Snapshot{Root: root, Files: files}, "", "  ")
}
