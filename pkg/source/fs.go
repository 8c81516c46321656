package source

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// DefaultChunkSize is the number of bytes per chunk when counting chunks of
// a scanned file.
const DefaultChunkSize = 4096

// FSOptions controls a filesystem scan.
type FSOptions struct {
	// Name labels the root folder. It defaults to the directory's base name.
	Name string
	// Extensions restricts files to these suffixes (".md"). Empty means
	// every regular file.
	Extensions []string
	// IncludeHidden also scans entries whose name starts with a dot.
	IncludeHidden bool
	// ChunkSize is the chunk length used for chunk_count. Zero means
	// DefaultChunkSize.
	ChunkSize int64
}

// Validate checks the extension filter.
func (o FSOptions) Validate() error {
	for _, ext := range o.Extensions {
		if err := errors.ValidateExtension(ext); err != nil {
			return err
		}
	}
	if o.ChunkSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "chunk size must not be negative")
	}
	return nil
}

// FS scans a directory tree. Folder paths are relative to the scan root,
// which itself has the empty path.
type FS struct {
	fs       billy.Filesystem
	location string
	opts     FSOptions
}

// NewFS scans fs from its root. location is reported by Location and used
// in cache keys.
func NewFS(fs billy.Filesystem, location string, opts FSOptions) *FS {
	if opts.ChunkSize == 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Name == "" {
		opts.Name = path.Base(filepath.ToSlash(location))
	}
	return &FS{fs: fs, location: location, opts: opts}
}

// OpenDir scans a directory on the local disk.
func OpenDir(dir string, opts FSOptions) (*FS, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", dir)
	}
	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "directory not found: %s", dir)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "stat %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", dir)
	}
	return NewFS(osfs.New(abs), abs, opts), nil
}

// Kind implements [Source].
func (s *FS) Kind() string { return "fs" }

// Location implements [Source].
func (s *FS) Location() string { return s.location }

// Options returns the scan options with defaults applied.
func (s *FS) Options() FSOptions { return s.opts }

// Load implements [Source].
func (s *FS) Load(ctx context.Context) (tree.Folder, []tree.File, error) {
	var files []tree.File
	root, err := s.scan(ctx, "", &files)
	if err != nil {
		return tree.Folder{}, nil, err
	}
	root.Name = s.opts.Name
	return root, files, nil
}

func (s *FS) scan(ctx context.Context, dir string, files *[]tree.File) (tree.Folder, error) {
	if err := ctx.Err(); err != nil {
		return tree.Folder{}, err
	}

	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return tree.Folder{}, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "read directory %q", dir)
	}
	slices.SortFunc(entries, func(a, b os.FileInfo) int { return strings.Compare(a.Name(), b.Name()) })

	folder := tree.Folder{Name: path.Base(dir), Path: dir}
	for _, e := range entries {
		name := e.Name()
		if !s.opts.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		p := path.Join(dir, name)

		switch {
		case e.IsDir():
			child, err := s.scan(ctx, p, files)
			if err != nil {
				return tree.Folder{}, err
			}
			folder.FileCount += child.FileCount
			folder.Children = append(folder.Children, child)

		case e.Mode().IsRegular() && s.matches(name):
			*files = append(*files, tree.File{
				FilePath:   p,
				Title:      strings.TrimSuffix(name, path.Ext(name)),
				ChunkCount: chunks(e.Size(), s.opts.ChunkSize),
			})
			folder.FileCount++
		}
	}
	return folder, nil
}

func (s *FS) matches(name string) bool {
	if len(s.opts.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(path.Ext(name))
	for _, want := range s.opts.Extensions {
		if strings.ToLower(want) == ext {
			return true
		}
	}
	return false
}

func chunks(size, chunkSize int64) int {
	if size <= 0 || chunkSize <= 0 {
		return 0
	}
	return int((size + chunkSize - 1) / chunkSize)
}
