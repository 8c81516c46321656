package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/source"
)

// openSource picks a source for a command argument: a directory is scanned,
// a .json file is read as a snapshot and a SQLite file is read as a document
// index. File sources are wrapped in a snapshot cache keyed by the file's
// modification time unless caching is disabled. Directories are always
// scanned: their own mtime says nothing about nested changes.
func (c *CLI) openSource(arg string, refresh bool) (source.Source, error) {
	src, info, err := c.rawSource(arg)
	if err != nil {
		return nil, err
	}
	if c.noCache || info.IsDir() {
		return src, nil
	}

	store, err := c.newCache()
	if err != nil {
		return nil, err
	}
	key := c.cfg.SourceKeyOpts()
	key.Version = info.ModTime().UTC().Format(time.RFC3339Nano)
	return source.NewCached(src, store, source.CachedOptions{
		Keyer:   c.keyer(),
		TTL:     c.cfg.Cache.TTL.Duration,
		Key:     key,
		Refresh: refresh,
	}), nil
}

func (c *CLI) rawSource(arg string) (source.Source, os.FileInfo, error) {
	if arg == "" {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "source path is empty")
	}
	info, err := os.Stat(arg)
	if os.IsNotExist(err) {
		return nil, nil, errors.New(errors.ErrCodeFileNotFound, "source not found: %s", arg)
	}
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "stat %s", arg)
	}

	if info.IsDir() {
		src, err := source.OpenDir(arg, c.cfg.FSOptions())
		return src, info, err
	}

	switch ext := strings.ToLower(filepath.Ext(arg)); ext {
	case ".json":
		return source.NewJSON(arg), info, nil
	case ".db", ".sqlite", ".sqlite3":
		src, err := source.NewSQLite(arg, c.cfg.Source.Table, "")
		return src, info, err
	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidInput,
			"unsupported source %s (want a directory, .json snapshot or .db/.sqlite index)", arg)
	}
}
