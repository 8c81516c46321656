package cache

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// FileCache stores entries as files under a two-level hashed layout:
// key "k" lives at <hash[:2]>/<hash[2:]>.entry.
//
// Each entry starts with a header line holding the expiry as Unix
// nanoseconds (0 for none), followed by the raw value. Writes go to a
// temporary file first and are renamed into place, so a reader never sees
// a partial entry.
type FileCache struct {
	fs  billy.Filesystem
	dir string
	now func() time.Time
}

const entryExt = ".entry"

// NewFileCache opens a cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return NewFileCacheFS(osfs.New(dir), dir), nil
}

// NewFileCacheFS opens a cache on fs. dir is only reported by Dir.
func NewFileCacheFS(fs billy.Filesystem, dir string) *FileCache {
	return &FileCache{fs: fs, dir: dir, now: time.Now}
}

// DefaultDir returns $XDG_CACHE_HOME/mindmap, or the platform cache
// directory when XDG_CACHE_HOME is unset.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "mindmap"), nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache dir: %w", err)
	}
	return filepath.Join(dir, "mindmap"), nil
}

func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	name := entryPath(key)
	raw, err := util.ReadFile(c.fs, name)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	expires, data, ok := decodeEntry(raw)
	if !ok || c.expired(expires) {
		_ = c.fs.Remove(name)
		return nil, false, nil
	}
	return data, true, nil
}

func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires int64
	if ttl > 0 {
		expires = c.now().Add(ttl).UnixNano()
	}

	name := entryPath(key)
	if err := c.fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return err
	}
	tmp, err := c.fs.TempFile(path.Dir(name), ".tmp-")
	if err != nil {
		return err
	}
	w := bufio.NewWriter(tmp)
	fmt.Fprintf(w, "%d\n", expires)
	w.Write(data)
	if err := w.Flush(); err != nil {
		tmp.Close()
		_ = c.fs.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = c.fs.Remove(tmp.Name())
		return err
	}
	return c.fs.Rename(tmp.Name(), name)
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := c.fs.Remove(entryPath(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes every entry and returns how many were removed. Files
// outside the hashed layout are left alone.
func (c *FileCache) Clear() (int, error) {
	return c.sweep(func(string) bool { return true })
}

// Prune removes expired and unreadable entries and returns how many were
// removed.
func (c *FileCache) Prune() (int, error) {
	return c.sweep(func(name string) bool {
		head, err := readHeader(c.fs, name)
		return err != nil || c.expired(head)
	})
}

// Usage reports the number of entries and their total size in bytes.
func (c *FileCache) Usage() (entries int, size int64, err error) {
	err = c.walk(func(name string, fi os.FileInfo) error {
		entries++
		size += fi.Size()
		return nil
	})
	return entries, size, err
}

func (c *FileCache) Close() error { return nil }

func (c *FileCache) expired(unixNano int64) bool {
	return unixNano != 0 && c.now().UnixNano() > unixNano
}

func (c *FileCache) sweep(drop func(name string) bool) (int, error) {
	removed := 0
	err := c.walk(func(name string, _ os.FileInfo) error {
		if !drop(name) {
			return nil
		}
		if err := c.fs.Remove(name); err != nil && !os.IsNotExist(err) {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}

// walk visits every entry file in the two-character shard directories.
func (c *FileCache) walk(fn func(name string, fi os.FileInfo) error) error {
	shards, err := c.fs.ReadDir("/")
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, shard := range shards {
		if !shard.IsDir() || len(shard.Name()) != 2 {
			continue
		}
		files, err := c.fs.ReadDir(shard.Name())
		if err != nil {
			return err
		}
		for _, fi := range files {
			if fi.IsDir() || path.Ext(fi.Name()) != entryExt {
				continue
			}
			if err := fn(path.Join(shard.Name(), fi.Name()), fi); err != nil {
				return err
			}
		}
	}
	return nil
}

func entryPath(key string) string {
	h := Hash([]byte(key))
	return path.Join(h[:2], h[2:]+entryExt)
}

func decodeEntry(raw []byte) (expires int64, data []byte, ok bool) {
	head, rest, found := bytes.Cut(raw, []byte{'\n'})
	if !found {
		return 0, nil, false
	}
	expires, err := strconv.ParseInt(string(head), 10, 64)
	if err != nil {
		return 0, nil, false
	}
	return expires, rest, true
}

func readHeader(fs billy.Filesystem, name string) (int64, error) {
	f, err := fs.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	line, err := bufio.NewReader(io.LimitReader(f, 32)).ReadString('\n')
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(line[:len(line)-1], 10, 64)
}

var _ Cache = (*FileCache)(nil)
