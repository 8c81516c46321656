package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", tmp)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(tmp, "mindmap")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCachePathCommand(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", tmp)

	c := New(&bytes.Buffer{}, log.InfoLevel)
	cmd := c.cacheCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"path"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("cache path: %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != filepath.Join(tmp, "mindmap") {
		t.Errorf("cache path printed %q", got)
	}
}

func TestCacheClearCommand(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", tmp)

	fc, err := cache.NewFileCache(filepath.Join(tmp, "mindmap"))
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"a", "b", "c"} {
		if err := fc.Set(t.Context(), key, []byte(key), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	c := New(&bytes.Buffer{}, log.InfoLevel)
	cmd := c.cacheCommand()
	cmd.SetArgs([]string{"clear"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	for _, key := range []string{"a", "b", "c"} {
		if _, ok, _ := fc.Get(t.Context(), key); ok {
			t.Errorf("key %q survived cache clear", key)
		}
	}
}

func TestCacheClearMissingDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmp, "absent"))

	c := New(&bytes.Buffer{}, log.InfoLevel)
	cmd := c.cacheCommand()
	cmd.SetArgs([]string{"clear"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "absent", "mindmap")); !os.IsNotExist(err) {
		t.Error("cache clear should not create the cache directory")
	}
}

func TestCachePruneAndInfoCommands(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", tmp)

	fc, err := cache.NewFileCache(filepath.Join(tmp, "mindmap"))
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Set(t.Context(), "live", []byte("svg"), 0); err != nil {
		t.Fatal(err)
	}

	run := func(args ...string) string {
		t.Helper()
		cmd := New(&bytes.Buffer{}, log.InfoLevel).cacheCommand()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs(args)
		if err := cmd.Execute(); err != nil {
			t.Fatalf("cache %v: %v", args, err)
		}
		return out.String()
	}

	if out := run("prune"); !strings.Contains(out, "Pruned 0 cached entries") {
		t.Errorf("prune output = %q", out)
	}
	if out := run("info"); !strings.Contains(out, "1 entries") {
		t.Errorf("info output = %q", out)
	}
	if _, ok, _ := fc.Get(t.Context(), "live"); !ok {
		t.Error("prune removed a live entry")
	}
}

func TestHumanBytes(t *testing.T) {
	for n, want := range map[int64]string{
		0:       "0 B",
		512:     "512 B",
		2048:    "2.0 KiB",
		5 << 20: "5.0 MiB",
	} {
		if got := humanBytes(n); got != want {
			t.Errorf("humanBytes(%d) = %q, want %q", n, got, want)
		}
	}
}
