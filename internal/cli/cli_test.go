package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/source"
	"github.com/matzehuels/mindmap/pkg/tree"
)

func writeSnapshot(t *testing.T, dir string) string {
	t.Helper()
	src := docsSource()
	data, err := source.MarshalSnapshot(src.root, src.files)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "docs.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := testCLI(t).RootCommand()
	want := []string{"view", "render", "scan", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"verbose", "config", "no-cache", "metrics-addr"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("global flag --%s missing", flag)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	c := testCLI(t)
	dir := t.TempDir()
	input := writeSnapshot(t, dir)
	base := filepath.Join(dir, "out", "docs")

	if _, err := execute(t, c, "render", input, "-f", "svg,json", "-o", base, "--expand", "all"); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("svg output is not an SVG document")
	}
	if _, err := os.Stat(base + ".json"); err != nil {
		t.Errorf("json not written: %v", err)
	}
}

func TestRenderCommandRejectsFormat(t *testing.T) {
	c := testCLI(t)
	input := writeSnapshot(t, t.TempDir())
	if _, err := execute(t, c, "render", input, "-f", "gif"); err == nil {
		t.Error("render with an unknown format should fail")
	}
}

func TestScanCommand(t *testing.T) {
	c := testCLI(t)
	dir := t.TempDir()
	for _, p := range []string{"A/1.md", "A/2.md", "B/3.md", "readme.txt"} {
		full := filepath.Join(dir, "notes", p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("hello"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out, err := execute(t, c, "scan", filepath.Join(dir, "notes"))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	snap, err := source.ParseSnapshot([]byte(out))
	if err != nil {
		t.Fatalf("scan output is not a snapshot: %v\n%s", err, out)
	}
	if len(snap.Files) != 4 {
		t.Errorf("files = %d, want 4", len(snap.Files))
	}
	if snap.Root.Name != "notes" || len(snap.Root.Children) != 2 {
		t.Errorf("root = %+v", snap.Root)
	}
}

func TestSummarize(t *testing.T) {
	src := docsSource()
	src.root = tree.Folder{Name: "A", Path: "A", FileCount: 3}

	sum := summarize(source.Snapshot{Root: src.root, Files: src.files})
	if sum.Folders != 1 || sum.Files != 5 {
		t.Errorf("summary = %+v", sum)
	}
	if len(sum.Dropped) != 2 {
		t.Errorf("dropped = %d, want 2 (B/4.md, C/5.md)", len(sum.Dropped))
	}
}

func TestMetricsServerLifecycle(t *testing.T) {
	t.Cleanup(observability.Reset)
	c := testCLI(t)

	out, err := execute(t, c, "--metrics-addr", "127.0.0.1:0", "cache", "path")
	if err != nil {
		t.Fatalf("cache path with metrics: %v", err)
	}
	if !strings.Contains(out, "mindmap") {
		t.Errorf("output = %q", out)
	}
	if c.metrics != nil {
		t.Error("metrics server should be closed after the command")
	}
}

func TestConfigFlag(t *testing.T) {
	c := testCLI(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[animation]\nlerp = 0.3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, c, "--config", path, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	if c.cfg.Animation.Lerp != 0.3 {
		t.Errorf("lerp = %v, want 0.3 from config", c.cfg.Animation.Lerp)
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("[animation]\nlerp = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, testCLI(t), "--config", bad, "cache", "path"); err == nil {
		t.Error("an invalid config should fail the command")
	}
}

func TestCompletionCommand(t *testing.T) {
	for shell := range completionShells {
		out, err := execute(t, testCLI(t), "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(out, "mindmap") {
			t.Errorf("completion %s script does not mention the program", shell)
		}
	}
	if _, err := execute(t, testCLI(t), "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}
