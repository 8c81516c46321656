package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/render"
)

func TestDefaultRoundTrips(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, layout.DefaultConfig(), cfg.LayoutConfig())

	th, err := cfg.Theme.Render()
	require.NoError(t, err)
	assert.Equal(t, render.DefaultTheme(), th)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL.Duration)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[layout]
min_distance = 120
collision_iterations = 8

[animation]
lerp = 0.25
fps = 60

[theme]
palette = ["#111111", "#222222"]
background = "#ffffff"

[source]
extensions = [".md", ".mdx"]
include_hidden = true

[cache]
ttl = "30m"
`))
	require.NoError(t, err)

	lc := cfg.LayoutConfig()
	assert.Equal(t, 120.0, lc.MinDistance)
	assert.Equal(t, 8, lc.CollisionIterations)
	assert.Equal(t, layout.DefaultConfig().RootMinRadius, lc.RootMinRadius)

	assert.Equal(t, 0.25, cfg.Animation.Lerp)
	assert.Equal(t, 60, cfg.Animation.FPS)
	assert.Equal(t, render.DefaultSettleThreshold, cfg.Animation.SettleThreshold)

	th, err := cfg.Theme.Render()
	require.NoError(t, err)
	require.Len(t, th.Palette, 2)
	assert.Equal(t, render.MustHex("#222222"), th.Palette[1])
	assert.Equal(t, render.MustHex("#ffffff"), th.Background)
	assert.Equal(t, render.DefaultTheme().Text, th.Text)

	fs := cfg.FSOptions()
	assert.Equal(t, []string{".md", ".mdx"}, fs.Extensions)
	assert.True(t, fs.IncludeHidden)
	assert.Equal(t, cfg.Source.ChunkSize, fs.ChunkSize)
	assert.Equal(t, fs.Extensions, cfg.SourceKeyOpts().Extensions)

	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL.Duration)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", `[layout`},
		{"unknown key", "[layout]\nradius = 3"},
		{"unknown section", "[server]\nport = 1"},
		{"lerp too large", "[animation]\nlerp = 1.5"},
		{"lerp zero", "[animation]\nlerp = 0.0"},
		{"fps", "[animation]\nfps = 0"},
		{"empty palette", "[theme]\npalette = []"},
		{"bad color", "[theme]\nbackground = \"#xyz\""},
		{"bad palette color", "[theme]\npalette = [\"red\"]"},
		{"negative distance", "[layout]\nmin_distance = -1"},
		{"zero radius", "[layout]\nroot_min_radius = 0"},
		{"bad extension", "[source]\nextensions = [\"md\"]"},
		{"bad ttl", "[cache]\nttl = \"soon\""},
		{"font size", "[theme]\nfont_sizes = [12, 0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mindmap", "config.toml"), path)

	// Missing default file falls back to defaults.
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Animation, cfg.Animation)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[animation]\nfps = 12\n"), 0o644))
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Animation.FPS)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}
