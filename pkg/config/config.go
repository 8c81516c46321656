// Package config loads the TOML configuration file.
//
// Every section is optional; keys that are missing keep their defaults.
//
//	[layout]
//	min_distance = 100
//
//	[animation]
//	lerp = 0.2
//	fps = 60
//
//	[theme]
//	palette = ["#6366F1", "#0EA5E9", "#10B981"]
//	background = "#0F172A"
//
//	[source]
//	extensions = [".md", ".mdx"]
//
//	[cache]
//	ttl = "30m"
package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mindmap/pkg/cache"
	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/source"
)

// DefaultFPS is the frame rate of the interactive viewer.
const DefaultFPS = 30

// Config is the root of the configuration file.
type Config struct {
	Layout    Layout    `toml:"layout"`
	Animation Animation `toml:"animation"`
	Theme     Theme     `toml:"theme"`
	Source    Source    `toml:"source"`
	Cache     Cache     `toml:"cache"`
}

// Layout mirrors [layout.Config].
type Layout struct {
	RootMinRadius         float64 `toml:"root_min_radius"`
	RootRadiusPerChild    float64 `toml:"root_radius_per_child"`
	BranchMinRadius       float64 `toml:"branch_min_radius"`
	BranchRadiusPerWeight float64 `toml:"branch_radius_per_weight"`
	DeepRadiusFactor      float64 `toml:"deep_radius_factor"`
	DeepMinRadius         float64 `toml:"deep_min_radius"`
	BranchSpread          float64 `toml:"branch_spread"`
	BranchSpreadMax       float64 `toml:"branch_spread_max"`
	DeepSpread            float64 `toml:"deep_spread"`
	DeepSpreadMax         float64 `toml:"deep_spread_max"`
	MinDistance           float64 `toml:"min_distance"`
	StabilityFloor        float64 `toml:"stability_floor"`
	CollisionIterations   int     `toml:"collision_iterations"`
}

// Animation tunes the render loop.
type Animation struct {
	Lerp            float64 `toml:"lerp"`
	SettleThreshold float64 `toml:"settle_threshold"`
	FPS             int     `toml:"fps"`
	MaxFrames       int     `toml:"max_frames"`
}

// Theme holds colors as hex strings.
type Theme struct {
	Palette    []string  `toml:"palette"`
	Background string    `toml:"background"`
	Edge       string    `toml:"edge"`
	Text       string    `toml:"text"`
	FontSizes  []float64 `toml:"font_sizes"`
}

// Source tunes the data sources.
type Source struct {
	Extensions    []string `toml:"extensions"`
	IncludeHidden bool     `toml:"include_hidden"`
	ChunkSize     int64    `toml:"chunk_size"`
	Table         string   `toml:"table"`
}

// Cache tunes the snapshot cache.
type Cache struct {
	TTL Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a Go duration string ("10m").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	lc := layout.DefaultConfig()
	th := render.DefaultTheme()

	palette := make([]string, len(th.Palette))
	for i, c := range th.Palette {
		palette[i] = render.Hex(c)
	}

	return Config{
		Layout: Layout{
			RootMinRadius:         lc.RootMinRadius,
			RootRadiusPerChild:    lc.RootRadiusPerChild,
			BranchMinRadius:       lc.BranchMinRadius,
			BranchRadiusPerWeight: lc.BranchRadiusPerWeight,
			DeepRadiusFactor:      lc.DeepRadiusFactor,
			DeepMinRadius:         lc.DeepMinRadius,
			BranchSpread:          lc.BranchSpread,
			BranchSpreadMax:       lc.BranchSpreadMax,
			DeepSpread:            lc.DeepSpread,
			DeepSpreadMax:         lc.DeepSpreadMax,
			MinDistance:           lc.MinDistance,
			StabilityFloor:        lc.StabilityFloor,
			CollisionIterations:   lc.CollisionIterations,
		},
		Animation: Animation{
			Lerp:            render.DefaultLerp,
			SettleThreshold: render.DefaultSettleThreshold,
			FPS:             DefaultFPS,
			MaxFrames:       pipeline.DefaultMaxFrames,
		},
		Theme: Theme{
			Palette:    palette,
			Background: render.Hex(th.Background),
			Edge:       render.Hex(th.Edge),
			Text:       render.Hex(th.Text),
			FontSizes:  append([]float64(nil), th.FontSizes...),
		},
		Source: Source{
			ChunkSize: source.DefaultChunkSize,
			Table:     source.DefaultTable,
		},
		Cache: Cache{TTL: Duration{source.DefaultSnapshotTTL}},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/mindmap/config.toml, falling back to
// ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mindmap", "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path loads the
// default file, which may be missing; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return Default(), nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	l := c.Layout
	for name, v := range map[string]float64{
		"root_min_radius":    l.RootMinRadius,
		"branch_min_radius":  l.BranchMinRadius,
		"deep_min_radius":    l.DeepMinRadius,
		"deep_radius_factor": l.DeepRadiusFactor,
		"min_distance":       l.MinDistance,
		"stability_floor":    l.StabilityFloor,
		"branch_spread":      l.BranchSpread,
		"branch_spread_max":  l.BranchSpreadMax,
		"deep_spread":        l.DeepSpread,
		"deep_spread_max":    l.DeepSpreadMax,
	} {
		if v <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "layout.%s must be positive, got %g", name, v)
		}
	}
	if l.RootRadiusPerChild < 0 || l.BranchRadiusPerWeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout radius increments must not be negative")
	}
	if l.CollisionIterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.collision_iterations must not be negative")
	}

	a := c.Animation
	if a.Lerp <= 0 || a.Lerp >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "animation.lerp must be in (0, 1), got %g", a.Lerp)
	}
	if a.SettleThreshold <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "animation.settle_threshold must be positive")
	}
	if a.FPS <= 0 || a.FPS > 240 {
		return errors.New(errors.ErrCodeInvalidConfig, "animation.fps must be in 1..240, got %d", a.FPS)
	}
	if a.MaxFrames < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "animation.max_frames must not be negative")
	}

	if _, err := c.Theme.Render(); err != nil {
		return err
	}

	for _, ext := range c.Source.Extensions {
		if err := errors.ValidateExtension(ext); err != nil {
			return err
		}
	}
	if c.Source.ChunkSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "source.chunk_size must not be negative")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// LayoutConfig converts the [layout] section.
func (c Config) LayoutConfig() layout.Config {
	l := c.Layout
	return layout.Config{
		RootMinRadius:         l.RootMinRadius,
		RootRadiusPerChild:    l.RootRadiusPerChild,
		BranchMinRadius:       l.BranchMinRadius,
		BranchRadiusPerWeight: l.BranchRadiusPerWeight,
		DeepRadiusFactor:      l.DeepRadiusFactor,
		DeepMinRadius:         l.DeepMinRadius,
		BranchSpread:          l.BranchSpread,
		BranchSpreadMax:       l.BranchSpreadMax,
		DeepSpread:            l.DeepSpread,
		DeepSpreadMax:         l.DeepSpreadMax,
		MinDistance:           l.MinDistance,
		StabilityFloor:        l.StabilityFloor,
		CollisionIterations:   l.CollisionIterations,
	}
}

// Render converts the [theme] section over render.DefaultTheme.
func (t Theme) Render() (render.Theme, error) {
	th := render.DefaultTheme()
	if len(t.Palette) == 0 {
		return render.Theme{}, errors.New(errors.ErrCodeInvalidConfig, "theme.palette must not be empty")
	}

	th.Palette = make([]color.NRGBA, 0, len(t.Palette))
	for i, hex := range t.Palette {
		c, err := render.ParseHex(hex)
		if err != nil {
			return render.Theme{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "theme.palette[%d]", i)
		}
		th.Palette = append(th.Palette, c)
	}

	for _, f := range []struct {
		name string
		hex  string
		dst  *color.NRGBA
	}{
		{"background", t.Background, &th.Background},
		{"edge", t.Edge, &th.Edge},
		{"text", t.Text, &th.Text},
	} {
		if f.hex == "" {
			continue
		}
		c, err := render.ParseHex(f.hex)
		if err != nil {
			return render.Theme{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "theme.%s", f.name)
		}
		*f.dst = c
	}

	if len(t.FontSizes) > 0 {
		for _, s := range t.FontSizes {
			if s <= 0 {
				return render.Theme{}, errors.New(errors.ErrCodeInvalidConfig, "theme.font_sizes must be positive")
			}
		}
		th.FontSizes = append([]float64(nil), t.FontSizes...)
	}
	return th, nil
}

// FSOptions converts the [source] section for filesystem scans.
func (c Config) FSOptions() source.FSOptions {
	return source.FSOptions{
		Extensions:    c.Source.Extensions,
		IncludeHidden: c.Source.IncludeHidden,
		ChunkSize:     c.Source.ChunkSize,
	}
}

// SourceKeyOpts returns the source settings that belong in cache keys.
func (c Config) SourceKeyOpts() cache.SourceKeyOpts {
	return cache.SourceKeyOpts{
		Extensions:    c.Source.Extensions,
		IncludeHidden: c.Source.IncludeHidden,
		ChunkSize:     c.Source.ChunkSize,
	}
}
