package layout

import "math"

// Config holds the tuning constants of the radial layout.
type Config struct {
	// Radius of the first ring: max(RootMinRadius, children*RootRadiusPerChild).
	RootMinRadius      float64
	RootRadiusPerChild float64

	// Radius from a first-level node to its children:
	// max(BranchMinRadius, weight*BranchRadiusPerWeight).
	BranchMinRadius       float64
	BranchRadiusPerWeight float64

	// Deeper radii: max(parent*DeepRadiusFactor, DeepMinRadius).
	DeepRadiusFactor float64
	DeepMinRadius    float64

	// Angular range handed to a first-level subtree:
	// min(slice*BranchSpread, BranchSpreadMax).
	BranchSpread    float64
	BranchSpreadMax float64

	// Angular range handed to deeper subtrees: min(slice*DeepSpread, DeepSpreadMax).
	DeepSpread    float64
	DeepSpreadMax float64

	// Collision resolution.
	MinDistance         float64
	StabilityFloor      float64
	CollisionIterations int
}

// DefaultConfig returns the standard layout constants.
func DefaultConfig() Config {
	return Config{
		RootMinRadius:         200,
		RootRadiusPerChild:    35,
		BranchMinRadius:       140,
		BranchRadiusPerWeight: 30,
		DeepRadiusFactor:      0.75,
		DeepMinRadius:         80,
		BranchSpread:          0.85,
		BranchSpreadMax:       0.8 * math.Pi,
		DeepSpread:            0.95,
		DeepSpreadMax:         0.9 * math.Pi,
		MinDistance:           90,
		StabilityFloor:        0.1,
		CollisionIterations:   5,
	}
}

// Option configures a layout run.
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(c Config) Option { return func(cfg *Config) { *cfg = c } }

// WithMinDistance sets the distance collision resolution tries to keep
// between nodes.
func WithMinDistance(d float64) Option { return func(c *Config) { c.MinDistance = d } }

// WithCollisionIterations bounds the number of collision passes. Zero
// disables collision resolution.
func WithCollisionIterations(n int) Option {
	return func(c *Config) { c.CollisionIterations = n }
}

// WithRootRadius sets the first-ring radius parameters.
func WithRootRadius(minRadius, perChild float64) Option {
	return func(c *Config) {
		c.RootMinRadius = minRadius
		c.RootRadiusPerChild = perChild
	}
}

func newConfig(opts []Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
