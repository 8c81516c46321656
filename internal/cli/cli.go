package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/internal/metrics"
	"github.com/matzehuels/mindmap/pkg/buildinfo"
	"github.com/matzehuels/mindmap/pkg/cache"
	"github.com/matzehuels/mindmap/pkg/config"
	"github.com/matzehuels/mindmap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "mindmap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Global flags
	verbose     bool
	configPath  string
	noCache     bool
	metricsAddr string

	cfg     config.Config
	metrics *metrics.Server
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Mindmap explores folder hierarchies as radial mind maps",
		Long: `Mindmap turns a folder/file hierarchy into a radial mind map: the root sits
in the middle, folders fan out around it and files hang off their folders.

Sources can be a directory, a JSON snapshot ({"root": ..., "files": [...]})
or a SQLite document index.`,
		Version:            buildinfo.Version,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mindmap/config.toml)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable caching")
	flags.StringVar(&c.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")

	root.AddCommand(c.viewCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies the global flags before any command runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if c.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics.New(reg).Install()
		srv, err := metrics.Listen(c.metricsAddr, reg, c.Logger)
		if err != nil {
			return err
		}
		c.metrics = srv
		c.Logger.Infof("Serving metrics on http://%s/metrics", srv.Addr())
	}
	return nil
}

// teardown stops the metrics server.
func (c *CLI) teardown(*cobra.Command, []string) error {
	if c.metrics == nil {
		return nil
	}
	err := c.metrics.Close()
	c.metrics = nil
	return err
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() (*pipeline.Runner, error) {
	store, err := c.newCache()
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, c.keyer(), c.Logger), nil
}

// keyer scopes cache keys to the running version so an upgrade never reads
// entries written by an older build.
func (c *CLI) keyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
}

func (c *CLI) newCache() (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/mindmap/).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds pipeline options from the loaded configuration.
func (c *CLI) pipelineOptions() (pipeline.Options, error) {
	theme, err := c.cfg.Theme.Render()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Theme:     theme,
		Layout:    c.cfg.LayoutConfig(),
		Lerp:      c.cfg.Animation.Lerp,
		Threshold: c.cfg.Animation.SettleThreshold,
		MaxFrames: c.cfg.Animation.MaxFrames,
		Logger:    c.Logger,
	}, nil
}
