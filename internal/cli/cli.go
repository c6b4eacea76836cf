// Package cli implements the seqtree command-line interface.
//
// # Commands
//
//   - layout: print the row tree of a scene as JSON
//   - render: write the tree as text, DOT, SVG or JSON
//   - rows: show the flattened rows as a table
//   - collapse: set collapse flags in the scene's state file
//   - browse: interactive outline with collapse toggling
//   - serve: HTTP API for the tree and collapse state
//   - cache: manage the artifact cache
//
// # Configuration
//
// Defaults come from $XDG_CONFIG_HOME/seqtree/config.toml (see [Config]);
// flags override them. Collapse flags persist per scene in a JSON state
// file, by default next to the scene as <scene>.collapse.json.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqtree/pkg/buildinfo"
	"github.com/matzehuels/seqtree/pkg/cache"
	"github.com/matzehuels/seqtree/pkg/collapse"
	seqio "github.com/matzehuels/seqtree/pkg/io"
	"github.com/matzehuels/seqtree/pkg/pipeline"
	"github.com/matzehuels/seqtree/pkg/scene"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "seqtree"

	// stateSuffix replaces the scene file extension to form the default
	// collapse state file.
	stateSuffix = ".collapse.json"

	// keyPrefix namespaces seqtree artifact keys in a shared cache.
	keyPrefix = appName + ":"
)

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
	Config Config

	// Global flags
	configFile string
	stateFile  string
	unitHeight float64
	baseOffset float64
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		Config:     DefaultConfig(),
		baseOffset: -1,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "seqtree lays out the sequence editor's row tree",
		Long:         `seqtree computes the rows of an animation sequence editor: one row per object and tracked property, with indices, depths and vertical offsets, honoring collapsed rows.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "config file (default: $XDG_CONFIG_HOME/seqtree/config.toml)")
	pf.StringVar(&c.stateFile, "state", "", "collapse state file (default: <scene>"+stateSuffix+")")
	pf.Float64Var(&c.unitHeight, "unit-height", 0, "row header height (default from config, else 28)")
	pf.Float64Var(&c.baseOffset, "base-offset", -1, "space above the first row (default from config, else 20)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.rowsCommand())
	root.AddCommand(c.collapseCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file. An explicit --config must exist.
func (c *CLI) loadConfig() error {
	path := c.configFile
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return nil
		}
		path = p
	}

	cfg, err := LoadConfig(path, explicit)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), keyPrefix), c.Logger), nil
}

// sheetKeyer scopes keyer to one sheet, so a server's entries stay apart
// from other sheets sharing the backend.
func sheetKeyer(keyer cache.Keyer, addr scene.Address) cache.Keyer {
	return cache.NewScopedKeyer(keyer, addr.ProjectID+"/"+addr.SheetID+":")
}

// newCache picks the cache backend: Redis when configured and reachable,
// otherwise the local file cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if c.Config.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.Config.RedisAddr})
		if err == nil {
			return rc, nil
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "err", err)
	}

	dir, err := c.localCacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Scene and State
// =============================================================================

// loadScene reads a scene file.
func (c *CLI) loadScene(path string) (*scene.Sheet, error) {
	sheet, err := seqio.ImportScene(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded scene", "path", path, "sheet", sheet.Address().SheetID, "objects", sheet.Len())
	return sheet, nil
}

// stateStore returns the collapse state file of the scene at scenePath.
func (c *CLI) stateStore(scenePath string) (*collapse.FileStore, error) {
	return collapse.NewFileStore(c.statePath(scenePath))
}

func (c *CLI) statePath(scenePath string) string {
	if c.stateFile != "" {
		return c.stateFile
	}
	if c.Config.StateFile != "" {
		return c.Config.StateFile
	}
	return strings.TrimSuffix(scenePath, filepath.Ext(scenePath)) + stateSuffix
}

// loadState loads the scene and its collapse state.
func (c *CLI) loadState(scenePath string) (*scene.Sheet, *collapse.FileStore, *collapse.Store, error) {
	sheet, err := c.loadScene(scenePath)
	if err != nil {
		return nil, nil, nil, err
	}
	fs, err := c.stateStore(scenePath)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := fs.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	c.Logger.Debug("loaded collapse state", "path", fs.Path(), "flags", store.Len())
	return sheet, fs, store, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions merges config and global flags into pipeline options.
func (c *CLI) pipelineOptions() pipeline.Options {
	opts := pipeline.Options{
		UnitHeight: c.Config.UnitHeight,
		BaseOffset: c.Config.BaseOffset,
		Logger:     c.Logger,
	}
	if c.unitHeight != 0 {
		opts.UnitHeight = c.unitHeight
	}
	if c.baseOffset >= 0 {
		opts.BaseOffset = pipeline.Offset(c.baseOffset)
	}
	return opts
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/seqtree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configPath returns the config file path (~/.config/seqtree/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
