package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lanegraph/pkg/buildinfo"
	"github.com/matzehuels/lanegraph/pkg/cache"
	"github.com/matzehuels/lanegraph/pkg/config"
	"github.com/matzehuels/lanegraph/pkg/observability"
	"github.com/matzehuels/lanegraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "lanegraph"

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

	// Config is loaded before every command runs.
	Config     config.Config
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
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
		Short: "lanegraph draws git history as a graph of terminal images",
		Long: `lanegraph draws the commit graph of a git repository with inline terminal
images (iTerm2 or kitty graphics protocol), one image per commit row.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+filepath.Join(config.Dir(), "config.toml")+")")

	root.AddCommand(c.logCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	for _, sub := range root.Commands() {
		registerCompletions(sub)
	}
	return root
}

func (c *CLI) loadConfig() error {
	var err error
	if c.configPath != "" {
		c.Config, err = config.Load(c.configPath)
	} else {
		c.Config, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded config", "path", c.configPath)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, f *graphFlags) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx, f.noCache, f.redis)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, c.Logger, c.hooks()), nil
}

// hooks logs render and cache events when debug logging is enabled.
func (c *CLI) hooks() observability.Hooks {
	if c.Logger.GetLevel() > log.DebugLevel {
		return observability.Hooks{}
	}
	h := observability.NewLogHooks(c.Logger)
	return observability.Hooks{Render: h, Cache: h}
}

// newCache opens the configured backend. A Redis address given on the
// command line wins over the config; an unreachable Redis falls back to
// the file cache, and an unusable cache directory disables caching.
func (c *CLI) newCache(ctx context.Context, noCache bool, redisAddr string) (cache.Cache, error) {
	if noCache || c.Config.Cache.Disabled {
		return cache.NewNullCache(), nil
	}

	redisCfg := c.Config.Cache.Redis
	if redisAddr != "" {
		redisCfg.Addr = redisAddr
	}
	if redisCfg.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		if err == nil {
			return rc, nil
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "addr", redisCfg.Addr, "error", err)
	}

	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "dir", dir, "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/lanegraph/).
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
