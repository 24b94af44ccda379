package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/storyboard/pkg/buildinfo"
	"github.com/matzehuels/storyboard/pkg/cache"
	"github.com/matzehuels/storyboard/pkg/config"
	"github.com/matzehuels/storyboard/pkg/fonts"
	"github.com/matzehuels/storyboard/pkg/persist"
	"github.com/matzehuels/storyboard/pkg/pipeline"
	"github.com/matzehuels/storyboard/pkg/remote"
	"github.com/matzehuels/storyboard/pkg/templates"
	"github.com/matzehuels/storyboard/pkg/upload"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The config file is read when a command runs.
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

// LoadConfig reads the config file and environment, then applies the
// configured log level.
func (c *CLI) LoadConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	if cfg.LogLevel != "" {
		level, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		c.SetLogLevel(level)
	}
	return nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Storyboard renders class schedules as 1080x1920 stories",
		Long: `Storyboard renders a class schedule into a vertical 1080x1920 story image.

Templates give the story its look. The layout adapts type size and spacing to
the number of classes, then measures the result and refines it until the
schedule fits the canvas.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.LoadConfig(c.configPath); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/storyboard/config.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.elementsCommand())
	root.AddCommand(c.densityCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// runnerOpts selects the optional parts of a runner.
type runnerOpts struct {
	noCache bool
	store   bool
}

// newRunner creates a pipeline runner from the loaded configuration. The
// returned client fetches remote schedules through the same cache.
func (c *CLI) newRunner(ctx context.Context, opts runnerOpts) (*pipeline.Runner, *remote.Client, error) {
	reg, err := c.newRegistry()
	if err != nil {
		return nil, nil, err
	}
	backend, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return nil, nil, err
	}
	set, err := c.newFonts()
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	keyer := cache.NewScopedKeyer(nil, "v"+buildinfo.Version)
	runner := pipeline.NewRunner(backend, keyer, reg, c.Logger)
	runner.Fonts = set

	client := remote.NewClient(backend, keyer, cache.TTLHTTP)
	runner.Images = remote.NewImages(client, nil)

	if opts.store {
		st, err := c.newStore(ctx)
		if err != nil {
			runner.Close()
			return nil, nil, err
		}
		runner.Store = st
	}
	return runner, client, nil
}

// newRegistry builds the template registry: built-ins plus configured
// template files.
func (c *CLI) newRegistry() (*templates.Registry, error) {
	cfg := c.Config.Templates
	reg := templates.NewDefault(templates.Flags{Preview: cfg.Preview})
	for _, path := range cfg.Files {
		d, err := templates.LoadFile(reg, config.ExpandHome(path), true)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("loaded template", "id", d.ID, "file", path)
	}
	if cfg.Fallback != "" {
		if err := reg.SetFallback(cfg.Fallback); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// newCache opens the configured cache backend. A file cache whose directory
// cannot be resolved degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache {
		return cache.NewNullCache("--no-cache"), nil
	}
	if cfg.Backend == config.CacheNone {
		return cache.NewNullCache("cache backend is none"), nil
	}
	if cfg.Backend == config.CacheRedis {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache("no cache directory: " + err.Error()), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the file cache directory (~/.cache/storyboard/ by default).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return config.ExpandHome(c.Config.Cache.Dir), nil
	}
	return config.CacheDir()
}

// newFonts loads the configured font files. Nil means the embedded Go fonts.
func (c *CLI) newFonts() (*fonts.Set, error) {
	f := c.Config.Fonts
	if !f.Set() {
		return nil, nil
	}
	return fonts.LoadFiles(config.ExpandHome(f.Regular), config.ExpandHome(f.Medium), config.ExpandHome(f.Bold))
}

// newStore opens the configured document store.
func (c *CLI) newStore(ctx context.Context) (persist.Store, error) {
	cfg := c.Config.Store
	switch cfg.Backend {
	case config.StoreMemory:
		return persist.NewMemoryStore(), nil
	case config.StoreMongo:
		return persist.NewMongoStore(ctx, persist.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
	default:
		return persist.NewFileStore(config.ExpandHome(cfg.Dir))
	}
}

// newUploader opens the local upload directory.
func (c *CLI) newUploader() (*upload.LocalUploader, error) {
	return upload.NewLocal(config.ExpandHome(c.Config.Uploads.Dir))
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatPNG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
