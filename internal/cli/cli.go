// Package cli implements the fbnet command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fbnet/pkg/cache"
	"github.com/matzehuels/fbnet/pkg/config"
	"github.com/matzehuels/fbnet/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and completions.
	appName = "fbnet"

	// batchDirSuffix names the default batch output directory.
	batchDirSuffix = "_network_svg"
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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. One-shot commands render
// every input once, so only the server keeps an artifact cache.
func (c *CLI) newRunner(cacheSize int) *pipeline.Runner {
	var store cache.Cache
	if cacheSize > 0 {
		store = cache.NewMemoryCache(cacheSize)
	}
	return pipeline.NewRunner(store, nil, c.Logger)
}

// =============================================================================
// Conversion Flags
// =============================================================================

// conversionFlags are shared by render, batch, and serve.
type conversionFlags struct {
	typeLibs   []string
	scale      float64
	noShadow   bool
	grid       bool
	routes     bool
	settings   string
	font       string
	fontItalic string
}

func (f *conversionFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "design units to pixels (default: automatic)")
	cmd.Flags().BoolVar(&f.noShadow, "no-shadow", false, "disable the drop shadow")
	cmd.Flags().BoolVar(&f.grid, "grid", false, "draw the background grid")
	cmd.Flags().BoolVar(&f.routes, "routes", false, "include routed connection points in JSON output")
	f.registerResolution(cmd)
}

// registerResolution adds the flags that shape type lookup and block
// sizing. The server takes the per-drawing flags from each request instead.
func (f *conversionFlags) registerResolution(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.typeLibs, "type-lib", nil, "type library directory (repeatable)")
	cmd.Flags().StringVar(&f.settings, "settings", "", "block size settings file (TOML)")
	cmd.Flags().StringVar(&f.font, "font", "", "TrueType font for text measurement")
	cmd.Flags().StringVar(&f.fontItalic, "font-italic", "", "italic TrueType font for type names")
}

// options builds pipeline options from the flags, loading the settings
// file and the fonts once. Unrecognised settings keys are reported but not
// fatal; an unreadable font is.
func (f *conversionFlags) options(ctx context.Context) (pipeline.Options, error) {
	logger := loggerFromContext(ctx)

	cfg, err := config.Resolve(f.settings)
	if err != nil {
		return pipeline.Options{}, err
	}
	if cfg.Path != "" {
		logger.Debug("loaded settings", "path", cfg.Path)
	}
	for _, key := range cfg.Unknown {
		logger.Warn("unknown settings key", "key", key, "path", cfg.Path)
	}

	po := pipeline.Options{
		TypeLibs:       f.typeLibs,
		Scale:          f.scale,
		NoShadow:       f.noShadow,
		Grid:           f.grid,
		Routes:         f.routes,
		Settings:       &cfg.Settings,
		FontPath:       f.font,
		FontItalicPath: f.fontItalic,
		Logger:         logger,
	}
	if po.Measurer, err = pipeline.Measurer(po); err != nil {
		return pipeline.Options{}, err
	}
	return po, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) ([]string, error) {
	if s == "" {
		return []string{pipeline.FormatSVG}, nil
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("no output format given")
	}
	return formats, pipeline.ValidateFormats(formats)
}
