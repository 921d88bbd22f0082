package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/diagramkit/diagramkit/pkg/layout"
	"github.com/diagramkit/diagramkit/pkg/pipeline"
)

// =============================================================================
// Config File
// =============================================================================

// Config holds user defaults read from config.toml in the config directory.
// All fields are optional; flags override config values.
type Config struct {
	// Formats is the default render format list (e.g. ["svg", "dot"]).
	Formats []string `toml:"formats"`

	// Layout overrides for the default layout options.
	Layout LayoutConfig `toml:"layout"`

	// Serve holds defaults for the HTTP server.
	Serve ServeConfig `toml:"serve"`
}

// LayoutConfig mirrors the tunable layout options.
type LayoutConfig struct {
	Padding       *float64 `toml:"padding"`
	PaddingFactor *float64 `toml:"padding_factor"`
	Gap           *float64 `toml:"gap"`
	MinWidth      *float64 `toml:"min_width"`
	MinHeight     *float64 `toml:"min_height"`
	HAlign        string   `toml:"halign"`
}

// ServeConfig holds server backend defaults.
type ServeConfig struct {
	Addr      string `toml:"addr"`
	RedisAddr string `toml:"redis_addr"`
	MongoURI  string `toml:"mongo_uri"`
}

// layoutOptions returns the built-in layout defaults with any config
// file overrides applied. Flags are bound on top of the result, so the
// precedence is flags over config over defaults.
func (c Config) layoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	if p := c.Layout.Padding; p != nil {
		opts.PaddingTop = *p
		opts.PaddingBottom = *p
		opts.PaddingLeft = *p
		opts.PaddingRight = *p
	}
	if f := c.Layout.PaddingFactor; f != nil {
		opts.PaddingFactor = *f
	}
	if g := c.Layout.Gap; g != nil {
		opts.Gap = *g
	}
	if w := c.Layout.MinWidth; w != nil {
		opts.MinWidth = *w
	}
	if h := c.Layout.MinHeight; h != nil {
		opts.MinHeight = *h
	}
	if c.Layout.HAlign != "" {
		// An unknown alignment in the config file keeps the built-in default.
		if a, err := layout.ParseAlignment(c.Layout.HAlign); err == nil {
			opts.HAlign = a
		}
	}
	return opts
}

// formats returns the configured default formats, or the pipeline
// default when the config file names none.
func (c Config) formats() string {
	if len(c.Formats) == 0 {
		return pipeline.DefaultFormat
	}
	return strings.Join(c.Formats, ",")
}

// LoadConfig reads config.toml from the config directory. A missing or
// unreadable file yields the zero config.
func LoadConfig() Config {
	var cfg Config
	dir, err := configDir()
	if err != nil {
		return cfg
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	if err != nil {
		return cfg
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}
