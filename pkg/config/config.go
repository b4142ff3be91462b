// Package config loads lanegraph settings from a TOML or YAML file.
//
// The default location is $XDG_CONFIG_HOME/lanegraph/config.toml (falling
// back to ~/.config), or config.yaml / config.yml in the same directory. A
// missing file is not an error: every setting has a default, and a file
// only needs to name the settings it changes. Command line flags override
// the file.
//
// A complete TOML file:
//
//	[graph]
//	style = "rounded"        # or "angular"
//	width = "auto"           # "double", "single"
//	protocol = "auto"        # "iterm", "kitty"
//	order = "chrono"         # "topo"
//	preload = false
//	colors = ["#e06c76", "#98c379", "#e5c07b", "#61afef", "#c678dd", "#56b6c2"]
//	outline = ""             # node ring color, empty for none
//	background = ""          # empty for transparent
//	line_width = 0           # 0 keeps the preset of the width mode
//	inner_radius = 0
//	outer_radius = 0
//
//	[list]
//	subject_min_width = 20
//	date_format = "2006-01-02"
//	date_width = 10
//	date_local = true
//	name_width = 20
//
//	[cache]
//	disabled = false
//	dir = ""                 # defaults to $XDG_CACHE_HOME/lanegraph
//	[cache.redis]
//	addr = ""                # e.g. "localhost:6379"; empty disables redis
//	password = ""
//	db = 0
package config

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/lanegraph/pkg/dag"
	"github.com/matzehuels/lanegraph/pkg/errors"
	"github.com/matzehuels/lanegraph/pkg/protocol"
	"github.com/matzehuels/lanegraph/pkg/render"
)

const appDir = "lanegraph"

// Config is the complete set of file settings.
type Config struct {
	Graph GraphConfig `toml:"graph" yaml:"graph"`
	List  ListConfig  `toml:"list" yaml:"list"`
	Cache CacheConfig `toml:"cache" yaml:"cache"`
}

// GraphConfig controls how the graph column is drawn.
type GraphConfig struct {
	Style    string `toml:"style" yaml:"style"`
	Width    string `toml:"width" yaml:"width"`
	Protocol string `toml:"protocol" yaml:"protocol"`
	Order    string `toml:"order" yaml:"order"`
	Preload  bool   `toml:"preload" yaml:"preload"`

	Colors     []string `toml:"colors" yaml:"colors"`
	Outline    string   `toml:"outline" yaml:"outline"`
	Background string   `toml:"background" yaml:"background"`

	LineWidth   int `toml:"line_width" yaml:"line_width"`
	InnerRadius int `toml:"inner_radius" yaml:"inner_radius"`
	OuterRadius int `toml:"outer_radius" yaml:"outer_radius"`
}

// ListConfig controls the text columns next to the graph.
type ListConfig struct {
	SubjectMinWidth int    `toml:"subject_min_width" yaml:"subject_min_width"`
	DateFormat      string `toml:"date_format" yaml:"date_format"`
	DateWidth       int    `toml:"date_width" yaml:"date_width"`
	DateLocal       bool   `toml:"date_local" yaml:"date_local"`
	NameWidth       int    `toml:"name_width" yaml:"name_width"`
}

// CacheConfig selects the row image cache backend.
type CacheConfig struct {
	Disabled bool        `toml:"disabled" yaml:"disabled"`
	Dir      string      `toml:"dir" yaml:"dir"`
	Redis    RedisConfig `toml:"redis" yaml:"redis"`
}

// RedisConfig points the cache at a Redis server.
type RedisConfig struct {
	Addr     string `toml:"addr" yaml:"addr"`
	Password string `toml:"password" yaml:"password"`
	DB       int    `toml:"db" yaml:"db"`
}

// Default returns the built-in settings.
func Default() Config {
	colors := make([]string, 0, len(render.DefaultPalette()))
	for _, c := range render.DefaultPalette() {
		colors = append(colors, render.FormatColor(c))
	}
	return Config{
		Graph: GraphConfig{
			Style:    render.StyleRounded.String(),
			Width:    render.CellWidthAuto.String(),
			Protocol: protocol.ModeAuto.String(),
			Order:    dag.OrderChronological.String(),
			Colors:   colors,
		},
		List: ListConfig{
			SubjectMinWidth: 20,
			DateFormat:      "2006-01-02",
			DateWidth:       10,
			DateLocal:       true,
			NameWidth:       20,
		},
	}
}

// Load reads the file at path on top of the defaults. Files ending in
// .yaml or .yml are YAML; everything else is TOML.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown setting %q", path, undecoded[0].String())
		}
	}
	return cfg, cfg.Validate()
}

// LoadDefault loads the file at [DefaultPath], or returns the defaults
// when there is none.
func LoadDefault() (Config, error) {
	path, ok := DefaultPath()
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Dir returns the configuration directory.
func Dir() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, appDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", appDir)
	}
	return filepath.Join(home, ".config", appDir)
}

// DefaultPath returns the first existing config file in [Dir].
func DefaultPath() (string, bool) {
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		p := filepath.Join(Dir(), name)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// Validate checks every setting that has a fixed set of values.
func (c Config) Validate() error {
	if _, err := render.ParseStyle(c.Graph.Style); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidStyle, err, "graph.style")
	}
	if _, err := render.ParseCellWidth(c.Graph.Width); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidWidth, err, "graph.width")
	}
	if _, err := protocol.Parse(c.Graph.Protocol); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidProtocol, err, "graph.protocol")
	}
	if _, err := dag.ParseOrder(c.Graph.Order); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, err, "graph.order")
	}
	if _, err := c.Params(render.CellWidthDouble); err != nil {
		return err
	}
	if _, err := c.Params(render.CellWidthSingle); err != nil {
		return err
	}
	if c.List.SubjectMinWidth < 0 || c.List.DateWidth < 0 || c.List.NameWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "list widths must not be negative")
	}
	return nil
}

// Params returns the geometry of width mode w with the configured colors
// and size overrides applied.
func (c Config) Params(w render.CellWidth) (render.Params, error) {
	p := render.ParamsFor(w)

	palette, err := render.ParsePalette(c.Graph.Colors)
	if err != nil {
		return p, errors.Wrap(errors.ErrCodeInvalidColor, err, "graph.colors")
	}
	outline, err := optionalColor(c.Graph.Outline)
	if err != nil {
		return p, errors.Wrap(errors.ErrCodeInvalidColor, err, "graph.outline")
	}
	background, err := optionalColor(c.Graph.Background)
	if err != nil {
		return p, errors.Wrap(errors.ErrCodeInvalidColor, err, "graph.background")
	}
	if len(palette) == 0 {
		palette = nil
	}
	p = p.WithColors(palette, outline, background)

	if c.Graph.LineWidth > 0 {
		p.LineWidth = c.Graph.LineWidth
	}
	if c.Graph.InnerRadius > 0 {
		p.InnerRadius = c.Graph.InnerRadius
	}
	if c.Graph.OuterRadius > 0 {
		p.OuterRadius = c.Graph.OuterRadius
	}
	if err := p.Validate(); err != nil {
		return p, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s graph geometry", w)
	}
	return p, nil
}

func optionalColor(s string) (color.NRGBA, error) {
	if strings.TrimSpace(s) == "" {
		return color.NRGBA{}, nil
	}
	return render.ParseColor(s)
}
