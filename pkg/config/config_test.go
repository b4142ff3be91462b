package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lanegraph/pkg/errors"
	"github.com/matzehuels/lanegraph/pkg/render"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "rounded", cfg.Graph.Style)
	assert.Equal(t, "auto", cfg.Graph.Width)
	assert.Equal(t, "auto", cfg.Graph.Protocol)
	assert.Equal(t, "chrono", cfg.Graph.Order)
	assert.Len(t, cfg.Graph.Colors, 6)
	assert.Equal(t, ListConfig{
		SubjectMinWidth: 20,
		DateFormat:      "2006-01-02",
		DateWidth:       10,
		DateLocal:       true,
		NameWidth:       20,
	}, cfg.List)

	p, err := cfg.Params(render.CellWidthDouble)
	require.NoError(t, err)
	assert.Equal(t, render.DoubleParams(), p)
}

func TestLoadTOMLPartial(t *testing.T) {
	path := writeFile(t, "config.toml", `
[graph]
style = "angular"
colors = ["#ff0000", "#00ff00"]
background = "#000"

[list]
name_width = 12
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "angular", cfg.Graph.Style)
	assert.Equal(t, "auto", cfg.Graph.Width, "unset values keep defaults")
	assert.Equal(t, 12, cfg.List.NameWidth)
	assert.True(t, cfg.List.DateLocal)

	p, err := cfg.Params(render.CellWidthSingle)
	require.NoError(t, err)
	assert.Equal(t, []color.NRGBA{{R: 0xff, A: 0xff}, {G: 0xff, A: 0xff}}, p.Palette)
	assert.Equal(t, color.NRGBA{A: 0xff}, p.Background)
	assert.Equal(t, render.SingleParams().Width, p.Width)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
graph:
  width: single
  line_width: 4
cache:
  redis:
    addr: localhost:6379
    db: 2
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "single", cfg.Graph.Width)
	assert.Equal(t, "localhost:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 2, cfg.Cache.Redis.DB)

	p, err := cfg.Params(render.CellWidthDouble)
	require.NoError(t, err)
	assert.Equal(t, 4, p.LineWidth)
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errors.Code
	}{
		{"bad style", "c.toml", "[graph]\nstyle = \"wavy\"", errors.ErrCodeInvalidStyle},
		{"bad width", "c.toml", "[graph]\nwidth = \"triple\"", errors.ErrCodeInvalidWidth},
		{"bad protocol", "c.yaml", "graph:\n  protocol: sixel", errors.ErrCodeInvalidProtocol},
		{"bad order", "c.toml", "[graph]\norder = \"random\"", errors.ErrCodeInvalidOrder},
		{"bad color", "c.toml", "[graph]\ncolors = [\"red\"]", errors.ErrCodeInvalidColor},
		{"bad outline", "c.toml", "[graph]\noutline = \"#12\"", errors.ErrCodeInvalidColor},
		{"bad geometry", "c.toml", "[graph]\nouter_radius = 40", errors.ErrCodeInvalidConfig},
		{"unknown toml key", "c.toml", "[graph]\nstlye = \"angular\"", errors.ErrCodeInvalidConfig},
		{"unknown yaml key", "c.yaml", "graph:\n  stlye: angular", errors.ErrCodeInvalidConfig},
		{"syntax", "c.toml", "[graph", errors.ErrCodeInvalidConfig},
		{"negative width", "c.toml", "[list]\nname_width = -1", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "error: %v", err)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestLoadDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.MkdirAll(filepath.Join(home, "lanegraph"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "lanegraph", "config.yml"), []byte("graph:\n  preload: true\n"), 0o644))

	path, ok := DefaultPath()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(home, "lanegraph", "config.yml"), path)

	cfg, err = LoadDefault()
	require.NoError(t, err)
	assert.True(t, cfg.Graph.Preload)
}
