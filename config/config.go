// Package config loads tangentgen settings from a TOML file and merges
// command-line overrides on top.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds tangentgen input/output paths and bake settings.
type Config struct {
	// Paths
	Input    string `toml:"input"`
	Output   string `toml:"output"`
	BakePath string `toml:"bake_path"`

	// Bake settings
	BakeSize    int `toml:"bake_size"`
	Supersample int `toml:"supersample"`

	LogLevel string `toml:"log_level"`

	// OverwriteTangents regenerates tangents even for meshes that already
	// carry a TANGENT attribute.
	OverwriteTangents bool `toml:"overwrite_tangents"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Input       string
	Output      string
	BakePath    string
	BakeSize    int
	Supersample int
	LogLevel    string
	Force       bool
}

var (
	ErrNoInput      = errors.New("config: no input mesh")
	ErrNoOutput     = errors.New("config: no output path")
	ErrOutputFormat = errors.New("config: output must be .gltf or .glb")
	ErrBakeFormat   = errors.New("config: bake path must be .png, .webp or .tga")
	ErrLogLevel     = errors.New("config: unknown log level")
	ErrBakeSize     = errors.New("config: bake size too large")
)

// MaxBakeSize caps BakeSize*Supersample, the edge of the bake canvas.
const MaxBakeSize = 16384

func Default() Config {
	return Config{
		BakeSize:    1024,
		Supersample: 2,
		LogLevel:    "info",
	}
}

// Load reads a TOML config file. Fields not set in the file keep the
// values from Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	// Relative paths in the file are relative to the file itself.
	dir := filepath.Dir(path)
	cfg.Input = resolvePath(dir, cfg.Input)
	cfg.Output = resolvePath(dir, cfg.Output)
	cfg.BakePath = resolvePath(dir, cfg.BakePath)
	return cfg, nil
}

// Resolve applies CLI overrides and fills in defaults.
// Flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.Input != "" {
		c.Input = flags.Input
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.BakePath != "" {
		c.BakePath = flags.BakePath
	}
	if flags.BakeSize > 0 {
		c.BakeSize = flags.BakeSize
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.Force {
		c.OverwriteTangents = true
	}

	// Default output sits next to the input.
	if c.Output == "" && c.Input != "" {
		base := strings.TrimSuffix(c.Input, filepath.Ext(c.Input))
		c.Output = base + ".tangents.glb"
	}

	def := Default()
	if c.BakeSize <= 0 {
		c.BakeSize = def.BakeSize
	}
	if c.Supersample <= 0 {
		c.Supersample = def.Supersample
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

func (c *Config) Validate() error {
	if c.Input == "" {
		return ErrNoInput
	}
	if c.Output == "" {
		return ErrNoOutput
	}
	switch strings.ToLower(filepath.Ext(c.Output)) {
	case ".gltf", ".glb":
	default:
		return fmt.Errorf("%w: %s", ErrOutputFormat, c.Output)
	}
	if c.BakePath != "" {
		switch strings.ToLower(filepath.Ext(c.BakePath)) {
		case ".png", ".webp", ".tga":
		default:
			return fmt.Errorf("%w: %s", ErrBakeFormat, c.BakePath)
		}
	}
	if c.BakeSize > 0 && c.Supersample > 0 && c.Supersample > MaxBakeSize/c.BakeSize {
		return fmt.Errorf("%w: %d x %d exceeds %d", ErrBakeSize, c.BakeSize, c.Supersample, MaxBakeSize)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrLogLevel, c.LogLevel)
	}
	return level, nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
