package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tangentgen.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
input = "models/crate.obj"
output = "/abs/crate.glb"
bake_path = "out/crate.webp"
bake_size = 512
overwrite_tangents = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, filepath.Join(dir, "models", "crate.obj"), cfg.Input)
	assert.Equal(t, "/abs/crate.glb", cfg.Output)
	assert.Equal(t, filepath.Join(dir, "out", "crate.webp"), cfg.BakePath)
	assert.Equal(t, 512, cfg.BakeSize)
	assert.True(t, cfg.OverwriteTangents)

	// unset fields keep their defaults
	assert.Equal(t, 2, cfg.Supersample)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "bake_size = \"big\"\n"))
	assert.Error(t, err)
}

func TestResolveFlagsOverrideFile(t *testing.T) {
	cfg := Config{Input: "a.obj", Output: "a.glb", BakeSize: 256, LogLevel: "warn"}
	cfg.Resolve(Flags{Output: "b.gltf", BakeSize: 64, Force: true})

	assert.Equal(t, "a.obj", cfg.Input)
	assert.Equal(t, "b.gltf", cfg.Output)
	assert.Equal(t, 64, cfg.BakeSize)
	assert.Equal(t, 2, cfg.Supersample)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.OverwriteTangents)
}

func TestResolveDefaultOutput(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{Input: filepath.Join("models", "crate.obj")})
	assert.Equal(t, filepath.Join("models", "crate.tangents.glb"), cfg.Output)
	assert.Equal(t, Default().BakeSize, cfg.BakeSize)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		err  error
	}{
		{"no input", Config{Output: "a.glb", LogLevel: "info"}, ErrNoInput},
		{"no output", Config{Input: "a.obj", LogLevel: "info"}, ErrNoOutput},
		{"obj output", Config{Input: "a.obj", Output: "a.obj", LogLevel: "info"}, ErrOutputFormat},
		{"bmp bake", Config{Input: "a.obj", Output: "a.glb", BakePath: "a.bmp", LogLevel: "info"}, ErrBakeFormat},
		{"bad level", Config{Input: "a.obj", Output: "a.glb", LogLevel: "loud"}, ErrLogLevel},
		{"huge bake", Config{Input: "a.obj", Output: "a.glb", BakeSize: 1 << 20, Supersample: 4, LogLevel: "info"}, ErrBakeSize},
		{"overflowing bake", Config{Input: "a.obj", Output: "a.glb", BakeSize: 1 << 30, Supersample: 1 << 30, LogLevel: "info"}, ErrBakeSize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.cfg.Validate(), tc.err)
		})
	}
}

func TestValidateAcceptsMaxBakeSize(t *testing.T) {
	cfg := Config{Input: "a.obj", Output: "a.glb", BakeSize: MaxBakeSize / 2, Supersample: 2, LogLevel: "info"}
	assert.NoError(t, cfg.Validate())
}

func TestLevel(t *testing.T) {
	cfg := Config{LogLevel: "debug"}
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}
