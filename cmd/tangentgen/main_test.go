package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tangent-engine/config"
	"tangent-engine/scene"
)

const quadOBJ = `o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "quad.obj")
	require.NoError(t, os.WriteFile(in, []byte(quadOBJ), 0644))

	cfg := config.Default()
	cfg.Resolve(config.Flags{Input: in, BakePath: filepath.Join(dir, "quad.png"), BakeSize: 16})
	require.NoError(t, cfg.Validate())

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, run(cfg, log))

	assert.FileExists(t, filepath.Join(dir, "quad.png"))

	meshes, err := scene.LoadMesh(filepath.Join(dir, "quad.tangents.glb"))
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.True(t, meshes[0].HasTangents)
	for _, v := range meshes[0].Vertices {
		assert.InDelta(t, 1, v.Tangent.X, 1e-5)
		assert.Equal(t, float32(1), v.Tangent.W)
	}
}

func TestRunMissingInput(t *testing.T) {
	cfg := config.Default()
	cfg.Resolve(config.Flags{Input: filepath.Join(t.TempDir(), "missing.obj")})
	assert.Error(t, run(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestBakePathFor(t *testing.T) {
	assert.Equal(t, "out/t.png", bakePathFor("out/t.png", 0, 1))
	assert.Equal(t, "out/t_2.webp", bakePathFor("out/t.webp", 2, 3))
}
