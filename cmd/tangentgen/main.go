// Command tangentgen computes per-vertex tangent bases for a mesh file and
// writes the result as glTF, optionally baking a UV-space tangent image.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tangent-engine/bake"
	"tangent-engine/config"
	"tangent-engine/scene"
	"tangent-engine/tangent"
)

func main() {
	configFile := flag.String("config", "", "Path to a TOML config file")
	in := flag.String("in", "", "Input mesh (.obj, .gltf, .glb)")
	out := flag.String("out", "", "Output glTF file (default: <input>.tangents.glb)")
	bakePath := flag.String("bake", "", "Also write a UV-space tangent image (.png, .webp, .tga)")
	bakeSize := flag.Int("bake-size", 0, "Bake image size in pixels (default: 1024)")
	supersample := flag.Int("supersample", 0, "Bake supersampling factor (default: 2)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (default: info)")
	force := flag.Bool("force", false, "Regenerate tangents even if the input already has them")

	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Input:       *in,
		Output:      *out,
		BakePath:    *bakePath,
		BakeSize:    *bakeSize,
		Supersample: *supersample,
		LogLevel:    *logLevel,
		Force:       *force,
	})
	if cfg.Input == "" && flag.NArg() > 0 {
		cfg.Resolve(config.Flags{Input: flag.Arg(0)})
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	level, _ := cfg.Level()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	scene.SetLogger(log)

	if err := run(cfg, log); err != nil {
		log.Error("tangentgen failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	start := time.Now()

	meshes, err := scene.LoadMesh(cfg.Input)
	if err != nil {
		return err
	}
	log.Info("loaded", "path", cfg.Input, "meshes", len(meshes))

	var batch scene.TangentBatch
	for _, m := range meshes {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("mesh %q: %w", m.Name, err)
		}
		if m.HasTangents && !cfg.OverwriteTangents {
			log.Info("keeping existing tangents", "mesh", m.Name)
			continue
		}
		fallbacks := batch.ComputeTangents(m)
		logReport(log, m, fallbacks)
	}

	if err := scene.SaveMesh(cfg.Output, meshes); err != nil {
		return err
	}
	log.Info("wrote", "path", cfg.Output)

	if cfg.BakePath != "" {
		opts := bake.Options{
			Size:           cfg.BakeSize,
			Supersample:    cfg.Supersample,
			MarkLeftHanded: true,
		}
		for i, m := range meshes {
			path := bakePathFor(cfg.BakePath, i, len(meshes))
			img, err := bake.Bake(m, opts)
			if err != nil {
				return err
			}
			if err := bake.Save(path, img); err != nil {
				return err
			}
			log.Info("baked", "mesh", m.Name, "path", path, "size", cfg.BakeSize)
		}
	}

	log.Debug("done", "elapsed", time.Since(start))
	return nil
}

func logReport(log *slog.Logger, m *scene.Mesh, fallbacks int) {
	r := tangent.Inspect(m.Tangents(), m.Normals())
	log.Info("tangents",
		"mesh", m.Name,
		"vertices", r.Vertices,
		"triangles", m.TriangleCount(),
		"right", r.RightHanded,
		"left", r.LeftHanded,
		"fallbacks", fallbacks,
	)
	if r.NonFinite > 0 {
		log.Warn("non-finite tangents", "mesh", m.Name, "count", r.NonFinite)
	}
	log.Debug("orthonormality",
		"mesh", m.Name,
		"max_length_err", r.MaxLengthErr,
		"max_normal_dot", r.MaxNormalDot,
	)
}

// bakePathFor suffixes the mesh index when the file holds several meshes.
func bakePathFor(path string, i, n int) string {
	if n == 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(path, ext), i, ext)
}
