// Command tangentview displays a mesh with its per-vertex tangent frames.
//
// Controls:
//
//	Space  pause/resume rotation
//	F      toggle frame overlay
//	B      toggle bounding box
//	T      cycle shading (lit, tangent, normal, handedness)
//	Arrows orbit, scroll wheel zooms
//	Esc    quit
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"tangent-engine/core"
	"tangent-engine/math"
	"tangent-engine/opengl"
	"tangent-engine/platform"
	"tangent-engine/scene"
)

func main() {
	in := flag.String("in", "", "Mesh to display (.obj, .gltf, .glb) or a primitive name (cube, sphere, torus, ...)")
	frameLength := flag.Float64("frame-length", 0, "Frame axis length (default: 2% of the mesh size)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	scene.SetLogger(log)

	if *in == "" {
		*in = "torus"
	}
	meshes, err := loadMeshes(*in)
	if err != nil {
		log.Error("load failed", "input", *in, "err", err)
		os.Exit(1)
	}

	var batch scene.TangentBatch
	for _, m := range meshes {
		if !m.HasTangents {
			fallbacks := batch.ComputeTangents(m)
			log.Info("computed tangents", "mesh", m.Name, "vertices", len(m.Vertices), "fallbacks", fallbacks)
		}
	}

	bounds := meshBounds(meshes)
	radius := bounds.Size().Length() / 2
	if radius <= 0 {
		radius = 1
	}
	length := float32(*frameLength)
	if length <= 0 {
		length = radius * 0.04
	}

	windowConfig := platform.DefaultWindowConfig()
	windowConfig.Title = "Tangent Viewer - " + *in

	window, err := platform.NewWindow(windowConfig)
	if err != nil {
		log.Error("window", "err", err)
		os.Exit(1)
	}
	defer window.Destroy()

	renderer, err := opengl.NewRenderer(log)
	if err != nil {
		log.Error("renderer", "err", err)
		os.Exit(1)
	}
	defer renderer.Destroy()

	for _, m := range meshes {
		renderer.SetFrameLines(m, opengl.BuildFrameLines(m, length))
	}

	grid := renderer.NewLineSet(opengl.BuildGridLines(radius*4, 20, bounds.Min.Y))
	defer renderer.ReleaseLines(grid)
	box := renderer.NewLineSet(opengl.BuildBoundsLines(bounds))
	defer renderer.ReleaseLines(box)

	camera := scene.NewOrbitCamera(bounds.Center(), radius*2.5, 45*math.Deg2Rad, 16.0/9.0)
	camera.FrameAABB(bounds)
	window.SetScrollCallback(func(_, yoff float64) {
		camera.Zoom(float32(-yoff) * 0.1)
	})

	var (
		rotating   = true
		showFrames = true
		showBounds = false
		mode       = opengl.ShadeLit
		angle      float32
		keys       keyLatch
		last       = window.Time()
	)
	fmt.Println("Space: rotate  F: frames  B: bounds  T: shading  Esc: quit")

	for !window.ShouldClose() {
		window.PollEvents()
		now := window.Time()
		dt := float32(now - last)
		last = now

		if window.IsKeyPressed(platform.KeyEscape) {
			window.Close()
		}
		if keys.pressed(window, platform.KeySpace) {
			rotating = !rotating
		}
		if keys.pressed(window, platform.KeyF) {
			showFrames = !showFrames
		}
		if keys.pressed(window, platform.KeyB) {
			showBounds = !showBounds
		}
		if keys.pressed(window, platform.KeyT) {
			mode = mode.Next()
			window.SetTitle(fmt.Sprintf("Tangent Viewer - %s [%s]", *in, mode))
		}
		orbitKeys(window, camera, dt)
		if rotating {
			angle += dt * 0.5
		}

		width, height := window.GetFramebufferSize()
		if width == 0 || height == 0 {
			continue
		}
		renderer.SetViewport(width, height)
		camera.UpdateAspectRatio(float32(width), float32(height))
		renderer.BeginFrame(core.Color{R: 0.12, G: 0.13, B: 0.16, A: 1})

		model := math.Mat4Translation(bounds.Center().Negate()).
			Mul(math.Mat4RotationY(angle)).
			Mul(math.Mat4Translation(bounds.Center()))
		viewProj := camera.GetViewProjectionMatrix()
		mvp := model.Mul(viewProj)

		renderer.DrawLines(grid, viewProj)
		if showBounds {
			renderer.DrawLines(box, mvp)
		}

		for _, m := range meshes {
			renderer.DrawMesh(m, mvp, mode)
			if showFrames {
				renderer.DrawFrames(m, mvp)
			}
		}
		window.SwapBuffers()
	}
}

func loadMeshes(in string) ([]*scene.Mesh, error) {
	if m := scene.CreatePrimitive(in); m != nil {
		return []*scene.Mesh{m}, nil
	}
	return scene.LoadMesh(in)
}

func meshBounds(meshes []*scene.Mesh) scene.AABB {
	var b scene.AABB
	first := true
	for _, m := range meshes {
		if !m.HasLocalAABB {
			continue
		}
		if first {
			b = m.LocalAABB
			first = false
			continue
		}
		b.Min = math.NewVec3(min(b.Min.X, m.LocalAABB.Min.X), min(b.Min.Y, m.LocalAABB.Min.Y), min(b.Min.Z, m.LocalAABB.Min.Z))
		b.Max = math.NewVec3(max(b.Max.X, m.LocalAABB.Max.X), max(b.Max.Y, m.LocalAABB.Max.Y), max(b.Max.Z, m.LocalAABB.Max.Z))
	}
	return b
}

// orbitKeys orbits the camera with the arrow keys.
func orbitKeys(w *platform.Window, c *scene.OrbitCamera, dt float32) {
	const speed = 1.5
	var yaw, pitch float32
	if w.IsKeyPressed(platform.KeyLeft) {
		yaw -= speed * dt
	}
	if w.IsKeyPressed(platform.KeyRight) {
		yaw += speed * dt
	}
	if w.IsKeyPressed(platform.KeyUp) {
		pitch += speed * dt
	}
	if w.IsKeyPressed(platform.KeyDown) {
		pitch -= speed * dt
	}
	if yaw != 0 || pitch != 0 {
		c.Orbit(yaw, pitch)
	}
}

// keyLatch turns held keys into single presses.
type keyLatch map[int]bool

func (k *keyLatch) pressed(w *platform.Window, key int) bool {
	if *k == nil {
		*k = make(keyLatch)
	}
	down := w.IsKeyPressed(key)
	was := (*k)[key]
	(*k)[key] = down
	return down && !was
}
