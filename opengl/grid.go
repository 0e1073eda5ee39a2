package opengl

import (
	"tangent-engine/core"
	"tangent-engine/math"
	"tangent-engine/scene"
)

var (
	gridColor  = core.Color{R: 0.35, G: 0.35, B: 0.35, A: 1}
	gridXAxis  = core.Color{R: 0.8, G: 0.15, B: 0.15, A: 1}
	gridZAxis  = core.Color{R: 0.15, G: 0.35, B: 0.9, A: 1}
	boundColor = core.Color{R: 0.1, G: 0.95, B: 0.1, A: 1}
)

// BuildGridLines builds a flat grid on the XZ plane at height y.
//
//	size      total extent (grid goes from -size/2 to +size/2)
//	divisions number of cells along each axis
//
// The centre line along X is red, the one along Z is blue.
func BuildGridLines(size float32, divisions int, y float32) []LineVertex {
	if divisions < 1 {
		divisions = 1
	}

	half := size / 2.0
	step := size / float32(divisions)
	lines := make([]LineVertex, 0, (divisions+1)*4)

	// Lines parallel to Z (vary X)
	for i := 0; i <= divisions; i++ {
		x := -half + float32(i)*step
		c := gridColor
		if divisions%2 == 0 && i == divisions/2 {
			c = gridZAxis
		}
		lines = append(lines,
			LineVertex{math.Vec3{X: x, Y: y, Z: -half}, c},
			LineVertex{math.Vec3{X: x, Y: y, Z: half}, c},
		)
	}

	// Lines parallel to X (vary Z)
	for i := 0; i <= divisions; i++ {
		z := -half + float32(i)*step
		c := gridColor
		if divisions%2 == 0 && i == divisions/2 {
			c = gridXAxis
		}
		lines = append(lines,
			LineVertex{math.Vec3{X: -half, Y: y, Z: z}, c},
			LineVertex{math.Vec3{X: half, Y: y, Z: z}, c},
		)
	}
	return lines
}

// BuildBoundsLines returns the 12 edges of b.
func BuildBoundsLines(b scene.AABB) []LineVertex {
	corner := func(i int) math.Vec3 {
		p := b.Min
		if i&1 != 0 {
			p.X = b.Max.X
		}
		if i&2 != 0 {
			p.Y = b.Max.Y
		}
		if i&4 != 0 {
			p.Z = b.Max.Z
		}
		return p
	}

	lines := make([]LineVertex, 0, 24)
	for i := 0; i < 8; i++ {
		for _, bit := range [3]int{1, 2, 4} {
			if i&bit == 0 {
				lines = append(lines,
					LineVertex{corner(i), boundColor},
					LineVertex{corner(i | bit), boundColor},
				)
			}
		}
	}
	return lines
}
