package scene

import (
	"github.com/chewxy/math32"

	"tangent-engine/core"
	"tangent-engine/math"
)

var primitiveColor = core.Color{R: 0.8, G: 0.8, B: 0.8, A: 1.0}

func CreateTriangle() *Mesh {
	n := math.Vec3Front
	vertices := []core.Vertex{
		{Position: math.Vec3{X: 0, Y: 0, Z: 0}, Normal: n, UV: math.Vec2{X: 0, Y: 0}, Color: core.ColorRed},
		{Position: math.Vec3{X: 1, Y: 0, Z: 0}, Normal: n, UV: math.Vec2{X: 1, Y: 0}, Color: core.ColorGreen},
		{Position: math.Vec3{X: 0, Y: 1, Z: 0}, Normal: n, UV: math.Vec2{X: 0, Y: 1}, Color: core.ColorBlue},
	}
	return CreateMeshFromData("Triangle", vertices, []uint32{0, 1, 2})
}

func CreateQuad() *Mesh {
	n := math.Vec3Front
	vertices := []core.Vertex{
		{Position: math.Vec3{X: -0.5, Y: -0.5, Z: 0}, Normal: n, UV: math.Vec2{X: 0, Y: 0}, Color: core.ColorWhite},
		{Position: math.Vec3{X: 0.5, Y: -0.5, Z: 0}, Normal: n, UV: math.Vec2{X: 1, Y: 0}, Color: core.ColorWhite},
		{Position: math.Vec3{X: 0.5, Y: 0.5, Z: 0}, Normal: n, UV: math.Vec2{X: 1, Y: 1}, Color: core.ColorWhite},
		{Position: math.Vec3{X: -0.5, Y: 0.5, Z: 0}, Normal: n, UV: math.Vec2{X: 0, Y: 1}, Color: core.ColorWhite},
	}
	return CreateMeshFromData("Quad", vertices, []uint32{0, 1, 2, 2, 3, 0})
}

// cubeFace describes one face of CreateCube: its normal and the axes along
// which U and V increase.
type cubeFace struct {
	normal, u, v math.Vec3
}

var cubeFaces = [6]cubeFace{
	{normal: math.Vec3Front, u: math.Vec3Right, v: math.Vec3Up},
	{normal: math.Vec3Back, u: math.Vec3Left, v: math.Vec3Up},
	{normal: math.Vec3Up, u: math.Vec3Right, v: math.Vec3Back},
	{normal: math.Vec3Down, u: math.Vec3Right, v: math.Vec3Front},
	{normal: math.Vec3Right, u: math.Vec3Back, v: math.Vec3Up},
	{normal: math.Vec3Left, u: math.Vec3Front, v: math.Vec3Up},
}

// CreateCube builds a cube with 4 unshared vertices per face so every face
// has its own UV square and normal.
func CreateCube(size float32) *Mesh {
	s := size / 2
	corners := [4]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	vertices := make([]core.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range cubeFaces {
		base := uint32(len(vertices))
		for _, c := range corners {
			p := f.normal.
				Add(f.u.Mul(c.X*2 - 1)).
				Add(f.v.Mul(c.Y*2 - 1)).
				Mul(s)
			vertices = append(vertices, core.Vertex{Position: p, Normal: f.normal, UV: c, Color: core.ColorWhite})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return CreateMeshFromData("Cube", vertices, indices)
}

// CreatePlane generates a flat XZ plane facing +Y with U along +X and V along +Z.
func CreatePlane(width, depth float32, subdivisions int) *Mesh {
	if subdivisions < 1 {
		subdivisions = 1
	}

	var vertices []core.Vertex
	var indices []uint32

	halfW := width / 2.0
	halfD := depth / 2.0

	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			u := float32(x) / float32(subdivisions)
			v := float32(z) / float32(subdivisions)

			vertices = append(vertices, core.Vertex{
				Position: math.Vec3{X: -halfW + u*width, Y: 0, Z: -halfD + v*depth},
				Normal:   math.Vec3Up,
				UV:       math.Vec2{X: u, Y: v},
				Color:    primitiveColor,
			})
		}
	}

	row := uint32(subdivisions + 1)
	for z := uint32(0); z < uint32(subdivisions); z++ {
		for x := uint32(0); x < uint32(subdivisions); x++ {
			topLeft := z*row + x
			topRight := topLeft + 1
			bottomLeft := topLeft + row
			bottomRight := bottomLeft + 1

			indices = append(indices, topLeft, bottomLeft, topRight)
			indices = append(indices, topRight, bottomLeft, bottomRight)
		}
	}

	return CreateMeshFromData("Plane", vertices, indices)
}

// CreateSphere generates a UV-sphere. The pole rows collapse to a point, so
// the first and last ring of triangles exercise the degenerate-frame path.
func CreateSphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var vertices []core.Vertex
	var indices []uint32

	for ring := 0; ring <= rings; ring++ {
		phi := float32(ring) * math.Pi / float32(rings)
		sinPhi, cosPhi := math32.Sincos(phi)

		for seg := 0; seg <= segments; seg++ {
			theta := float32(seg) * 2 * math.Pi / float32(segments)
			sinTheta, cosTheta := math32.Sincos(theta)

			normal := math.Vec3{X: sinPhi * cosTheta, Y: cosPhi, Z: sinPhi * sinTheta}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       math.Vec2{X: float32(seg) / float32(segments), Y: float32(ring) / float32(rings)},
				Color:    primitiveColor,
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return CreateMeshFromData("Sphere", vertices, indices)
}

// CreateTorus generates a torus around the Y axis.
func CreateTorus(majorRadius, minorRadius float32, majorSegments, minorSegments int) *Mesh {
	if majorSegments < 3 {
		majorSegments = 3
	}
	if minorSegments < 3 {
		minorSegments = 3
	}

	var vertices []core.Vertex
	var indices []uint32

	for i := 0; i <= majorSegments; i++ {
		sinTheta, cosTheta := math32.Sincos(float32(i) * 2 * math.Pi / float32(majorSegments))

		for j := 0; j <= minorSegments; j++ {
			sinPhi, cosPhi := math32.Sincos(float32(j) * 2 * math.Pi / float32(minorSegments))

			ring := majorRadius + minorRadius*cosPhi
			vertices = append(vertices, core.Vertex{
				Position: math.Vec3{X: ring * cosTheta, Y: minorRadius * sinPhi, Z: ring * sinTheta},
				Normal:   math.Vec3{X: cosPhi * cosTheta, Y: sinPhi, Z: cosPhi * sinTheta}.Normalize(),
				UV:       math.Vec2{X: float32(i) / float32(majorSegments), Y: float32(j) / float32(minorSegments)},
				Color:    primitiveColor,
			})
		}
	}

	for i := 0; i < majorSegments; i++ {
		for j := 0; j < minorSegments; j++ {
			current := uint32(i*(minorSegments+1) + j)
			next := uint32((i+1)*(minorSegments+1) + j)

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return CreateMeshFromData("Torus", vertices, indices)
}

// CreatePrimitive returns a built-in mesh by name, or nil if the name is unknown.
func CreatePrimitive(name string) *Mesh {
	switch name {
	case "triangle":
		return CreateTriangle()
	case "quad":
		return CreateQuad()
	case "cube":
		return CreateCube(1)
	case "plane":
		return CreatePlane(2, 2, 8)
	case "sphere":
		return CreateSphere(1, 32, 16)
	case "torus":
		return CreateTorus(1, 0.35, 32, 16)
	}
	return nil
}
