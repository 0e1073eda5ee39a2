package opengl

import (
	"tangent-engine/core"
	"tangent-engine/math"
	"tangent-engine/scene"
	"tangent-engine/tangent"
)

// LineVertex is one end of an overlay line segment.
type LineVertex struct {
	Position math.Vec3
	Color    core.Color
}

var (
	tangentColor   = core.ColorRed
	bitangentColor = core.ColorGreen
	normalColor    = core.ColorBlue
)

// BuildFrameLines returns three segments per vertex, starting at the vertex
// position: tangent (red), bitangent (green) and normal (blue), each length
// units long. Bitangents are rebuilt as cross(N, T) * w, so a mirrored
// vertex shows its green axis flipped. Meshes without tangents produce only
// the normal segments.
func BuildFrameLines(m *scene.Mesh, length float32) []LineVertex {
	per := 2
	if m.HasTangents {
		per = 6
	}
	lines := make([]LineVertex, 0, len(m.Vertices)*per)

	for _, v := range m.Vertices {
		p := v.Position
		if m.HasTangents {
			t := v.Tangent.ToVec3()
			b := tangent.Bitangent(v.Normal, v.Tangent)
			lines = append(lines,
				LineVertex{p, tangentColor}, LineVertex{p.Add(t.Mul(length)), tangentColor},
				LineVertex{p, bitangentColor}, LineVertex{p.Add(b.Mul(length)), bitangentColor},
			)
		}
		lines = append(lines,
			LineVertex{p, normalColor}, LineVertex{p.Add(v.Normal.Mul(length)), normalColor},
		)
	}
	return lines
}
