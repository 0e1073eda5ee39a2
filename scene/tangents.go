package scene

import (
	"tangent-engine/math"
	"tangent-engine/tangent"
)

// ComputeTangents generates per-vertex tangent bases for a Mesh and stores
// them in Vertex.Tangent (xyz tangent, w handedness). These are required for
// tangent-space normal mapping; the mesh needs normals and UV coordinates.
// Triangles with a degenerate UV area contribute nothing.
//
// The mesh must pass Validate. Call after loading, before uploading the mesh
// to the GPU. It returns the number of vertices that fell back to a
// synthesized frame.
func ComputeTangents(m *Mesh) int {
	return computeTangents(m, &tangent.Generator{})
}

// TangentBatch runs ComputeTangents over several meshes, reusing one set of
// accumulation buffers.
type TangentBatch struct {
	gen tangent.Generator
}

func (b *TangentBatch) ComputeTangents(m *Mesh) int {
	return computeTangents(m, &b.gen)
}

func computeTangents(m *Mesh, gen *tangent.Generator) int {
	n := len(m.Vertices)
	positions := make([]math.Vec3, n)
	normals := make([]math.Vec3, n)
	uvs := make([]math.Vec2, n)
	for i, v := range m.Vertices {
		positions[i] = v.Position
		normals[i] = v.Normal
		uvs[i] = v.UV
	}

	bases := make([]math.Vec4, n)
	gen.Generate(bases, positions, normals, uvs, m.triangleIndices(), m.TriangleCount(), n)

	for i := range m.Vertices {
		m.Vertices[i].Tangent = bases[i]
	}
	m.HasTangents = true
	return gen.Fallbacks
}

// Tangents returns the tangent bases of the mesh as a flat slice.
func (m *Mesh) Tangents() []math.Vec4 {
	out := make([]math.Vec4, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = v.Tangent
	}
	return out
}

// Normals returns the vertex normals of the mesh as a flat slice.
func (m *Mesh) Normals() []math.Vec3 {
	out := make([]math.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = v.Normal
	}
	return out
}
