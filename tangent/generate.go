// Package tangent generates per-vertex tangent-space bases for triangle meshes.
//
// The output for every vertex is a Vec4 holding a unit tangent orthogonal to
// the vertex normal in XYZ and the frame handedness (+1 or -1) in W, the same
// layout as the glTF TANGENT attribute. Consumers rebuild the bitangent as
// cross(normal, tangent.xyz) * tangent.w.
//
// Inputs are never validated here. Index buffers must hold 3*numTriangles
// entries, each below numVertices; violating that panics with an
// index-out-of-range. Validate meshes once when they are loaded.
package tangent

import "tangent-engine/math"

// Generator holds the accumulation buffers used by Generate so they can be
// reused across calls. The zero value is ready to use. A Generator must not
// be used from more than one goroutine at a time.
type Generator struct {
	tangents  []math.Vec3
	binormals []math.Vec3

	// Fallbacks counts the vertices of the last Generate call that needed a
	// synthesized frame.
	Fallbacks int
}

// Generate writes one tangent basis per vertex into dst[:numVertices].
func Generate(dst []math.Vec4, vertices, normals []math.Vec3, uvs []math.Vec2, indices []uint32, numTriangles, numVertices int) {
	var g Generator
	g.Generate(dst, vertices, normals, uvs, indices, numTriangles, numVertices)
}

// Accumulate runs only the per-triangle pass and returns the summed,
// not yet orthogonalized tangent and binormal of each vertex.
func Accumulate(vertices []math.Vec3, uvs []math.Vec2, indices []uint32, numTriangles, numVertices int) (tangents, binormals []math.Vec3) {
	var g Generator
	g.accumulate(vertices, uvs, indices, numTriangles, numVertices)
	return g.tangents, g.binormals
}

// Generate is the package-level Generate using g's scratch buffers.
func (g *Generator) Generate(dst []math.Vec4, vertices, normals []math.Vec3, uvs []math.Vec2, indices []uint32, numTriangles, numVertices int) {
	g.accumulate(vertices, uvs, indices, numTriangles, numVertices)

	g.Fallbacks = 0
	for vi := 0; vi < numVertices; vi++ {
		out, fallback := orthogonalize(g.tangents[vi], g.binormals[vi], normals[vi])
		if fallback {
			g.Fallbacks++
		}
		dst[vi] = out
	}
}

func (g *Generator) accumulate(vertices []math.Vec3, uvs []math.Vec2, indices []uint32, numTriangles, numVertices int) {
	g.tangents = resetScratch(g.tangents, numVertices)
	g.binormals = resetScratch(g.binormals, numVertices)

	ic := numTriangles * 3
	for ti := 0; ti < ic; ti += 3 {
		idx := [3]uint32{indices[ti], indices[ti+1], indices[ti+2]}
		v := [3]math.Vec3{vertices[idx[0]], vertices[idx[1]], vertices[idx[2]]}
		uv := [3]math.Vec2{uvs[idx[0]], uvs[idx[1]], uvs[idx[2]]}

		t, b := ExtractTriangle(v, uv)
		for i := 0; i < 3; i++ {
			g.tangents[idx[i]] = g.tangents[idx[i]].Add(t[i])
			g.binormals[idx[i]] = g.binormals[idx[i]].Add(b[i])
		}
	}
}

// resetScratch returns buf resized to n with every element zeroed.
func resetScratch(buf []math.Vec3, n int) []math.Vec3 {
	if cap(buf) < n {
		return make([]math.Vec3, n)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}

// Bitangent rebuilds the bitangent of a generated basis.
func Bitangent(normal math.Vec3, basis math.Vec4) math.Vec3 {
	return normal.Cross(basis.ToVec3()).Mul(basis.W)
}
