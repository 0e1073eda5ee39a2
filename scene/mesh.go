package scene

import (
	"errors"
	"fmt"

	"tangent-engine/core"
	"tangent-engine/math"
)

var (
	// ErrIndexCount is returned when an index buffer is not a whole number of triangles.
	ErrIndexCount = errors.New("index count is not a multiple of 3")
	// ErrIndexRange is returned when an index refers past the vertex buffer.
	ErrIndexRange = errors.New("index out of range")
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name       string
	Vertices   []core.Vertex
	Indices    []uint32
	IndexCount uint32

	// Cached local-space AABB (computed by CreateMeshFromData).
	LocalAABB    AABB
	HasLocalAABB bool

	// HasTangents is set once Vertex.Tangent holds valid data, either read
	// from the source file or produced by ComputeTangents.
	HasTangents bool

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	// Do not access directly; use the renderer's API.
	GPUData interface{}
}

// CreateMeshFromData builds a Mesh and pre-computes its local-space AABB.
func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Name:       name,
		Vertices:   vertices,
		Indices:    indices,
		IndexCount: uint32(len(indices)),
	}
	if len(vertices) > 0 {
		m.LocalAABB = computeLocalAABB(vertices)
		m.HasLocalAABB = true
	}
	return m
}

// computeLocalAABB returns the tight AABB of the given vertex positions.
func computeLocalAABB(vertices []core.Vertex) AABB {
	min := vertices[0].Position
	max := vertices[0].Position
	for i := 1; i < len(vertices); i++ {
		p := vertices[i].Position
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.Z < min.Z {
			min.Z = p.Z
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
		if p.Z > max.Z {
			max.Z = p.Z
		}
	}
	return AABB{Min: min, Max: max}
}

// TriangleCount returns the number of triangles the mesh draws. Meshes without
// an index buffer are read as consecutive vertex triples.
func (m *Mesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Vertices) / 3
}

// Validate checks that the index buffer describes whole triangles over the
// vertex buffer. Loaders call it once so the tangent pass can skip bounds checks.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %q: %d indices: %w", m.Name, len(m.Indices), ErrIndexCount)
	}
	if len(m.Indices) == 0 && len(m.Vertices)%3 != 0 {
		return fmt.Errorf("mesh %q: %d unindexed vertices: %w", m.Name, len(m.Vertices), ErrIndexCount)
	}
	n := uint32(len(m.Vertices))
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("mesh %q: index %d = %d, %d vertices: %w", m.Name, i, idx, n, ErrIndexRange)
		}
	}
	return nil
}

// triangleIndices returns the index buffer, synthesizing 0..n-1 for unindexed meshes.
func (m *Mesh) triangleIndices() []uint32 {
	if len(m.Indices) > 0 {
		return m.Indices
	}
	n := m.TriangleCount() * 3
	indices := make([]uint32, n)
	for i := range indices {
		indices[i] = uint32(i)
	}
	return indices
}
