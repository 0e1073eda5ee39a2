package scene

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"tangent-engine/core"
	"tangent-engine/math"
)

// LoadGLTF opens a .glb or .gltf file and returns one Mesh per triangle
// primitive, in document order. Geometry stays in mesh-local space; node
// transforms are not applied. A TANGENT attribute present in the file is
// loaded and marks the mesh HasTangents.
func LoadGLTF(path string) ([]*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	meshes, err := meshesFromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("gltf %q: %w", path, err)
	}
	return meshes, nil
}

func meshesFromDocument(doc *gltf.Document) ([]*Mesh, error) {
	var meshes []*Mesh
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				logger().Warn("gltf: skipping non-triangle primitive", "mesh", mi, "primitive", pi, "mode", prim.Mode)
				continue
			}
			m, err := loadGLTFPrimitive(doc, primitiveName(gm, mi, pi), prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d prim %d: %w", mi, pi, err)
			}
			meshes = append(meshes, m)
		}
	}
	if len(meshes) == 0 {
		return nil, ErrNoGeometry
	}
	return meshes, nil
}

// primitiveName keeps the glTF mesh name for single-primitive meshes so a
// load/save cycle does not rename them.
func primitiveName(gm *gltf.Mesh, meshIdx, primIdx int) string {
	name := gm.Name
	if name == "" {
		name = fmt.Sprintf("mesh_%d", meshIdx)
	}
	if len(gm.Primitives) > 1 {
		name = fmt.Sprintf("%s_p%d", name, primIdx)
	}
	return name
}

// loadGLTFPrimitive converts one glTF mesh primitive into a scene.Mesh.
func loadGLTFPrimitive(doc *gltf.Document, name string, prim *gltf.Primitive) (*Mesh, error) {
	// Positions are required
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	var tangents [][4]float32

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("texcoords: %w", err)
		}
	}
	if idx, ok := prim.Attributes["TANGENT"]; ok {
		if tangents, err = modeler.ReadTangent(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("tangents: %w", err)
		}
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: math.Vec3{X: p[0], Y: p[1], Z: p[2]},
			Normal:   math.Vec3Up,
			Color:    core.ColorWhite,
		}
		if i < len(normals) {
			n := normals[i]
			v.Normal = math.Vec3{X: n[0], Y: n[1], Z: n[2]}
		}
		if i < len(uvs) {
			v.UV = math.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
		if i < len(tangents) {
			t := tangents[i]
			v.Tangent = math.Vec4{X: t[0], Y: t[1], Z: t[2], W: t[3]}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	m := CreateMeshFromData(name, verts, indices)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if len(normals) == 0 {
		generateSmoothNormals(m.Vertices, m.triangleIndices(), allTrue(len(m.Vertices)))
		logger().Info("gltf: generated missing normals", "mesh", name)
	}
	m.HasTangents = len(tangents) == len(positions) && len(tangents) > 0
	return m, nil
}

func allTrue(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = true
	}
	return out
}
