package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"tangent-engine/core"
	"tangent-engine/math"
)

// objFace is an already-triangulated face (three vertex references).
type objFace struct {
	vIdx, vtIdx, vnIdx [3]int // 0-based position / UV / normal indices (-1 = absent)
}

type objObject struct {
	name  string
	faces []objFace
}

// LoadOBJ parses a Wavefront .obj file and returns one Mesh per object/group.
// Polygons are fan-triangulated, vertices are shared per unique v/vt/vn
// triple, and smooth normals are generated for vertices the file gives none.
func LoadOBJ(path string) ([]*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	meshes, err := ReadOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("obj %q: %w", path, err)
	}
	return meshes, nil
}

// ReadOBJ parses Wavefront OBJ data from r. See LoadOBJ.
func ReadOBJ(r io.Reader) ([]*Mesh, error) {
	var positions []math.Vec3
	var normals []math.Vec3
	var uvs []math.Vec2

	var objects []objObject
	cur := &objObject{name: "default"}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v", "vn":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: %s needs 3 components", lineNo, fields[0])
			}
			v, err := parseFloats(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			vec := math.Vec3{X: v[0], Y: v[1], Z: v[2]}
			if fields[0] == "v" {
				positions = append(positions, vec)
			} else {
				normals = append(normals, vec)
			}

		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: vt needs 2 components", lineNo)
			}
			v, err := parseFloats(fields[1:3])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			uvs = append(uvs, math.Vec2{X: v[0], Y: v[1]})

		case "o", "g":
			if len(cur.faces) > 0 {
				objects = append(objects, *cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = &objObject{name: name}

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			type fv struct{ v, vt, vn int }
			fverts := make([]fv, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				v, vt, vn, err := parseFaceVertex(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				fverts = append(fverts, fv{v, vt, vn})
			}
			// Fan triangulation: 0-1-2, 0-2-3, 0-3-4, ...
			for i := 1; i+1 < len(fverts); i++ {
				f0, f1, f2 := fverts[0], fverts[i], fverts[i+1]
				cur.faces = append(cur.faces, objFace{
					vIdx:  [3]int{f0.v, f1.v, f2.v},
					vtIdx: [3]int{f0.vt, f1.vt, f2.vt},
					vnIdx: [3]int{f0.vn, f1.vn, f2.vn},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}

	if len(cur.faces) > 0 {
		objects = append(objects, *cur)
	}
	if len(objects) == 0 {
		return nil, ErrNoGeometry
	}

	meshes := make([]*Mesh, 0, len(objects))
	for _, obj := range objects {
		mesh := buildMeshFromOBJ(obj.name, obj.faces, positions, normals, uvs)
		if err := mesh.Validate(); err != nil {
			return nil, err
		}
		if !facesHaveUVs(obj.faces) {
			logger().Warn("obj has no texture coordinates; tangents will use fallback frames", "mesh", obj.name)
		}
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// facesHaveUVs reports whether any corner of faces references a vt entry.
func facesHaveUVs(faces []objFace) bool {
	for _, f := range faces {
		for _, vt := range f.vtIdx {
			if vt >= 0 {
				return true
			}
		}
	}
	return false
}

func parseFloats(fields []string) ([]float32, error) {
	out := make([]float32, len(fields))
	for i, s := range fields {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", s, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseFaceVertex parses one face vertex token: "v", "v/vt", "v//vn", "v/vt/vn".
// Returns 0-based indices (-1 if absent). OBJ is 1-based; negative values
// count back from the end of the pools read so far.
func parseFaceVertex(tok string, numV, numVT, numVN int) (v, vt, vn int, err error) {
	parseIdx := func(s string, n int) (int, error) {
		if s == "" {
			return -1, nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("face index %q: %w", s, err)
		}
		switch {
		case i > 0 && i <= n:
			return i - 1, nil
		case i < 0 && -i <= n:
			return n + i, nil
		}
		return 0, fmt.Errorf("face index %d of %d: %w", i, n, ErrIndexRange)
	}

	parts := strings.Split(tok, "/")
	v, vt, vn = -1, -1, -1
	if v, err = parseIdx(parts[0], numV); err != nil {
		return
	}
	if v < 0 {
		return 0, 0, 0, fmt.Errorf("face vertex %q has no position", tok)
	}
	if len(parts) > 1 {
		if vt, err = parseIdx(parts[1], numVT); err != nil {
			return
		}
	}
	if len(parts) > 2 {
		if vn, err = parseIdx(parts[2], numVN); err != nil {
			return
		}
	}
	return v, vt, vn, nil
}

// buildMeshFromOBJ converts parsed face data into a deduplicated Mesh.
func buildMeshFromOBJ(
	name string,
	faces []objFace,
	positions []math.Vec3,
	normals []math.Vec3,
	uvs []math.Vec2,
) *Mesh {
	type key struct{ v, vt, vn int }
	vertMap := map[key]uint32{}
	var vertices []core.Vertex
	var indices []uint32

	var missing []bool
	anyMissing := false
	for _, face := range faces {
		for c := 0; c < 3; c++ {
			k := key{face.vIdx[c], face.vtIdx[c], face.vnIdx[c]}
			if idx, ok := vertMap[k]; ok {
				indices = append(indices, idx)
				continue
			}
			v := core.Vertex{
				Position: positions[k.v],
				Normal:   math.Vec3Up,
				Color:    core.ColorWhite,
			}
			if k.vt >= 0 {
				v.UV = uvs[k.vt]
			}
			if k.vn >= 0 {
				v.Normal = normals[k.vn]
			} else {
				anyMissing = true
			}
			idx := uint32(len(vertices))
			vertices = append(vertices, v)
			missing = append(missing, k.vn < 0)
			vertMap[k] = idx
			indices = append(indices, idx)
		}
	}

	if anyMissing {
		generateSmoothNormals(vertices, indices, missing)
	}

	return CreateMeshFromData(name, vertices, indices)
}

// generateSmoothNormals computes area-weighted normals for the vertices
// flagged in missing.
func generateSmoothNormals(vertices []core.Vertex, indices []uint32, missing []bool) {
	accum := make([]math.Vec3, len(vertices))

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		v0 := vertices[i0].Position
		v1 := vertices[i1].Position
		v2 := vertices[i2].Position
		n := v1.Sub(v0).Cross(v2.Sub(v0)) // area-weighted normal
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i := range vertices {
		if missing[i] && accum[i].LengthSqr() > 0 {
			vertices[i].Normal = accum[i].Normalize()
		}
	}
}
