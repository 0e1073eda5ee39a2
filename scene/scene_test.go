package scene

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tangent-engine/core"
	"tangent-engine/math"
	"tangent-engine/tangent"
)

const tolerance = 1e-4

func assertTangentsValid(t *testing.T, m *Mesh) {
	t.Helper()
	require.True(t, m.HasTangents)
	r := tangent.Inspect(m.Tangents(), m.Normals())
	assert.Zero(t, r.NonFinite, "mesh %s", m.Name)
	assert.Less(t, r.MaxLengthErr, float32(tolerance), "mesh %s", m.Name)
	assert.Less(t, r.MaxNormalDot, float32(tolerance), "mesh %s", m.Name)
	assert.Equal(t, len(m.Vertices), r.RightHanded+r.LeftHanded, "mesh %s", m.Name)
}

func TestComputeTangentsTriangle(t *testing.T) {
	m := CreateTriangle()
	fallbacks := ComputeTangents(m)

	assert.Zero(t, fallbacks)
	for i, v := range m.Vertices {
		assert.InDelta(t, 1, v.Tangent.X, tolerance, "vertex %d", i)
		assert.InDelta(t, 0, v.Tangent.Y, tolerance, "vertex %d", i)
		assert.InDelta(t, 0, v.Tangent.Z, tolerance, "vertex %d", i)
		assert.Equal(t, float32(1), v.Tangent.W, "vertex %d", i)
	}
}

func TestComputeTangentsCubeFollowsFaceU(t *testing.T) {
	m := CreateCube(2)
	ComputeTangents(m)
	assertTangentsValid(t, m)

	for fi, f := range cubeFaces {
		for c := 0; c < 4; c++ {
			v := m.Vertices[fi*4+c]
			assert.InDelta(t, f.u.X, v.Tangent.X, tolerance, "face %d", fi)
			assert.InDelta(t, f.u.Y, v.Tangent.Y, tolerance, "face %d", fi)
			assert.InDelta(t, f.u.Z, v.Tangent.Z, tolerance, "face %d", fi)
			assert.Equal(t, float32(1), v.Tangent.W, "face %d", fi)
		}
	}
}

func TestComputeTangentsPrimitives(t *testing.T) {
	for _, name := range []string{"triangle", "quad", "cube", "plane", "sphere", "torus"} {
		t.Run(name, func(t *testing.T) {
			m := CreatePrimitive(name)
			require.NotNil(t, m)
			require.NoError(t, m.Validate())
			ComputeTangents(m)
			assertTangentsValid(t, m)
		})
	}
	assert.Nil(t, CreatePrimitive("teapot"))
}

func TestTangentBatchMatchesComputeTangents(t *testing.T) {
	a := CreateSphere(1, 12, 6)
	b := CreateSphere(1, 12, 6)

	var batch TangentBatch
	batch.ComputeTangents(CreateTorus(1, 0.3, 16, 8))
	batch.ComputeTangents(a)
	ComputeTangents(b)

	assert.Equal(t, b.Tangents(), a.Tangents())
}

func TestComputeTangentsUnindexed(t *testing.T) {
	src := CreateQuad()
	var vertices []core.Vertex
	for _, idx := range src.Indices {
		vertices = append(vertices, src.Vertices[idx])
	}
	m := CreateMeshFromData("soup", vertices, nil)
	require.NoError(t, m.Validate())
	assert.Equal(t, 2, m.TriangleCount())

	ComputeTangents(m)
	assertTangentsValid(t, m)
	for _, v := range m.Vertices {
		assert.InDelta(t, 1, v.Tangent.X, tolerance)
	}
}

func TestValidate(t *testing.T) {
	m := CreateQuad()
	require.NoError(t, m.Validate())

	m.Indices = append(m.Indices, 0)
	assert.ErrorIs(t, m.Validate(), ErrIndexCount)

	m.Indices = []uint32{0, 1, 4}
	assert.ErrorIs(t, m.Validate(), ErrIndexRange)

	soup := CreateMeshFromData("soup", make([]core.Vertex, 4), nil)
	assert.ErrorIs(t, soup.Validate(), ErrIndexCount)
}

func TestMeshAABB(t *testing.T) {
	m := CreateCube(2)
	require.True(t, m.HasLocalAABB)
	assert.Equal(t, math.NewVec3(-1, -1, -1), m.LocalAABB.Min)
	assert.Equal(t, math.NewVec3(1, 1, 1), m.LocalAABB.Max)
	assert.Equal(t, math.Vec3Zero, m.LocalAABB.Center())
	assert.Equal(t, math.NewVec3(2, 2, 2), m.LocalAABB.Size())
}

const quadOBJ = `# unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestReadOBJ(t *testing.T) {
	meshes, err := ReadOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	m := meshes[0]
	assert.Equal(t, "quad", m.Name)
	assert.Len(t, m.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)

	ComputeTangents(m)
	assertTangentsValid(t, m)
	for _, v := range m.Vertices {
		assert.InDelta(t, 1, v.Tangent.X, tolerance)
		assert.Equal(t, float32(1), v.Tangent.W)
	}
}

func TestReadOBJNegativeIndicesAndGroups(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
g first
f -3/-3 -2/-2 -1/-1
g second
f 1/1 2/2 3/3
`
	meshes, err := ReadOBJ(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, meshes, 2)
	assert.Equal(t, "first", meshes[0].Name)
	assert.Equal(t, "second", meshes[1].Name)
	assert.Equal(t, meshes[0].Vertices, meshes[1].Vertices)

	// no vn lines: normals are generated from the winding
	for _, v := range meshes[0].Vertices {
		assert.InDelta(t, 1, v.Normal.Z, tolerance)
	}
}

func TestReadOBJWarnsPerObjectWithoutUVs(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
o textured
f 1/1 2/2 3/3
o bare
f 1 2 3
`
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { SetLogger(nil) })

	meshes, err := ReadOBJ(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, meshes, 2)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "no texture coordinates"), out)
	assert.Contains(t, out, "mesh=bare")
	assert.NotContains(t, out, "mesh=textured")
}

func TestReadOBJErrors(t *testing.T) {
	_, err := ReadOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nf 1 2 9\n"))
	assert.ErrorIs(t, err, ErrIndexRange)

	_, err = ReadOBJ(strings.NewReader("# nothing here\n"))
	assert.ErrorIs(t, err, ErrNoGeometry)

	_, err = ReadOBJ(strings.NewReader("v 0 zero 0\n"))
	assert.Error(t, err)
}

func TestLoadMeshUnsupported(t *testing.T) {
	_, err := LoadMesh("model.fbx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.ErrorIs(t, SaveMesh("model.obj", nil), ErrUnsupportedFormat)
}

func TestGLTFRoundTrip(t *testing.T) {
	for _, ext := range []string{".glb", ".gltf"} {
		t.Run(ext, func(t *testing.T) {
			sphere := CreateSphere(1, 8, 4)
			ComputeTangents(sphere)
			cube := CreateCube(1)

			path := filepath.Join(t.TempDir(), "out"+ext)
			require.NoError(t, SaveMesh(path, []*Mesh{sphere, cube}))

			loaded, err := LoadMesh(path)
			require.NoError(t, err)
			require.Len(t, loaded, 2)

			assert.True(t, loaded[0].HasTangents)
			assert.False(t, loaded[1].HasTangents)
			assert.Equal(t, sphere.Indices, loaded[0].Indices)
			require.Len(t, loaded[0].Vertices, len(sphere.Vertices))
			for i, v := range loaded[0].Vertices {
				assert.Equal(t, sphere.Vertices[i].Tangent, v.Tangent, "vertex %d", i)
				assert.Equal(t, sphere.Vertices[i].UV, v.UV, "vertex %d", i)
			}

			ComputeTangents(loaded[1])
			assertTangentsValid(t, loaded[1])
		})
	}
}

func TestGLTFRoundTripKeepsMeshNames(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.glb")
	second := filepath.Join(dir, "second.glb")

	require.NoError(t, SaveMesh(first, []*Mesh{CreateSphere(1, 8, 4), CreateCube(1)}))
	loaded, err := LoadMesh(first)
	require.NoError(t, err)
	require.NoError(t, SaveMesh(second, loaded))
	reloaded, err := LoadMesh(second)
	require.NoError(t, err)

	require.Len(t, reloaded, 2)
	assert.Equal(t, "Sphere", loaded[0].Name)
	assert.Equal(t, "Cube", loaded[1].Name)
	for i := range loaded {
		assert.Equal(t, loaded[i].Name, reloaded[i].Name)
	}
}

func TestPrimitiveName(t *testing.T) {
	prim := &gltf.Primitive{}
	assert.Equal(t, "body", primitiveName(&gltf.Mesh{Name: "body", Primitives: []*gltf.Primitive{prim}}, 0, 0))
	assert.Equal(t, "body_p1", primitiveName(&gltf.Mesh{Name: "body", Primitives: []*gltf.Primitive{prim, prim}}, 0, 1))
	assert.Equal(t, "mesh_3", primitiveName(&gltf.Mesh{Primitives: []*gltf.Primitive{prim}}, 3, 0))
}

func TestSaveGLTFEmpty(t *testing.T) {
	for _, ext := range []string{".glb", ".gltf"} {
		path := filepath.Join(t.TempDir(), "empty"+ext)
		assert.ErrorIs(t, SaveGLTF(path, nil), ErrNoGeometry, ext)
		assert.ErrorIs(t, SaveMesh(path, []*Mesh{}), ErrNoGeometry, ext)
	}
}

func TestSaveGLTFRejectsInvalidMesh(t *testing.T) {
	m := CreateQuad()
	m.Indices = []uint32{0, 1, 7}
	err := SaveGLTF(filepath.Join(t.TempDir(), "bad.glb"), []*Mesh{m})
	assert.ErrorIs(t, err, ErrIndexRange)
}

func TestOrbitCamera(t *testing.T) {
	c := NewOrbitCamera(math.Vec3Zero, 5, 60*math.Deg2Rad, 1)
	c.Pitch = 0
	c.UpdatePosition()
	assert.InDelta(t, 5, c.Position.Z, tolerance)

	// the target lands on the view axis, Distance in front of the eye
	p := c.GetViewMatrix().MulVec(c.Target.ToVec4(1))
	assert.InDelta(t, 0, p.X, tolerance)
	assert.InDelta(t, 0, p.Y, tolerance)
	assert.InDelta(t, -5, p.Z, tolerance)

	c.Orbit(0, 10)
	assert.Equal(t, float32(1.5), c.Pitch)

	c.FrameAABB(CreateCube(2).LocalAABB)
	assert.Equal(t, math.Vec3Zero, c.Target)
	assert.Greater(t, c.Distance, math.NewVec3(1, 1, 1).Length())
	assert.InDelta(t, c.Distance, c.Position.Length(), tolerance)
}
