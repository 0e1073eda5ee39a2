package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// SaveGLTF writes meshes to path, one glTF mesh and root node per Mesh.
// A .glb path produces a binary file; a .gltf path produces JSON plus a
// sibling .bin buffer. Meshes with HasTangents also get a TANGENT attribute.
func SaveGLTF(path string, meshes []*Mesh) error {
	doc, err := buildDocument(meshes)
	if err != nil {
		return fmt.Errorf("gltf %q: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".glb") {
		err = gltf.SaveBinary(doc, path)
	} else {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if len(doc.Buffers) > 0 {
			doc.Buffers[0].URI = base + ".bin"
		}
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return fmt.Errorf("gltf save %q: %w", path, err)
	}
	return nil
}

func buildDocument(meshes []*Mesh) (*gltf.Document, error) {
	if len(meshes) == 0 {
		return nil, ErrNoGeometry
	}
	doc := gltf.NewDocument()
	doc.Asset.Generator = "tangent-engine"

	for _, m := range meshes {
		if len(m.Vertices) == 0 {
			return nil, fmt.Errorf("mesh %q: %w", m.Name, ErrNoGeometry)
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}

		positions := make([][3]float32, len(m.Vertices))
		normals := make([][3]float32, len(m.Vertices))
		uvs := make([][2]float32, len(m.Vertices))
		for i, v := range m.Vertices {
			positions[i] = v.Position.Array()
			normals[i] = v.Normal.Array()
			uvs[i] = [2]float32{v.UV.X, v.UV.Y}
		}

		attrs := gltf.PrimitiveAttributes{
			"POSITION":   modeler.WritePosition(doc, positions),
			"NORMAL":     modeler.WriteNormal(doc, normals),
			"TEXCOORD_0": modeler.WriteTextureCoord(doc, uvs),
		}
		if m.HasTangents {
			tangents := make([][4]float32, len(m.Vertices))
			for i, v := range m.Vertices {
				tangents[i] = v.Tangent.Array()
			}
			attrs["TANGENT"] = modeler.WriteTangent(doc, tangents)
		}

		prim := &gltf.Primitive{Attributes: attrs}
		if len(m.Indices) > 0 {
			prim.Indices = gltf.Index(modeler.WriteIndices(doc, m.Indices))
		}

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name:       m.Name,
			Primitives: []*gltf.Primitive{prim},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: m.Name,
			Mesh: gltf.Index(len(doc.Meshes) - 1),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	return doc, nil
}
