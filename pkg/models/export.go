package models

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/globe/pkg/impact"
	"github.com/taigrr/globe/pkg/sphere"
)

// Document builds a glTF document holding the dot cloud and the trails.
// The dot cloud is mesh 0; trail i is a line strip in mesh 1.
func Document(points *sphere.PointSet, trails []impact.Trail) *gltf.Document {
	doc := gltf.NewDocument()

	positions := make([][3]float32, points.Len())
	colors := make([][3]float32, points.Len())
	uvs := make([][2]float32, points.Len())
	for i, p := range points.Positions {
		positions[i] = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
		c := points.Colors[i]
		colors[i] = [3]float32{float32(c.R), float32(c.G), float32(c.B)}
		// Stored top-left origin as glTF expects.
		uv := points.UVs[i]
		uvs[i] = [2]float32{float32(uv.X), float32(1 - uv.Y)}
	}

	dots := &gltf.Mesh{
		Name: "dots",
		Primitives: []*gltf.Primitive{{
			Mode: gltf.PrimitivePoints,
			Attributes: map[string]int{
				gltf.POSITION:   modeler.WritePosition(doc, positions),
				gltf.COLOR_0:    modeler.WriteColor(doc, colors),
				gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
			},
		}},
	}
	doc.Meshes = append(doc.Meshes, dots)
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "globe", Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	if len(trails) == 0 {
		return doc
	}

	lines := &gltf.Mesh{Name: "trails"}
	for _, tr := range trails {
		verts := make([][3]float32, len(tr.Vertices))
		for i, v := range tr.Vertices {
			verts[i] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
		}
		lines.Primitives = append(lines.Primitives, &gltf.Primitive{
			Mode: gltf.PrimitiveLineStrip,
			Attributes: map[string]int{
				gltf.POSITION: modeler.WritePosition(doc, verts),
			},
		})
	}
	doc.Meshes = append(doc.Meshes, lines)
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "trails", Mesh: gltf.Index(1)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 1)

	return doc
}

// Export writes the dot cloud and trails to a binary glTF file.
func Export(path string, points *sphere.PointSet, trails []impact.Trail) error {
	if err := gltf.SaveBinary(Document(points, trails), path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}
