package models

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/globe/pkg/math3d"
)

// Load reads a GLTF or GLB file. Triangle primitives are ignored.
func Load(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	scene := &Scene{Name: filepath.Base(path)}
	for _, m := range doc.Meshes {
		if err := processMesh(doc, m, scene); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	return scene, nil
}

// processMesh extracts points and line strips from a GLTF mesh.
func processMesh(doc *gltf.Document, m *gltf.Mesh, scene *Scene) error {
	for _, prim := range m.Primitives {
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		switch prim.Mode {
		case gltf.PrimitivePoints:
			var colors []math3d.Vec3
			if colIdx, ok := prim.Attributes[gltf.COLOR_0]; ok {
				colors, err = readVec3Accessor(doc, colIdx)
				if err != nil {
					return fmt.Errorf("read colors: %w", err)
				}
			}

			var uvs []math3d.Vec2
			if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
				uvs, err = readVec2Accessor(doc, uvIdx)
				if err != nil {
					return fmt.Errorf("read uvs: %w", err)
				}
			}

			for i := range positions {
				v := PointVertex{Position: positions[i]}
				if i < len(colors) {
					v.Color = colors[i]
				}
				if i < len(uvs) {
					// GLTF uses top-left origin (V=0 at top), flip V for bottom-left origin
					v.UV = math3d.V2(uvs[i].X, 1.0-uvs[i].Y)
				}
				scene.Points = append(scene.Points, v)
			}

		case gltf.PrimitiveLineStrip:
			scene.Lines = append(scene.Lines, positions)
		}
	}

	return nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readFloats(doc, accessor, 3)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range result {
		result[i] = math3d.V3(data[i*3], data[i*3+1], data[i*3+2])
	}
	return result, nil
}

// readVec2Accessor reads Vec2 data from a GLTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	data, err := readFloats(doc, accessor, 2)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec2, accessor.Count)
	for i := range result {
		result[i] = math3d.V2(data[i*2], data[i*2+1])
	}
	return result, nil
}

// readFloats reads an accessor of float32 components, honoring the buffer
// view's byte stride.
func readFloats(doc *gltf.Document, accessor *gltf.Accessor, components int) ([]float64, error) {
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("unsupported component type %v", accessor.ComponentType)
	}
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.URI != "" && buffer.Data == nil {
		return nil, fmt.Errorf("external buffers not supported yet")
	}
	if buffer.Data == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	if stride == 0 {
		stride = components * 4
	}

	end := start + (accessor.Count-1)*stride + components*4
	if accessor.Count > 0 && end > len(buffer.Data) {
		return nil, fmt.Errorf("accessor overruns buffer (%d > %d)", end, len(buffer.Data))
	}

	out := make([]float64, accessor.Count*components)
	for i := range accessor.Count {
		offset := start + i*stride
		for j := range components {
			bits := binary.LittleEndian.Uint32(buffer.Data[offset+j*4:])
			out[i*components+j] = float64(math.Float32frombits(bits))
		}
	}
	return out, nil
}
