package models

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/globe/pkg/impact"
	"github.com/taigrr/globe/pkg/math3d"
	"github.com/taigrr/globe/pkg/rng"
	"github.com/taigrr/globe/pkg/sphere"
)

func testGeometry(t *testing.T) (*sphere.PointSet, []impact.Trail) {
	t.Helper()
	points, err := sphere.Generate(200, 5, sphere.DefaultPalette, rng.New(1))
	if err != nil {
		t.Fatal(err)
	}
	cfg := impact.DefaultConfig()
	cfg.Slots = 3
	s, err := impact.NewScheduler(cfg, rng.New(2))
	if err != nil {
		t.Fatal(err)
	}
	s.Advance(700 * time.Millisecond)
	return points, s.Trails()
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestDocumentLayout(t *testing.T) {
	points, trails := testGeometry(t)
	doc := Document(points, trails)

	if len(doc.Meshes) != 2 {
		t.Fatalf("got %d meshes, want 2", len(doc.Meshes))
	}
	dots := doc.Meshes[0].Primitives[0]
	if dots.Mode != gltf.PrimitivePoints {
		t.Errorf("dots mode = %v, want points", dots.Mode)
	}
	if n := doc.Accessors[dots.Attributes[gltf.POSITION]].Count; n != points.Len() {
		t.Errorf("position count = %d, want %d", n, points.Len())
	}
	if got := len(doc.Meshes[1].Primitives); got != len(trails) {
		t.Errorf("got %d trail primitives, want %d", got, len(trails))
	}
	if len(doc.Scenes[0].Nodes) != 2 {
		t.Errorf("scene has %d nodes, want 2", len(doc.Scenes[0].Nodes))
	}
}

func TestDocumentWithoutTrails(t *testing.T) {
	points, _ := testGeometry(t)
	doc := Document(points, nil)
	if len(doc.Meshes) != 1 || len(doc.Nodes) != 1 {
		t.Errorf("got %d meshes and %d nodes, want 1 and 1", len(doc.Meshes), len(doc.Nodes))
	}
}

func TestExportRoundTrip(t *testing.T) {
	points, trails := testGeometry(t)
	path := filepath.Join(t.TempDir(), "globe.glb")

	if err := Export(path, points, trails); err != nil {
		t.Fatalf("Export: %v", err)
	}

	scene, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if scene.Name != "globe.glb" {
		t.Errorf("scene name = %q", scene.Name)
	}
	if scene.PointCount() != points.Len() {
		t.Fatalf("loaded %d points, want %d", scene.PointCount(), points.Len())
	}
	if scene.LineCount() != len(trails) {
		t.Fatalf("loaded %d lines, want %d", scene.LineCount(), len(trails))
	}

	const eps = 1e-5
	for i, p := range scene.Points {
		if !p.Position.ApproxEqual(points.Positions[i], eps) {
			t.Fatalf("point %d position %v, want %v", i, p.Position, points.Positions[i])
		}
		c := points.Colors[i]
		if !p.Color.ApproxEqual(math3d.V3(c.R, c.G, c.B), eps) {
			t.Fatalf("point %d color %v, want %v", i, p.Color, c)
		}
		uv := points.UVs[i]
		if math.Abs(p.UV.X-uv.X) > eps || math.Abs(p.UV.Y-uv.Y) > eps {
			t.Fatalf("point %d uv %v, want %v", i, p.UV, uv)
		}
	}
	for i, line := range scene.Lines {
		if len(line) != len(trails[i].Vertices) {
			t.Fatalf("line %d has %d vertices, want %d", i, len(line), len(trails[i].Vertices))
		}
	}

	lo, hi := scene.Bounds()
	if lo.X < -8 || hi.X > 8 || hi.Y <= lo.Y {
		t.Errorf("unexpected bounds %v..%v", lo, hi)
	}
}

func TestSceneBoundsEmpty(t *testing.T) {
	var s Scene
	lo, hi := s.Bounds()
	if lo != math3d.Zero3() || hi != math3d.Zero3() {
		t.Errorf("empty bounds = %v..%v", lo, hi)
	}
}
