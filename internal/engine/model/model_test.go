package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/terrainview/internal/assets"
)

// writeVehicle saves a small two-node GLB: a translated root with a scaled
// child carrying one textured triangle and one line primitive.
func writeVehicle(t *testing.T, dir string) string {
	t.Helper()

	doc := gltf.NewDocument()

	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 0, -1}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 0.25}})
	idx := modeler.WriteIndices(doc, []uint32{0, 1, 2})
	linePos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {0, 5, 0}})

	doc.Images = []*gltf.Image{{URI: "jeep%20army.png"}}
	doc.Textures = []*gltf.Texture{{Source: gltf.Index(0)}}
	doc.Materials = []*gltf.Material{{
		Name: "paint",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor:  &[4]float32{0.5, 0.25, 1, 1},
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
			MetallicFactor:   gltf.Float(0),
			RoughnessFactor:  gltf.Float(1),
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "hull",
		Primitives: []*gltf.Primitive{
			{
				Attributes: map[string]uint32{gltf.POSITION: pos, gltf.TEXCOORD_0: uv},
				Indices:    gltf.Index(idx),
				Material:   gltf.Index(0),
			},
			{
				Attributes: map[string]uint32{gltf.POSITION: linePos},
				Mode:       gltf.PrimitiveLines,
			},
		},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "root", Translation: [3]float32{10, 0, 0}, Children: []uint32{1}},
		{Name: "body", Scale: [3]float32{2, 2, 2}, Mesh: gltf.Index(0)},
	}
	doc.Scenes = []*gltf.Scene{{Name: "scene", Nodes: []uint32{0}}}
	doc.Scene = gltf.Index(0)

	path := filepath.Join(dir, "jeep.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary failed: %v", err)
	}
	return path
}

func TestLoad_Vehicle(t *testing.T) {
	m, err := Load(writeVehicle(t, t.TempDir()))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Name != "jeep" {
		t.Errorf("name = %q, want jeep", m.Name)
	}
	if len(m.Meshes) != 1 {
		t.Fatalf("expected the line primitive to be dropped, got %d meshes", len(m.Meshes))
	}

	mesh := m.Meshes[0]
	if len(mesh.Positions) != 3 || len(mesh.Normals) != 3 || len(mesh.TexCoords) != 3 {
		t.Fatalf("attribute counts: %d/%d/%d", len(mesh.Positions), len(mesh.Normals), len(mesh.TexCoords))
	}
	if len(mesh.Indices) != 3 || mesh.TriangleCount() != 1 {
		t.Errorf("indices = %v", mesh.Indices)
	}

	for i, n := range mesh.Normals {
		if !n.ApproxEqual(mgl32.Vec3{0, 1, 0}) {
			t.Errorf("generated normal %d = %v, want up", i, n)
		}
	}

	if !mesh.TexCoords[0].ApproxEqual(mgl32.Vec2{0, 1}) {
		t.Errorf("texcoord 0 = %v, want flipped (0,1)", mesh.TexCoords[0])
	}
	if !mesh.TexCoords[2].ApproxEqual(mgl32.Vec2{0, 0.75}) {
		t.Errorf("texcoord 2 = %v, want (0,0.75)", mesh.TexCoords[2])
	}
}

func TestLoad_Material(t *testing.T) {
	m, err := Load(writeVehicle(t, t.TempDir()))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	mat := m.MaterialOf(0)
	if mat == nil {
		t.Fatal("mesh has no material")
	}
	if mat.Name != "paint" {
		t.Errorf("material name = %q", mat.Name)
	}
	if mat.DiffuseTexture != "jeep army.png" {
		t.Errorf("diffuse texture = %q, want unescaped URI", mat.DiffuseTexture)
	}
	if mat.SpecularTexture != "" {
		t.Errorf("specular texture = %q, want empty", mat.SpecularTexture)
	}
	if !mat.Diffuse.ApproxEqual(mgl32.Vec4{0.5, 0.25, 1, 1}) {
		t.Errorf("diffuse = %v", mat.Diffuse)
	}
	if !mat.Specular.ApproxEqual(mgl32.Vec3{0.04, 0.04, 0.04}) {
		t.Errorf("specular = %v", mat.Specular)
	}
	if mat.Shininess != 2 {
		t.Errorf("shininess = %v, want 2 for fully rough", mat.Shininess)
	}
}

func TestLoad_NodeArena(t *testing.T) {
	m, err := Load(writeVehicle(t, t.TempDir()))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(m.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(m.Nodes))
	}
	if m.Nodes[0].Parent != -1 || m.Nodes[1].Parent != 0 {
		t.Errorf("parents = %d, %d", m.Nodes[0].Parent, m.Nodes[1].Parent)
	}
	if len(m.Nodes[0].Children) != 1 || m.Nodes[0].Children[0] != 1 {
		t.Errorf("root children = %v", m.Nodes[0].Children)
	}

	want := mgl32.Translate3D(10, 0, 0).Mul4(mgl32.Scale3D(2, 2, 2))
	if got := m.WorldTransform(1); !got.ApproxEqual(want) {
		t.Errorf("world transform = %v, want %v", got, want)
	}

	draws := m.Draws()
	if len(draws) != 1 || draws[0].Mesh != 0 {
		t.Fatalf("draws = %+v", draws)
	}
	p := draws[0].Transform.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if !p.Vec3().ApproxEqual(mgl32.Vec3{12, 0, 0}) {
		t.Errorf("transformed vertex = %v, want (12,0,0)", p)
	}
}

func TestLoad_Extents(t *testing.T) {
	m, err := Load(writeVehicle(t, t.TempDir()))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	b, ok := m.LocalExtents()
	if !ok {
		t.Fatal("expected extents")
	}
	if !b.Min.ApproxEqual(mgl32.Vec3{0, 0, -1}) || !b.Max.ApproxEqual(mgl32.Vec3{1, 0, 0}) {
		t.Errorf("extents = %v..%v", b.Min, b.Max)
	}

	if s := m.String(); s != "model jeep: 1 meshes, 3 vertices, 1 triangles, 1 materials, 2 nodes" {
		t.Errorf("String() = %q", s)
	}
}

func TestLocalExtents_Union(t *testing.T) {
	m := &Model{Meshes: []Mesh{
		{Positions: []mgl32.Vec3{{0, 0, 0}, {1, 1, 1}}},
		{},
		{Positions: []mgl32.Vec3{{-3, 0.5, 2}}},
	}}

	b, ok := m.LocalExtents()
	if !ok {
		t.Fatal("expected extents")
	}
	if !b.Min.ApproxEqual(mgl32.Vec3{-3, 0, 0}) || !b.Max.ApproxEqual(mgl32.Vec3{1, 1, 2}) {
		t.Errorf("extents = %v..%v", b.Min, b.Max)
	}

	if _, ok := (&Model{}).LocalExtents(); ok {
		t.Error("empty model should have no extents")
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.glb"))
	if !errors.Is(err, assets.ErrNotFound) {
		t.Errorf("missing file: expected ErrNotFound, got %v", err)
	}

	garbage := filepath.Join(dir, "garbage.glb")
	if err := os.WriteFile(garbage, []byte("not a model"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	_, err = Load(garbage)
	if !errors.Is(err, assets.ErrUnsupported) {
		t.Errorf("garbage file: expected ErrUnsupported, got %v", err)
	}

	empty := gltf.NewDocument()
	emptyPath := filepath.Join(dir, "empty.glb")
	if err := gltf.SaveBinary(empty, emptyPath); err != nil {
		t.Fatalf("SaveBinary failed: %v", err)
	}
	if _, err := Load(emptyPath); err == nil {
		t.Error("expected error for scene without meshes")
	}
}

func TestLoadFrom_Manager(t *testing.T) {
	dir := t.TempDir()
	writeVehicle(t, dir)

	m, err := LoadFrom(assets.NewManager(dir), "jeep.glb")
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if len(m.Meshes) != 1 {
		t.Errorf("meshes = %d", len(m.Meshes))
	}

	_, err = LoadFrom(assets.NewManager(dir), "other.glb")
	if !errors.Is(err, assets.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFromDocument_NoNodes(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Meshes = []*gltf.Mesh{{Name: "loose", Primitives: []*gltf.Primitive{{
		Attributes: map[string]uint32{gltf.POSITION: pos},
	}}}}
	doc.Scenes = nil
	doc.Scene = nil

	m, err := FromDocument(doc, "loose")
	if err != nil {
		t.Fatalf("FromDocument failed: %v", err)
	}
	if len(m.Nodes) != 1 || len(m.Nodes[0].Meshes) != 1 {
		t.Errorf("expected a synthetic root holding the mesh, got %+v", m.Nodes)
	}
	if got := m.Meshes[0].Indices; len(got) != 3 || got[2] != 2 {
		t.Errorf("non-indexed primitive indices = %v", got)
	}
	if m.Meshes[0].Material != NoMaterial || m.MaterialOf(0) != nil {
		t.Error("mesh without material should report NoMaterial")
	}
}
