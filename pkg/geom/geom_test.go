package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFaceNormalCCW(t *testing.T) {
	a := mgl32.Vec3{0, 0, 0}
	b := mgl32.Vec3{2, 0, 0}
	c := mgl32.Vec3{0, 0, -2}

	got := FaceNormal(a, b, c)
	want := mgl32.Vec3{0, 4, 0}
	if got != want {
		t.Errorf("FaceNormal() = %v, want %v", got, want)
	}
}

func TestAccumulateNormalsWeightsByArea(t *testing.T) {
	positions := []mgl32.Vec3{
		{0, 0, 0},
		{1, 0, 0},
		{0, 0, -1},
		{0, 3, 0},
	}
	// Small upward face and a large face pointing +Z, sharing vertex 0.
	indices := []uint32{
		0, 1, 2,
		0, 1, 3,
	}

	normals := AccumulateNormals(positions, indices)
	if len(normals) != len(positions) {
		t.Fatalf("len(normals) = %d, want %d", len(normals), len(positions))
	}

	want0 := mgl32.Vec3{0, 1, 3}
	if normals[0] != want0 {
		t.Errorf("normals[0] = %v, want %v", normals[0], want0)
	}
	if normals[2] != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("normals[2] = %v, want {0 1 0}", normals[2])
	}
}

func TestAccumulateNormalsIgnoresPartialTriangle(t *testing.T) {
	positions := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, -1}}
	normals := AccumulateNormals(positions, []uint32{0, 1})
	for i, n := range normals {
		if n != (mgl32.Vec3{}) {
			t.Errorf("normals[%d] = %v, want zero", i, n)
		}
	}
}

func TestNormalizeInPlace(t *testing.T) {
	vs := []mgl32.Vec3{{3, 4, 0}, {}, {0, 0, -2}}
	NormalizeInPlace(vs)

	if l := Length(vs[0]); l < 0.99999 || l > 1.00001 {
		t.Errorf("Length(vs[0]) = %v, want 1", l)
	}
	if vs[1] != (mgl32.Vec3{}) {
		t.Errorf("zero vector changed to %v", vs[1])
	}
	if vs[2] != (mgl32.Vec3{0, 0, -1}) {
		t.Errorf("vs[2] = %v, want {0 0 -1}", vs[2])
	}
}

func TestSmoothNormalsFlatQuad(t *testing.T) {
	positions := []mgl32.Vec3{{0, 5, 0}, {1, 5, 0}, {0, 5, -1}, {1, 5, -1}}
	indices := []uint32{0, 1, 2, 1, 3, 2}

	for i, n := range SmoothNormals(positions, indices) {
		if !n.ApproxEqual(mgl32.Vec3{0, 1, 0}) {
			t.Errorf("normal %d = %v, want {0 1 0}", i, n)
		}
	}
}

func TestExtents(t *testing.T) {
	if _, ok := Extents(nil); ok {
		t.Error("Extents(nil) should report !ok")
	}

	b, ok := Extents([]mgl32.Vec3{{1, -2, 3}, {-4, 5, 0}, {2, 0, -6}})
	if !ok {
		t.Fatal("Extents() reported !ok")
	}
	if b.Min != (mgl32.Vec3{-4, -2, -6}) {
		t.Errorf("Min = %v", b.Min)
	}
	if b.Max != (mgl32.Vec3{2, 5, 3}) {
		t.Errorf("Max = %v", b.Max)
	}
	if b.Size() != (mgl32.Vec3{6, 7, 9}) {
		t.Errorf("Size = %v", b.Size())
	}
	if b.Center() != (mgl32.Vec3{-1, 1.5, -1.5}) {
		t.Errorf("Center = %v", b.Center())
	}
}

func TestBoundsUnion(t *testing.T) {
	a := Bounds{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}
	b := Bounds{Min: mgl32.Vec3{-1, 0.5, 0.5}, Max: mgl32.Vec3{0.5, 2, 0.5}}

	u := a.Union(b)
	if u.Min != (mgl32.Vec3{-1, 0, 0}) || u.Max != (mgl32.Vec3{1, 2, 1}) {
		t.Errorf("Union = %+v", u)
	}
}

func TestBoundsTransform(t *testing.T) {
	b := Bounds{Min: mgl32.Vec3{-1, 0, -1}, Max: mgl32.Vec3{1, 2, 1}}

	moved := b.Transform(mgl32.Translate3D(10, 5, 0).Mul4(mgl32.Scale3D(2, 2, 2)))
	if !moved.Min.ApproxEqual(mgl32.Vec3{8, 5, -2}) || !moved.Max.ApproxEqual(mgl32.Vec3{12, 9, 2}) {
		t.Errorf("Transform = %+v", moved)
	}

	// A quarter turn about Y swaps the X and Z extents.
	flat := Bounds{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{4, 1, 1}}
	turned := flat.Transform(mgl32.HomogRotate3DY(mgl32.DegToRad(90)))
	size := turned.Size()
	if !mgl32.FloatEqualThreshold(size[0], 1, 1e-5) || !mgl32.FloatEqualThreshold(size[2], 4, 1e-5) {
		t.Errorf("rotated size = %v", size)
	}
}

func TestBoundsExpand(t *testing.T) {
	b := Bounds{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}.Expand(0.5)
	if b.Min != (mgl32.Vec3{-0.5, -0.5, -0.5}) || b.Max != (mgl32.Vec3{1.5, 1.5, 1.5}) {
		t.Errorf("Expand = %+v", b)
	}
}
