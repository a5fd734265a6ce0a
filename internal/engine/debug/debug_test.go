package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/terrainview/internal/engine/gpu"
	"github.com/Faultbox/terrainview/internal/engine/terrain"
	"github.com/Faultbox/terrainview/pkg/geom"
)

func TestBoxLines(t *testing.T) {
	b := geom.Bounds{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{2, 4, 6}}
	lines := BoxLines(b, 1)

	if lines.Primitive != gpu.Lines {
		t.Errorf("primitive = %v, want Lines", lines.Primitive)
	}
	if len(lines.Positions) != 8 {
		t.Fatalf("got %d corners, want 8", len(lines.Positions))
	}
	if len(lines.Indices) != BoxEdgeCount*2 {
		t.Fatalf("got %d indices, want %d", len(lines.Indices), BoxEdgeCount*2)
	}
	if err := lines.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	got, _ := geom.Extents(lines.Positions)
	if got.Min != (mgl32.Vec3{-1, -1, -1}) || got.Max != (mgl32.Vec3{3, 5, 7}) {
		t.Errorf("padded box = %+v", got)
	}

	// Every edge is axis aligned.
	for i := 0; i < len(lines.Indices); i += 2 {
		d := lines.Positions[lines.Indices[i+1]].Sub(lines.Positions[lines.Indices[i]])
		nonZero := 0
		for _, c := range d {
			if c != 0 {
				nonZero++
			}
		}
		if nonZero != 1 {
			t.Errorf("edge %d is not axis aligned: %v", i/2, d)
		}
	}
}

func TestBoxTransform(t *testing.T) {
	b := geom.Bounds{Min: mgl32.Vec3{97, 50, -23}, Max: mgl32.Vec3{103, 53, -17}}
	xform := BoxTransform(b, 1)

	unit := BoxLines(UnitBox, 0)
	var placed []mgl32.Vec3
	for _, p := range unit.Positions {
		placed = append(placed, mgl32.TransformCoordinate(p, xform))
	}
	got, _ := geom.Extents(placed)
	if !got.Min.ApproxEqual(mgl32.Vec3{96, 49, -24}) || !got.Max.ApproxEqual(mgl32.Vec3{104, 54, -16}) {
		t.Errorf("stretched unit box = %+v", got)
	}
}

func flatMesh(t *testing.T, cells int) *terrain.Mesh {
	t.Helper()
	m, err := terrain.Build(terrain.Options{Size: 40, Cells: cells}, terrain.HeightFunc(func(u, v float32) float32 { return 5 }))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return m
}

func TestGridLines(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		m := flatMesh(t, n)
		lines := GridLines(m, DefaultGridLift)

		if want := 4 * n * (n + 1); len(lines.Indices) != want {
			t.Errorf("N=%d: %d indices, want %d", n, len(lines.Indices), want)
		}
		if err := lines.Validate(); err != nil {
			t.Errorf("N=%d: Validate: %v", n, err)
		}
		for _, p := range lines.Positions {
			if p.Y() != 5+DefaultGridLift {
				t.Fatalf("N=%d: line vertex at y=%v, want %v", n, p.Y(), 5+DefaultGridLift)
			}
		}
	}

	if got := GridLines(nil, 1); len(got.Indices) != 0 {
		t.Errorf("nil mesh produced %d indices", len(got.Indices))
	}
	if got := GridLines(&terrain.Mesh{}, 1); len(got.Indices) != 0 {
		t.Errorf("empty mesh produced %d indices", len(got.Indices))
	}
}

func TestFlipRows(t *testing.T) {
	// 1x2 image: bottom row red, top row blue.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	img, err := FlipRows(pixels, 1, 2)
	if err != nil {
		t.Fatalf("FlipRows: %v", err)
	}
	if top := img.RGBAAt(0, 0); top.B != 255 {
		t.Errorf("top pixel = %v, want blue", top)
	}
	if bottom := img.RGBAAt(0, 1); bottom.R != 255 {
		t.Errorf("bottom pixel = %v, want red", bottom)
	}

	if _, err := FlipRows(pixels, 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := FlipRows(nil, 0, 0); err == nil {
		t.Error("expected error for empty size")
	}
}

func TestCaptureFromPixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "terrainview")
	sc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	pixels := make([]byte, 4*3*4)
	for i := range pixels {
		pixels[i] = byte(i)
	}

	first, err := sc.CaptureFromPixels(pixels, 4, 3)
	if err != nil {
		t.Fatalf("CaptureFromPixels: %v", err)
	}
	if want := filepath.Join(dir, "terrainview_2024-05-01_12-30-00.png"); first != want {
		t.Errorf("filename = %s, want %s", first, want)
	}

	second, err := sc.CaptureFromPixels(pixels, 4, 3)
	if err != nil {
		t.Fatalf("second capture: %v", err)
	}
	if second == first || !strings.HasSuffix(second, "_1.png") {
		t.Errorf("second capture = %s, expected a numbered suffix", second)
	}

	f, err := os.Open(first)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("decoded size %v", b)
	}
}
