package geom

import "github.com/go-gl/mathgl/mgl32"

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Extents returns the bounding box of points.
// ok is false when points is empty.
func Extents(points []mgl32.Vec3) (b Bounds, ok bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}

	b = Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b, true
}

// Extend returns b grown to contain p.
func (b Bounds) Extend(p mgl32.Vec3) Bounds {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
	return b
}

// Union returns the smallest box containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	return b.Extend(other.Min).Extend(other.Max)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the edge lengths of the box.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Corners returns the eight corners of the box.
func (b Bounds) Corners() [8]mgl32.Vec3 {
	lo, hi := b.Min, b.Max
	return [8]mgl32.Vec3{
		{lo[0], lo[1], lo[2]}, {hi[0], lo[1], lo[2]},
		{hi[0], lo[1], hi[2]}, {lo[0], lo[1], hi[2]},
		{lo[0], hi[1], lo[2]}, {hi[0], hi[1], lo[2]},
		{hi[0], hi[1], hi[2]}, {lo[0], hi[1], hi[2]},
	}
}

// Transform returns the axis-aligned box enclosing b after m is applied.
func (b Bounds) Transform(m mgl32.Mat4) Bounds {
	corners := b.Corners()
	out := Bounds{Min: mgl32.TransformCoordinate(corners[0], m)}
	out.Max = out.Min
	for _, c := range corners[1:] {
		out = out.Extend(mgl32.TransformCoordinate(c, m))
	}
	return out
}

// Expand grows the box by pad on every side.
func (b Bounds) Expand(pad float32) Bounds {
	d := mgl32.Vec3{pad, pad, pad}
	return Bounds{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}
