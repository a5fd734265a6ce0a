// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/terrainview/internal/engine/gpu"
	"github.com/Faultbox/terrainview/pkg/geom"
)

// BoxEdgeCount is the number of edges in a box wireframe.
const BoxEdgeCount = 12

// DefaultBoxPadding is the default padding for bounding boxes.
const DefaultBoxPadding = 1.0

// UnitBox spans [0,1] on every axis. Its outline can be uploaded once and
// stretched over any box with BoxTransform.
var UnitBox = geom.Bounds{Max: mgl32.Vec3{1, 1, 1}}

// boxEdges indexes geom.Bounds.Corners: bottom face, top face, verticals.
var boxEdges = [BoxEdgeCount * 2]uint32{
	0, 1, 1, 2, 2, 3, 3, 0,
	4, 5, 5, 6, 6, 7, 7, 4,
	0, 4, 1, 5, 2, 6, 3, 7,
}

// BoxLines creates a line list outlining b grown by padding.
func BoxLines(b geom.Bounds, padding float32) gpu.MeshData {
	corners := b.Expand(padding).Corners()

	indices := make([]uint32, len(boxEdges))
	copy(indices, boxEdges[:])

	return gpu.MeshData{
		Positions: corners[:],
		Indices:   indices,
		Primitive: gpu.Lines,
	}
}

// BoxTransform maps UnitBox onto b grown by padding.
func BoxTransform(b geom.Bounds, padding float32) mgl32.Mat4 {
	b = b.Expand(padding)
	size := b.Size()
	return mgl32.Translate3D(b.Min[0], b.Min[1], b.Min[2]).
		Mul4(mgl32.Scale3D(size[0], size[1], size[2]))
}
