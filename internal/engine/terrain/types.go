// Package terrain builds square heightmap terrain meshes and answers height
// queries against them.
package terrain

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/terrainview/pkg/geom"
)

// Default build parameters.
const (
	DefaultHeightScale float32 = 2
	DefaultTiling      float32 = 10
)

// HeightSource returns terrain height for normalized coordinates in [0,1].
type HeightSource interface {
	HeightAt(u, v float32) float32
}

// HeightFunc adapts a plain function to HeightSource.
type HeightFunc func(u, v float32) float32

// HeightAt calls f(u, v).
func (f HeightFunc) HeightAt(u, v float32) float32 { return f(u, v) }

// Options describes the terrain grid.
type Options struct {
	Size   float32 // edge length of the square footprint in world units
	Cells  int     // cells per side (N)
	Tiling float32 // texture repeats across the footprint; 0 means DefaultTiling
}

// Mesh holds terrain geometry ready for GPU upload.
// Vertices form an (N+1)x(N+1) row-major grid. Row 0 lies at z = Origin.Z
// and rows advance toward -Z; columns advance toward +X.
type Mesh struct {
	Positions []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Normals   []mgl32.Vec3
	Indices   []uint32

	Size     float32
	Cells    int
	CellSize float32
	Origin   mgl32.Vec3 // position of vertex 0 before displacement
}

// VertexCount returns (N+1)^2.
func (m *Mesh) VertexCount() int {
	return (m.Cells + 1) * (m.Cells + 1)
}

// VertexIndex returns the vertex index at grid (row, col).
func (m *Mesh) VertexIndex(row, col int) int {
	return row*(m.Cells+1) + col
}

// Bounds returns the axis-aligned box enclosing all vertices.
func (m *Mesh) Bounds() geom.Bounds {
	b, _ := geom.Extents(m.Positions)
	return b
}
