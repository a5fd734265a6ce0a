package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/terrainview/pkg/geom"
)

// Build generates a displaced grid mesh over a square footprint centred at
// the origin.
func Build(opts Options, heights HeightSource) (*Mesh, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("terrain size must be positive, got %v", opts.Size)
	}
	if opts.Cells < 1 {
		return nil, fmt.Errorf("terrain needs at least one cell per side, got %d", opts.Cells)
	}
	if heights == nil {
		return nil, fmt.Errorf("terrain height source is nil")
	}

	tiling := opts.Tiling
	if tiling == 0 {
		tiling = DefaultTiling
	}

	n := opts.Cells
	m := &Mesh{
		Size:     opts.Size,
		Cells:    n,
		CellSize: opts.Size / float32(n),
		Origin:   mgl32.Vec3{-opts.Size / 2, 0, opts.Size / 2},
	}

	m.Positions, m.TexCoords = buildVertices(m, heights, tiling)
	m.Indices = buildIndices(n)

	m.Normals = geom.AccumulateNormals(m.Positions, m.Indices)
	geom.NormalizeInPlace(m.Normals)

	return m, nil
}

// BuildFromFile loads a heightmap image and builds a terrain mesh from it
// using the default height scale and tiling.
func BuildFromFile(size float32, cellsPerSide int, heightmapPath string) (*Mesh, error) {
	sampler, err := LoadSampler(heightmapPath, DefaultHeightScale)
	if err != nil {
		return nil, err
	}
	return Build(Options{Size: size, Cells: cellsPerSide}, sampler)
}

func buildVertices(m *Mesh, heights HeightSource, tiling float32) ([]mgl32.Vec3, []mgl32.Vec2) {
	n := m.Cells
	count := (n + 1) * (n + 1)
	positions := make([]mgl32.Vec3, 0, count)
	texCoords := make([]mgl32.Vec2, 0, count)

	for row := 0; row <= n; row++ {
		v := float32(row) / float32(n)
		z := m.Origin.Z() - float32(row)*m.CellSize

		for col := 0; col <= n; col++ {
			u := float32(col) / float32(n)
			x := m.Origin.X() + float32(col)*m.CellSize

			positions = append(positions, mgl32.Vec3{x, heights.HeightAt(u, v), z})
			texCoords = append(texCoords, mgl32.Vec2{u * tiling, v * tiling})
		}
	}

	return positions, texCoords
}

// buildIndices triangulates the grid with alternating diagonals so that
// neighbouring cells never share a diagonal direction.
func buildIndices(n int) []uint32 {
	indices := make([]uint32, 0, 6*n*n)
	stride := uint32(n + 1)

	for cellZ := 0; cellZ < n; cellZ++ {
		for cellX := 0; cellX < n; cellX++ {
			bl := uint32(cellZ)*stride + uint32(cellX)
			br := bl + 1
			tl := bl + stride
			tr := tl + 1

			if (cellX+cellZ)%2 == 0 {
				indices = append(indices, bl, br, tl, br, tr, tl)
			} else {
				indices = append(indices, bl, br, tr, bl, tr, tl)
			}
		}
	}

	return indices
}
