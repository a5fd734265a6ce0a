package terrain

import "github.com/chewxy/math32"

// GridIndex returns the grid vertex nearest to world (x, z), clamped to the
// mesh.
func (m *Mesh) GridIndex(x, z float32) (row, col int) {
	n := float32(m.Cells)
	col = clampIndex(int(math32.Round(clampf((x-m.Origin.X())/m.CellSize, 0, n))), m.Cells)
	row = clampIndex(int(math32.Round(clampf((m.Origin.Z()-z)/m.CellSize, 0, n))), m.Cells)
	return row, col
}

// HeightAt returns the height of the grid vertex nearest to (x, z).
// An empty mesh reports 0.
func (m *Mesh) HeightAt(x, z float32) float32 {
	if m == nil || len(m.Positions) == 0 || m.CellSize <= 0 {
		return 0
	}
	row, col := m.GridIndex(x, z)
	return m.Positions[m.VertexIndex(row, col)].Y()
}

// CellAt returns the cell containing world (x, z) and the fractional
// position inside it. Positions off the mesh are clamped to its edge.
func (m *Mesh) CellAt(x, z float32) (row, col int, fracZ, fracX float32) {
	fx := clampf((x-m.Origin.X())/m.CellSize, 0, float32(m.Cells))
	fz := clampf((m.Origin.Z()-z)/m.CellSize, 0, float32(m.Cells))

	col = int(fx)
	row = int(fz)
	if col >= m.Cells {
		col = m.Cells - 1
	}
	if row >= m.Cells {
		row = m.Cells - 1
	}
	return row, col, fz - float32(row), fx - float32(col)
}

// InterpolatedHeightAt blends the four corner heights of the cell
// containing (x, z). Positions off the mesh are clamped to its edge.
func (m *Mesh) InterpolatedHeightAt(x, z float32) float32 {
	if m == nil || len(m.Positions) == 0 || m.CellSize <= 0 {
		return 0
	}

	row, col, fracZ, fracX := m.CellAt(x, z)

	bl := m.Positions[m.VertexIndex(row, col)].Y()
	br := m.Positions[m.VertexIndex(row, col+1)].Y()
	tl := m.Positions[m.VertexIndex(row+1, col)].Y()
	tr := m.Positions[m.VertexIndex(row+1, col+1)].Y()

	near := bl*(1-fracX) + br*fracX
	far := tl*(1-fracX) + tr*fracX
	return near*(1-fracZ) + far*fracZ
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
