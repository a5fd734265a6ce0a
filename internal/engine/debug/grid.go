package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/terrainview/internal/engine/gpu"
	"github.com/Faultbox/terrainview/internal/engine/terrain"
)

// DefaultGridLift raises overlays above the surface to avoid z-fighting.
const DefaultGridLift = 2.0

// GridLines generates a line list along every terrain row and column.
// Lines follow the displaced surface, lifted by lift.
func GridLines(m *terrain.Mesh, lift float32) gpu.MeshData {
	if m == nil || m.Cells < 1 || len(m.Positions) != m.VertexCount() {
		return gpu.MeshData{Primitive: gpu.Lines}
	}

	n := m.Cells
	positions := lifted(m.Positions, lift)
	indices := make([]uint32, 0, 4*n*(n+1))

	// Lines along +X
	for row := 0; row <= n; row++ {
		for col := 0; col < n; col++ {
			indices = append(indices,
				uint32(m.VertexIndex(row, col)),
				uint32(m.VertexIndex(row, col+1)))
		}
	}

	// Lines along -Z
	for col := 0; col <= n; col++ {
		for row := 0; row < n; row++ {
			indices = append(indices,
				uint32(m.VertexIndex(row, col)),
				uint32(m.VertexIndex(row+1, col)))
		}
	}

	return gpu.MeshData{Positions: positions, Indices: indices, Primitive: gpu.Lines}
}

func lifted(src []mgl32.Vec3, lift float32) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(src))
	for i, p := range src {
		out[i] = mgl32.Vec3{p[0], p[1] + lift, p[2]}
	}
	return out
}
