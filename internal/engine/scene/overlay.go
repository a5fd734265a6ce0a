package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/terrainview/internal/engine/debug"
	"github.com/Faultbox/terrainview/internal/engine/gpu"
	"github.com/Faultbox/terrainview/internal/engine/shader"
)

var (
	boundsColour = mgl32.Vec4{1, 0.9, 0.2, 1}
	playerColour = mgl32.Vec4{0.2, 1, 0.3, 1}
	gridColour   = mgl32.Vec4{0.1, 0.1, 0.1, 1}
)

func (s *Scene) uploadOverlays(b *gpu.Builder) error {
	var err error
	if s.unitBox, err = b.Mesh(debug.BoxLines(debug.UnitBox, 0)); err != nil {
		return fmt.Errorf("bounds overlay: %w", err)
	}
	if s.terrain != nil {
		if s.grid, err = b.Mesh(debug.GridLines(s.terrain.Mesh, debug.DefaultGridLift)); err != nil {
			return fmt.Errorf("grid overlay: %w", err)
		}
	}
	return nil
}

func (s *Scene) drawOverlays(p *shader.Program, viewProj mgl32.Mat4) {
	if !s.ShowBounds && !s.ShowGrid {
		return
	}

	s.white.Bind(0)
	p.SetBool(shader.UniformUnlit, true)
	p.SetMat4(shader.UniformCombined, viewProj)

	if s.ShowGrid && s.grid.IndexCount() > 0 {
		p.SetVec4(shader.UniformTint, gridColour)
		p.SetMat4(shader.UniformModel, mgl32.Ident4())
		s.grid.Draw()
	}

	if s.ShowBounds {
		for _, m := range s.models {
			b, ok := m.Bounds()
			if !ok {
				continue
			}
			colour := boundsColour
			if m == s.player {
				colour = playerColour
			}
			p.SetVec4(shader.UniformTint, colour)
			p.SetMat4(shader.UniformModel, debug.BoxTransform(b, debug.DefaultBoxPadding))
			s.unitBox.Draw()
		}
	}
}
