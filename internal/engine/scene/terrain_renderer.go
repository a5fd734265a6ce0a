package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/terrainview/internal/engine/gpu"
	"github.com/Faultbox/terrainview/internal/engine/shader"
)

func uploadTerrain(b *gpu.Builder, o *TerrainObject) error {
	mesh, err := b.Mesh(gpu.MeshData{
		Positions: o.Mesh.Positions,
		Normals:   o.Mesh.Normals,
		TexCoords: o.Mesh.TexCoords,
		Indices:   o.Mesh.Indices,
	})
	if err != nil {
		return err
	}
	o.mesh = mesh

	if o.Texture != nil {
		tex, err := b.Texture(o.Texture, gpu.TextureOptions{Wrap: gpu.WrapRepeat, Mipmaps: true})
		if err != nil {
			return err
		}
		o.texture = tex
	}
	return nil
}

func (s *Scene) drawTerrain(p *shader.Program, viewProj mgl32.Mat4, o *TerrainObject) {
	tex := o.texture
	if !tex.Valid() {
		tex = s.white
	}
	tex.Bind(0)

	p.SetBool(shader.UniformUnlit, false)
	p.SetVec4(shader.UniformTint, mgl32.Vec4{1, 1, 1, 1})
	p.SetMat4(shader.UniformCombined, viewProj)
	p.SetMat4(shader.UniformModel, mgl32.Ident4())
	o.mesh.Draw()
}
