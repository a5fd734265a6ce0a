package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/terrainview/internal/engine/gpu"
	"github.com/Faultbox/terrainview/internal/engine/model"
	"github.com/Faultbox/terrainview/internal/engine/shader"
	"github.com/Faultbox/terrainview/internal/engine/texture"
)

// uploadModel uploads one GPU mesh per model mesh plus its texture.
// Images shared between meshes are uploaded once.
func uploadModel(b *gpu.Builder, m *model.Model, images []*texture.Image, wrap gpu.Wrap) ([]gpu.Mesh, []gpu.Texture, error) {
	meshes := make([]gpu.Mesh, len(m.Meshes))
	textures := make([]gpu.Texture, len(m.Meshes))
	uploaded := make(map[*texture.Image]gpu.Texture)

	for i := range m.Meshes {
		src := &m.Meshes[i]
		mesh, err := b.Mesh(gpu.MeshData{
			Positions: src.Positions,
			Normals:   src.Normals,
			TexCoords: src.TexCoords,
			Indices:   src.Indices,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("mesh %d (%s): %w", i, src.Name, err)
		}
		meshes[i] = mesh

		if i >= len(images) || images[i] == nil {
			continue
		}
		img := images[i]
		tex, ok := uploaded[img]
		if !ok {
			tex, err = b.Texture(img, gpu.TextureOptions{Wrap: wrap, Mipmaps: wrap == gpu.WrapRepeat})
			if err != nil {
				return nil, nil, fmt.Errorf("mesh %d (%s) texture: %w", i, src.Name, err)
			}
			uploaded[img] = tex
		}
		textures[i] = tex
	}
	return meshes, textures, nil
}

// drawParts issues one draw per mesh reference in the node hierarchy.
func (s *Scene) drawParts(p *shader.Program, m *model.Model, meshes []gpu.Mesh, textures []gpu.Texture, world mgl32.Mat4) {
	for _, d := range m.Draws() {
		tex := textures[d.Mesh]
		if !tex.Valid() {
			tex = s.white
		}
		tex.Bind(0)

		p.SetVec4(shader.UniformTint, tint(m, d.Mesh))
		p.SetMat4(shader.UniformModel, world.Mul4(d.Transform))
		meshes[d.Mesh].Draw()
	}
}

func (s *Scene) drawModel(p *shader.Program, viewProj mgl32.Mat4, o *ModelObject) {
	p.SetBool(shader.UniformUnlit, false)
	p.SetMat4(shader.UniformCombined, viewProj)
	s.drawParts(p, o.Model, o.meshes, o.textures, o.Transform())
}

// drawSkybox draws the skybox behind everything: no depth test, no depth
// writes, both faces, no lighting.
func (s *Scene) drawSkybox(p *shader.Program, rotProj mgl32.Mat4, o *SkyboxObject) {
	gl.DepthMask(false)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	p.SetBool(shader.UniformUnlit, true)
	p.SetMat4(shader.UniformCombined, rotProj)
	s.drawParts(p, o.Model, o.meshes, o.textures, mgl32.Ident4())

	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
}
