package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/terrainview/internal/engine/gpu"
	"github.com/Faultbox/terrainview/internal/engine/model"
	"github.com/Faultbox/terrainview/internal/engine/terrain"
	"github.com/Faultbox/terrainview/internal/engine/texture"
	"github.com/Faultbox/terrainview/pkg/geom"
)

// Object is one drawable item. The set of implementations is closed:
// *SkyboxObject, *TerrainObject and *ModelObject.
type Object interface {
	// Bounds returns the world-space box of the object. ok is false for
	// objects without extent (the skybox).
	Bounds() (b geom.Bounds, ok bool)

	sceneObject()
}

// SkyboxObject is a model drawn around the camera with rotation only.
type SkyboxObject struct {
	Model    *model.Model
	Textures []*texture.Image // one per mesh; nil draws the material colour

	meshes   []gpu.Mesh
	textures []gpu.Texture
}

// TerrainObject is the generated ground mesh.
type TerrainObject struct {
	Mesh    *terrain.Mesh
	Texture *texture.Image

	mesh    gpu.Mesh
	texture gpu.Texture
}

// ModelObject is a model placed in the world.
type ModelObject struct {
	Name     string
	Model    *model.Model
	Textures []*texture.Image // one per mesh; nil draws the material colour

	Position mgl32.Vec3
	Scale    float32
	YOffset  float32 // height above the ground

	meshes   []gpu.Mesh
	textures []gpu.Texture
}

func (*SkyboxObject) sceneObject()  {}
func (*TerrainObject) sceneObject() {}
func (*ModelObject) sceneObject()   {}

// Bounds implements Object.
func (*SkyboxObject) Bounds() (geom.Bounds, bool) { return geom.Bounds{}, false }

// Bounds implements Object.
func (o *TerrainObject) Bounds() (geom.Bounds, bool) {
	if o.Mesh == nil || len(o.Mesh.Positions) == 0 {
		return geom.Bounds{}, false
	}
	return o.Mesh.Bounds(), true
}

// Transform returns the model-to-world matrix: translate, then uniform scale.
func (o *ModelObject) Transform() mgl32.Mat4 {
	s := o.Scale
	return mgl32.Translate3D(o.Position[0], o.Position[1], o.Position[2]).
		Mul4(mgl32.Scale3D(s, s, s))
}

// Bounds implements Object. Node transforms are included.
func (o *ModelObject) Bounds() (geom.Bounds, bool) {
	var (
		out geom.Bounds
		ok  bool
	)
	world := o.Transform()
	for _, d := range o.Model.Draws() {
		local, has := o.Model.Meshes[d.Mesh].Extents()
		if !has {
			continue
		}
		b := local.Transform(world.Mul4(d.Transform))
		if !ok {
			out, ok = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, ok
}

// tint returns the colour multiplied into mesh i's texture.
func tint(m *model.Model, i int) mgl32.Vec4 {
	if mat := m.MaterialOf(i); mat != nil {
		return mat.Diffuse
	}
	return mgl32.Vec4{1, 1, 1, 1}
}
