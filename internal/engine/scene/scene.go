// Package scene assembles the skybox, terrain and placed models and draws
// them with the renderer's program.
package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/terrainview/internal/assets"
	"github.com/Faultbox/terrainview/internal/config"
	"github.com/Faultbox/terrainview/internal/engine/camera"
	"github.com/Faultbox/terrainview/internal/engine/gpu"
	"github.com/Faultbox/terrainview/internal/engine/renderer"
	"github.com/Faultbox/terrainview/internal/engine/texture"
	"github.com/Faultbox/terrainview/internal/logger"
	"github.com/Faultbox/terrainview/pkg/geom"
)

// Scene holds every object the viewer draws.
type Scene struct {
	objects []Object // draw order: skybox, terrain, models
	skybox  *SkyboxObject
	terrain *TerrainObject
	models  []*ModelObject
	player  *ModelObject

	step          float32
	followTerrain bool

	// Debug overlays
	ShowBounds bool
	ShowGrid   bool

	log      *zap.Logger
	uploaded bool
	white    gpu.Texture
	unitBox  gpu.Mesh
	grid     gpu.Mesh
}

// Load reads and prepares every asset named by cfg. No GL calls are made.
// Any asset failure aborts the load; there is no partial scene.
func Load(cfg *config.Config, am *assets.Manager) (*Scene, error) {
	log := logger.Named("scene")
	l := newLoader(am, texture.Options{MaxSize: cfg.Data.MaxTextureSize}, log)

	s := &Scene{
		step:          cfg.Player.Step,
		followTerrain: cfg.Player.FollowTerrain,
		ShowBounds:    cfg.Graphics.ShowBounds,
		log:           log,
	}

	if cfg.Skybox.Model != "" {
		sky, err := l.skybox(cfg.Skybox)
		if err != nil {
			return nil, err
		}
		s.skybox = sky
		s.objects = append(s.objects, sky)
	}

	ground, err := l.terrain(cfg.Terrain)
	if err != nil {
		return nil, err
	}
	s.terrain = ground
	s.objects = append(s.objects, ground)

	for _, mc := range cfg.Models {
		obj, err := l.placed(mc, ground.Mesh)
		if err != nil {
			return nil, err
		}
		s.models = append(s.models, obj)
		s.objects = append(s.objects, obj)
		log.Info("model placed",
			zap.String("name", obj.Name),
			zap.Float32s("position", obj.Position[:]),
			zap.Float32("scale", obj.Scale))
	}

	if name := cfg.Player.Model; name != "" {
		if s.player = s.Model(name); s.player == nil {
			return nil, fmt.Errorf("player model %q is not in the scene", name)
		}
	}

	hits, misses := am.Cache().Stats()
	log.Info("scene loaded",
		zap.Int("objects", len(s.objects)),
		zap.Int("cache_hits", hits),
		zap.Int("cache_misses", misses))
	return s, nil
}

// Objects returns the objects in draw order.
func (s *Scene) Objects() []Object { return s.objects }

// Skybox returns the skybox, or nil when none is configured.
func (s *Scene) Skybox() *SkyboxObject { return s.skybox }

// Terrain returns the ground.
func (s *Scene) Terrain() *TerrainObject { return s.terrain }

// Models returns the placed models in configuration order.
func (s *Scene) Models() []*ModelObject { return s.models }

// Model returns the placed model with the given name, or nil.
func (s *Scene) Model(name string) *ModelObject {
	for _, m := range s.models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Player returns the model moved by MovePlayer, or nil.
func (s *Scene) Player() *ModelObject { return s.player }

// HeightAt returns the terrain height under world (x, z).
func (s *Scene) HeightAt(x, z float32) float32 {
	if s.terrain == nil {
		return 0
	}
	return s.terrain.Mesh.HeightAt(x, z)
}

// Bounds returns the union of all object bounds.
func (s *Scene) Bounds() (geom.Bounds, bool) {
	var (
		out geom.Bounds
		ok  bool
	)
	for _, obj := range s.objects {
		b, has := obj.Bounds()
		if !has {
			continue
		}
		if !ok {
			out, ok = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, ok
}

// MovePlayer moves the player model by dx and dz steps along world X and
// Z. With terrain following on, the model is put back on the ground.
// It reports whether a player exists.
func (s *Scene) MovePlayer(dx, dz int) bool {
	p := s.player
	if p == nil {
		return false
	}
	if dx == 0 && dz == 0 {
		return true
	}

	p.Position[0] += float32(dx) * s.step
	p.Position[2] += float32(dz) * s.step
	if s.followTerrain && s.terrain != nil {
		p.Position[1] = s.terrain.Mesh.InterpolatedHeightAt(p.Position[0], p.Position[2]) + p.YOffset
	}
	return true
}

// Upload creates GPU resources for every object. Handles are owned by b.
func (s *Scene) Upload(b *gpu.Builder) error {
	var err error
	if s.white, err = b.Texture(whiteImage(), gpu.TextureOptions{}); err != nil {
		return fmt.Errorf("fallback texture: %w", err)
	}

	for _, obj := range s.objects {
		switch o := obj.(type) {
		case *SkyboxObject:
			o.meshes, o.textures, err = uploadModel(b, o.Model, o.Textures, gpu.WrapClamp)
			if err != nil {
				return fmt.Errorf("skybox: %w", err)
			}
		case *TerrainObject:
			if err = uploadTerrain(b, o); err != nil {
				return fmt.Errorf("terrain: %w", err)
			}
		case *ModelObject:
			o.meshes, o.textures, err = uploadModel(b, o.Model, o.Textures, gpu.WrapRepeat)
			if err != nil {
				return fmt.Errorf("model %s: %w", o.Name, err)
			}
		}
	}

	if err := s.uploadOverlays(b); err != nil {
		return err
	}

	s.uploaded = true
	s.log.Debug("scene uploaded")
	return nil
}

// Render draws the scene. The renderer's program must be in use
// (Renderer.Begin).
func (s *Scene) Render(r *renderer.Renderer, cam camera.Camera) {
	if !s.uploaded {
		return
	}

	p := r.Program()
	proj := r.Projection()
	viewProj := proj.Mul4(cam.ViewMatrix())

	for _, obj := range s.objects {
		switch o := obj.(type) {
		case *SkyboxObject:
			s.drawSkybox(p, proj.Mul4(cam.RotationView()), o)
		case *TerrainObject:
			s.drawTerrain(p, viewProj, o)
		case *ModelObject:
			s.drawModel(p, viewProj, o)
		}
	}

	s.drawOverlays(p, viewProj)

	// Leave the texture unit clean for whoever draws next.
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func whiteImage() *texture.Image {
	return &texture.Image{Width: 1, Height: 1, Pix: []byte{255, 255, 255, 255}}
}
