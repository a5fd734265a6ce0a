package scene

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/terrainview/internal/assets"
	"github.com/Faultbox/terrainview/internal/config"
	"github.com/Faultbox/terrainview/internal/engine/model"
	"github.com/Faultbox/terrainview/internal/engine/terrain"
	"github.com/Faultbox/terrainview/internal/engine/texture"
)

// loader reads scene assets through an asset manager. Models and images
// shared between objects are decoded once.
type loader struct {
	assets *assets.Manager
	opts   texture.Options
	log    *zap.Logger

	models map[string]*model.Model
	images map[string]*texture.Image
}

func newLoader(am *assets.Manager, opts texture.Options, log *zap.Logger) *loader {
	return &loader{
		assets: am,
		opts:   opts,
		log:    log,
		models: make(map[string]*model.Model),
		images: make(map[string]*texture.Image),
	}
}

func (l *loader) model(path string) (*model.Model, error) {
	key := assets.NormalizePath(path)
	if m, ok := l.models[key]; ok {
		return m, nil
	}
	m, err := model.LoadFrom(l.assets, path)
	if err != nil {
		return nil, err
	}
	l.log.Debug("model loaded", zap.String("path", path), zap.Stringer("model", m))
	l.models[key] = m
	return m, nil
}

func (l *loader) image(path string) (*texture.Image, error) {
	key := assets.NormalizePath(path)
	if img, ok := l.images[key]; ok {
		return img, nil
	}
	img, err := texture.LoadFrom(l.assets, path, l.opts)
	if err != nil {
		return nil, err
	}
	l.log.Debug("texture loaded", zap.String("path", path),
		zap.Int("width", img.Width), zap.Int("height", img.Height))
	l.images[key] = img
	return img, nil
}

// materialFile maps a material texture name onto dir. Only the base name
// is kept; exporters often store absolute paths from the authoring machine.
func materialFile(dir, name string) string {
	if name == "" {
		return ""
	}
	return filepath.Join(dir, filepath.Base(assets.NormalizePath(name)))
}

func (l *loader) skybox(cfg config.SkyboxConfig) (*SkyboxObject, error) {
	m, err := l.model(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("skybox: %w", err)
	}

	obj := &SkyboxObject{Model: m, Textures: make([]*texture.Image, len(m.Meshes))}
	for i := range m.Meshes {
		mat := m.MaterialOf(i)
		if mat == nil || mat.DiffuseTexture == "" {
			continue
		}
		img, err := l.image(materialFile(cfg.TextureDir, mat.DiffuseTexture))
		if err != nil {
			return nil, fmt.Errorf("skybox: %w", err)
		}
		obj.Textures[i] = img
	}
	return obj, nil
}

func (l *loader) terrain(cfg config.TerrainConfig) (*TerrainObject, error) {
	// Heights must come from the full-resolution image.
	hm, err := texture.LoadFrom(l.assets, cfg.Heightmap, texture.Options{})
	if err != nil {
		return nil, fmt.Errorf("terrain heightmap: %w", err)
	}
	sampler, err := terrain.NewSampler(hm, cfg.HeightScale)
	if err != nil {
		return nil, fmt.Errorf("terrain heightmap %s: %w", cfg.Heightmap, err)
	}

	mesh, err := terrain.Build(terrain.Options{
		Size:   cfg.Size,
		Cells:  cfg.Cells,
		Tiling: cfg.Tiling,
	}, sampler)
	if err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}

	obj := &TerrainObject{Mesh: mesh}
	if cfg.Texture != "" {
		if obj.Texture, err = l.image(cfg.Texture); err != nil {
			return nil, fmt.Errorf("terrain texture: %w", err)
		}
	}

	l.log.Info("terrain built",
		zap.Float32("size", mesh.Size),
		zap.Int("cells", mesh.Cells),
		zap.Int("vertices", len(mesh.Positions)),
		zap.Int("triangles", len(mesh.Indices)/3))
	return obj, nil
}

// placed loads a model and puts it on the ground at (x, z).
func (l *loader) placed(cfg config.ModelConfig, ground *terrain.Mesh) (*ModelObject, error) {
	m, err := l.model(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", cfg.Name, err)
	}

	textures, err := l.meshTextures(cfg, m)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", cfg.Name, err)
	}

	scale := cfg.Scale
	if scale == 0 {
		scale = 1
	}

	obj := &ModelObject{
		Name:     cfg.Name,
		Model:    m,
		Textures: textures,
		Scale:    scale,
		YOffset:  cfg.YOffset,
	}
	obj.Position = mgl32.Vec3{cfg.X, groundHeight(ground, cfg.X, cfg.Z) + cfg.YOffset, cfg.Z}
	return obj, nil
}

// meshTextures assigns configured textures to meshes in order; meshes past
// the end of the list reuse the last entry. Without a list, each mesh
// uses its material's diffuse texture next to the model file when that
// file exists.
func (l *loader) meshTextures(cfg config.ModelConfig, m *model.Model) ([]*texture.Image, error) {
	out := make([]*texture.Image, len(m.Meshes))

	if len(cfg.Textures) > 0 {
		for i := range out {
			path := cfg.Textures[min(i, len(cfg.Textures)-1)]
			img, err := l.image(path)
			if err != nil {
				return nil, err
			}
			out[i] = img
		}
		return out, nil
	}

	dir := filepath.Dir(assets.NormalizePath(cfg.Path))
	for i := range out {
		mat := m.MaterialOf(i)
		if mat == nil || mat.DiffuseTexture == "" {
			continue
		}
		img, err := l.image(materialFile(dir, mat.DiffuseTexture))
		if err != nil {
			l.log.Warn("material texture unavailable, using colour",
				zap.String("model", cfg.Name),
				zap.String("texture", mat.DiffuseTexture),
				zap.Error(err))
			continue
		}
		out[i] = img
	}
	return out, nil
}

func groundHeight(ground *terrain.Mesh, x, z float32) float32 {
	if ground == nil {
		return 0
	}
	return ground.HeightAt(x, z)
}
