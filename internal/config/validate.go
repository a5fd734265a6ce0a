package config

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// MaxTerrainCells bounds terrain resolution so indices fit comfortably in
// 32 bits and a typo cannot allocate gigabytes.
const MaxTerrainCells = 4096

// Validate reports every impossible setting at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	g := c.Graphics
	if g.Width <= 0 || g.Height <= 0 {
		add("graphics: size %dx%d must be positive", g.Width, g.Height)
	}
	if g.FOV <= 0 || g.FOV >= 180 {
		add("graphics: fov %v must be in (0, 180)", g.FOV)
	}
	if g.Near <= 0 || g.Far <= g.Near {
		add("graphics: need 0 < near < far, got near=%v far=%v", g.Near, g.Far)
	}
	if g.Samples < 0 {
		add("graphics: samples %d must not be negative", g.Samples)
	}

	switch c.Camera.Mode {
	case "fly", "follow":
	default:
		add("camera: unknown mode %q", c.Camera.Mode)
	}
	if !finite(c.Camera.Position[:]...) || !finite(c.Camera.Rotation[:]...) {
		add("camera: position and rotation must be finite")
	}
	if c.Camera.MoveSpeed <= 0 || c.Camera.RotateSpeed <= 0 {
		add("camera: speeds must be positive")
	}

	t := c.Terrain
	if t.Size <= 0 {
		add("terrain: size %v must be positive", t.Size)
	}
	if t.Cells < 1 || t.Cells > MaxTerrainCells {
		add("terrain: cells %d must be in [1, %d]", t.Cells, MaxTerrainCells)
	}
	if t.Heightmap == "" {
		add("terrain: heightmap is required")
	}
	if t.HeightScale < 0 {
		add("terrain: height_scale %v must not be negative", t.HeightScale)
	}

	seen := make(map[string]bool, len(c.Models))
	for i, m := range c.Models {
		if m.Name == "" {
			add("models[%d]: name is required", i)
		} else if seen[m.Name] {
			add("models[%d]: duplicate name %q", i, m.Name)
		}
		seen[m.Name] = true
		if m.Path == "" {
			add("models[%d]: path is required", i)
		}
		if !finite(m.X, m.Z, m.YOffset, m.Scale) {
			add("models[%d]: x, z, y_offset and scale must be finite", i)
		} else if m.Scale <= 0 {
			add("models[%d]: scale %v must be positive", i, m.Scale)
		}
	}

	if c.Player.Model != "" && !seen[c.Player.Model] {
		add("player: model %q is not configured", c.Player.Model)
	}
	if c.Camera.Mode == "follow" && c.Player.Model == "" {
		add("camera: follow mode needs a player model")
	}

	if c.Data.MaxTextureSize < 0 {
		add("data: max_texture_size %d must not be negative", c.Data.MaxTextureSize)
	}

	return errors.Join(errs...)
}

func finite(vs ...float32) bool {
	for _, v := range vs {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}
