// Package renderer owns global OpenGL state and the scene shader program.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/terrainview/internal/engine/shader"
	"github.com/Faultbox/terrainview/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	FOV        float32 // vertical field of view, degrees
	Near       float32
	Far        float32
	ClearColor mgl32.Vec4
	Wireframe  bool
	LightDir   mgl32.Vec3
	Ambient    mgl32.Vec3
}

// DefaultConfig returns the viewer's standard projection.
func DefaultConfig() Config {
	return Config{
		Width:    1280,
		Height:   720,
		FOV:      45,
		Near:     0.5,
		Far:      20000,
		LightDir: mgl32.Vec3{-0.3, -1, -0.4},
		Ambient:  mgl32.Vec3{0.35, 0.35, 0.35},
	}
}

// Renderer handles frame setup.
type Renderer struct {
	config  Config
	program *shader.Program
	log     *zap.Logger
}

// New creates a new renderer.
// Must be called after the OpenGL context is created.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])

	var err error
	r.program, err = shader.NewScene()
	if err != nil {
		return nil, fmt.Errorf("failed to create scene program: %w", err)
	}
	r.log.Debug("scene program created", zap.Uint32("program", r.program.ID()))

	r.Resize(cfg.Width, cfg.Height)
	r.SetWireframe(cfg.Wireframe)

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.program != nil {
		r.program.Delete()
	}
}

// Program returns the scene shader program.
func (r *Renderer) Program() *shader.Program {
	return r.program
}

// Config returns the current configuration.
func (r *Renderer) Config() Config {
	return r.config
}

// Resize handles a drawable size change.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Projection returns the perspective transform for the current size.
func (r *Renderer) Projection() mgl32.Mat4 {
	return Perspective(r.config.FOV, r.config.Width, r.config.Height, r.config.Near, r.config.Far)
}

// Perspective builds a projection matrix. A zero height is treated as one
// pixel so a minimised window does not divide by zero.
func Perspective(fovDeg float32, width, height int, near, far float32) mgl32.Mat4 {
	if height <= 0 {
		height = 1
	}
	if width <= 0 {
		width = 1
	}
	aspect := float32(width) / float32(height)
	return mgl32.Perspective(mgl32.DegToRad(fovDeg), aspect, near, far)
}

// SetWireframe switches polygon fill mode.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
	if on {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// Wireframe reports whether wireframe mode is on.
func (r *Renderer) Wireframe() bool {
	return r.config.Wireframe
}

// Begin clears the frame and prepares the scene program with per-frame
// lighting.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.program.Use()
	r.program.SetVec3(shader.UniformLightDir, r.config.LightDir)
	r.program.SetVec3(shader.UniformAmbient, r.config.Ambient)
	r.program.SetInt(shader.UniformSampler, 0)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.UseProgram(0)
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}
