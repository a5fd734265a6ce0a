// Package viewer runs the window, input and render loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/terrainview/internal/assets"
	"github.com/Faultbox/terrainview/internal/config"
	"github.com/Faultbox/terrainview/internal/engine/camera"
	"github.com/Faultbox/terrainview/internal/engine/debug"
	"github.com/Faultbox/terrainview/internal/engine/gpu"
	"github.com/Faultbox/terrainview/internal/engine/input"
	"github.com/Faultbox/terrainview/internal/engine/renderer"
	"github.com/Faultbox/terrainview/internal/engine/scene"
	"github.com/Faultbox/terrainview/internal/engine/window"
	"github.com/Faultbox/terrainview/internal/logger"
)

// Title is the window title prefix.
const Title = "terrainview"

// maxFrameTime caps dt so a stall (window drag, breakpoint) does not fling
// the camera.
const maxFrameTime = 0.25

// controller is a camera driven by per-frame controls.
type controller interface {
	camera.Camera
	Update(ctl camera.Controls, dt float32)
}

// Viewer is the main viewer instance.
type Viewer struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	assets   *assets.Manager
	scene    *scene.Scene
	window   *window.Window
	renderer *renderer.Renderer
	builder  *gpu.Builder
	input    *input.Input
	shots    *debug.ScreenshotCapture

	fly       *camera.FlyCamera
	follow    *camera.FollowCamera
	active    controller
	wantsShot bool
}

// New loads the scene, then opens the window and uploads it.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:    cfg,
		log:    logger.Named("viewer"),
		assets: assets.NewManager(cfg.Data.Roots...),
		input:  input.New(),
		shots:  debug.NewScreenshotCapture(cfg.Screenshots.Dir, cfg.Screenshots.Prefix),
	}
	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Strings("data_roots", v.assets.Roots()))

	// Assets first: a missing file should fail before a window appears.
	var err error
	v.scene, err = scene.Load(cfg, v.assets)
	if err != nil {
		return nil, fmt.Errorf("loading scene: %w", err)
	}

	v.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    cfg.Graphics.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context the window created.
	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(rendererConfig(cfg.Graphics, width, height))
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.builder = gpu.NewBuilder()
	if err := v.scene.Upload(v.builder); err != nil {
		v.Close()
		return nil, fmt.Errorf("uploading scene: %w", err)
	}

	v.fly, v.follow = newCameras(cfg.Camera)
	v.active = v.fly
	if cfg.Camera.Mode == "follow" && v.scene.Player() != nil {
		v.active = v.follow
	}

	v.log.Info("viewer initialized")
	return v, nil
}

func rendererConfig(g config.GraphicsConfig, width, height int) renderer.Config {
	return renderer.Config{
		Width:      width,
		Height:     height,
		FOV:        g.FOV,
		Near:       g.Near,
		Far:        g.Far,
		ClearColor: mgl32.Vec4(g.ClearColor),
		Wireframe:  g.Wireframe,
		LightDir:   mgl32.Vec3(g.LightDir),
		Ambient:    mgl32.Vec3{g.Ambient, g.Ambient, g.Ambient},
	}
}

func newCameras(c config.CameraConfig) (*camera.FlyCamera, *camera.FollowCamera) {
	fly := camera.NewFly(mgl32.Vec3(c.Position), c.Rotation[0], c.Rotation[1], c.MoveSpeed, c.RotateSpeed)
	return fly, camera.NewFollow()
}

// Run starts the main loop and returns when the window closes or ESC is
// pressed.
func (v *Viewer) Run() error {
	v.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting render loop")

	for v.running {
		now := time.Now()
		dt := min(now.Sub(lastTime).Seconds(), maxFrameTime)
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		for _, event := range v.input.Events() {
			if event.Type == input.EventWindowResize {
				v.renderer.Resize(v.window.DrawableSize())
			}
		}

		// 2. Update
		v.update(float32(dt))

		// 3. Render
		if err := v.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// 4. Present
		v.window.SwapBuffers()

		// FPS counter
		frameCount++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second {
			fps := float64(frameCount) / elapsed.Seconds()
			v.window.SetTitle(fmt.Sprintf("%s - %.0f fps", Title, fps))
			v.log.Debug("fps", zap.Float64("fps", fps), zap.Duration("frame", time.Duration(dt*float64(time.Second))))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// update applies one frame of input.
func (v *Viewer) update(dt float32) {
	a := readActions(v.input)

	if a.quit {
		v.running = false
		return
	}
	if a.toggleWireframe {
		v.renderer.SetWireframe(!v.renderer.Wireframe())
	}
	if a.toggleBounds {
		v.scene.ShowBounds = !v.scene.ShowBounds
	}
	if a.toggleGrid {
		v.scene.ShowGrid = !v.scene.ShowGrid
	}
	if a.toggleCamera {
		v.switchCamera()
	}
	if a.screenshot {
		v.wantsShot = true
	}

	v.scene.MovePlayer(a.moveX, a.moveZ)
	if p := v.scene.Player(); p != nil {
		v.follow.Target = p.Position
	}
	v.active.Update(a.camera, dt)
}

func (v *Viewer) switchCamera() {
	if v.active == v.fly {
		if v.scene.Player() == nil {
			v.log.Warn("follow camera needs a player model")
			return
		}
		v.active = v.follow
		v.log.Info("camera mode", zap.String("mode", "follow"))
		return
	}
	v.active = v.fly
	v.log.Info("camera mode", zap.String("mode", "fly"))
}

// render draws the current frame.
func (v *Viewer) render() error {
	v.renderer.Begin()
	v.scene.Render(v.renderer, v.active)
	v.renderer.End()

	if v.wantsShot {
		v.wantsShot = false
		pixels, w, h := v.renderer.ReadPixels()
		path, err := v.shots.CaptureFromPixels(pixels, w, h)
		if err != nil {
			v.log.Error("screenshot failed", zap.Error(err))
			return nil
		}
		v.log.Info("screenshot saved", zap.String("path", path))
	}
	return nil
}

// Close releases GPU resources, then the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.builder != nil {
		v.builder.Release()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
	v.assets.Close()
}
