// Package viewer implements the interactive mesh viewer loop.
package viewer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/assets"
	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/camera"
	"github.com/Faultbox/objview/internal/engine/debug"
	"github.com/Faultbox/objview/internal/engine/input"
	"github.com/Faultbox/objview/internal/engine/lighting"
	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/internal/engine/renderer"
	"github.com/Faultbox/objview/internal/engine/window"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/math"
)

// spinSpeed is the turntable rate in radians per second.
const spinSpeed = 0.6

// ErrNoMesh is returned when the viewer is started without a mesh path.
var ErrNoMesh = errors.New("no mesh given; use -mesh or pass a path")

// Viewer is the main viewer instance.
type Viewer struct {
	config   *config.Config
	log      *zap.Logger
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	assets   *assets.Manager
	watcher  *assets.Watcher
	mesh     *model.Mesh
	shots    *debug.ScreenshotCapture
	capture  bool

	spin bool
	yaw  float32
}

// New opens the window, loads the configured mesh and uploads it.
func New(cfg *config.Config) (*Viewer, error) {
	if cfg.Mesh.Path == "" {
		return nil, ErrNoMesh
	}
	opts, err := cfg.Mesh.LoadOptions()
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		config: cfg,
		log:    logger.Named("viewer"),
		input:  input.New(),
		camera: camera.NewOrbitCamera(),
		assets: assets.NewManager(opts),
	}

	// Load before opening a window so a broken file fails fast.
	mesh, err := v.assets.Load(cfg.Mesh.Path)
	if err != nil {
		return nil, err
	}

	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window just created.
	width, height := v.window.GetDrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:        width,
		Height:       height,
		ShowTangents: cfg.Mesh.ShowTangents,
		ShowBounds:   cfg.Mesh.ShowBounds,
		LightDir:     lighting.LightDirection(cfg.Light.Azimuth, cfg.Light.Elevation),
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := v.setMesh(mesh); err != nil {
		v.Close()
		return nil, err
	}
	v.fitCamera()
	v.shots = debug.NewScreenshotCapture(cfg.Capture.Dir, screenshotPrefix(cfg.Mesh.Path))

	if cfg.Watch.Enabled {
		if err := v.startWatcher(); err != nil {
			v.log.Warn("hot reload disabled", zap.Error(err))
		}
	}

	v.log.Info("viewer initialized", zap.String("mesh", cfg.Mesh.Path))
	return v, nil
}

func (v *Viewer) startWatcher() error {
	w, err := assets.NewWatcher(v.assets, v.config.Watch.Debounce)
	if err != nil {
		return err
	}
	if err := w.Watch(v.config.Mesh.Path); err != nil {
		w.Close()
		return err
	}
	v.watcher = w
	return nil
}

// Run starts the main loop and returns when the window is closed.
func (v *Viewer) Run() error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()
	lastFrame := time.Now()

	v.log.Info("starting viewer loop")

	for v.running {
		if v.input.Update() {
			v.running = false
			break
		}
		now := time.Now()
		dt := float32(now.Sub(lastFrame).Seconds())
		lastFrame = now

		v.handleInput()
		v.pollReload()
		v.updateSpin(dt)

		v.renderer.Draw(renderer.Frame{
			View:      v.camera.ViewMatrix(),
			Proj:      v.camera.ProjectionMatrix(v.renderer.Aspect()),
			CameraPos: v.camera.Position(),
		})
		if v.capture {
			v.screenshot()
			v.capture = false
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleInput() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			width, height := v.window.GetDrawableSize()
			v.renderer.Resize(width, height)
		case input.EventMouseDrag:
			v.camera.HandleDrag(event.DX, event.DY)
		case input.EventMouseWheel:
			v.camera.HandleZoom(event.DY)
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_T:
				v.renderer.ToggleTangents()
			case sdl.SCANCODE_B:
				v.renderer.ToggleBounds()
			case sdl.SCANCODE_R:
				v.yaw = 0
				v.fitCamera()
			case sdl.SCANCODE_SPACE:
				v.spin = !v.spin
			case sdl.SCANCODE_F:
				if err := v.window.ToggleFullscreen(); err != nil {
					v.log.Warn("fullscreen toggle failed", zap.Error(err))
				}
			case sdl.SCANCODE_F5:
				v.reload()
			case sdl.SCANCODE_F12:
				v.capture = true
			}
		}
	}
}

// pollReload picks up at most one change notification per frame.
func (v *Viewer) pollReload() {
	if v.watcher == nil {
		return
	}
	select {
	case ev := <-v.watcher.Events():
		v.log.Info("reloading changed mesh", zap.String("path", ev.Path))
		v.reload()
	default:
	}
}

// reload rebuilds the mesh from disk. On failure the current mesh stays.
func (v *Viewer) reload() {
	mesh, err := v.assets.Reload(v.config.Mesh.Path)
	if err != nil {
		v.log.Error("reload failed, keeping previous mesh", zap.Error(err))
		return
	}
	if err := v.setMesh(mesh); err != nil {
		v.log.Error("upload failed, keeping previous mesh", zap.Error(err))
	}
}

func (v *Viewer) setMesh(mesh *model.Mesh) error {
	if err := v.renderer.SetMesh(mesh); err != nil {
		return fmt.Errorf("uploading mesh: %w", err)
	}
	v.mesh = mesh

	name := mesh.Name
	if name == "" {
		name = v.config.Mesh.Path
	}
	v.window.SetTitle(fmt.Sprintf("%s - %s (%d vertices, %d triangles)",
		v.config.Window.Title, name, len(mesh.Vertices), len(mesh.Faces)))
	return nil
}

// updateSpin turns the mesh about its bounds center while spinning is on.
func (v *Viewer) updateSpin(dt float32) {
	if v.mesh == nil {
		return
	}
	if v.spin {
		v.yaw += dt * spinSpeed
	}
	v.renderer.SetModelMatrix(math.Turntable(v.mesh.Bounds.Center(), v.yaw))
}

// screenshot saves the frame just drawn, before the buffers swap.
func (v *Viewer) screenshot() {
	pixels, width, height := v.renderer.ReadPixels()
	name, err := v.shots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("file", name))
}

func screenshotPrefix(meshPath string) string {
	base := filepath.Base(meshPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (v *Viewer) fitCamera() {
	if v.mesh == nil {
		return
	}
	v.camera.FitToSphere(v.mesh.Bounds.Center(), v.mesh.Bounds.Radius())
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.watcher != nil {
		v.watcher.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
	v.assets.Close()
}
