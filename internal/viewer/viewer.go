// Package viewer runs the interactive mesh display loop.
package viewer

import (
	"errors"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/config"
	"github.com/Faultbox/meshkit/internal/engine/camera"
	"github.com/Faultbox/meshkit/internal/engine/debug"
	"github.com/Faultbox/meshkit/internal/engine/input"
	"github.com/Faultbox/meshkit/internal/engine/lighting"
	"github.com/Faultbox/meshkit/internal/engine/renderer"
	"github.com/Faultbox/meshkit/internal/engine/texture"
	"github.com/Faultbox/meshkit/internal/engine/window"
	"github.com/Faultbox/meshkit/internal/logger"
	"github.com/Faultbox/meshkit/internal/watch"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// Viewer displays one mesh.
type Viewer struct {
	cfg      *config.Config
	log      *zap.Logger
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	controls controls
	title    string

	mesh    *mesh.Mesh
	buffers mesh.Buffers
	shots   *debug.ScreenshotCapture

	watcher *watch.File
	reload  Loader
}

// Loader produces a fresh mesh when the watched file changes.
type Loader func() (*mesh.Mesh, error)

// New opens a window and uploads m. The mesh is flattened according to
// cfg.Mesh and the camera is framed from its dimensions.
func New(cfg *config.Config, title string, m *mesh.Mesh) (*Viewer, error) {
	v := &Viewer{
		cfg:   cfg,
		log:   logger.Named("viewer"),
		title: title,
		shots: debug.NewScreenshotCapture(cfg.Viewer.ScreenshotDir, "meshview"),
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window just created.
	var lightDir math.Vec3
	if cfg.Viewer.KeyLight {
		lightDir = lighting.SunDirection(cfg.Viewer.LightLongitude, cfg.Viewer.LightLatitude)
	}

	width, height := v.window.Size()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		Background: cfg.Viewer.Background,
		Checker:    true,
		LightDir:   lightDir,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := v.setMesh(m); err != nil {
		v.Close()
		return nil, err
	}

	if cfg.Viewer.Texture != "" {
		img, err := texture.Load(cfg.Viewer.Texture)
		if err != nil {
			v.Close()
			return nil, err
		}
		v.renderer.UploadTexture(img)
	}

	cam := camera.NewOrbitCamera()
	w, l, h := m.Dimensions()
	cam.Frame(m.Center(), w, l, h)

	v.input = input.New()
	v.controls = controls{cam: cam, spin: true, checker: true}

	v.log.Info("viewer ready",
		zap.Int("vertices", v.buffers.Len()),
		zap.Int("triangles", v.buffers.TriangleCount()),
		zap.Float32("distance", cam.Distance),
	)
	return v, nil
}

// setMesh flattens m according to the mesh config and uploads it.
func (v *Viewer) setMesh(m *mesh.Mesh) error {
	buffers := m.FlattenWith(mesh.FlattenOptions{
		Deduplicate: v.cfg.Mesh.Deduplicate,
		FlipV:       v.cfg.Mesh.FlipV,
	})
	if err := v.renderer.Upload(buffers); err != nil {
		if !errors.Is(err, renderer.ErrNoGeometry) {
			return fmt.Errorf("failed to upload mesh: %w", err)
		}
		v.log.Warn("mesh has no triangles, nothing to draw")
	}

	v.mesh = m
	v.buffers = buffers
	v.controls.overlay = true
	return nil
}

// Watch reloads the mesh with load whenever path changes on disk. A failed
// reload is logged and the current mesh stays on screen.
func (v *Viewer) Watch(path string, load Loader) error {
	w, err := watch.NewFile(path, watch.DefaultDelay, logger.Named("watch"))
	if err != nil {
		return err
	}
	v.watcher = w
	v.reload = load
	return nil
}

func (v *Viewer) pollReload() {
	if v.watcher == nil {
		return
	}
	select {
	case <-v.watcher.Changes():
	default:
		return
	}

	m, err := v.reload()
	if err != nil {
		v.log.Warn("reload failed, keeping current mesh", zap.Error(err))
		return
	}
	if err := v.setMesh(m); err != nil {
		v.log.Error("reload upload failed", zap.Error(err))
		return
	}
	v.log.Info("mesh reloaded",
		zap.Int("vertices", v.buffers.Len()),
		zap.Int("triangles", v.buffers.TriangleCount()),
	)
}

// Run loops until the window is closed or Escape is pressed.
func (v *Viewer) Run() error {
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	for !v.controls.quit {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		v.input.Update()
		for _, e := range v.input.Events() {
			if e.Type == input.EventWindowResize {
				width, height := v.window.Size()
				v.renderer.Resize(width, height)
			}
			v.controls.apply(e)
		}
		v.controls.tick(dt)
		v.pollReload()

		if v.controls.overlay {
			v.renderer.UploadLines(v.overlayLines())
			v.controls.overlay = false
		}

		v.render()
		if v.controls.screenshot {
			v.capture()
			v.controls.screenshot = false
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.window.SetTitle(fmt.Sprintf("%s (%d fps)", v.title, frameCount))
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

func (v *Viewer) render() {
	cam := v.controls.cam
	near, far := cam.ClipPlanes()
	fov := v.cfg.Viewer.FOVDegrees * math32.Pi / 180
	projection := math.Perspective(fov, v.window.Aspect(), near, far)

	v.renderer.SetChecker(v.controls.checker)
	v.renderer.Begin()
	v.renderer.Draw(math.Identity(), cam.ViewMatrix(), projection, cam.Position())
	v.renderer.End()
}

// overlayLines builds the debug line set for the enabled toggles. Sizes
// are relative to the framing distance so they read at any mesh scale.
func (v *Viewer) overlayLines() []float32 {
	scale := camera.FramingDistance(v.mesh.Dimensions())
	var lines []float32
	if v.controls.showBounds {
		lines = append(lines, debug.MeshBoxLines(v.mesh, scale*0.005)...)
	}
	if v.controls.showNormals {
		lines = append(lines, debug.NormalLines(v.buffers, scale*0.02)...)
	}
	return lines
}

func (v *Viewer) capture() {
	pixels, width, height := v.renderer.ReadPixels()
	path, err := v.shots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close stops watching and releases the renderer and the window.
func (v *Viewer) Close() {
	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			v.log.Warn("closing watcher", zap.Error(err))
		}
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
