package viewer

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/meshkit/internal/engine/camera"
	"github.com/Faultbox/meshkit/internal/engine/input"
)

// SpinSpeed is the auto-rotation rate in radians per second.
const SpinSpeed = 0.5

// controls is the interactive state driven by input events.
type controls struct {
	cam      *camera.OrbitCamera
	spin     bool
	checker  bool
	quit     bool
	dragging bool

	showBounds  bool
	showNormals bool
	overlay     bool // overlay toggles changed since last rebuild
	screenshot  bool // capture requested for the next frame
}

// apply updates the controls for one event.
//
//	Escape       quit
//	A / wheel up zoom in
//	Z / wheel dn zoom out
//	Space        toggle auto-rotation
//	C            toggle checkerboard
//	B            toggle bounding box
//	N            toggle vertex normals
//	P            save a screenshot
//	left drag    orbit (stops auto-rotation)
func (c *controls) apply(e input.Event) {
	switch e.Type {
	case input.EventQuit:
		c.quit = true

	case input.EventKeyDown:
		switch e.Key {
		case sdl.SCANCODE_ESCAPE:
			c.quit = true
		case sdl.SCANCODE_A:
			c.cam.Zoom(1)
		case sdl.SCANCODE_Z:
			c.cam.Zoom(-1)
		case sdl.SCANCODE_SPACE:
			c.spin = !c.spin
		case sdl.SCANCODE_C:
			c.checker = !c.checker
		case sdl.SCANCODE_B:
			c.showBounds = !c.showBounds
			c.overlay = true
		case sdl.SCANCODE_N:
			c.showNormals = !c.showNormals
			c.overlay = true
		case sdl.SCANCODE_P:
			c.screenshot = true
		}

	case input.EventMouseWheel:
		if e.DeltaY != 0 {
			c.cam.Zoom(float32(e.DeltaY))
		}

	case input.EventMouseDown:
		if e.Button == sdl.BUTTON_LEFT {
			c.dragging = true
			c.spin = false
		}

	case input.EventMouseUp:
		if e.Button == sdl.BUTTON_LEFT {
			c.dragging = false
		}

	case input.EventMouseMove:
		if c.dragging {
			c.cam.HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
		}
	}
}

// tick advances time-driven state by dt seconds.
func (c *controls) tick(dt float64) {
	if c.spin {
		c.cam.Spin(float32(dt * SpinSpeed))
	}
}
