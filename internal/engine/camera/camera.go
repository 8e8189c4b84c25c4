// Package camera provides the orbit camera used to frame a mesh.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshkit/pkg/math"
)

// FramingScale is how many times the largest mesh extent the camera sits
// away from the mesh center.
const FramingScale = 2

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomStep        float32 // Fractional distance change per zoom step
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        10,
		RotationX:       0.3,
		MinDistance:     0.01,
		MaxDistance:     64000,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomStep:        0.1,
	}
}

// FramingDistance returns a viewing distance that keeps a mesh with the given
// extents in view: FramingScale times the largest extent. A flat or empty
// mesh gets a distance of 1.
func FramingDistance(width, length, height float32) float32 {
	maxDim := max(width, length, height)
	if maxDim <= 0 {
		return 1
	}
	return maxDim * FramingScale
}

// Frame points the camera at center from FramingDistance away and widens
// the distance limits to match the mesh scale.
func (c *OrbitCamera) Frame(center math.Vec3, width, length, height float32) {
	c.Center = center
	c.Distance = FramingDistance(width, length, height)
	c.MinDistance = c.Distance / 100
	c.MaxDistance = c.Distance * 100
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	pitch, yaw := c.RotationX, c.RotationY
	offset := math.Vec3{
		X: c.Distance * math32.Cos(pitch) * math32.Sin(yaw),
		Y: c.Distance * math32.Sin(pitch),
		Z: c.Distance * math32.Cos(pitch) * math32.Cos(yaw),
	}
	return c.Center.Add(offset)
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// ClipPlanes returns near and far planes scaled to the current distance.
func (c *OrbitCamera) ClipPlanes() (near, far float32) {
	return c.Distance / 1000, c.Distance * 100
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	c.RotationX = min(max(c.RotationX, c.MinPitch), c.MaxPitch)
}

// Zoom moves the camera closer for positive steps and away for negative
// ones. Each step in scales the distance by 1-ZoomStep, each step out by
// 1+ZoomStep.
func (c *OrbitCamera) Zoom(steps float32) {
	factor := 1 - c.ZoomStep
	if steps < 0 {
		factor, steps = 1+c.ZoomStep, -steps
	}
	c.Distance *= math32.Pow(factor, steps)
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}

// Spin advances the yaw by angle radians.
func (c *OrbitCamera) Spin(angle float32) {
	c.RotationY = math32.Mod(c.RotationY+angle, 2*math32.Pi)
}
