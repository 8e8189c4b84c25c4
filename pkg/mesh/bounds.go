package mesh

import "github.com/Faultbox/meshkit/pkg/math"

// Bounds returns the axis-aligned box spanned by every position entry,
// referenced by a triangle or not. ok is false for a mesh without positions.
func (m *Mesh) Bounds() (lo, hi math.Vec3, ok bool) {
	if len(m.positions) == 0 {
		return math.Vec3{}, math.Vec3{}, false
	}

	// Seed from the first position so a mesh that never crosses zero on an
	// axis is not stretched to include the origin.
	lo, hi = m.positions[0], m.positions[0]
	for _, p := range m.positions[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi, true
}

// Dimensions returns the bounding extents along X (width), Y (length) and
// Z (height). A mesh without positions yields (0, 0, 0).
func (m *Mesh) Dimensions() (width, length, height float32) {
	lo, hi, ok := m.Bounds()
	if !ok {
		return 0, 0, 0
	}
	size := hi.Sub(lo)
	return size.X, size.Y, size.Z
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math.Vec3 {
	lo, hi, _ := m.Bounds()
	return lo.Add(hi).Scale(0.5)
}
