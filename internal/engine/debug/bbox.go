// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// BoxLineVertexCount is the number of vertices in a box wireframe (12 edges × 2).
const BoxLineVertexCount = 24

// BoxLines returns line vertices, [x, y, z] per vertex, for the wireframe of
// the box lo..hi grown by padding on every side.
func BoxLines(lo, hi math.Vec3, padding float32) []float32 {
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	lo, hi = lo.Sub(pad), hi.Add(pad)
	minX, minY, minZ := lo.X, lo.Y, lo.Z
	maxX, maxY, maxZ := hi.X, hi.Y, hi.Z

	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Verticals
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// MeshBoxLines returns the bounding box wireframe of m, or nil for a mesh
// without positions.
func MeshBoxLines(m *mesh.Mesh, padding float32) []float32 {
	lo, hi, ok := m.Bounds()
	if !ok {
		return nil
	}
	return BoxLines(lo, hi, padding)
}

// NormalLines returns one line per vertex of b, from the position along
// its normal scaled to length.
func NormalLines(b mesh.Buffers, length float32) []float32 {
	out := make([]float32, 0, b.Len()*6)
	for i, p := range b.Positions {
		tip := p.Add(b.Normals[i].Scale(length))
		out = append(out, p.X, p.Y, p.Z, tip.X, tip.Y, tip.Z)
	}
	return out
}
