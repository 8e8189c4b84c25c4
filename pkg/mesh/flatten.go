package mesh

import "github.com/Faultbox/meshkit/pkg/math"

// Buffers holds parallel per-vertex arrays addressed by one shared index,
// ready for upload into GPU vertex and index buffers.
type Buffers struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	TexCoords []math.Vec2
	Indices   []uint32
}

// FlattenOptions controls FlattenWith.
type FlattenOptions struct {
	// Deduplicate merges corners with identical index triples into one
	// vertex slot. The first occurrence in corner order owns the slot.
	Deduplicate bool
	// FlipV rewrites every texture coordinate as v' = 1 - v after expansion.
	FlipV bool
}

// Flatten expands every triangle corner into its own vertex slot. For T
// triangles all four arrays hold 3T entries and Indices is 0, 1, ..., 3T-1.
// Corners are visited in triangle order, c1 then c2 then c3.
func (m *Mesh) Flatten() Buffers {
	n := m.CornerCount()
	b := Buffers{
		Positions: make([]math.Vec3, 0, n),
		Normals:   make([]math.Vec3, 0, n),
		TexCoords: make([]math.Vec2, 0, n),
		Indices:   make([]uint32, 0, n),
	}

	for _, tri := range m.triangles {
		for _, c := range tri.Corners() {
			b.Indices = append(b.Indices, uint32(len(b.Positions)))
			b.appendCorner(m, c)
		}
	}
	return b
}

// FlattenWith flattens the mesh with optional corner deduplication and
// texture coordinate flipping. The zero FlattenOptions matches Flatten.
func (m *Mesh) FlattenWith(opts FlattenOptions) Buffers {
	var b Buffers
	if opts.Deduplicate {
		b = m.flattenDeduplicated()
	} else {
		b = m.Flatten()
	}

	if opts.FlipV {
		b.flipV()
	}
	return b
}

func (m *Mesh) flattenDeduplicated() Buffers {
	n := m.CornerCount()
	b := Buffers{Indices: make([]uint32, 0, n)}
	slots := make(map[CornerIndex]uint32, n)

	for _, tri := range m.triangles {
		for _, c := range tri.Corners() {
			slot, seen := slots[c]
			if !seen {
				slot = uint32(len(b.Positions))
				slots[c] = slot
				b.appendCorner(m, c)
			}
			b.Indices = append(b.Indices, slot)
		}
	}
	return b
}

func (b *Buffers) appendCorner(m *Mesh, c CornerIndex) {
	b.Positions = append(b.Positions, m.positions[c.Position])
	b.Normals = append(b.Normals, m.normals[c.Normal])
	b.TexCoords = append(b.TexCoords, m.texCoords[c.TexCoord])
}

// Len returns the number of vertex slots.
func (b Buffers) Len() int {
	return len(b.Positions)
}

// TriangleCount returns the number of triangles the index array describes.
func (b Buffers) TriangleCount() int {
	return len(b.Indices) / 3
}

// FlipV returns a copy of b with every texture coordinate mirrored
// vertically. The receiver is left unchanged.
func (b Buffers) FlipV() Buffers {
	out := Buffers{
		Positions: clone(b.Positions),
		Normals:   clone(b.Normals),
		TexCoords: clone(b.TexCoords),
		Indices:   clone(b.Indices),
	}
	out.flipV()
	return out
}

func (b *Buffers) flipV() {
	for i, tc := range b.TexCoords {
		b.TexCoords[i] = tc.FlipV()
	}
}

// PositionFloats returns positions as x,y,z floats.
func (b Buffers) PositionFloats() []float32 { return vec3Floats(b.Positions) }

// NormalFloats returns normals as x,y,z floats.
func (b Buffers) NormalFloats() []float32 { return vec3Floats(b.Normals) }

// TexCoordFloats returns texture coordinates as u,v floats.
func (b Buffers) TexCoordFloats() []float32 { return vec2Floats(b.TexCoords) }

// Layout describes where each attribute starts inside a Packed buffer.
// Offsets and Floats are counted in float32 elements.
type Layout struct {
	PositionOffset int
	NormalOffset   int
	TexCoordOffset int
	Floats         int
}

// Packed concatenates positions, normals and texture coordinates into one
// planar float buffer, suitable for a single vertex buffer object.
func (b Buffers) Packed() ([]float32, Layout) {
	n := b.Len()
	layout := Layout{
		PositionOffset: 0,
		NormalOffset:   n * 3,
		TexCoordOffset: n * 6,
		Floats:         n * 8,
	}

	data := make([]float32, 0, layout.Floats)
	data = append(data, b.PositionFloats()...)
	data = append(data, b.NormalFloats()...)
	data = append(data, b.TexCoordFloats()...)
	return data, layout
}
