package mesh

import (
	"strings"

	"go.uber.org/multierr"

	"github.com/Faultbox/meshkit/pkg/math"
)

// Mesh is an immutable triangle mesh. Positions, normals and texture
// coordinates are indexed independently by each triangle corner.
//
// Every corner index of a Mesh returned by New is in range for its stream.
type Mesh struct {
	positions []math.Vec3
	normals   []math.Vec3
	texCoords []math.Vec2
	triangles []Triangle
}

// New builds a Mesh from already-parsed attribute arrays and triangles.
// The slices are copied. If any corner index is out of range New returns a
// nil Mesh and every StructuralError found, combined with multierr.
func New(positions, normals []math.Vec3, texCoords []math.Vec2, triangles []Triangle) (*Mesh, error) {
	m := &Mesh{
		positions: clone(positions),
		normals:   clone(normals),
		texCoords: clone(texCoords),
		triangles: clone(triangles),
	}
	if err := m.Verify(); err != nil {
		return nil, err
	}
	return m, nil
}

// Verify checks every corner of every triangle against the attribute array
// lengths. All violations are returned; errors.As yields the first one.
func (m *Mesh) Verify() error {
	lens := [3]int{
		AttributePosition: len(m.positions),
		AttributeNormal:   len(m.normals),
		AttributeTexCoord: len(m.texCoords),
	}

	var err error
	for ti, tri := range m.triangles {
		for ci, c := range tri.Corners() {
			for _, a := range []Attribute{AttributePosition, AttributeNormal, AttributeTexCoord} {
				idx := c.Index(a)
				if uint64(idx) < uint64(lens[a]) {
					continue
				}
				err = multierr.Append(err, &StructuralError{
					Stream:   a,
					Triangle: ti,
					Corner:   ci,
					Index:    idx,
					Len:      lens[a],
				})
			}
		}
	}
	return err
}

// Positions returns a copy of the position array.
func (m *Mesh) Positions() []math.Vec3 { return clone(m.positions) }

// Normals returns a copy of the normal array.
func (m *Mesh) Normals() []math.Vec3 { return clone(m.normals) }

// TexCoords returns a copy of the texture coordinate array.
func (m *Mesh) TexCoords() []math.Vec2 { return clone(m.texCoords) }

// Triangles returns a copy of the triangle list.
func (m *Mesh) Triangles() []Triangle { return clone(m.triangles) }

// Position returns position i. It panics if i is out of range.
func (m *Mesh) Position(i int) math.Vec3 { return m.positions[i] }

// Triangle returns triangle i. It panics if i is out of range.
func (m *Mesh) Triangle(i int) Triangle { return m.triangles[i] }

// PositionCount returns the number of positions.
func (m *Mesh) PositionCount() int { return len(m.positions) }

// NormalCount returns the number of normals.
func (m *Mesh) NormalCount() int { return len(m.normals) }

// TexCoordCount returns the number of texture coordinates.
func (m *Mesh) TexCoordCount() int { return len(m.texCoords) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.triangles) }

// CornerCount returns the number of triangle corners (3 per triangle).
func (m *Mesh) CornerCount() int { return 3 * len(m.triangles) }

// PositionArray returns the raw position array as x,y,z floats, one entry
// per position (not per corner).
func (m *Mesh) PositionArray() []float32 { return vec3Floats(m.positions) }

// NormalArray returns the raw normal array as x,y,z floats.
func (m *Mesh) NormalArray() []float32 { return vec3Floats(m.normals) }

// TexCoordArray returns the raw texture coordinate array as u,v floats.
func (m *Mesh) TexCoordArray() []float32 { return vec2Floats(m.texCoords) }

// String dumps every attribute and triangle, one per line.
func (m *Mesh) String() string {
	var sb strings.Builder
	sb.WriteString("Vertices:\n")
	for _, v := range m.positions {
		sb.WriteString(v.String())
		sb.WriteByte('\n')
	}
	sb.WriteString("Normals:\n")
	for _, n := range m.normals {
		sb.WriteString(n.String())
		sb.WriteByte('\n')
	}
	sb.WriteString("TexCoords:\n")
	for _, t := range m.texCoords {
		sb.WriteString(t.String())
		sb.WriteByte('\n')
	}
	sb.WriteString("Tris:\n")
	for _, t := range m.triangles {
		sb.WriteString(t.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func clone[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func vec3Floats(vs []math.Vec3) []float32 {
	out := make([]float32, len(vs)*3)
	for i, v := range vs {
		out[i*3] = v.X
		out[i*3+1] = v.Y
		out[i*3+2] = v.Z
	}
	return out
}

func vec2Floats(vs []math.Vec2) []float32 {
	out := make([]float32, len(vs)*2)
	for i, v := range vs {
		out[i*2] = v.X
		out[i*2+1] = v.Y
	}
	return out
}
