// Package mesh holds the triangle mesh model: independently indexed
// attribute arrays, per-corner index triples, construction-time validation,
// bounding extents and flattening into single-index GPU buffers.
package mesh

import "fmt"

// Attribute identifies one of the three attribute streams of a mesh.
type Attribute uint8

const (
	AttributePosition Attribute = iota // Vertex positions
	AttributeNormal                    // Vertex normals
	AttributeTexCoord                  // Texture coordinates
)

// String returns the stream name.
func (a Attribute) String() string {
	switch a {
	case AttributePosition:
		return "position"
	case AttributeNormal:
		return "normal"
	case AttributeTexCoord:
		return "texcoord"
	default:
		return fmt.Sprintf("attribute(%d)", uint8(a))
	}
}

// CornerIndex is one corner of one triangle. Each field indexes its own
// attribute array, so two corners may share a position and still differ in
// normal or texture coordinate.
type CornerIndex struct {
	Position uint32 // Index into Mesh positions
	Normal   uint32 // Index into Mesh normals
	TexCoord uint32 // Index into Mesh texcoords
}

// Corner returns a CornerIndex built from the three stream indices.
func Corner(position, normal, texCoord uint32) CornerIndex {
	return CornerIndex{Position: position, Normal: normal, TexCoord: texCoord}
}

// Index returns the index this corner holds for the given stream.
func (c CornerIndex) Index(a Attribute) uint32 {
	switch a {
	case AttributeNormal:
		return c.Normal
	case AttributeTexCoord:
		return c.TexCoord
	default:
		return c.Position
	}
}

// String returns the corner as "Point: p,n,t".
func (c CornerIndex) String() string {
	return fmt.Sprintf("Point: %d,%d,%d", c.Position, c.Normal, c.TexCoord)
}

// Triangle is three corners in source winding order.
type Triangle struct {
	C1, C2, C3 CornerIndex
}

// Tri returns a Triangle from three corners.
func Tri(c1, c2, c3 CornerIndex) Triangle {
	return Triangle{C1: c1, C2: c2, C3: c3}
}

// Corners returns the corners in (c1, c2, c3) order.
func (t Triangle) Corners() [3]CornerIndex {
	return [3]CornerIndex{t.C1, t.C2, t.C3}
}

// String returns the triangle as "Tri: <c1>, <c2>, <c3>".
func (t Triangle) String() string {
	return fmt.Sprintf("Tri: %s, %s, %s", t.C1, t.C2, t.C3)
}
