package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/Faultbox/meshkit/pkg/math"
)

// makeBinarySTL builds a binary STL with the given facets (normal + 3 vertices).
func makeBinarySTL(header string, facets [][4][3]float32) []byte {
	buf := new(bytes.Buffer)
	h := make([]byte, stlHeaderSize)
	copy(h, header)
	buf.Write(h)
	binary.Write(buf, binary.LittleEndian, uint32(len(facets)))
	for _, f := range facets {
		binary.Write(buf, binary.LittleEndian, f)
		binary.Write(buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

func TestSTL_Binary(t *testing.T) {
	data := makeBinarySTL("binary test", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		{{0, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 0, 0}}, // zero normal, reversed winding
	})

	l := &STLLoader{}
	m, err := l.Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.TriangleCount() != 2 {
		t.Fatalf("expected 2 triangles, got %d", m.TriangleCount())
	}
	if m.PositionCount() != 6 {
		t.Errorf("expected 6 positions, got %d", m.PositionCount())
	}
	if m.TexCoordCount() != 1 {
		t.Errorf("expected 1 shared texcoord, got %d", m.TexCoordCount())
	}

	normals := m.Normals()
	if normals[0] != (math.Vec3{Z: 1}) {
		t.Errorf("expected stored normal <0,0,1>, got %v", normals[0])
	}
	if normals[1] != (math.Vec3{Z: -1}) {
		t.Errorf("expected recomputed normal <0,0,-1>, got %v", normals[1])
	}

	b := m.Flatten()
	if b.Positions[1] != (math.Vec3{X: 1}) {
		t.Errorf("expected second corner <1,0,0>, got %v", b.Positions[1])
	}
}

func TestSTL_BinaryHeaderStartingWithSolid(t *testing.T) {
	data := makeBinarySTL("solid but binary", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	})

	l := &STLLoader{}
	m, err := l.Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", m.TriangleCount())
	}
}

func TestSTL_BinaryTruncated(t *testing.T) {
	data := makeBinarySTL("trunc", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	})
	data = data[:len(data)-10]

	if _, err := parseBinarySTL(data); !errors.Is(err, ErrTruncatedSTL) {
		t.Errorf("expected ErrTruncatedSTL, got %v", err)
	}
	if _, err := parseBinarySTL(data[:20]); !errors.Is(err, ErrTruncatedSTL) {
		t.Errorf("expected ErrTruncatedSTL for short header, got %v", err)
	}
}

func TestSTL_BinaryTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		count   uint32
		records int
		want    int
		wantErr bool
	}{
		{"no triangles", 0, 0, 0, false},
		{"count matches records", 2, 2, 2, false},
		{"extra trailing record", 1, 2, 1, false},
		{"count beyond data", 0xffffffff, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, stlHeaderSize+4+tt.records*stlRecordSize)
			binary.LittleEndian.PutUint32(data[stlHeaderSize:], tt.count)

			facets, err := parseBinarySTL(data)
			if tt.wantErr {
				if !errors.Is(err, ErrTruncatedSTL) {
					t.Errorf("expected ErrTruncatedSTL, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseBinarySTL failed: %v", err)
			}
			if len(facets) != tt.want {
				t.Errorf("expected %d facets, got %d", tt.want, len(facets))
			}
		})
	}
}

const asciiSTL = `solid tri
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid tri
`

func TestSTL_ASCII(t *testing.T) {
	l := &STLLoader{}
	m, err := l.Load(strings.NewReader(asciiSTL))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.TriangleCount() != 1 {
		t.Fatalf("expected 1 triangle, got %d", m.TriangleCount())
	}

	w, h, d := m.Dimensions()
	if w != 1 || h != 1 || d != 0 {
		t.Errorf("expected dimensions (1,1,0), got (%v,%v,%v)", w, h, d)
	}
}

func TestSTL_ASCIIErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing vertex", "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nendloop\nendfacet\nendsolid x\n"},
		{"bad keyword", "solid x\nfacet normal 0 0 1\nbogus\n"},
		{"bad number", "solid x\nfacet normal 0 0 q\n"},
		{"unterminated", "solid x\nfacet normal 0 0 1\nouter loop\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &STLLoader{}
			if _, err := l.Load(strings.NewReader(tt.src)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSTL_Empty(t *testing.T) {
	l := &STLLoader{}
	m, err := l.Load(bytes.NewReader(makeBinarySTL("empty", nil)))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.TriangleCount() != 0 || m.TexCoordCount() != 0 {
		t.Errorf("expected empty mesh, got %d triangles %d texcoords", m.TriangleCount(), m.TexCoordCount())
	}
}
