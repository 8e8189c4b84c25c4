package formats

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

const triangleOBJ = `# single triangle
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
vt 0 0
vt 1 0
vt 0 1
f 1/1/1 2/2/1 3/3/1
`

func loadOBJ(t *testing.T, src string) (*mesh.Mesh, error) {
	t.Helper()
	l := &OBJLoader{}
	return l.Load(strings.NewReader(src))
}

func TestOBJ_Triangle(t *testing.T) {
	m, err := loadOBJ(t, triangleOBJ)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	b := m.Flatten()
	wantPos := []math.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	if !reflect.DeepEqual(b.Positions, wantPos) {
		t.Errorf("expected positions %v, got %v", wantPos, b.Positions)
	}
	wantTex := []math.Vec2{{0, 0}, {1, 0}, {0, 1}}
	if !reflect.DeepEqual(b.TexCoords, wantTex) {
		t.Errorf("expected texcoords %v, got %v", wantTex, b.TexCoords)
	}
	for i, n := range b.Normals {
		if n != (math.Vec3{Z: 1}) {
			t.Errorf("corner %d: expected normal <0,0,1>, got %v", i, n)
		}
	}

	w, l, h := m.Dimensions()
	if w != 1 || l != 1 || h != 0 {
		t.Errorf("expected dimensions (1,1,0), got (%v,%v,%v)", w, l, h)
	}
}

func TestOBJ_FaceVariants(t *testing.T) {
	tests := []struct {
		name      string
		face      string
		normals   int
		texCoords int
	}{
		{"position only", "f 1 2 3", 2, 2},
		{"position/texcoord", "f 1/1 2/2 3/3", 2, 3},
		{"position//normal", "f 1//1 2//1 3//1", 1, 2},
		{"full", "f 1/1/1 2/2/1 3/3/1", 1, 3},
		{"negative", "f -3/-3/-1 -2/-2/-1 -1/-1/-1", 1, 3},
	}

	header := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nvt 0 0\n"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := header
			if strings.Count(tt.face, "/") > 0 && !strings.Contains(tt.face, "//") {
				src += "vt 1 0\nvt 0 1\n"
			}
			m, err := loadOBJ(t, src+tt.face+"\n")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if m.TriangleCount() != 1 {
				t.Fatalf("expected 1 triangle, got %d", m.TriangleCount())
			}
			if m.NormalCount() != tt.normals {
				t.Errorf("expected %d normals, got %d", tt.normals, m.NormalCount())
			}
			if m.TexCoordCount() != tt.texCoords {
				t.Errorf("expected %d texcoords, got %d", tt.texCoords, m.TexCoordCount())
			}
			tri := m.Triangle(0)
			if tri.C1.Position != 0 || tri.C2.Position != 1 || tri.C3.Position != 2 {
				t.Errorf("unexpected position indices %v", tri)
			}
		})
	}
}

func TestOBJ_ComputedNormal(t *testing.T) {
	m, err := loadOBJ(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	normals := m.Normals()
	if len(normals) != 1 || normals[0] != (math.Vec3{Z: 1}) {
		t.Errorf("expected computed normal <0,0,1>, got %v", normals)
	}
	if m.TexCoordCount() != 1 {
		t.Errorf("expected one shared default texcoord, got %d", m.TexCoordCount())
	}
}

func TestOBJ_PolygonFan(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nv -1 1 0\nf 1 2 3 4 5\n"
	m, err := loadOBJ(t, src)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.TriangleCount() != 3 {
		t.Fatalf("expected 3 triangles, got %d", m.TriangleCount())
	}

	want := [][3]uint32{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}}
	for i, tri := range m.Triangles() {
		got := [3]uint32{tri.C1.Position, tri.C2.Position, tri.C3.Position}
		if got != want[i] {
			t.Errorf("triangle %d: expected %v, got %v", i, want[i], got)
		}
	}
}

func TestOBJ_IgnoresNonGeometry(t *testing.T) {
	src := "mtllib cube.mtl\no Cube\ng side\nusemtl red\ns off\n" + triangleOBJ + "l 1 2\n"
	m, err := loadOBJ(t, src)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", m.TriangleCount())
	}
}

func TestOBJ_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"bad vertex", "v 0 0\n", 1},
		{"bad number", "v 0 x 0\n", 1},
		{"short face", "v 0 0 0\nf 1 1\n", 2},
		{"zero index", "v 0 0 0\nf 0 1 1\n", 2},
		{"relative before start", "v 0 0 0\nf -2 1 1\n", 2},
		{"bad corner", "v 0 0 0\nf 1/2/3/4 1 1\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadOBJ(t, tt.src)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if pe.Line != tt.line {
				t.Errorf("expected line %d, got %d", tt.line, pe.Line)
			}
		})
	}
}

func TestOBJ_OutOfRangeIndexIsStructural(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nvt 0 0\nf 1/1/1 2/1/1 4/1/1\n"
	_, err := loadOBJ(t, src)
	if !errors.Is(err, mesh.ErrStructural) {
		t.Fatalf("expected structural error, got %v", err)
	}

	var se *mesh.StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("expected *mesh.StructuralError, got %T", err)
	}
	if se.Stream != mesh.AttributePosition || se.Index != 3 || se.Len != 3 {
		t.Errorf("unexpected structural error %v", se)
	}
}
