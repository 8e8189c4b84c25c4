package formats

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/Faultbox/meshkit/pkg/math"
)

// makeTriangleGLTF builds a glTF JSON document with one indexed triangle
// primitive whose buffer is embedded as a data URI.
func makeTriangleGLTF(withNormals, withTexCoords bool, indices []uint16) string {
	buf := new(bytes.Buffer)

	positions := [3][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	binary.Write(buf, binary.LittleEndian, positions)

	var views, accessors, attrs []string
	views = append(views, `{"buffer":0,"byteOffset":0,"byteLength":36}`)
	accessors = append(accessors, `{"bufferView":0,"componentType":5126,"count":3,"type":"VEC3","min":[0,0,0],"max":[1,1,0]}`)
	attrs = append(attrs, `"POSITION":0`)

	if withNormals {
		off := buf.Len()
		binary.Write(buf, binary.LittleEndian, [3][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
		views = append(views, fmt.Sprintf(`{"buffer":0,"byteOffset":%d,"byteLength":36}`, off))
		accessors = append(accessors, fmt.Sprintf(`{"bufferView":%d,"componentType":5126,"count":3,"type":"VEC3"}`, len(views)-1))
		attrs = append(attrs, fmt.Sprintf(`"NORMAL":%d`, len(accessors)-1))
	}

	if withTexCoords {
		off := buf.Len()
		binary.Write(buf, binary.LittleEndian, [3][2]float32{{0, 0}, {1, 0}, {0, 1}})
		views = append(views, fmt.Sprintf(`{"buffer":0,"byteOffset":%d,"byteLength":24}`, off))
		accessors = append(accessors, fmt.Sprintf(`{"bufferView":%d,"componentType":5126,"count":3,"type":"VEC2"}`, len(views)-1))
		attrs = append(attrs, fmt.Sprintf(`"TEXCOORD_0":%d`, len(accessors)-1))
	}

	indicesField := ""
	if indices != nil {
		off := buf.Len()
		binary.Write(buf, binary.LittleEndian, indices)
		views = append(views, fmt.Sprintf(`{"buffer":0,"byteOffset":%d,"byteLength":%d}`, off, len(indices)*2))
		accessors = append(accessors, fmt.Sprintf(`{"bufferView":%d,"componentType":5123,"count":%d,"type":"SCALAR"}`, len(views)-1, len(indices)))
		indicesField = fmt.Sprintf(`,"indices":%d`, len(accessors)-1)
	}

	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	return fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "buffers": [{"byteLength": %d, "uri": %q}],
  "bufferViews": [%s],
  "accessors": [%s],
  "meshes": [{"primitives": [{"attributes": {%s}%s}]}]
}`, buf.Len(), uri, strings.Join(views, ","), strings.Join(accessors, ","), strings.Join(attrs, ","), indicesField)
}

func TestGLTF_IndexedTriangle(t *testing.T) {
	l := &GLTFLoader{}
	m, err := l.Load(strings.NewReader(makeTriangleGLTF(true, true, []uint16{0, 1, 2})))
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
	if !reflect.DeepEqual(b.Indices, []uint32{0, 1, 2}) {
		t.Errorf("expected identity indices, got %v", b.Indices)
	}
	for i, n := range b.Normals {
		if n != (math.Vec3{Z: 1}) {
			t.Errorf("corner %d: expected normal <0,0,1>, got %v", i, n)
		}
	}
}

func TestGLTF_WindingPreserved(t *testing.T) {
	l := &GLTFLoader{}
	m, err := l.Load(strings.NewReader(makeTriangleGLTF(true, true, []uint16{0, 2, 1})))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tri := m.Triangle(0)
	got := [3]uint32{tri.C1.Position, tri.C2.Position, tri.C3.Position}
	if got != [3]uint32{0, 2, 1} {
		t.Errorf("expected winding [0 2 1], got %v", got)
	}
}

func TestGLTF_NonIndexedWithoutOptionalAttributes(t *testing.T) {
	l := &GLTFLoader{}
	m, err := l.Load(strings.NewReader(makeTriangleGLTF(false, false, nil)))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.TriangleCount() != 1 {
		t.Fatalf("expected 1 triangle, got %d", m.TriangleCount())
	}
	// One computed face normal and one shared texture coordinate.
	if m.NormalCount() != 1 || m.Normals()[0] != (math.Vec3{Z: 1}) {
		t.Errorf("expected computed normal <0,0,1>, got %v", m.Normals())
	}
	if m.TexCoordCount() != 1 {
		t.Errorf("expected 1 default texcoord, got %d", m.TexCoordCount())
	}
}

func TestGLTF_OutOfRangeIndex(t *testing.T) {
	l := &GLTFLoader{}
	_, err := l.Load(strings.NewReader(makeTriangleGLTF(true, true, []uint16{0, 1, 3})))
	if !errors.Is(err, ErrIndexRange) {
		t.Errorf("expected ErrIndexRange, got %v", err)
	}
}

func TestGLTF_MissingAccessor(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"position", `{"asset":{"version":"2.0"},"meshes":[{"primitives":[{"attributes":{"POSITION":5}}]}]}`},
		{"normal", strings.Replace(makeTriangleGLTF(false, false, nil), `"POSITION":0`, `"POSITION":0,"NORMAL":7`, 1)},
		{"texcoord", strings.Replace(makeTriangleGLTF(false, false, nil), `"POSITION":0`, `"POSITION":0,"TEXCOORD_0":7`, 1)},
		{"indices", strings.Replace(makeTriangleGLTF(false, false, nil), `"POSITION":0}`, `"POSITION":0},"indices":9`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &GLTFLoader{}
			_, err := l.Load(strings.NewReader(tt.doc))
			if !errors.Is(err, ErrIndexRange) {
				t.Errorf("expected ErrIndexRange, got %v", err)
			}
		})
	}
}

// A large index in a later primitive must not wrap around onto an earlier
// primitive's vertices once the vertex base is added.
func TestGLTF_IndexDoesNotWrapAcrossPrimitives(t *testing.T) {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, [3][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	binary.Write(buf, binary.LittleEndian, []uint32{0, 1, 0xFFFFFFFD})
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "buffers": [{"byteLength": %d, "uri": %q}],
  "bufferViews": [{"buffer":0,"byteOffset":0,"byteLength":36},{"buffer":0,"byteOffset":36,"byteLength":12}],
  "accessors": [
    {"bufferView":0,"componentType":5126,"count":3,"type":"VEC3","min":[0,0,0],"max":[1,1,0]},
    {"bufferView":1,"componentType":5125,"count":3,"type":"SCALAR"}
  ],
  "meshes": [{"primitives": [{"attributes": {"POSITION":0}}, {"attributes": {"POSITION":0},"indices":1}]}]
}`, buf.Len(), uri)

	l := &GLTFLoader{}
	_, err := l.Load(strings.NewReader(doc))
	if !errors.Is(err, ErrIndexRange) {
		t.Errorf("expected ErrIndexRange, got %v", err)
	}
}

func TestGLTF_NoMeshes(t *testing.T) {
	l := &GLTFLoader{}
	_, err := l.Load(strings.NewReader(`{"asset":{"version":"2.0"}}`))
	if !errors.Is(err, ErrNoMeshes) {
		t.Errorf("expected ErrNoMeshes, got %v", err)
	}
}

func TestGLTF_InvalidJSON(t *testing.T) {
	l := &GLTFLoader{}
	if _, err := l.Load(strings.NewReader("{not json")); err == nil {
		t.Error("expected decode error, got nil")
	}
}
