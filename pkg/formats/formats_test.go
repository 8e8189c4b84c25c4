package formats

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/meshkit/pkg/mesh"
)

func TestByName(t *testing.T) {
	tests := []struct {
		name     string
		wantType interface{}
		wantErr  bool
	}{
		{"obj", &OBJLoader{}, false},
		{"OBJ", &OBJLoader{}, false},
		{"stl", &STLLoader{}, false},
		{"gltf", &GLTFLoader{}, false},
		{"glb", &GLTFLoader{}, false},
		{"dae", nil, true},
		{"", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := ByName(tt.name, Options{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("ByName(%q): got error=%v, wantErr=%v", tt.name, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("expected ErrUnknownFormat, got %v", err)
				}
				return
			}
			if reflect.TypeOf(l) != reflect.TypeOf(tt.wantType) {
				t.Errorf("expected %T, got %T", tt.wantType, l)
			}
		})
	}
}

func TestNames(t *testing.T) {
	want := []string{"glb", "gltf", "obj", "stl"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestNameForPath(t *testing.T) {
	tests := map[string]string{
		"models/cube.obj": "obj",
		"models/CUBE.STL": "stl",
		"scene.glb":       "glb",
		"no_extension":    "",
		"/tmp/a.b/c.gltf": "gltf",
	}
	for path, want := range tests {
		if got := NameForPath(path); got != want {
			t.Errorf("NameForPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestLoaderFunc(t *testing.T) {
	called := false
	var l MeshLoader = LoaderFunc(func(r io.Reader) (*mesh.Mesh, error) {
		called = true
		return mesh.New(nil, nil, nil, nil)
	})

	m, err := l.Load(strings.NewReader(""))
	if err != nil || m == nil || !called {
		t.Errorf("expected LoaderFunc to be invoked, got mesh=%v err=%v called=%v", m, err, called)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.obj")
	if err := os.WriteFile(path, []byte(triangleOBJ), 0644); err != nil {
		t.Fatalf("failed to write obj: %v", err)
	}

	core, logs := observer.New(zapcore.DebugLevel)
	m, err := LoadFile(path, "", Options{Logger: zap.New(core)})
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if m.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", m.TriangleCount())
	}
	if logs.FilterMessage("mesh loaded").Len() != 1 {
		t.Error("expected a 'mesh loaded' trace entry")
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFile(filepath.Join(dir, "missing.obj"), "", Options{}); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(dir, "mesh.dae")
	if err := os.WriteFile(path, []byte("<COLLADA/>"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := LoadFile(path, "", Options{}); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}

	// An explicit name overrides the extension.
	objPath := filepath.Join(dir, "mesh.txt")
	if err := os.WriteFile(objPath, []byte(triangleOBJ), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := LoadFile(objPath, "obj", Options{}); err != nil {
		t.Errorf("expected explicit format to load, got %v", err)
	}
}

func TestTracingDisabledByDefault(t *testing.T) {
	// A zero Options must not panic and must not require a logger.
	l := &OBJLoader{}
	if _, err := l.Load(strings.NewReader(triangleOBJ)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
}
