package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

func TestBoxLines(t *testing.T) {
	lines := BoxLines(math.Vec3{}, math.Vec3{X: 1, Y: 2, Z: 3}, 0.5)
	if len(lines) != BoxLineVertexCount*3 {
		t.Fatalf("expected %d floats, got %d", BoxLineVertexCount*3, len(lines))
	}

	// Padding grows the box on every side.
	for i := 0; i < len(lines); i += 3 {
		x, y, z := lines[i], lines[i+1], lines[i+2]
		if (x != -0.5 && x != 1.5) || (y != -0.5 && y != 2.5) || (z != -0.5 && z != 3.5) {
			t.Errorf("vertex %d <%v,%v,%v> is not a padded corner", i/3, x, y, z)
		}
	}
}

func TestMeshBoxLines(t *testing.T) {
	empty, err := mesh.New(nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if lines := MeshBoxLines(empty, 0); lines != nil {
		t.Errorf("expected nil for empty mesh, got %d floats", len(lines))
	}
}

func TestNormalLines(t *testing.T) {
	b := mesh.Buffers{
		Positions: []math.Vec3{{X: 1}},
		Normals:   []math.Vec3{{Z: 1}},
		TexCoords: []math.Vec2{{}},
		Indices:   []uint32{0},
	}
	got := NormalLines(b, 2)
	want := []float32{1, 0, 0, 1, 0, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %d floats, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("float %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestCaptureFromPixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "mesh")
	sc.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

	// 1x2 image: bottom row red, top row blue (OpenGL order).
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := sc.CaptureFromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("CaptureFromPixels failed: %v", err)
	}
	if want := filepath.Join(dir, "mesh_2024-05-06_07-08-09.png"); path != want {
		t.Errorf("expected %s, got %s", want, path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	// Image rows are top first, so the blue row comes out on top.
	if r, _, b, _ := img.At(0, 0).RGBA(); r != 0 || b == 0 {
		t.Errorf("expected blue top pixel, got r=%d b=%d", r, b)
	}
	if r, _, b, _ := img.At(0, 1).RGBA(); r == 0 || b != 0 {
		t.Errorf("expected red bottom pixel, got r=%d b=%d", r, b)
	}
}

func TestCaptureSizeMismatch(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "mesh")
	if _, err := sc.CaptureFromPixels(make([]byte, 3), 1, 1); err == nil {
		t.Error("expected size mismatch error")
	}
}
