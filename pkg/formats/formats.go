// Package formats provides loaders that turn mesh interchange files into
// validated *mesh.Mesh values.
//
// Loaders only parse syntax and assemble arrays; range validation of corner
// indices is left to mesh.New.
package formats

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/pkg/mesh"
)

// ErrUnknownFormat is returned when no loader is registered under a name.
var ErrUnknownFormat = errors.New("unknown mesh format")

// MeshLoader reads one mesh from a byte stream.
type MeshLoader interface {
	Load(r io.Reader) (*mesh.Mesh, error)
}

// LoaderFunc adapts a function to the MeshLoader interface.
type LoaderFunc func(r io.Reader) (*mesh.Mesh, error)

// Load calls f(r).
func (f LoaderFunc) Load(r io.Reader) (*mesh.Mesh, error) {
	return f(r)
}

// Options configures a loader.
type Options struct {
	// Logger receives step tracing at debug level. Nil disables tracing.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// ParseError reports a syntax problem in a text format.
type ParseError struct {
	Format string
	Line   int
	Msg    string
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: line %d: %s", e.Format, e.Line, e.Msg)
}

var loaders = map[string]func(Options) MeshLoader{
	"obj":  func(o Options) MeshLoader { return &OBJLoader{Options: o} },
	"stl":  func(o Options) MeshLoader { return &STLLoader{Options: o} },
	"gltf": func(o Options) MeshLoader { return &GLTFLoader{Options: o} },
	"glb":  func(o Options) MeshLoader { return &GLTFLoader{Options: o} },
}

// ByName returns the loader registered under name (case-insensitive).
func ByName(name string, opts Options) (MeshLoader, error) {
	newLoader, ok := loaders[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return newLoader(opts), nil
}

// Names returns the registered format names in sorted order.
func Names() []string {
	names := make([]string, 0, len(loaders))
	for name := range loaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NameForPath returns the format name implied by a file extension.
func NameForPath(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// LoadFile opens path and loads it with the named format. An empty name
// uses the file extension.
func LoadFile(path, name string, opts Options) (*mesh.Mesh, error) {
	if name == "" {
		name = NameForPath(path)
	}
	loader, err := ByName(name, opts)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mesh file: %w", err)
	}
	defer f.Close()

	m, err := loader.Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	opts.logger().Debug("mesh loaded",
		zap.String("path", path),
		zap.String("format", name),
		zap.Int("positions", m.PositionCount()),
		zap.Int("normals", m.NormalCount()),
		zap.Int("texcoords", m.TexCoordCount()),
		zap.Int("triangles", m.TriangleCount()),
	)
	return m, nil
}
