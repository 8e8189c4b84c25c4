package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// STL format errors.
var (
	ErrTruncatedSTL = errors.New("truncated STL data")
	ErrInvalidSTL   = errors.New("invalid STL data")
)

const (
	stlHeaderSize = 80
	stlRecordSize = 50 // normal, 3 vertices, attribute byte count
)

// STLLoader reads binary and ASCII STL files. Every facet contributes its
// own three positions and one normal; STL has no texture coordinates, so all
// corners share a single (0,0) entry. A zero facet normal is recomputed from
// the vertex winding.
type STLLoader struct {
	Options
}

type stlFacet struct {
	normal   math.Vec3
	vertices [3]math.Vec3
}

// Load implements MeshLoader.
func (l *STLLoader) Load(r io.Reader) (*mesh.Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading stl: %w", err)
	}

	var facets []stlFacet
	if isBinarySTL(data) {
		l.logger().Debug("stl: binary", zap.Int("bytes", len(data)))
		facets, err = parseBinarySTL(data)
	} else {
		l.logger().Debug("stl: ascii", zap.Int("bytes", len(data)))
		facets, err = parseASCIISTL(data)
	}
	if err != nil {
		return nil, err
	}

	return stlMesh(facets)
}

// isBinarySTL reports whether data has the exact size of a binary STL.
// ASCII files start with "solid", but so do many binary headers, so the
// triangle count is the deciding signal.
func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return !bytes.HasPrefix(bytes.TrimSpace(data), []byte("solid"))
	}
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	if uint64(len(data)) == stlHeaderSize+4+uint64(count)*stlRecordSize {
		return true
	}
	return !bytes.HasPrefix(bytes.TrimSpace(data), []byte("solid"))
}

func parseBinarySTL(data []byte) ([]stlFacet, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, ErrTruncatedSTL
	}

	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	r := bytes.NewReader(data[stlHeaderSize+4:])
	if uint64(r.Len()) < uint64(count)*stlRecordSize {
		return nil, fmt.Errorf("%w: %d triangles declared, %d bytes left", ErrTruncatedSTL, count, r.Len())
	}

	facets := make([]stlFacet, count)
	for i := range facets {
		var rec struct {
			Normal   [3]float32
			Vertices [3][3]float32
			Attr     uint16
		}
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("%w: triangle %d: %v", ErrTruncatedSTL, i, err)
		}
		facets[i].normal = math.Vec3{X: rec.Normal[0], Y: rec.Normal[1], Z: rec.Normal[2]}
		for k, v := range rec.Vertices {
			facets[i].vertices[k] = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
		}
	}
	return facets, nil
}

func parseASCIISTL(data []byte) ([]stlFacet, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))

	var (
		facets  []stlFacet
		current stlFacet
		nVerts  int
		inFacet bool
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid", "endsolid", "outer", "endloop":
		case "facet":
			if len(fields) != 5 || fields[1] != "normal" {
				return nil, &ParseError{Format: "stl", Line: lineNo, Msg: "expected 'facet normal nx ny nz'"}
			}
			n, err := parseSTLVec(fields[2:])
			if err != nil {
				return nil, &ParseError{Format: "stl", Line: lineNo, Msg: err.Error()}
			}
			current, nVerts, inFacet = stlFacet{normal: n}, 0, true
		case "vertex":
			if !inFacet || nVerts == 3 || len(fields) != 4 {
				return nil, &ParseError{Format: "stl", Line: lineNo, Msg: "unexpected vertex"}
			}
			v, err := parseSTLVec(fields[1:])
			if err != nil {
				return nil, &ParseError{Format: "stl", Line: lineNo, Msg: err.Error()}
			}
			current.vertices[nVerts] = v
			nVerts++
		case "endfacet":
			if !inFacet || nVerts != 3 {
				return nil, &ParseError{Format: "stl", Line: lineNo, Msg: fmt.Sprintf("facet has %d vertices, want 3", nVerts)}
			}
			facets = append(facets, current)
			inFacet = false
		default:
			return nil, &ParseError{Format: "stl", Line: lineNo, Msg: fmt.Sprintf("unknown keyword %q", fields[0])}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stl: %w", err)
	}
	if inFacet {
		return nil, fmt.Errorf("%w: unterminated facet", ErrInvalidSTL)
	}
	return facets, nil
}

func parseSTLVec(fields []string) (math.Vec3, error) {
	var v [3]float32
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("bad number %q", f)
		}
		v[i] = float32(x)
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func stlMesh(facets []stlFacet) (*mesh.Mesh, error) {
	positions := make([]math.Vec3, 0, len(facets)*3)
	normals := make([]math.Vec3, 0, len(facets))
	triangles := make([]mesh.Triangle, 0, len(facets))

	for i, f := range facets {
		n := f.normal
		if n == (math.Vec3{}) {
			v := f.vertices
			n = v[1].Sub(v[0]).Cross(v[2].Sub(v[0])).Normalize()
		}
		normals = append(normals, n)
		positions = append(positions, f.vertices[:]...)

		base := uint32(i * 3)
		ni := uint32(i)
		triangles = append(triangles, mesh.Tri(
			mesh.Corner(base, ni, 0),
			mesh.Corner(base+1, ni, 0),
			mesh.Corner(base+2, ni, 0),
		))
	}

	var texCoords []math.Vec2
	if len(triangles) > 0 {
		texCoords = []math.Vec2{{}}
	}
	return mesh.New(positions, normals, texCoords, triangles)
}
