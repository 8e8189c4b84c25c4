package formats

import (
	"bufio"
	"fmt"
	"io"
	gomath "math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// OBJLoader reads Wavefront OBJ geometry: v, vn, vt and f statements.
// Polygons are fan-triangulated. Corners without a normal get the face
// normal; corners without a texture coordinate share a single (0,0) entry.
type OBJLoader struct {
	Options
}

type objState struct {
	log       *zap.Logger
	positions []math.Vec3
	normals   []math.Vec3
	texCoords []math.Vec2
	triangles []mesh.Triangle

	// Index of the shared (0,0) texture coordinate, -1 until needed.
	defaultTexCoord int
}

// objCorner is one face vertex as written in the file. A -1 field means
// the component was omitted.
type objCorner struct {
	position, texCoord, normal int
}

// Load implements MeshLoader.
func (l *OBJLoader) Load(r io.Reader) (*mesh.Mesh, error) {
	st := &objState{log: l.logger(), defaultTexCoord: -1}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if err := st.parseLine(strings.Fields(line)); err != nil {
			return nil, &ParseError{Format: "obj", Line: lineNo, Msg: err.Error()}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading obj: %w", err)
	}

	st.log.Debug("obj parsed",
		zap.Int("lines", lineNo),
		zap.Int("positions", len(st.positions)),
		zap.Int("normals", len(st.normals)),
		zap.Int("texcoords", len(st.texCoords)),
		zap.Int("triangles", len(st.triangles)),
	)

	return mesh.New(st.positions, st.normals, st.texCoords, st.triangles)
}

func (st *objState) parseLine(fields []string) error {
	switch fields[0] {
	case "v":
		v, err := parseFloats(fields[1:], 3, 4)
		if err != nil {
			return fmt.Errorf("vertex: %w", err)
		}
		st.positions = append(st.positions, math.Vec3{X: v[0], Y: v[1], Z: v[2]})
	case "vn":
		v, err := parseFloats(fields[1:], 3, 3)
		if err != nil {
			return fmt.Errorf("normal: %w", err)
		}
		st.normals = append(st.normals, math.Vec3{X: v[0], Y: v[1], Z: v[2]})
	case "vt":
		v, err := parseFloats(fields[1:], 1, 3)
		if err != nil {
			return fmt.Errorf("texcoord: %w", err)
		}
		tc := math.Vec2{X: v[0]}
		if len(v) > 1 {
			tc.Y = v[1]
		}
		st.texCoords = append(st.texCoords, tc)
	case "f":
		return st.parseFace(fields[1:])
	default:
		// Groups, objects, materials, smoothing and line elements carry no
		// triangle geometry.
		st.log.Debug("obj: skipping statement", zap.String("keyword", fields[0]))
	}
	return nil
}

func (st *objState) parseFace(tokens []string) error {
	if len(tokens) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d", len(tokens))
	}

	corners := make([]objCorner, len(tokens))
	for i, tok := range tokens {
		c, err := st.parseCorner(tok)
		if err != nil {
			return err
		}
		corners[i] = c
	}

	// Face normal for corners that did not name one.
	faceNormal := -1
	for i := range corners {
		if corners[i].normal >= 0 {
			continue
		}
		if faceNormal < 0 {
			faceNormal = len(st.normals)
			st.normals = append(st.normals, st.faceNormal(corners))
		}
		corners[i].normal = faceNormal
	}

	for i := range corners {
		if corners[i].texCoord >= 0 {
			continue
		}
		if st.defaultTexCoord < 0 {
			st.defaultTexCoord = len(st.texCoords)
			st.texCoords = append(st.texCoords, math.Vec2{})
		}
		corners[i].texCoord = st.defaultTexCoord
	}

	for i := 2; i < len(corners); i++ {
		st.triangles = append(st.triangles, mesh.Tri(
			corners[0].index(),
			corners[i-1].index(),
			corners[i].index(),
		))
	}
	return nil
}

func (c objCorner) index() mesh.CornerIndex {
	return mesh.Corner(uint32(c.position), uint32(c.normal), uint32(c.texCoord))
}

// parseCorner parses p, p/t, p//n or p/t/n.
func (st *objState) parseCorner(tok string) (objCorner, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 || parts[0] == "" {
		return objCorner{}, fmt.Errorf("bad face vertex %q", tok)
	}

	c := objCorner{position: -1, texCoord: -1, normal: -1}
	var err error
	if c.position, err = resolveIndex(parts[0], len(st.positions)); err != nil {
		return objCorner{}, fmt.Errorf("face vertex %q: %w", tok, err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.texCoord, err = resolveIndex(parts[1], len(st.texCoords)); err != nil {
			return objCorner{}, fmt.Errorf("face vertex %q: %w", tok, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.normal, err = resolveIndex(parts[2], len(st.normals)); err != nil {
			return objCorner{}, fmt.Errorf("face vertex %q: %w", tok, err)
		}
	}
	return c, nil
}

// faceNormal returns the normalized normal of the polygon's first three
// corners, or the zero vector if they are degenerate or not yet defined.
func (st *objState) faceNormal(corners []objCorner) math.Vec3 {
	for _, c := range corners[:3] {
		if c.position >= len(st.positions) {
			return math.Vec3{}
		}
	}
	p0 := st.positions[corners[0].position]
	p1 := st.positions[corners[1].position]
	p2 := st.positions[corners[2].position]
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}

// resolveIndex converts a 1-based or negative (relative) OBJ index into a
// 0-based index. Indices past the end are passed through so that mesh
// validation can report them.
func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	switch {
	case n == 0:
		return 0, fmt.Errorf("index 0 is not valid, indices start at 1")
	case n < 0:
		n += int64(count)
		if n < 0 {
			return 0, fmt.Errorf("relative index %s before first element", s)
		}
	default:
		n--
	}
	if n > gomath.MaxUint32 {
		return 0, fmt.Errorf("index %s too large", s)
	}
	return int(n), nil
}

func parseFloats(fields []string, minN, maxN int) ([]float32, error) {
	if len(fields) < minN {
		return nil, fmt.Errorf("expected at least %d values, got %d", minN, len(fields))
	}
	if len(fields) > maxN {
		fields = fields[:maxN]
	}
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", f)
		}
		out[i] = float32(v)
	}
	return out, nil
}
