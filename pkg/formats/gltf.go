package formats

import (
	"errors"
	"fmt"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// ErrNoMeshes is returned for a glTF document without triangle primitives.
var ErrNoMeshes = errors.New("gltf: no triangle primitives")

// ErrIndexRange is returned when a primitive refers to a missing accessor or
// vertex.
var ErrIndexRange = errors.New("gltf: index out of range")

// GLTFLoader reads glTF 2.0 JSON (.gltf with embedded data URIs) and binary
// (.glb) documents. Every triangle primitive of every mesh is merged into one
// Mesh in document order; node transforms are not applied.
type GLTFLoader struct {
	Options
}

// Load implements MeshLoader.
func (l *GLTFLoader) Load(r io.Reader) (*mesh.Mesh, error) {
	log := l.logger()

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding gltf: %w", err)
	}

	var b gltfBuilder
	for mi, gm := range doc.Meshes {
		for pi, p := range gm.Primitives {
			if p.Mode != gltf.PrimitiveTriangles {
				log.Debug("gltf: skipping non-triangle primitive",
					zap.Int("mesh", mi), zap.Int("primitive", pi))
				continue
			}
			if err := b.addPrimitive(doc, p); err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			log.Debug("gltf: primitive added",
				zap.Int("mesh", mi),
				zap.Int("primitive", pi),
				zap.Int("triangles", len(b.triangles)),
			)
		}
	}

	if len(b.triangles) == 0 {
		return nil, ErrNoMeshes
	}
	return mesh.New(b.positions, b.normals, b.texCoords, b.triangles)
}

type gltfBuilder struct {
	positions []math.Vec3
	normals   []math.Vec3
	texCoords []math.Vec2
	triangles []mesh.Triangle

	defaultTexCoord int
	hasDefaultTex   bool
}

func (b *gltfBuilder) addPrimitive(doc *gltf.Document, p *gltf.Primitive) error {
	posIdx, ok := p.Attributes["POSITION"]
	if !ok {
		return errors.New("primitive has no POSITION attribute")
	}
	acc, err := accessor(doc, posIdx)
	if err != nil {
		return fmt.Errorf("POSITION: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return fmt.Errorf("reading positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := p.Attributes["NORMAL"]; ok {
		if acc, err = accessor(doc, idx); err != nil {
			return fmt.Errorf("NORMAL: %w", err)
		}
		if normals, err = modeler.ReadNormal(doc, acc, nil); err != nil {
			return fmt.Errorf("reading normals: %w", err)
		}
	}

	var texCoords [][2]float32
	if idx, ok := p.Attributes["TEXCOORD_0"]; ok {
		if acc, err = accessor(doc, idx); err != nil {
			return fmt.Errorf("TEXCOORD_0: %w", err)
		}
		if texCoords, err = modeler.ReadTextureCoord(doc, acc, nil); err != nil {
			return fmt.Errorf("reading texcoords: %w", err)
		}
	}

	var indices []uint32
	if p.Indices != nil {
		if acc, err = accessor(doc, *p.Indices); err != nil {
			return fmt.Errorf("indices: %w", err)
		}
		if indices, err = modeler.ReadIndices(doc, acc, nil); err != nil {
			return fmt.Errorf("reading indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	for i, vi := range indices {
		if int64(vi) >= int64(len(positions)) ||
			(normals != nil && int64(vi) >= int64(len(normals))) ||
			(texCoords != nil && int64(vi) >= int64(len(texCoords))) {
			return fmt.Errorf("%w: index %d is %d, primitive has %d vertices", ErrIndexRange, i, vi, len(positions))
		}
	}

	posBase := uint32(len(b.positions))
	for _, v := range positions {
		b.positions = append(b.positions, math.Vec3{X: v[0], Y: v[1], Z: v[2]})
	}

	normBase := uint32(len(b.normals))
	for _, n := range normals {
		b.normals = append(b.normals, math.Vec3{X: n[0], Y: n[1], Z: n[2]})
	}

	texBase := uint32(len(b.texCoords))
	for _, t := range texCoords {
		b.texCoords = append(b.texCoords, math.Vec2{X: t[0], Y: t[1]})
	}
	if texCoords == nil && !b.hasDefaultTex {
		b.defaultTexCoord = len(b.texCoords)
		b.hasDefaultTex = true
		b.texCoords = append(b.texCoords, math.Vec2{})
	}

	for i := 0; i < len(indices); i += 3 {
		var corners [3]mesh.CornerIndex
		var faceNormal uint32
		if normals == nil {
			faceNormal = uint32(len(b.normals))
			b.normals = append(b.normals, b.faceNormal(posBase, indices[i:i+3]))
		}

		for k := 0; k < 3; k++ {
			vi := indices[i+k]
			c := mesh.Corner(posBase+vi, normBase+vi, texBase+vi)
			if normals == nil {
				c.Normal = faceNormal
			}
			if texCoords == nil {
				c.TexCoord = uint32(b.defaultTexCoord)
			}
			corners[k] = c
		}
		b.triangles = append(b.triangles, mesh.Tri(corners[0], corners[1], corners[2]))
	}
	return nil
}

// accessor returns the accessor at idx, rejecting indices outside the document.
func accessor(doc *gltf.Document, idx uint32) (*gltf.Accessor, error) {
	if uint64(idx) >= uint64(len(doc.Accessors)) {
		return nil, fmt.Errorf("%w: accessor %d, document has %d", ErrIndexRange, idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}

func (b *gltfBuilder) faceNormal(base uint32, idx []uint32) math.Vec3 {
	var v [3]math.Vec3
	for k := range v {
		i := int(base + idx[k])
		if i >= len(b.positions) {
			return math.Vec3{}
		}
		v[k] = b.positions[i]
	}
	return v[1].Sub(v[0]).Cross(v[2].Sub(v[0])).Normalize()
}
