package formats

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// BufferMagic opens every flattened buffer file.
var BufferMagic = [4]byte{'M', 'K', 'B', 'F'}

// BufferVersion is the buffer file layout written by WriteBuffers.
const BufferVersion = 1

// ErrInvalidBuffers is returned when a buffer file header does not match.
var ErrInvalidBuffers = errors.New("invalid buffer file")

// bufferHeader precedes the payload. All fields are little-endian.
type bufferHeader struct {
	Magic    [4]byte
	Version  uint32
	Vertices uint32
	Indices  uint32
}

// WriteBuffers stores flattened buffers as a header followed by the planar
// Packed float data (positions, normals, texcoords) and the uint32 indices.
func WriteBuffers(w io.Writer, b mesh.Buffers) error {
	bw := bufio.NewWriter(w)

	hdr := bufferHeader{
		Magic:    BufferMagic,
		Version:  BufferVersion,
		Vertices: uint32(b.Len()),
		Indices:  uint32(len(b.Indices)),
	}
	if err := binary.Write(bw, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	data, _ := b.Packed()
	if err := binary.Write(bw, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("writing vertex data: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, b.Indices); err != nil {
		return fmt.Errorf("writing indices: %w", err)
	}
	return bw.Flush()
}

// ReadBuffers reads a file produced by WriteBuffers.
func ReadBuffers(r io.Reader) (mesh.Buffers, error) {
	br := bufio.NewReader(r)

	var hdr bufferHeader
	if err := binary.Read(br, binary.LittleEndian, &hdr); err != nil {
		return mesh.Buffers{}, fmt.Errorf("reading header: %w", err)
	}
	if hdr.Magic != BufferMagic {
		return mesh.Buffers{}, fmt.Errorf("%w: bad magic %q", ErrInvalidBuffers, hdr.Magic[:])
	}
	if hdr.Version != BufferVersion {
		return mesh.Buffers{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidBuffers, hdr.Version)
	}

	n := int(hdr.Vertices)
	data, err := readChunked[float32](br, uint64(n)*8)
	if err != nil {
		return mesh.Buffers{}, fmt.Errorf("%w: reading vertex data: %v", ErrInvalidBuffers, err)
	}
	indices, err := readChunked[uint32](br, uint64(hdr.Indices))
	if err != nil {
		return mesh.Buffers{}, fmt.Errorf("%w: reading indices: %v", ErrInvalidBuffers, err)
	}

	b := mesh.Buffers{
		Positions: make([]math.Vec3, n),
		Normals:   make([]math.Vec3, n),
		TexCoords: make([]math.Vec2, n),
		Indices:   indices,
	}
	pos, nrm, tex := data[:n*3], data[n*3:n*6], data[n*6:]
	for i := 0; i < n; i++ {
		b.Positions[i] = math.Vec3{X: pos[i*3], Y: pos[i*3+1], Z: pos[i*3+2]}
		b.Normals[i] = math.Vec3{X: nrm[i*3], Y: nrm[i*3+1], Z: nrm[i*3+2]}
		b.TexCoords[i] = math.Vec2{X: tex[i*2], Y: tex[i*2+1]}
	}
	return b, nil
}

// bufferChunk caps how many values readChunked allocates ahead of the data
// actually present, so a lying header cannot force a huge allocation.
const bufferChunk = 1 << 16

// readChunked reads count little-endian values, growing the result one chunk
// at a time.
func readChunked[T float32 | uint32](r io.Reader, count uint64) ([]T, error) {
	out := make([]T, 0, min(count, bufferChunk))
	for uint64(len(out)) < count {
		chunk := make([]T, min(count-uint64(len(out)), bufferChunk))
		if err := binary.Read(r, binary.LittleEndian, chunk); err != nil {
			return nil, fmt.Errorf("%d of %d values: %w", len(out), count, err)
		}
		out = append(out, chunk...)
	}
	return out, nil
}
