// Package renderer draws flattened meshes with OpenGL.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/engine/shader"
	"github.com/Faultbox/meshkit/internal/logger"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// ErrNoGeometry is returned by Upload for buffers without vertices.
var ErrNoGeometry = errors.New("renderer: no geometry to upload")

// Attribute locations shared by the shaders and the vertex array.
const (
	positionLocation = 0
	normalLocation   = 1
	texCoordLocation = 2
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background [3]float32
	// Checker draws a procedural checkerboard from texture coordinates.
	Checker bool
	// LightDir points towards the key light. Zero disables it and leaves
	// only the headlight.
	LightDir math.Vec3
}

// Renderer owns the GL state for one uploaded mesh.
type Renderer struct {
	config  Config
	program *shader.Program
	log     *zap.Logger

	vao, vbo, ebo uint32
	indexCount    int32
	texture       uint32

	// Debug line overlay
	lineProgram  *shader.Program
	lineVAO      uint32
	lineVBO      uint32
	lineVertices int32
}

// New creates a renderer. The OpenGL context must already exist.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)

	var err error
	r.program, err = shader.NewProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r.lineProgram, err = shader.NewProgram(lineVertexShader, lineFragmentShader)
	if err != nil {
		r.program.Delete()
		return nil, fmt.Errorf("failed to create line shader program: %w", err)
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.GenBuffers(1, &r.ebo)
	gl.GenVertexArrays(1, &r.lineVAO)
	gl.GenBuffers(1, &r.lineVBO)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Upload replaces the current geometry with b. Attributes are stored
// planar in a single vertex buffer: all positions, then all normals,
// then all texture coordinates.
func (r *Renderer) Upload(b mesh.Buffers) error {
	if b.Len() == 0 || len(b.Indices) == 0 {
		r.indexCount = 0
		return ErrNoGeometry
	}

	data, layout := b.Packed()

	gl.BindVertexArray(r.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(b.Indices)*4, gl.Ptr(b.Indices), gl.STATIC_DRAW)

	attrib(positionLocation, 3, layout.PositionOffset)
	attrib(normalLocation, 3, layout.NormalOffset)
	attrib(texCoordLocation, 2, layout.TexCoordOffset)

	// The element buffer binding stays recorded in the VAO.
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.indexCount = int32(len(b.Indices))
	r.log.Debug("geometry uploaded",
		zap.Int("vertices", b.Len()),
		zap.Int("triangles", b.TriangleCount()),
		zap.Int("floats", layout.Floats),
	)
	return nil
}

// UploadTexture replaces the mesh texture. Rows are uploaded top first, so
// texture coordinate v=0 samples the top of img; flattening with FlipV
// maps bottom-origin coordinates onto it.
func (r *Renderer) UploadTexture(img *image.RGBA) {
	if r.texture == 0 {
		gl.GenTextures(1, &r.texture)
	}
	size := img.Rect.Size()

	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(size.X), int32(size.Y), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.log.Debug("texture uploaded", zap.Int("width", size.X), zap.Int("height", size.Y))
}

// UploadLines replaces the overlay with line segments given as [x, y, z]
// vertex pairs. An empty slice clears the overlay.
func (r *Renderer) UploadLines(vertices []float32) {
	r.lineVertices = int32(len(vertices) / 3)
	if r.lineVertices == 0 {
		return
	}

	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.DYNAMIC_DRAW)
	attrib(positionLocation, 3, 0)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// attrib points a tightly packed float attribute at offset floats into the
// bound array buffer.
func attrib(location uint32, size int32, offset int) {
	gl.VertexAttribPointer(location, size, gl.FLOAT, false, 0, unsafe.Pointer(uintptr(offset*4)))
	gl.EnableVertexAttribArray(location)
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetChecker switches the procedural checkerboard on or off.
func (r *Renderer) SetChecker(on bool) {
	r.config.Checker = on
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders the uploaded geometry with the given transforms.
func (r *Renderer) Draw(model, view, projection math.Mat4, eye math.Vec3) {
	if r.indexCount == 0 {
		return
	}

	r.program.Use()
	r.program.SetMat4("uModel", model)
	r.program.SetMat4("uView", view)
	r.program.SetMat4("uProjection", projection)
	r.program.SetVec3("uEye", eye)
	r.program.SetBool("uChecker", r.config.Checker)
	r.program.SetVec3("uLightDir", r.config.LightDir.Normalize())
	r.program.SetBool("uTextured", r.texture != 0)
	if r.texture != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.texture)
		gl.Uniform1i(r.program.Uniform("uTexture"), 0)
	}

	gl.BindVertexArray(r.vao)
	gl.DrawElements(gl.TRIANGLES, r.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	if r.lineVertices > 0 {
		r.lineProgram.Use()
		r.lineProgram.SetMat4("uMVP", projection.Mul(view).Mul(model))
		r.lineProgram.SetVec3("uColor", math.Vec3{X: 1, Y: 0.8, Z: 0.2})
		gl.BindVertexArray(r.lineVAO)
		gl.DrawArrays(gl.LINES, 0, r.lineVertices)
		gl.BindVertexArray(0)
	}
}

// ReadPixels returns the current framebuffer as RGBA bytes, bottom row
// first, along with its size.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.UseProgram(0)
}

// Close releases GL resources.
func (r *Renderer) Close() {
	r.log.Debug("closing renderer")
	if r.texture != 0 {
		gl.DeleteTextures(1, &r.texture)
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.lineVBO != 0 {
		gl.DeleteBuffers(1, &r.lineVBO)
	}
	if r.lineVAO != 0 {
		gl.DeleteVertexArrays(1, &r.lineVAO)
	}
	if r.program != nil {
		r.program.Delete()
	}
	if r.lineProgram != nil {
		r.lineProgram.Delete()
	}
}
