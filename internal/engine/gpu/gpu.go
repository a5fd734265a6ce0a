// Package gpu uploads geometry and textures to OpenGL.
//
// Every Builder method binds, writes and unbinds inside one call, so no GL
// binding leaks between uploads. Returned handles are immutable values.
package gpu

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/terrainview/internal/engine/texture"
)

// Attribute locations shared with the scene shader.
const (
	AttribPosition = 0
	AttribNormal   = 1
	AttribTexCoord = 2
)

// Buffer is an uploaded vertex or element buffer.
type Buffer struct {
	id     uint32
	target uint32
	count  int
}

// ID returns the GL buffer name.
func (b Buffer) ID() uint32 { return b.id }

// Count returns the number of elements uploaded.
func (b Buffer) Count() int { return b.count }

// Primitive selects how a mesh's indices are assembled.
type Primitive uint32

// Supported primitives.
const (
	Triangles Primitive = gl.TRIANGLES
	Lines     Primitive = gl.LINES
)

// Mesh is a vertex array object with its element buffer.
type Mesh struct {
	vao        uint32
	indexCount int32
	primitive  Primitive
}

// IndexCount returns the number of indices drawn.
func (m Mesh) IndexCount() int { return int(m.indexCount) }

// Draw issues one indexed draw call.
func (m Mesh) Draw() {
	if m.vao == 0 || m.indexCount == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElements(uint32(m.primitive), m.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// MeshData is the CPU side of a mesh. Normals and TexCoords may be nil;
// otherwise they must match Positions in length.
type MeshData struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Indices   []uint32
	Primitive Primitive
}

// Validate checks attribute lengths and index bounds.
func (d MeshData) Validate() error {
	if len(d.Positions) == 0 {
		return fmt.Errorf("mesh has no positions")
	}
	if len(d.Indices) == 0 {
		return fmt.Errorf("mesh has no indices")
	}
	if d.Normals != nil && len(d.Normals) != len(d.Positions) {
		return fmt.Errorf("mesh has %d normals for %d positions", len(d.Normals), len(d.Positions))
	}
	if d.TexCoords != nil && len(d.TexCoords) != len(d.Positions) {
		return fmt.Errorf("mesh has %d texcoords for %d positions", len(d.TexCoords), len(d.Positions))
	}

	per := 3
	if d.Primitive == Lines {
		per = 2
	}
	if len(d.Indices)%per != 0 {
		return fmt.Errorf("mesh index count %d is not a multiple of %d", len(d.Indices), per)
	}
	for i, idx := range d.Indices {
		if int(idx) >= len(d.Positions) {
			return fmt.Errorf("index %d at %d out of range (%d vertices)", idx, i, len(d.Positions))
		}
	}
	return nil
}

// Builder creates GPU resources and remembers them for Release.
type Builder struct {
	buffers  []uint32
	arrays   []uint32
	textures []uint32
}

// NewBuilder returns an empty builder. A GL context must be current.
func NewBuilder() *Builder {
	return &Builder{}
}

// VertexBuffer3 uploads a vec3 attribute stream.
func (b *Builder) VertexBuffer3(data []mgl32.Vec3) Buffer {
	if len(data) == 0 {
		return Buffer{target: gl.ARRAY_BUFFER}
	}
	return b.upload(gl.ARRAY_BUFFER, len(data)*3*4, unsafe.Pointer(&data[0]), len(data))
}

// VertexBuffer2 uploads a vec2 attribute stream.
func (b *Builder) VertexBuffer2(data []mgl32.Vec2) Buffer {
	if len(data) == 0 {
		return Buffer{target: gl.ARRAY_BUFFER}
	}
	return b.upload(gl.ARRAY_BUFFER, len(data)*2*4, unsafe.Pointer(&data[0]), len(data))
}

// IndexBuffer uploads 32-bit element indices.
func (b *Builder) IndexBuffer(data []uint32) Buffer {
	if len(data) == 0 {
		return Buffer{target: gl.ELEMENT_ARRAY_BUFFER}
	}
	return b.upload(gl.ELEMENT_ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), len(data))
}

func (b *Builder) upload(target uint32, size int, ptr unsafe.Pointer, count int) Buffer {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(target, id)
	gl.BufferData(target, size, ptr, gl.STATIC_DRAW)
	gl.BindBuffer(target, 0)

	b.buffers = append(b.buffers, id)
	return Buffer{id: id, target: target, count: count}
}

// Mesh uploads all attribute streams and wires them into a vertex array
// at the AttribPosition/AttribNormal/AttribTexCoord locations. Missing
// normals or texcoords are left disabled and read as constants.
func (b *Builder) Mesh(d MeshData) (Mesh, error) {
	if err := d.Validate(); err != nil {
		return Mesh{}, err
	}
	if d.Primitive == 0 {
		d.Primitive = Triangles
	}

	positions := b.VertexBuffer3(d.Positions)
	normals := b.VertexBuffer3(d.Normals)
	texCoords := b.VertexBuffer2(d.TexCoords)
	indices := b.IndexBuffer(d.Indices)

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	attach(AttribPosition, 3, positions)
	attach(AttribNormal, 3, normals)
	attach(AttribTexCoord, 2, texCoords)

	// The element binding is VAO state; it must stay bound until the VAO
	// is unbound.
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, indices.id)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	b.arrays = append(b.arrays, vao)
	return Mesh{vao: vao, indexCount: int32(indices.count), primitive: d.Primitive}, nil
}

func attach(location uint32, size int32, buf Buffer) {
	if buf.id == 0 {
		gl.DisableVertexAttribArray(location)
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.id)
	gl.VertexAttribPointerWithOffset(location, size, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(location)
}

// Release deletes every resource created by the builder.
func (b *Builder) Release() {
	if len(b.arrays) > 0 {
		gl.DeleteVertexArrays(int32(len(b.arrays)), &b.arrays[0])
	}
	if len(b.buffers) > 0 {
		gl.DeleteBuffers(int32(len(b.buffers)), &b.buffers[0])
	}
	if len(b.textures) > 0 {
		gl.DeleteTextures(int32(len(b.textures)), &b.textures[0])
	}
	b.arrays, b.buffers, b.textures = nil, nil, nil
}

// Texture is an uploaded 2D texture.
type Texture struct {
	id     uint32
	Width  int
	Height int
}

// Valid reports whether the texture was uploaded.
func (t Texture) Valid() bool { return t.id != 0 }

// Bind binds the texture to the given unit. An invalid texture unbinds.
func (t Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

// Wrap is a texture addressing mode.
type Wrap int

// Wrap modes.
const (
	WrapRepeat Wrap = iota
	WrapClamp
)

// TextureOptions controls texture upload.
type TextureOptions struct {
	Wrap    Wrap
	Mipmaps bool
}

// Texture uploads an RGBA image. Rows must be bottom-up, as texture.Image
// stores them.
func (b *Builder) Texture(img *texture.Image, opts TextureOptions) (Texture, error) {
	if img.Empty() {
		return Texture{}, fmt.Errorf("texture image is empty")
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(img.Width), int32(img.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))

	wrap := wrapMode(opts.Wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	if opts.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)

	b.textures = append(b.textures, id)
	return Texture{id: id, Width: img.Width, Height: img.Height}, nil
}

func wrapMode(w Wrap) int32 {
	if w == WrapClamp {
		return gl.CLAMP_TO_EDGE
	}
	return gl.REPEAT
}
