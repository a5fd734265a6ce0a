// Package model imports glTF scenes into flat mesh, material and node data
// that the renderer can upload.
package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/terrainview/pkg/geom"
)

// NoMaterial marks a mesh without an assigned material.
const NoMaterial = -1

// Mesh is one triangle list. Positions, Normals and TexCoords have equal
// length; TexCoords use the OpenGL origin (v = 0 at the bottom of the image).
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Indices   []uint32
	Material  int
}

// Extents returns the mesh bounding box in mesh space.
func (m *Mesh) Extents() (geom.Bounds, bool) {
	return geom.Extents(m.Positions)
}

// TriangleCount returns len(Indices)/3.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Material holds the shading parameters of a mesh. Texture fields carry the
// file name as referenced by the scene file, or "" when absent.
type Material struct {
	Name            string
	DiffuseTexture  string
	SpecularTexture string
	Diffuse         mgl32.Vec4
	Ambient         mgl32.Vec3
	Emissive        mgl32.Vec3
	Specular        mgl32.Vec3
	Shininess       float32
}

// Node is an entry of the scene hierarchy. Nodes live in Model.Nodes and
// refer to each other by index; Parent is -1 for roots.
type Node struct {
	Name     string
	Parent   int
	Children []int
	Meshes   []int
	Local    mgl32.Mat4
}

// Model is an imported scene.
type Model struct {
	Name      string
	Meshes    []Mesh
	Materials []Material
	Nodes     []Node
}

// Draw pairs a mesh with its model-space transform.
type Draw struct {
	Mesh      int
	Transform mgl32.Mat4
}

// WorldTransform returns the model-space transform of node i, composed
// from the root down.
func (m *Model) WorldTransform(i int) mgl32.Mat4 {
	xform := mgl32.Ident4()
	for i >= 0 {
		xform = m.Nodes[i].Local.Mul4(xform)
		i = m.Nodes[i].Parent
	}
	return xform
}

// Draws lists every mesh reference in the hierarchy in node order.
func (m *Model) Draws() []Draw {
	var draws []Draw
	for i := range m.Nodes {
		if len(m.Nodes[i].Meshes) == 0 {
			continue
		}
		xform := m.WorldTransform(i)
		for _, mesh := range m.Nodes[i].Meshes {
			draws = append(draws, Draw{Mesh: mesh, Transform: xform})
		}
	}
	return draws
}

// LocalExtents returns the union of all mesh extents in mesh space.
func (m *Model) LocalExtents() (geom.Bounds, bool) {
	var (
		out geom.Bounds
		ok  bool
	)
	for i := range m.Meshes {
		b, has := m.Meshes[i].Extents()
		if !has {
			continue
		}
		if !ok {
			out, ok = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, ok
}

// MaterialOf returns the material of mesh i, or nil.
func (m *Model) MaterialOf(i int) *Material {
	idx := m.Meshes[i].Material
	if idx < 0 || idx >= len(m.Materials) {
		return nil
	}
	return &m.Materials[idx]
}

func (m *Model) String() string {
	var verts, tris int
	for i := range m.Meshes {
		verts += len(m.Meshes[i].Positions)
		tris += m.Meshes[i].TriangleCount()
	}
	return fmt.Sprintf("model %s: %d meshes, %d vertices, %d triangles, %d materials, %d nodes",
		m.Name, len(m.Meshes), verts, tris, len(m.Materials), len(m.Nodes))
}
