package model

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/terrainview/internal/assets"
	"github.com/Faultbox/terrainview/internal/logger"
	"github.com/Faultbox/terrainview/pkg/geom"
)

// Load imports a glTF or GLB file.
func Load(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("model %s: %w", path, assets.ErrNotFound)
		}
		return nil, fmt.Errorf("model %s: %v: %w", path, err, assets.ErrUnsupported)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m, err := FromDocument(doc, name)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return m, nil
}

// LoadFrom imports a model located through an asset manager.
func LoadFrom(am *assets.Manager, path string) (*Model, error) {
	resolved, err := am.Resolve(path)
	if err != nil {
		return nil, err
	}
	return Load(resolved)
}

// FromDocument converts a decoded glTF document. Only triangle-list
// primitives are kept; a document without any is an error.
func FromDocument(doc *gltf.Document, name string) (*Model, error) {
	log := logger.Named("model").With(zap.String("model", name))
	reportIgnored(log, doc)

	m := &Model{Name: name}

	for i, mat := range doc.Materials {
		m.Materials = append(m.Materials, convertMaterial(doc, mat, i))
	}

	// glTF meshes hold several primitives; each becomes one Mesh.
	meshMap := make([][]int, len(doc.Meshes))
	for i, gm := range doc.Meshes {
		for j, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				log.Debug("skipping non-triangle primitive",
					zap.Int("mesh", i), zap.Int("primitive", j), zap.Int("mode", int(prim.Mode)))
				continue
			}

			mesh, err := convertPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", i, j, err)
			}
			mesh.Name = gm.Name
			if len(gm.Primitives) > 1 {
				mesh.Name = fmt.Sprintf("%s.%d", gm.Name, j)
			}
			if mesh.Material >= len(m.Materials) {
				mesh.Material = NoMaterial
			}

			meshMap[i] = append(meshMap[i], len(m.Meshes))
			m.Meshes = append(m.Meshes, mesh)
		}
	}

	if len(m.Meshes) == 0 {
		return nil, errors.New("scene has no triangle meshes")
	}

	b := &nodeBuilder{doc: doc, meshMap: meshMap, model: m, seen: make(map[int]bool)}
	for _, root := range rootNodes(doc) {
		b.add(root, -1)
	}

	// Meshes not referenced by any node still render at the origin.
	if len(m.Nodes) == 0 {
		root := Node{Name: name, Parent: -1, Local: mgl32.Ident4()}
		for i := range m.Meshes {
			root.Meshes = append(root.Meshes, i)
		}
		m.Nodes = append(m.Nodes, root)
	}

	log.Debug("model imported",
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("materials", len(m.Materials)),
		zap.Int("nodes", len(m.Nodes)))

	return m, nil
}

func convertPrimitive(doc *gltf.Document, prim *gltf.Primitive) (Mesh, error) {
	mesh := Mesh{Material: NoMaterial}
	if prim.Material != nil {
		mesh.Material = int(*prim.Material)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return mesh, errors.New("primitive has no positions")
	}
	acc, err := accessor(doc, int(posIdx))
	if err != nil {
		return mesh, err
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return mesh, fmt.Errorf("read positions: %w", err)
	}
	mesh.Positions = make([]mgl32.Vec3, len(positions))
	for i, p := range positions {
		mesh.Positions[i] = mgl32.Vec3(p)
	}

	if prim.Indices != nil {
		acc, err := accessor(doc, int(*prim.Indices))
		if err != nil {
			return mesh, err
		}
		mesh.Indices, err = modeler.ReadIndices(doc, acc, nil)
		if err != nil {
			return mesh, fmt.Errorf("read indices: %w", err)
		}
	} else {
		mesh.Indices = make([]uint32, len(mesh.Positions))
		for i := range mesh.Indices {
			mesh.Indices[i] = uint32(i)
		}
	}
	mesh.Indices = mesh.Indices[:len(mesh.Indices)/3*3]
	for _, idx := range mesh.Indices {
		if int(idx) >= len(mesh.Positions) {
			return mesh, fmt.Errorf("index %d out of range (%d vertices)", idx, len(mesh.Positions))
		}
	}

	if nrmIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acc, err := accessor(doc, int(nrmIdx))
		if err != nil {
			return mesh, err
		}
		normals, err := modeler.ReadNormal(doc, acc, nil)
		if err != nil {
			return mesh, fmt.Errorf("read normals: %w", err)
		}
		if len(normals) == len(mesh.Positions) {
			mesh.Normals = make([]mgl32.Vec3, len(normals))
			for i, n := range normals {
				mesh.Normals[i] = mgl32.Vec3(n)
			}
		}
	}
	if mesh.Normals == nil {
		mesh.Normals = geom.SmoothNormals(mesh.Positions, mesh.Indices)
	}

	mesh.TexCoords = make([]mgl32.Vec2, len(mesh.Positions))
	if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		acc, err := accessor(doc, int(uvIdx))
		if err != nil {
			return mesh, err
		}
		uvs, err := modeler.ReadTextureCoord(doc, acc, nil)
		if err != nil {
			return mesh, fmt.Errorf("read texcoords: %w", err)
		}
		for i := 0; i < len(uvs) && i < len(mesh.TexCoords); i++ {
			// glTF puts v = 0 at the top of the image.
			mesh.TexCoords[i] = mgl32.Vec2{uvs[i][0], 1 - uvs[i][1]}
		}
	}

	return mesh, nil
}

func accessor(doc *gltf.Document, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", i)
	}
	return doc.Accessors[i], nil
}

func convertMaterial(doc *gltf.Document, mat *gltf.Material, i int) Material {
	out := Material{
		Name:      mat.Name,
		Diffuse:   mgl32.Vec4{1, 1, 1, 1},
		Emissive:  mgl32.Vec3(mat.EmissiveFactor),
		Shininess: 32,
	}
	if out.Name == "" {
		out.Name = fmt.Sprintf("material%d", i)
	}

	pbr := mat.PBRMetallicRoughness
	if pbr == nil {
		return out
	}

	out.Diffuse = mgl32.Vec4(pbr.BaseColorFactorOrDefault())
	out.Ambient = out.Diffuse.Vec3().Mul(0.2)

	// Dielectrics reflect about 4% white; metals tint by base colour.
	metallic := pbr.MetallicFactorOrDefault()
	roughness := pbr.RoughnessFactorOrDefault()
	dielectric := mgl32.Vec3{0.04, 0.04, 0.04}
	out.Specular = dielectric.Mul(1 - metallic).Add(out.Diffuse.Vec3().Mul(metallic))
	out.Shininess = 2 + (1-roughness)*(1-roughness)*126

	if pbr.BaseColorTexture != nil {
		out.DiffuseTexture = textureFile(doc, int(pbr.BaseColorTexture.Index))
	}
	if pbr.MetallicRoughnessTexture != nil {
		out.SpecularTexture = textureFile(doc, int(pbr.MetallicRoughnessTexture.Index))
	}

	return out
}

// textureFile resolves a texture index to the image file it references.
// Embedded images report their name, or "" when unnamed.
func textureFile(doc *gltf.Document, texIdx int) string {
	if texIdx < 0 || texIdx >= len(doc.Textures) || doc.Textures[texIdx].Source == nil {
		return ""
	}
	src := int(*doc.Textures[texIdx].Source)
	if src < 0 || src >= len(doc.Images) {
		return ""
	}

	img := doc.Images[src]
	if img.URI == "" || strings.HasPrefix(img.URI, "data:") {
		return img.Name
	}
	if unescaped, err := url.PathUnescape(img.URI); err == nil {
		return unescaped
	}
	return img.URI
}

func rootNodes(doc *gltf.Document) []int {
	var scene *gltf.Scene
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		scene = doc.Scenes[*doc.Scene]
	} else if len(doc.Scenes) > 0 {
		scene = doc.Scenes[0]
	}

	var roots []int
	if scene != nil {
		for _, n := range scene.Nodes {
			roots = append(roots, int(n))
		}
		return roots
	}

	// No scene: every node without a parent is a root.
	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if int(c) < len(isChild) {
				isChild[c] = true
			}
		}
	}
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

type nodeBuilder struct {
	doc     *gltf.Document
	meshMap [][]int
	model   *Model
	seen    map[int]bool
}

func (b *nodeBuilder) add(src, parent int) {
	if src < 0 || src >= len(b.doc.Nodes) || b.seen[src] {
		return
	}
	b.seen[src] = true

	gn := b.doc.Nodes[src]
	node := Node{
		Name:   gn.Name,
		Parent: parent,
		Local:  localTransform(gn),
	}
	if gn.Mesh != nil && int(*gn.Mesh) < len(b.meshMap) {
		node.Meshes = append(node.Meshes, b.meshMap[*gn.Mesh]...)
	}

	idx := len(b.model.Nodes)
	b.model.Nodes = append(b.model.Nodes, node)
	if parent >= 0 {
		b.model.Nodes[parent].Children = append(b.model.Nodes[parent].Children, idx)
	}

	for _, c := range gn.Children {
		b.add(int(c), idx)
	}
}

func localTransform(n *gltf.Node) mgl32.Mat4 {
	if m := mgl32.Mat4(n.MatrixOrDefault()); m != mgl32.Ident4() {
		return m
	}

	t := n.Translation
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()

	rot := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize()
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(rot.Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

func reportIgnored(log *zap.Logger, doc *gltf.Document) {
	if n := len(doc.Cameras); n > 0 {
		log.Debug("ignoring cameras", zap.Int("count", n))
	}
	if n := len(doc.Skins); n > 0 {
		log.Debug("ignoring skins", zap.Int("count", n))
	}
	if n := len(doc.Animations); n > 0 {
		log.Debug("ignoring animations", zap.Int("count", n))
	}
	if n := len(doc.ExtensionsUsed); n > 0 {
		log.Debug("ignoring extensions", zap.Strings("extensions", doc.ExtensionsUsed))
	}

	for _, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			for _, attr := range []string{gltf.TEXCOORD_1, gltf.COLOR_0, gltf.TANGENT, gltf.JOINTS_0} {
				if _, ok := prim.Attributes[attr]; ok {
					log.Debug("ignoring vertex attribute", zap.String("mesh", gm.Name), zap.String("attribute", attr))
				}
			}
		}
	}
}
