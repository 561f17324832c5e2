package model

import (
	"fmt"
	"image"
	"path/filepath"

	"asset-previewer/internal/scene"
	"asset-previewer/internal/texture"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// defaultColor is used for primitives without a material.
var defaultColor = colorful.Color{R: 160 / 255.0, G: 160 / 255.0, B: 170 / 255.0}

type gltfLoader struct {
	doc      *gltf.Document
	dir      string
	textures texture.Resolver
	logger   *log.Logger
	images   map[int]*image.NRGBA
	meshes   []scene.Mesh
}

func loadGLTF(path string, textures texture.Resolver, logger *log.Logger) (*scene.Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc, filepath.Dir(path), textures, logger)
}

// fromDocument flattens every triangle primitive reachable from the default
// scene into model space.
func fromDocument(doc *gltf.Document, dir string, textures texture.Resolver, logger *log.Logger) (*scene.Model, error) {
	l := &gltfLoader{
		doc:      doc,
		dir:      dir,
		textures: textures,
		logger:   logger,
		images:   make(map[int]*image.NRGBA),
	}

	for _, root := range l.rootNodes() {
		if err := l.walk(root, mgl64.Ident4(), 0); err != nil {
			return nil, err
		}
	}
	return &scene.Model{Meshes: l.meshes}, nil
}

func (l *gltfLoader) rootNodes() []int {
	doc := l.doc
	if len(doc.Scenes) > 0 {
		si := 0
		if doc.Scene != nil {
			si = int(*doc.Scene)
		}
		if si < len(doc.Scenes) {
			roots := make([]int, 0, len(doc.Scenes[si].Nodes))
			for _, n := range doc.Scenes[si].Nodes {
				roots = append(roots, int(n))
			}
			return roots
		}
	}

	// No scene: treat nodes nobody references as roots.
	child := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			child[int(c)] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// maxDepth guards against cyclic node graphs in malformed files.
const maxDepth = 64

func (l *gltfLoader) walk(idx int, parent mgl64.Mat4, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("node hierarchy deeper than %d", maxDepth)
	}
	if idx < 0 || idx >= len(l.doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	node := l.doc.Nodes[idx]
	world := parent.Mul4(nodeMatrix(node))

	if node.Mesh != nil {
		mi := int(*node.Mesh)
		if mi >= len(l.doc.Meshes) {
			return fmt.Errorf("mesh index %d out of range", mi)
		}
		if err := l.addMesh(l.doc.Meshes[mi], world); err != nil {
			return err
		}
	}
	for _, c := range node.Children {
		if err := l.walk(int(c), world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func nodeMatrix(n *gltf.Node) mgl64.Mat4 {
	var m mgl64.Mat4
	raw := n.MatrixOrDefault()
	for i := range raw {
		m[i] = float64(raw[i])
	}
	if m != mgl64.Ident4() {
		return m
	}

	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	q := mgl64.Quat{W: float64(r[3]), V: mgl64.Vec3{float64(r[0]), float64(r[1]), float64(r[2])}}
	return mgl64.Translate3D(float64(t[0]), float64(t[1]), float64(t[2])).
		Mul4(q.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(float64(s[0]), float64(s[1]), float64(s[2])))
}

func (l *gltfLoader) addMesh(mesh *gltf.Mesh, world mgl64.Mat4) error {
	for pi, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			l.logger.Debug("skipping non-triangle primitive", "mesh", mesh.Name, "primitive", pi)
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(l.doc, l.doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("mesh %q: positions: %w", mesh.Name, err)
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(l.doc, l.doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("mesh %q: indices: %w", mesh.Name, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}
		indices = indices[:len(indices)-len(indices)%3]

		var uvs [][2]float32
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = modeler.ReadTextureCoord(l.doc, l.doc.Accessors[uvIdx], nil)
			if err != nil {
				l.logger.Warn("ignoring unreadable texture coordinates", "mesh", mesh.Name, "err", err)
				uvs = nil
			}
		}
		if len(uvs) != len(positions) {
			uvs = nil
		}

		verts := make([][3]float32, len(positions))
		for i, p := range positions {
			w := mgl64.TransformCoordinate(mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}, world)
			verts[i] = [3]float32{float32(w[0]), float32(w[1]), float32(w[2])}
		}

		out := scene.Mesh{
			Name:      mesh.Name,
			Verts:     verts,
			UVs:       uvs,
			Indices:   indices,
			BaseColor: defaultColor,
			Alpha:     1,
		}
		if prim.Material != nil {
			l.applyMaterial(&out, int(*prim.Material))
		}
		if out.Texture == nil {
			out.UVs = nil
		}
		l.meshes = append(l.meshes, out)
	}
	return nil
}

func (l *gltfLoader) applyMaterial(out *scene.Mesh, mi int) {
	if mi < 0 || mi >= len(l.doc.Materials) {
		return
	}
	pbr := l.doc.Materials[mi].PBRMetallicRoughness
	if pbr == nil {
		return
	}
	if pbr.BaseColorFactor != nil {
		f := *pbr.BaseColorFactor
		out.BaseColor = colorful.Color{R: float64(f[0]), G: float64(f[1]), B: float64(f[2])}
		out.Alpha = float64(f[3])
	}
	if pbr.BaseColorTexture != nil {
		out.Texture = l.textureImage(int(pbr.BaseColorTexture.Index))
	}
}

func (l *gltfLoader) textureImage(ti int) *image.NRGBA {
	if ti < 0 || ti >= len(l.doc.Textures) || l.doc.Textures[ti].Source == nil {
		return nil
	}
	ii := int(*l.doc.Textures[ti].Source)
	if img, ok := l.images[ii]; ok {
		return img
	}
	img, err := l.decodeImage(ii)
	if err != nil {
		l.logger.Warn("texture unavailable, using base color", "image", ii, "err", err)
	}
	l.images[ii] = img
	return img
}

func (l *gltfLoader) decodeImage(ii int) (*image.NRGBA, error) {
	if ii < 0 || ii >= len(l.doc.Images) {
		return nil, fmt.Errorf("image index %d out of range", ii)
	}
	img := l.doc.Images[ii]

	switch {
	case img.BufferView != nil:
		bv := l.doc.BufferViews[*img.BufferView]
		data := l.doc.Buffers[bv.Buffer].Data
		end := bv.ByteOffset + bv.ByteLength
		if int(end) > len(data) {
			return nil, fmt.Errorf("image buffer view out of range")
		}
		return texture.Decode(data[bv.ByteOffset:end], img.MimeType)
	case img.IsEmbeddedResource():
		data, err := img.MarshalData()
		if err != nil {
			return nil, err
		}
		return texture.Decode(data, img.MimeType)
	case img.URI != "":
		if l.textures == nil {
			return nil, fmt.Errorf("no texture resolver for %q", img.URI)
		}
		path := img.URI
		if !filepath.IsAbs(path) {
			path = filepath.Join(l.dir, filepath.FromSlash(path))
		}
		if tex := l.textures.Resolve(path); tex != nil {
			return tex, nil
		}
		return nil, fmt.Errorf("texture %q not found", img.URI)
	}
	return nil, fmt.Errorf("image %d has no data", ii)
}
