// Package gltfwire loads glTF meshes as edge lists and draws them through
// the debug renderer.
package gltfwire

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/go-theft-auto/debugdraw"
)

// ErrNoPositions is returned for a triangle primitive without POSITION data.
var ErrNoPositions = errors.New("gltfwire: primitive has no POSITION attribute")

// Edge is a pair of indices into Mesh.Positions.
type Edge [2]uint32

// Mesh is the unique edge set of one glTF mesh.
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Edges     []Edge
}

// Model is every mesh of a glTF document.
type Model struct {
	Meshes []Mesh
}

// Load reads a .gltf or .glb file.
func Load(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf %s: %w", path, err)
	}
	return FromDocument(doc)
}

// Decode reads a self-contained glTF or GLB stream.
func Decode(r io.Reader) (*Model, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode gltf: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument extracts edges from every triangle primitive in doc.
// Primitives of other topologies are skipped.
func FromDocument(doc *gltf.Document) (*Model, error) {
	model := &Model{Meshes: make([]Mesh, 0, len(doc.Meshes))}

	for _, m := range doc.Meshes {
		mesh := Mesh{Name: m.Name}
		seen := make(map[Edge]struct{})

		for _, p := range m.Primitives {
			if p.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := p.Attributes[gltf.POSITION]
			if !ok {
				return nil, fmt.Errorf("mesh %q: %w", m.Name, ErrNoPositions)
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q positions: %w", m.Name, err)
			}

			var indices []uint32
			if p.Indices != nil {
				indices, err = modeler.ReadIndices(doc, doc.Accessors[*p.Indices], nil)
				if err != nil {
					return nil, fmt.Errorf("mesh %q indices: %w", m.Name, err)
				}
			} else {
				indices = make([]uint32, len(positions))
				for i := range indices {
					indices[i] = uint32(i)
				}
			}

			base := uint32(len(mesh.Positions))
			for _, pos := range positions {
				mesh.Positions = append(mesh.Positions, mgl32.Vec3{pos[0], pos[1], pos[2]})
			}
			for i := 0; i+2 < len(indices); i += 3 {
				a, b, c := base+indices[i], base+indices[i+1], base+indices[i+2]
				mesh.addEdge(seen, a, b)
				mesh.addEdge(seen, b, c)
				mesh.addEdge(seen, c, a)
			}
		}

		model.Meshes = append(model.Meshes, mesh)
	}
	return model, nil
}

func (m *Mesh) addEdge(seen map[Edge]struct{}, a, b uint32) {
	if a == b {
		return
	}
	if a > b {
		a, b = b, a
	}
	e := Edge{a, b}
	if _, ok := seen[e]; ok {
		return
	}
	seen[e] = struct{}{}
	m.Edges = append(m.Edges, e)
}

// EdgeCount returns the total number of edges in the model.
func (m *Model) EdgeCount() int {
	n := 0
	for _, mesh := range m.Meshes {
		n += len(mesh.Edges)
	}
	return n
}

// Draw submits every edge as a 3D line, transformed by transform.
func (m *Model) Draw(r *debugdraw.Renderer, transform mgl32.Mat4, color mgl32.Vec4, opts ...debugdraw.Option) {
	for i := range m.Meshes {
		m.Meshes[i].Draw(r, transform, color, opts...)
	}
}

// Draw submits every edge of the mesh as a 3D line.
func (m *Mesh) Draw(r *debugdraw.Renderer, transform mgl32.Mat4, color mgl32.Vec4, opts ...debugdraw.Option) {
	world := make([]mgl32.Vec3, len(m.Positions))
	for i, p := range m.Positions {
		world[i] = mgl32.TransformCoordinate(p, transform)
	}
	for _, e := range m.Edges {
		r.Line3D(world[e[0]], world[e[1]], color, opts...)
	}
}
