// Package render reads and writes meshes in STL and Wavefront OBJ
// format and draws previews and diagnostic plots of them.
package render

import (
	"io"

	"github.com/jamiedonnelly-px/manifold"
)

// Renderer streams triangles. ReadTriangles fills t and returns io.EOF
// once no triangles remain.
type Renderer interface {
	ReadTriangles(t []manifold.Triangle) (int, error)
}

// MeshRenderer streams the faces of an indexed mesh as triangles.
type MeshRenderer struct {
	m    manifold.Mesh
	next int
}

var _ Renderer = (*MeshRenderer)(nil)

// NewMeshRenderer returns a Renderer over the faces of m.
func NewMeshRenderer(m manifold.Mesh) *MeshRenderer {
	return &MeshRenderer{m: m}
}

// ReadTriangles implements the Renderer interface.
func (r *MeshRenderer) ReadTriangles(t []manifold.Triangle) (n int, err error) {
	if r.next >= len(r.m.Faces) {
		return 0, io.EOF
	}
	for n < len(t) && r.next < len(r.m.Faces) {
		f := r.m.Faces[r.next]
		t[n] = manifold.Triangle{r.m.Vertices[f[0]], r.m.Vertices[f[1]], r.m.Vertices[f[2]]}
		n++
		r.next++
	}
	return n, nil
}
