// Package manifold holds indexed triangle meshes and the precondition
// checks, format adapters and quality metrics shared by the decimation
// engine in package simplify and the file codecs in package render.
package manifold

import (
	"math"

	"github.com/jamiedonnelly-px/manifold/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle mesh. Faces hold indices into Vertices.
type Mesh struct {
	Vertices []r3.Vec
	Faces    [][3]int
}

// Triangle is a triangle given by its corner positions.
type Triangle [3]r3.Vec

// Normal returns the unit normal of the triangle following the right hand rule.
func (t Triangle) Normal() r3.Vec {
	return r3.Unit(d3.Cross(t[0], t[1], t[2]))
}

// Area returns the triangle's area.
func (t Triangle) Area() float64 {
	return 0.5 * r3.Norm(d3.Cross(t[0], t[1], t[2]))
}

// Degenerate returns true if two corners of the triangle lie within tol of each other.
func (t Triangle) Degenerate(tol float64) bool {
	return d3.EqualWithin(t[0], t[1], tol) ||
		d3.EqualWithin(t[1], t[2], tol) ||
		d3.EqualWithin(t[2], t[0], tol)
}

// Clone returns a deep copy of m.
func (m Mesh) Clone() Mesh {
	c := Mesh{
		Vertices: make([]r3.Vec, len(m.Vertices)),
		Faces:    make([][3]int, len(m.Faces)),
	}
	copy(c.Vertices, m.Vertices)
	copy(c.Faces, m.Faces)
	return c
}

// Triangles returns the triangle soup of m. Faces referencing
// vertices out of range panic.
func (m Mesh) Triangles() []Triangle {
	tris := make([]Triangle, len(m.Faces))
	for i, f := range m.Faces {
		tris[i] = Triangle{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
	}
	return tris
}

// Bounds returns the bounding box of the mesh vertices.
func (m Mesh) Bounds() r3.Box {
	if len(m.Vertices) == 0 {
		return r3.Box{}
	}
	return r3.Box(d3.Set(m.Vertices).Bounds())
}

// Edges returns the unique undirected edges of m in canonical (sorted) form,
// in order of first appearance.
func (m Mesh) Edges() [][2]int {
	seen := make(map[[2]int]struct{}, len(m.Faces)*3/2)
	edges := make([][2]int, 0, len(m.Faces)*3/2)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			e := EdgeKey(f[i], f[(i+1)%3])
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	return edges
}

// EulerCharacteristic returns V - E + F. Closed genus-0 surfaces yield 2.
// Only vertices referenced by a face are counted.
func (m Mesh) EulerCharacteristic() int {
	used := make([]bool, len(m.Vertices))
	nv := 0
	for _, f := range m.Faces {
		for _, v := range f {
			if !used[v] {
				used[v] = true
				nv++
			}
		}
	}
	return nv - len(m.Edges()) + len(m.Faces)
}

// Valences returns the number of faces incident to each vertex.
func (m Mesh) Valences() []int {
	val := make([]int, len(m.Vertices))
	for _, f := range m.Faces {
		for _, v := range f {
			val[v]++
		}
	}
	return val
}

// Area returns the total surface area of the mesh.
func (m Mesh) Area() (area float64) {
	for _, f := range m.Faces {
		area += Triangle{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}.Area()
	}
	return area
}

// Volume returns the enclosed volume of a closed, consistently oriented mesh
// using signed tetrahedron volumes. The sign depends on face winding.
func (m Mesh) Volume() (vol float64) {
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		vol += r3.Dot(a, r3.Cross(b, c))
	}
	return vol / 6
}

// EdgeKey returns the canonical key of the edge between a and b.
func EdgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// edgeRange2 returns the squared length of the shortest and longest edge of the triangles.
func edgeRange2(tris []Triangle) (min2, max2 float64) {
	min2, max2 = math.MaxFloat64, -math.MaxFloat64
	for _, t := range tris {
		for j := range t {
			side2 := r3.Norm2(r3.Sub(t[(j+1)%3], t[j]))
			min2 = math.Min(min2, side2)
			max2 = math.Max(max2, side2)
		}
	}
	return min2, max2
}
