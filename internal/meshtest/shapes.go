// Package meshtest builds small closed meshes used by the package tests.
package meshtest

import (
	"math"

	"github.com/jamiedonnelly-px/manifold"
	"gonum.org/v1/gonum/spatial/r3"
)

// Octahedron returns the regular octahedron with vertices on the unit axes.
func Octahedron() manifold.Mesh {
	return manifold.Mesh{
		Vertices: []r3.Vec{
			{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
		},
		Faces: [][3]int{
			{0, 2, 4}, {1, 4, 2}, {0, 4, 3}, {1, 3, 4},
			{0, 5, 2}, {1, 2, 5}, {0, 3, 5}, {1, 5, 3},
		},
	}
}

// Cube returns the unit cube [0,1]^3 split into 12 outward facing triangles.
func Cube() manifold.Mesh {
	return manifold.Mesh{
		Vertices: []r3.Vec{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
		},
		Faces: [][3]int{
			{0, 2, 1}, {0, 3, 2}, // z=0
			{4, 5, 6}, {4, 6, 7}, // z=1
			{0, 1, 5}, {0, 5, 4}, // y=0
			{3, 7, 6}, {3, 6, 2}, // y=1
			{0, 4, 7}, {0, 7, 3}, // x=0
			{1, 2, 6}, {1, 6, 5}, // x=1
		},
	}
}

// SubdividedCube returns the unit cube with every side split into an n by n
// grid of squares, two triangles each. Vertices inside a side lie on a single
// plane, so their quadrics are rank deficient.
func SubdividedCube(n int) manifold.Mesh {
	var m manifold.Mesh
	index := make(map[[3]int]int)
	vert := func(c [3]int) int {
		if i, ok := index[c]; ok {
			return i
		}
		index[c] = len(m.Vertices)
		m.Vertices = append(m.Vertices, r3.Vec{
			X: float64(c[0]) / float64(n),
			Y: float64(c[1]) / float64(n),
			Z: float64(c[2]) / float64(n),
		})
		return index[c]
	}
	for axis := 0; axis < 3; axis++ {
		u, v := (axis+1)%3, (axis+2)%3
		for _, side := range [2]int{0, n} {
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					corner := func(di, dj int) int {
						var c [3]int
						c[axis], c[u], c[v] = side, i+di, j+dj
						return vert(c)
					}
					a, b, c, d := corner(0, 0), corner(1, 0), corner(1, 1), corner(0, 1)
					if side == 0 {
						m.Faces = append(m.Faces, [3]int{a, c, b}, [3]int{a, d, c})
					} else {
						m.Faces = append(m.Faces, [3]int{a, b, c}, [3]int{a, c, d})
					}
				}
			}
		}
	}
	return m
}

// Icosphere returns a unit sphere made by subdividing an icosahedron.
// Level 0 is the icosahedron (12 vertices); every level quadruples the face count.
func Icosphere(level int) manifold.Mesh {
	t := (1 + math.Sqrt(5)) / 2
	m := manifold.Mesh{
		Vertices: []r3.Vec{
			{X: -1, Y: t, Z: 0}, {X: 1, Y: t, Z: 0}, {X: -1, Y: -t, Z: 0}, {X: 1, Y: -t, Z: 0},
			{X: 0, Y: -1, Z: t}, {X: 0, Y: 1, Z: t}, {X: 0, Y: -1, Z: -t}, {X: 0, Y: 1, Z: -t},
			{X: t, Y: 0, Z: -1}, {X: t, Y: 0, Z: 1}, {X: -t, Y: 0, Z: -1}, {X: -t, Y: 0, Z: 1},
		},
		Faces: [][3]int{
			{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
			{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
			{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
			{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
		},
	}
	for i := range m.Vertices {
		m.Vertices[i] = r3.Unit(m.Vertices[i])
	}
	for ; level > 0; level-- {
		mid := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := manifold.EdgeKey(a, b)
			if idx, ok := mid[key]; ok {
				return idx
			}
			idx := len(m.Vertices)
			m.Vertices = append(m.Vertices, r3.Unit(r3.Add(m.Vertices[a], m.Vertices[b])))
			mid[key] = idx
			return idx
		}
		faces := make([][3]int, 0, 4*len(m.Faces))
		for _, f := range m.Faces {
			a := midpoint(f[0], f[1])
			b := midpoint(f[1], f[2])
			c := midpoint(f[2], f[0])
			faces = append(faces,
				[3]int{f[0], a, c},
				[3]int{f[1], b, a},
				[3]int{f[2], c, b},
				[3]int{a, b, c},
			)
		}
		m.Faces = faces
	}
	return m
}

// Torus returns a genus-1 torus with nu segments around the main axis (Z)
// and nv segments around the tube. Both must be at least 3.
func Torus(nu, nv int, R, r float64) manifold.Mesh {
	var m manifold.Mesh
	for i := 0; i < nu; i++ {
		u := 2 * math.Pi * float64(i) / float64(nu)
		for j := 0; j < nv; j++ {
			v := 2 * math.Pi * float64(j) / float64(nv)
			m.Vertices = append(m.Vertices, r3.Vec{
				X: (R + r*math.Cos(v)) * math.Cos(u),
				Y: (R + r*math.Cos(v)) * math.Sin(u),
				Z: r * math.Sin(v),
			})
		}
	}
	idx := func(i, j int) int { return (i%nu)*nv + j%nv }
	for i := 0; i < nu; i++ {
		for j := 0; j < nv; j++ {
			a, b, c, d := idx(i, j), idx(i+1, j), idx(i+1, j+1), idx(i, j+1)
			m.Faces = append(m.Faces, [3]int{a, b, c}, [3]int{a, c, d})
		}
	}
	return m
}

// RemoveFace returns a copy of m without face i, opening a hole with three
// boundary edges.
func RemoveFace(m manifold.Mesh, i int) manifold.Mesh {
	c := m.Clone()
	c.Faces = append(c.Faces[:i], c.Faces[i+1:]...)
	return c
}
