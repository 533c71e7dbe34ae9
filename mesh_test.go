package manifold_test

import (
	"errors"
	"math"
	"testing"

	"github.com/jamiedonnelly-px/manifold"
	"github.com/jamiedonnelly-px/manifold/internal/meshtest"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCheckManifold(t *testing.T) {
	for _, test := range []struct {
		name string
		mesh manifold.Mesh
		want error
	}{
		{"octahedron", meshtest.Octahedron(), nil},
		{"cube", meshtest.Cube(), nil},
		{"icosphere", meshtest.Icosphere(2), nil},
		{"torus", meshtest.Torus(8, 6, 2, 0.5), nil},
		{"subdivided cube", meshtest.SubdividedCube(3), nil},
		{"empty", manifold.Mesh{}, manifold.ErrEmptyMesh},
		{"open", meshtest.RemoveFace(meshtest.Cube(), 3), manifold.ErrNotManifold},
		{"out of range", manifold.Mesh{
			Vertices: make([]r3.Vec, 3),
			Faces:    [][3]int{{0, 1, 3}},
		}, manifold.ErrIndexOutOfRange},
		{"negative index", manifold.Mesh{
			Vertices: make([]r3.Vec, 3),
			Faces:    [][3]int{{0, -1, 2}},
		}, manifold.ErrIndexOutOfRange},
		{"degenerate", manifold.Mesh{
			Vertices: make([]r3.Vec, 3),
			Faces:    [][3]int{{0, 1, 1}},
		}, manifold.ErrDegenerateFace},
		{"duplicate", func() manifold.Mesh {
			m := meshtest.Cube()
			m.Faces = append(m.Faces, [3]int{2, 1, 0})
			return m
		}(), manifold.ErrDuplicateFace},
		{"two tetrahedra sharing an edge", func() manifold.Mesh {
			m := manifold.Mesh{Vertices: make([]r3.Vec, 6)}
			tet := [][3]int{{0, 1, 2}, {0, 3, 1}, {1, 3, 2}, {2, 3, 0}}
			m.Faces = append(m.Faces, tet...)
			for _, f := range tet {
				// second tetrahedron on vertices 0,1,4,5 shares edge 0-1.
				r := [3]int{}
				for i, v := range f {
					switch v {
					case 2:
						v = 4
					case 3:
						v = 5
					}
					r[i] = v
				}
				m.Faces = append(m.Faces, r)
			}
			return m
		}(), manifold.ErrNotManifold},
	} {
		t.Run(test.name, func(t *testing.T) {
			err := manifold.CheckManifold(test.mesh)
			if !errors.Is(err, test.want) {
				t.Errorf("got error %v, want %v", err, test.want)
			}
		})
	}
}

func TestEulerCharacteristic(t *testing.T) {
	for _, test := range []struct {
		name string
		mesh manifold.Mesh
		want int
	}{
		{"octahedron", meshtest.Octahedron(), 2},
		{"cube", meshtest.Cube(), 2},
		{"icosphere", meshtest.Icosphere(1), 2},
		{"torus", meshtest.Torus(6, 5, 2, 0.5), 0},
	} {
		got := test.mesh.EulerCharacteristic()
		if got != test.want {
			t.Errorf("%s: got euler characteristic %d, want %d", test.name, got, test.want)
		}
	}
	cube := meshtest.Cube()
	if len(cube.Edges()) != 18 {
		t.Errorf("cube: got %d edges, want 18", len(cube.Edges()))
	}
}

func TestMeasures(t *testing.T) {
	const tol = 1e-12
	cube := meshtest.Cube()
	if got := cube.Area(); math.Abs(got-6) > tol {
		t.Errorf("cube area: got %g, want 6", got)
	}
	if got := cube.Volume(); math.Abs(got-1) > tol {
		t.Errorf("cube volume: got %g, want 1 (outward winding)", got)
	}
	bb := cube.Bounds()
	if bb.Min != (r3.Vec{}) || bb.Max != (r3.Vec{X: 1, Y: 1, Z: 1}) {
		t.Errorf("cube bounds: got %+v", bb)
	}
	for i, tri := range cube.Triangles() {
		n := tri.Normal()
		centroid := r3.Scale(1./3, r3.Add(tri[0], r3.Add(tri[1], tri[2])))
		outward := r3.Sub(centroid, r3.Vec{X: .5, Y: .5, Z: .5})
		if r3.Dot(n, outward) <= 0 {
			t.Errorf("cube triangle %d normal %v points inwards", i, n)
		}
	}
}

func TestFlatFaces(t *testing.T) {
	faces := meshtest.Octahedron().Faces
	flat := manifold.FlatFaces(faces)
	if len(flat) != 4*len(faces) {
		t.Fatalf("got flat length %d, want %d", len(flat), 4*len(faces))
	}
	got, err := manifold.FacesFromFlat(flat)
	if err != nil {
		t.Fatal(err)
	}
	for i := range faces {
		if got[i] != faces[i] {
			t.Errorf("face %d: got %v, want %v", i, got[i], faces[i])
		}
	}

	_, err = manifold.FacesFromFlat([]int{3, 0, 1, 2, 4, 0, 1, 2, 3})
	if !errors.Is(err, manifold.ErrNotTriangulated) {
		t.Errorf("quad: got error %v, want %v", err, manifold.ErrNotTriangulated)
	}
	_, err = manifold.FacesFromFlat([]int{3, 0, 1})
	if err == nil {
		t.Error("expected error for truncated face list")
	}
}

func TestFromTriangles(t *testing.T) {
	src := meshtest.Icosphere(1)
	welded, err := manifold.FromTriangles(src.Triangles(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(welded.Vertices) != len(src.Vertices) {
		t.Errorf("got %d welded vertices, want %d", len(welded.Vertices), len(src.Vertices))
	}
	if len(welded.Faces) != len(src.Faces) {
		t.Errorf("got %d welded faces, want %d", len(welded.Faces), len(src.Faces))
	}
	if err := manifold.CheckManifold(welded); err != nil {
		t.Error(err)
	}

	// Perturbed copies of the corners must snap back together.
	tris := meshtest.Cube().Triangles()
	for i := range tris {
		for j := range tris[i] {
			tris[i][j] = r3.Add(tris[i][j], r3.Vec{X: 1e-9 * float64(j)})
		}
	}
	welded, err = manifold.FromTriangles(tris, 1e-4)
	if err != nil {
		t.Fatal(err)
	}
	if len(welded.Vertices) != 8 {
		t.Errorf("got %d welded cube vertices, want 8", len(welded.Vertices))
	}

	_, err = manifold.FromTriangles(tris, 10)
	if err == nil {
		t.Error("expected error for tolerance larger than the model")
	}
	_, err = manifold.FromTriangles(nil, 0)
	if !errors.Is(err, manifold.ErrEmptyMesh) {
		t.Errorf("got error %v, want %v", err, manifold.ErrEmptyMesh)
	}
}

func TestDeviation(t *testing.T) {
	sphere := meshtest.Icosphere(2)
	ds := manifold.Deviation(sphere, sphere)
	if ds.Max != 0 || ds.Mean != 0 {
		t.Errorf("self deviation must be zero, got %+v", ds)
	}
	shifted := sphere.Clone()
	for i := range shifted.Vertices {
		shifted.Vertices[i] = r3.Add(shifted.Vertices[i], r3.Vec{Z: 1e-3})
	}
	ds = manifold.VertexDeviation(sphere, shifted)
	if math.Abs(ds.Max-1e-3) > 1e-9 || math.Abs(ds.RMS-1e-3) > 1e-9 {
		t.Errorf("got %+v, want all distances 1e-3", ds)
	}
	if surf := manifold.Deviation(sphere, shifted); surf.Max > ds.Max+1e-12 || surf.Max <= 0 {
		t.Errorf("surface deviation %+v should be positive and at most the vertex deviation %+v", surf, ds)
	}

	// Points off the unit cube: one above the top face, one at the
	// center, one on the bottom face.
	cloud := manifold.Mesh{Vertices: []r3.Vec{
		{X: 0.5, Y: 0.5, Z: 2},
		{X: 0.5, Y: 0.5, Z: 0.5},
		{X: 0.3, Y: 0.2, Z: 0},
	}}
	ds = manifold.Deviation(cloud, meshtest.SubdividedCube(2))
	if math.Abs(ds.Max-1) > 1e-12 || math.Abs(ds.Mean-0.5) > 1e-12 {
		t.Errorf("got %+v, want max 1 and mean 0.5", ds)
	}
	// The vertex-only measure overestimates the distance of the corner-free
	// points.
	if vd := manifold.VertexDeviation(cloud, meshtest.Cube()); vd.Max <= 1 {
		t.Errorf("vertex deviation %+v should exceed the surface distance", vd)
	}
	if shifted.Vertices[0] == sphere.Vertices[0] {
		t.Error("Clone shares vertex storage")
	}
}

func TestClosestPoint(t *testing.T) {
	tri := manifold.Triangle{{}, {X: 1}, {Y: 1}}
	for _, test := range []struct {
		p, want r3.Vec
	}{
		{r3.Vec{X: 0.2, Y: 0.2, Z: 3}, r3.Vec{X: 0.2, Y: 0.2}}, // face
		{r3.Vec{X: -1, Y: -1, Z: 1}, r3.Vec{}},                   // vertex a
		{r3.Vec{X: 2, Y: -0.5}, r3.Vec{X: 1}},                    // vertex b
		{r3.Vec{X: -0.1, Y: 3}, r3.Vec{Y: 1}},                    // vertex c
		{r3.Vec{X: 0.5, Y: -2}, r3.Vec{X: 0.5}},                  // edge ab
		{r3.Vec{X: -2, Y: 0.25}, r3.Vec{Y: 0.25}},                // edge ac
		{r3.Vec{X: 1, Y: 1}, r3.Vec{X: 0.5, Y: 0.5}},             // edge bc
	} {
		got := tri.ClosestPoint(test.p)
		if r3.Norm(r3.Sub(got, test.want)) > 1e-12 {
			t.Errorf("ClosestPoint(%v): got %v, want %v", test.p, got, test.want)
		}
	}
	degenerate := manifold.Triangle{{}, {X: 1}, {X: 2}}
	if got := degenerate.ClosestPoint(r3.Vec{X: 1.8, Y: 1}); got != (r3.Vec{X: 2}) {
		t.Errorf("degenerate triangle: got %v, want nearest corner", got)
	}
}
