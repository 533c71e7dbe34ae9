package manifold

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// FromTriangles welds a triangle soup, such as the contents of an STL file,
// into an indexed mesh. Corners closer than tol snap to the same vertex.
// tol should be of the order of 1/1000th of the size of the smallest
// triangle in the model. If set to 0 then it is inferred automatically.
// Triangles that collapse to a repeated vertex after welding are dropped.
func FromTriangles(tris []Triangle, tolOrZero float64) (Mesh, error) {
	if len(tris) == 0 {
		return Mesh{}, ErrEmptyMesh
	}
	minDist2, maxDist2 := edgeRange2(tris)
	suggested := math.Sqrt(minDist2) / 256
	tol := tolOrZero
	if tol > math.Sqrt(maxDist2)/2 {
		return Mesh{}, fmt.Errorf("vertex tolerance is too large to weld mesh, suggested tolerance: %g", suggested)
	}
	if tol == 0 {
		tol = suggested
	}
	if tol <= 0 {
		return Mesh{}, errors.New("triangles have zero length edges, cannot infer weld tolerance")
	}
	ri := 1 / tol
	cache := make(map[[3]int64]int)
	m := Mesh{Faces: make([][3]int, 0, len(tris))}
	for _, tri := range tris {
		var f [3]int
		for j, vert := range tri {
			// Scale vert to be integer in resolution-space.
			v := r3.Scale(ri, vert)
			if math.Abs(v.X) > math.MaxInt64/2 || math.Abs(v.Y) > math.MaxInt64/2 || math.Abs(v.Z) > math.MaxInt64/2 {
				return Mesh{}, errors.New("tolerance too small. overflowed int64")
			}
			vi := [3]int64{int64(math.Round(v.X)), int64(math.Round(v.Y)), int64(math.Round(v.Z))}
			idx, ok := cache[vi]
			if !ok {
				idx = len(m.Vertices)
				cache[vi] = idx
				m.Vertices = append(m.Vertices, vert)
			}
			f[j] = idx
		}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue
		}
		m.Faces = append(m.Faces, f)
	}
	if len(m.Faces) == 0 {
		return Mesh{}, ErrEmptyMesh
	}
	return m, nil
}
