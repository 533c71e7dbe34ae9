package manifold

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyMesh       = errors.New("mesh has no faces")
	ErrIndexOutOfRange = errors.New("face index out of range")
	ErrDegenerateFace  = errors.New("face repeats a vertex")
	ErrDuplicateFace   = errors.New("duplicate face")
	ErrNotManifold     = errors.New("mesh is not a closed 2-manifold")
	ErrNotTriangulated = errors.New("face is not a triangle")
)

// CheckIndices verifies every face of m references three distinct
// vertices within range.
func CheckIndices(m Mesh) error {
	if len(m.Faces) == 0 {
		return ErrEmptyMesh
	}
	nv := len(m.Vertices)
	for i, f := range m.Faces {
		for _, v := range f {
			if v < 0 || v >= nv {
				return fmt.Errorf("face %d %v with %d vertices: %w", i, f, nv, ErrIndexOutOfRange)
			}
		}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			return fmt.Errorf("face %d %v: %w", i, f, ErrDegenerateFace)
		}
	}
	return nil
}

// CheckManifold verifies m is a closed 2-manifold: indices are sane,
// no face is listed twice and every edge borders exactly two faces.
// Vertex-disk connectivity is not verified.
func CheckManifold(m Mesh) error {
	if err := CheckIndices(m); err != nil {
		return err
	}
	faces := make(map[[3]int]int, len(m.Faces))
	edgeCount := make(map[[2]int]int, len(m.Faces)*3/2)
	for i, f := range m.Faces {
		key := sortedFace(f)
		if j, ok := faces[key]; ok {
			return fmt.Errorf("faces %d and %d %v: %w", j, i, f, ErrDuplicateFace)
		}
		faces[key] = i
		for k := 0; k < 3; k++ {
			edgeCount[EdgeKey(f[k], f[(k+1)%3])]++
		}
	}
	var boundary, nonManifold int
	var first [2]int
	for e, n := range edgeCount {
		switch {
		case n == 2:
			continue
		case n == 1:
			boundary++
		default:
			nonManifold++
		}
		if boundary+nonManifold == 1 || lessEdge(e, first) {
			first = e
		}
	}
	if boundary+nonManifold > 0 {
		return fmt.Errorf("%d boundary edges, %d edges shared by more than 2 faces (first %v): %w",
			boundary, nonManifold, first, ErrNotManifold)
	}
	return nil
}

func sortedFace(f [3]int) [3]int {
	if f[0] > f[1] {
		f[0], f[1] = f[1], f[0]
	}
	if f[1] > f[2] {
		f[1], f[2] = f[2], f[1]
	}
	if f[0] > f[1] {
		f[0], f[1] = f[1], f[0]
	}
	return f
}

func lessEdge(a, b [2]int) bool {
	return a[0] < b[0] || (a[0] == b[0] && a[1] < b[1])
}
