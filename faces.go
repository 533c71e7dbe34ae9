package manifold

import "fmt"

// FlatFaces encodes triangle faces in the count-prefixed form used by
// VTK-style polydata: [3, a, b, c, 3, d, e, f, ...].
func FlatFaces(faces [][3]int) []int {
	flat := make([]int, 0, 4*len(faces))
	for _, f := range faces {
		flat = append(flat, 3, f[0], f[1], f[2])
	}
	return flat
}

// FacesFromFlat decodes a count-prefixed face list. Polygons with a
// corner count other than 3 are rejected with ErrNotTriangulated.
func FacesFromFlat(flat []int) ([][3]int, error) {
	faces := make([][3]int, 0, len(flat)/4)
	for i := 0; i < len(flat); {
		n := flat[i]
		if n != 3 {
			return nil, fmt.Errorf("face %d at offset %d has %d corners: %w", len(faces), i, n, ErrNotTriangulated)
		}
		if i+4 > len(flat) {
			return nil, fmt.Errorf("face %d at offset %d truncated", len(faces), i)
		}
		faces = append(faces, [3]int{flat[i+1], flat[i+2], flat[i+3]})
		i += 4
	}
	return faces, nil
}
