package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jamiedonnelly-px/manifold"
	"gonum.org/v1/gonum/spatial/r3"
)

// ReadOBJ reads the vertices and faces of a Wavefront OBJ stream. Only v and
// f records are interpreted; texture and normal references in faces are
// ignored. Faces with other than three corners are rejected with
// manifold.ErrNotTriangulated.
func ReadOBJ(r io.Reader) (manifold.Mesh, error) {
	var m manifold.Mesh
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return manifold.Mesh{}, fmt.Errorf("obj line %d: vertex needs 3 coordinates", line)
			}
			var c [3]float64
			for i := range c {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return manifold.Mesh{}, fmt.Errorf("obj line %d: %w", line, err)
				}
				c[i] = f
			}
			m.Vertices = append(m.Vertices, r3.Vec{X: c[0], Y: c[1], Z: c[2]})
		case "f":
			if len(fields) != 4 {
				return manifold.Mesh{}, fmt.Errorf("obj line %d: %d corners: %w", line, len(fields)-1, manifold.ErrNotTriangulated)
			}
			var f [3]int
			for i := range f {
				idx, err := objIndex(fields[i+1], len(m.Vertices))
				if err != nil {
					return manifold.Mesh{}, fmt.Errorf("obj line %d: %w", line, err)
				}
				f[i] = idx
			}
			m.Faces = append(m.Faces, f)
		}
	}
	if err := sc.Err(); err != nil {
		return manifold.Mesh{}, err
	}
	if len(m.Faces) == 0 {
		return manifold.Mesh{}, manifold.ErrEmptyMesh
	}
	return m, manifold.CheckIndices(m)
}

// objIndex converts a 1-based, possibly negative (relative) OBJ vertex
// reference such as "3", "3/1" or "-1//2" to a 0-based index.
func objIndex(ref string, nv int) (int, error) {
	if i := strings.IndexByte(ref, '/'); i >= 0 {
		ref = ref[:i]
	}
	idx, err := strconv.Atoi(ref)
	switch {
	case err != nil:
		return 0, err
	case idx == 0:
		return 0, errors.New("obj vertex indices start at 1")
	case idx < 0:
		return nv + idx, nil
	}
	return idx - 1, nil
}

// WriteOBJ writes m as a Wavefront OBJ with v and f records.
func WriteOBJ(w io.Writer, m manifold.Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %d vertices, %d faces\n", len(m.Vertices), len(m.Faces))
	var buf []byte
	for _, v := range m.Vertices {
		buf = append(buf[:0], 'v')
		for _, c := range [3]float64{v.X, v.Y, v.Z} {
			buf = append(buf, ' ')
			buf = strconv.AppendFloat(buf, c, 'g', -1, 64)
		}
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	for _, f := range m.Faces {
		fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	return bw.Flush()
}
