package simplify

import (
	"github.com/jamiedonnelly-px/manifold"
	"gonum.org/v1/gonum/spatial/r3"
)

// rebuild compacts the surviving vertices and faces into a new mesh.
// Face corners are resolved through the merge map to their surviving
// vertex and then renumbered.
func (s *Simplifier) rebuild() manifold.Mesh {
	out := manifold.Mesh{
		Vertices: make([]r3.Vec, 0, s.nverts),
		Faces:    make([][3]int, 0, s.nfaces),
	}
	compact := make([]int, len(s.pos))
	for v, alive := range s.aliveV {
		if !alive {
			compact[v] = -1
			continue
		}
		compact[v] = len(out.Vertices)
		out.Vertices = append(out.Vertices, s.pos[v])
	}
	for fi, alive := range s.aliveF {
		if !alive {
			continue
		}
		corners := s.corners(fi)
		var f [3]int
		for j, v := range corners {
			f[j] = compact[v]
			if f[j] < 0 {
				panic("bug: alive face references dead vertex")
			}
		}
		out.Faces = append(out.Faces, f)
	}
	return out
}

// corners returns the surviving vertices of face fi.
func (s *Simplifier) corners(fi int) [3]int {
	f := s.faces[fi]
	return [3]int{s.owner[f[0]], s.owner[f[1]], s.owner[f[2]]}
}
