package simplify

import (
	"github.com/jamiedonnelly-px/manifold"
	"golang.org/x/exp/slices"
)

// adjacency is the connectivity of the working mesh. v2v and vf are
// destructively updated by collapses; edges and ve describe the input
// and are never modified.
type adjacency struct {
	// edges in canonical form, indexed in order of first appearance.
	edges [][2]int
	// ve lists the edges incident to each vertex.
	ve [][]int
	// v2v holds the sorted neighbour vertices of each vertex.
	v2v [][]int
	// vf holds the sorted incident face indices of each vertex.
	vf [][]int
}

func buildAdjacency(nv int, faces [][3]int) adjacency {
	adj := adjacency{
		edges: make([][2]int, 0, len(faces)*3/2),
		ve:    make([][]int, nv),
		v2v:   make([][]int, nv),
		vf:    make([][]int, nv),
	}
	edge2key := make(map[[2]int]int, len(faces)*3/2)
	for fi, f := range faces {
		for i := 0; i < 3; i++ {
			edge := manifold.EdgeKey(f[i], f[(i+1)%3])
			if _, ok := edge2key[edge]; ok {
				continue
			}
			ei := len(adj.edges)
			edge2key[edge] = ei
			adj.edges = append(adj.edges, edge)
			adj.ve[edge[0]] = append(adj.ve[edge[0]], ei)
			adj.ve[edge[1]] = append(adj.ve[edge[1]], ei)
		}
		for _, v := range f {
			// Faces are visited in increasing order so vf stays sorted.
			adj.vf[v] = append(adj.vf[v], fi)
		}
	}
	for _, e := range adj.edges {
		adj.v2v[e[0]] = append(adj.v2v[e[0]], e[1])
		adj.v2v[e[1]] = append(adj.v2v[e[1]], e[0])
	}
	for v := range adj.v2v {
		slices.Sort(adj.v2v[v])
	}
	return adj
}

// valence returns the number of faces around the vertex that would result
// from merging a and b: the union of their incident faces minus the faces
// they share, which vanish. On a closed manifold this equals the vertex degree.
func (adj *adjacency) valence(a, b int) int {
	common := countCommon(adj.vf[a], adj.vf[b])
	return len(adj.vf[a]) + len(adj.vf[b]) - 2*common
}
