package simplify

import (
	"github.com/jamiedonnelly-px/manifold/internal/d3"
)

// link holds the two vertices opposite an edge and the two faces
// bordering it.
type link struct {
	verts [2]int
	faces [2]int
}

// canCollapse reports whether keep and remove share exactly two neighbours
// and exactly two incident faces. Edges on a boundary or with a
// non-manifold neighbourhood fail the check.
func (s *Simplifier) canCollapse(keep, remove int) (l link, ok bool) {
	s.scratch = intersect(s.scratch[:0], s.adj.v2v[keep], s.adj.v2v[remove])
	if len(s.scratch) != 2 {
		return l, false
	}
	l.verts = [2]int{s.scratch[0], s.scratch[1]}
	s.scratch = intersect(s.scratch[:0], s.adj.vf[keep], s.adj.vf[remove])
	if len(s.scratch) != 2 {
		return l, false
	}
	l.faces = [2]int{s.scratch[0], s.scratch[1]}
	return l, true
}

// collapse merges remove into keep. The caller must have checked the
// edge with canCollapse.
func (s *Simplifier) collapse(keep, remove int, l link) {
	adj := &s.adj
	// Neighbours: keep inherits remove's neighbours, which now point to keep.
	for _, u := range adj.v2v[remove] {
		if u == keep {
			continue
		}
		adj.v2v[u] = insertSorted(removeSorted(adj.v2v[u], remove), keep)
	}
	adj.v2v[keep] = without(union(adj.v2v[keep], adj.v2v[remove]), keep, remove)
	adj.v2v[remove] = nil

	// Incident faces: the two faces bordering the edge vanish.
	adj.vf[keep] = without(union(adj.vf[keep], adj.vf[remove]), l.faces[0], l.faces[1])
	adj.vf[remove] = nil
	for _, w := range l.verts {
		adj.vf[w] = without(adj.vf[w], l.faces[0], l.faces[1])
	}
	for _, fi := range l.faces {
		s.aliveF[fi] = false
	}
	s.nfaces -= 2

	s.aliveV[remove] = false
	s.nverts--
	for _, orig := range s.merged[remove] {
		s.owner[orig] = keep
	}
	s.merged[keep] = append(s.merged[keep], s.merged[remove]...)
	s.merged[remove] = nil

	s.pos[keep] = d3.Midpoint(s.pos[keep], s.pos[remove])
	if s.cfg.AccumulateQuadrics {
		s.quadrics[keep] = s.quadrics[keep].Add(s.quadrics[remove])
	}
	// Every entry involving keep pushed so far is superseded by the ones below.
	// They are scored in the configured cost mode, so in optimal mode the
	// re-pushed costs are evaluated at the quadric minimizer, not the midpoint.
	s.version[keep]++
	for _, u := range adj.v2v[keep] {
		s.sched.push(s.candidate(keep, u))
	}
}

func (s *Simplifier) candidate(keep, remove int) candidate {
	return candidate{
		cost:      s.cost(keep, remove),
		keep:      keep,
		remove:    remove,
		keepVer:   s.version[keep],
		removeVer: s.version[remove],
	}
}

// stale reports whether c refers to a dead vertex or was superseded by a
// later evaluation of one of its vertices.
func (s *Simplifier) stale(c candidate) bool {
	return !s.aliveV[c.keep] || !s.aliveV[c.remove] ||
		s.version[c.keep] != c.keepVer || s.version[c.remove] != c.removeVer
}
