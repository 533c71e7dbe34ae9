package simplify

import (
	"math"

	"github.com/jamiedonnelly-px/manifold/internal/d3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// lowValencePenalty multiplies the valence penalty of collapses
// that would leave a vertex with three incident faces.
const lowValencePenalty = 100000

// solver finds the position minimizing a quadric. The 4x4 system
// and its inverse are reused between calls.
type solver struct {
	buf [16]float64
	sys *mat.Dense
	inv mat.Dense
}

func newSolver() *solver {
	s := &solver{}
	s.sys = mat.NewDense(4, 4, s.buf[:])
	return s
}

// optimal returns the minimizer of q: the bottom row of q is replaced by
// [0, 0, 0, 1] and the system inverted, giving the last column of the
// inverse as the solution. ok is false if the system is singular or
// too ill-conditioned to trust.
func (s *solver) optimal(q Quadric) (v r3.Vec, ok bool) {
	s.buf = [16]float64{
		q[0], q[1], q[2], q[3],
		q[1], q[4], q[5], q[6],
		q[2], q[5], q[7], q[8],
		0, 0, 0, 1,
	}
	if err := s.inv.Inverse(s.sys); err != nil {
		return r3.Vec{}, false
	}
	v = r3.Vec{X: s.inv.At(0, 3), Y: s.inv.At(1, 3), Z: s.inv.At(2, 3)}
	return v, d3.IsFinite(v)
}

// valencePenalty scales a collapse cost by how far the resulting
// valence strays from the optimal valence.
func valencePenalty(valence, optimal int, weight float64) float64 {
	penalty := float64(d3.Abs(valence-optimal))*weight + 1
	if valence == 3 {
		penalty *= lowValencePenalty
	}
	return penalty
}

// cost evaluates collapsing remove into keep against the current topology.
// The candidate position is not stored; collapses always move keep to the
// midpoint.
func (s *Simplifier) cost(keep, remove int) float64 {
	q := s.quadrics[keep].Add(s.quadrics[remove])
	target := d3.Midpoint(s.pos[keep], s.pos[remove])
	if !s.cfg.Midpoint {
		v, ok := s.solver.optimal(q)
		if ok {
			target = v
		} else {
			s.stats.SingularSolves++
			s.logf("optimal position of edge (%d, %d) is singular, using midpoint", keep, remove)
		}
	}
	cost := q.Eval(target)
	if s.cfg.ValenceAware {
		cost *= valencePenalty(s.adj.valence(keep, remove), s.cfg.OptimalValence, s.cfg.ValenceWeight)
	}
	if math.IsNaN(cost) {
		return math.Inf(1)
	}
	return cost
}
