package simplify

import (
	"github.com/jamiedonnelly-px/manifold/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// normalEpsilon is added to face normal lengths before normalizing so
// zero-area faces contribute a zero quadric instead of NaNs.
const normalEpsilon = 1e-24

// Quadric is a symmetric 4x4 error quadric stored as its upper triangle:
//
//	a² ab ac ad
//	   b² bc bd
//	      c² cd
//	         d²
type Quadric [10]float64

// planeQuadric returns p pᵀ for the plane p = [n, d].
func planeQuadric(n r3.Vec, d float64) Quadric {
	a, b, c := n.X, n.Y, n.Z
	return Quadric{
		a * a, a * b, a * c, a * d,
		b * b, b * c, b * d,
		c * c, c * d,
		d * d,
	}
}

// Add returns the sum of the quadrics q and o.
func (q Quadric) Add(o Quadric) Quadric {
	for i := range q {
		q[i] += o[i]
	}
	return q
}

// Eval returns the homogeneous quadratic form vᵀQv with v = [x, y, z, 1].
func (q Quadric) Eval(v r3.Vec) float64 {
	x, y, z := v.X, v.Y, v.Z
	return q[0]*x*x + 2*q[1]*x*y + 2*q[2]*x*z + 2*q[3]*x +
		q[4]*y*y + 2*q[5]*y*z + 2*q[6]*y +
		q[7]*z*z + 2*q[8]*z +
		q[9]
}

// facePlane returns the unit normal of face f and its signed
// plane offset d = -n·centroid.
func facePlane(pos []r3.Vec, f [3]int) (n r3.Vec, d float64) {
	a, b, c := pos[f[0]], pos[f[1]], pos[f[2]]
	n = d3.Cross(a, b, c)
	n = r3.Scale(1/(r3.Norm(n)+normalEpsilon), n)
	d = -r3.Dot(n, d3.Centroid(a, b, c))
	return n, d
}

// vertexQuadrics sums the plane quadrics of the faces incident to every vertex.
func vertexQuadrics(pos []r3.Vec, faces [][3]int, vf [][]int) []Quadric {
	kp := make([]Quadric, len(faces))
	for i, f := range faces {
		kp[i] = planeQuadric(facePlane(pos, f))
	}
	q := make([]Quadric, len(pos))
	for v := range q {
		for _, fi := range vf[v] {
			q[v] = q[v].Add(kp[fi])
		}
	}
	return q
}
